package service

import (
	"regexp"
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	problemsBaseURL = "https://leetcode.com/problems/"
	fallbackTitle   = "Codeforce"
)

var (
	problemSlugPattern = regexp.MustCompile(`problems/([^/?#]+)`)
	slugUnsafe         = regexp.MustCompile(`[^a-z0-9-]`)
	difficulties       = map[string]string{"easy": "Easy", "medium": "Medium", "hard": "Hard"}
)

// ParseQuestions разбирает список задач, разделённых запятыми или переводами строк.
// Элемент это ссылка или название, с необязательным суффиксом "|Difficulty".
func ParseQuestions(input string) []model.Question {
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == '\n' })

	questions := make([]model.Question, 0, len(fields))
	for _, field := range fields {
		entry, difficulty, _ := strings.Cut(field, "|")
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		q := model.Question{Difficulty: difficulties[strings.ToLower(strings.TrimSpace(difficulty))]}
		if strings.Contains(entry, "://") {
			q.Link = entry
			q.Title = TitleFromLink(entry)
		} else {
			q.Title = entry
			q.Link = LinkFromTitle(entry)
		}
		questions = append(questions, q)
	}
	return questions
}

// TitleFromLink "…/problems/two-sum/description" -> "Two Sum"
func TitleFromLink(link string) string {
	m := problemSlugPattern.FindStringSubmatch(link)
	if m == nil || m[1] == "" {
		return fallbackTitle
	}
	return cases.Title(language.English).String(strings.ReplaceAll(m[1], "-", " "))
}

// LinkFromTitle "Two Sum" -> "https://leetcode.com/problems/two-sum/"
func LinkFromTitle(title string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(title)), "-")
	slug = slugUnsafe.ReplaceAllString(slug, "")
	return problemsBaseURL + slug + "/"
}
