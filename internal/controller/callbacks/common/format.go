package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MoonWalkInstruction задание для пар moon walk
const MoonWalkInstruction = "Step outside with your partner and engage in a 15 minute English conversation. " +
	"Focus on enhancing your communication and speaking skills. " +
	"Make the most of this opportunity to learn, share, and grow. Enjoy the session!"

const (
	pairSeparator = " 🧑‍💻 "
	leaderMark    = "⭐ "
)

var nameCaser = cases.Title(language.Und, cases.NoLower)

// DisplayName первые два слова имени с заглавной буквы
func DisplayName(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	return nameCaser.String(strings.Join(words, " "))
}

// SessionTitle заголовок сессии по типу
func SessionTitle(t model.SessionType) string {
	switch t {
	case model.SessionTypeMoonWalk:
		return "Moon Walk Session"
	case model.SessionTypePairProgramming:
		return "Pair Programming Session"
	case model.SessionTypeGrouping:
		return "Grouping"
	case model.SessionTypeTriadContest:
		return "Triad Contest"
	default:
		return string(t)
	}
}

// FormatSession HTML-сообщение с результатом активности
func FormatSession(s *model.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n", SessionTitle(s.Type))
	fmt.Fprintf(&sb, "<b>Group:</b> %s\n\n", html.EscapeString(s.Group))

	switch s.Type {
	case model.SessionTypeMoonWalk, model.SessionTypePairProgramming:
		sb.WriteString("<b>Student Pairings:</b>\n")
		for _, pair := range s.Pairs {
			sb.WriteString(FormatPair(pair))
			sb.WriteString("\n")
		}
	default:
		for i, bucket := range s.Pairs {
			fmt.Fprintf(&sb, "<b>Group %d:</b>\n", i+1)
			for j, member := range bucket {
				if j == 0 {
					sb.WriteString(leaderMark)
				}
				sb.WriteString(html.EscapeString(DisplayName(member.Name)))
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}

	switch s.Type {
	case model.SessionTypeMoonWalk:
		sb.WriteString("\n<b>Team:</b>\n")
		sb.WriteString(MoonWalkInstruction)
	case model.SessionTypePairProgramming:
		sb.WriteString("\n<b>Questions:</b>\n")
		for _, q := range s.Questions {
			fmt.Fprintf(&sb, "- <a href=\"%s\">%s</a>", html.EscapeString(q.Link), html.EscapeString(q.Title))
			if q.Difficulty != "" {
				fmt.Fprintf(&sb, " (%s)", html.EscapeString(q.Difficulty))
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatPair "A 🧑‍💻 B" или "A (unpaired)"
func FormatPair(pair []model.SessionMember) string {
	switch len(pair) {
	case 0:
		return ""
	case 1:
		return html.EscapeString(DisplayName(pair[0].Name)) + " (unpaired)"
	default:
		names := make([]string, len(pair))
		for i, m := range pair {
			names[i] = html.EscapeString(DisplayName(m.Name))
		}
		return strings.Join(names, pairSeparator)
	}
}

// FormatExcusedReport сводка heads-up группы за день
func FormatExcusedReport(r *service.ExcusedReport, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Heads-Up submissions for %s on %s:</b>\n\n",
		html.EscapeString(r.Group), r.Day.In(loc).Format("02 Jan 2006"))

	if len(r.Excused) > 0 {
		sb.WriteString("<b>Excused:</b>\n")
		writeSubmissionLines(&sb, "🟢", r.Excused, loc)
		sb.WriteString("\n")
	}
	if len(r.Unexcused) > 0 {
		sb.WriteString("<b>Unexcused:</b>\n")
		writeSubmissionLines(&sb, "🔴", r.Unexcused, loc)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Total: %d", r.Total())
	return sb.String()
}

func writeSubmissionLines(sb *strings.Builder, mark string, subs []*model.HeadsUpSubmission, loc *time.Location) {
	for _, sub := range subs {
		msg := sub.Message
		if strings.TrimSpace(msg) == "" {
			msg = "No reason provided"
		}
		fmt.Fprintf(sb, "%s [%s] %s: %s\n",
			mark,
			sub.SubmittedAt.In(loc).Format("15:04"),
			html.EscapeString(sub.StudentName),
			html.EscapeString(msg),
		)
	}
}

// FormatHistory все heads-up выбранных студентов
func FormatHistory(history []service.StudentHistory, loc *time.Location) string {
	var sb strings.Builder
	for _, h := range history {
		fmt.Fprintf(&sb, "<b>Attendance details for %s</b>\n\n", html.EscapeString(h.Student.Name))
		if len(h.Submissions) == 0 {
			sb.WriteString("No Heads-Up submissions found.\n\n")
			continue
		}
		for _, sub := range h.Submissions {
			fmt.Fprintf(&sb, "<b>Date:</b> %s\n<b>Message:</b> %s\n<b>Excused:</b> %s\n\n",
				sub.SubmittedAt.In(loc).Format("02 Jan 2006 15:04"),
				html.EscapeString(sub.Message),
				yesNo(sub.IsExcused),
			)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatAbsentees список отмеченных отсутствующими
func FormatAbsentees(group string, marks []*model.HeadsUpSubmission) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Absentees for %s</b>\n\n", html.EscapeString(group))
	for _, m := range marks {
		fmt.Fprintf(&sb, "🔴 %s\n", html.EscapeString(m.StudentName))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatAttendees список подтверждённых присутствующих
func FormatAttendees(group string, names []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Now Present in %s:</b>\n\n", html.EscapeString(group))
	for _, n := range names {
		fmt.Fprintf(&sb, "✅ %s\n", html.EscapeString(n))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatUnmatchedLeaders имена лидеров, которых не нашли среди присутствующих
func FormatUnmatchedLeaders(names []string) string {
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = html.EscapeString(n)
	}
	return "⚠️ Not found among active students: " + strings.Join(escaped, ", ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
