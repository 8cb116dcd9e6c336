// Package fuzzy сравнивает имена и коды групп с допуском на опечатки и порядок слов.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold минимальный score, при котором строки считаются совпадающими
const DefaultThreshold = 85

// Matcher сравнивает строки по token-set ratio
type Matcher struct {
	threshold int
}

// NewMatcher создаёт matcher с заданным порогом (0-100)
func NewMatcher(threshold int) *Matcher {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Matches сообщает, обозначают ли две строки одно и то же
func (m *Matcher) Matches(a, b string) bool {
	return TokenSetRatio(a, b) >= m.threshold
}

// Threshold возвращает порог совпадения
func (m *Matcher) Threshold() int {
	return m.threshold
}

// Normalize приводит строку к нижнему регистру, убирает диакритику
// и заменяет всё, кроме букв и цифр, пробелами
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, folded)

	return strings.Join(strings.Fields(mapped), " ")
}

// TokenSetRatio считает похожесть двух строк без учёта порядка слов (0-100).
// Общие токены сравниваются с каждым из остатков, лучший результат побеждает.
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(Normalize(a))
	tokensB := tokenSet(Normalize(b))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var intersection, diffAB, diffBA []string
	for t := range tokensA {
		if tokensB[t] {
			intersection = append(intersection, t)
		} else {
			diffAB = append(diffAB, t)
		}
	}
	for t := range tokensB {
		if !tokensA[t] {
			diffBA = append(diffBA, t)
		}
	}
	sort.Strings(intersection)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	sect := strings.Join(intersection, " ")
	combinedAB := strings.TrimSpace(sect + " " + strings.Join(diffAB, " "))
	combinedBA := strings.TrimSpace(sect + " " + strings.Join(diffBA, " "))

	best := ratio(combinedAB, combinedBA)
	if sect != "" {
		best = max(best, ratio(sect, combinedAB), ratio(sect, combinedBA))
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

// ratio посимвольное сходство SequenceMatcher, округлённое до целого
func ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return int(math.Round(m.Ratio() * 100))
}
