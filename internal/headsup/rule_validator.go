package headsup

import (
	"context"
	"strings"
)

// Requirement обязательная фраза и подсказка, если её нет
type Requirement struct {
	Phrase      string
	Expectation string
}

// DefaultRequirements формат heads-up, принятый в классе
var DefaultRequirements = []Requirement{
	{Phrase: "hey team", Expectation: `Start with "Hey team"`},
	{Phrase: "this is", Expectation: `Include "this is" followed by your full name`},
	{Phrase: "from g", Expectation: "Include your group number (e.g., G61)"},
	{Phrase: "because", Expectation: "Provide a clear reason for absence or delay"},
}

const (
	ruleFeedbackHeader = "⚠️ Heads-Up Format Issue:"
	ruleFeedbackFooter = "Please edit your heads up."
)

// RuleValidator проверяет наличие обязательных фраз без учёта регистра
type RuleValidator struct {
	requirements []Requirement
}

func NewRuleValidator(requirements ...Requirement) *RuleValidator {
	if len(requirements) == 0 {
		requirements = DefaultRequirements
	}
	return &RuleValidator{requirements: requirements}
}

func (v *RuleValidator) Name() string {
	return StrategyRules
}

// Check реализует Strategy, ошибки не бывает
func (v *RuleValidator) Check(_ context.Context, message string) (Result, error) {
	return v.Validate(message), nil
}

// Validate возвращает по одной строке "- ..." на каждую отсутствующую фразу
func (v *RuleValidator) Validate(message string) Result {
	lower := strings.ToLower(message)

	var missing []string
	for _, req := range v.requirements {
		if !strings.Contains(lower, req.Phrase) {
			missing = append(missing, "- "+req.Expectation)
		}
	}

	if len(missing) == 0 {
		return Result{Valid: true, Strategy: StrategyRules}
	}

	var sb strings.Builder
	sb.WriteString(ruleFeedbackHeader)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(missing, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(ruleFeedbackFooter)

	return Result{Valid: false, Feedback: sb.String(), Strategy: StrategyRules}
}
