package headsup

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/llm"
)

const validMarker = "valid"

// maxFeedbackLines ограничение на длину замечаний модели
const maxFeedbackLines = 3

const validationPrompt = `You review "heads-up" messages that students post when they will be absent or late.
A message is acceptable only if it contains ALL of the following:
1. The student's full name (first and last name).
2. The student's group code: the letter G followed by two digits. Known groups: %s.
3. A plausible, specific reason for the absence or delay. "I am sick" alone is too vague, "I have a fever and a doctor's appointment at 10" is fine.
Ignore minor spelling, grammar and punctuation mistakes.

If the message meets every requirement, reply with exactly one word: Valid
Otherwise reply with at most 3 short lines telling the student what is missing or wrong. Mention only the missing or invalid parts. No greetings, no explanations.

Message:
"""
%s
"""`

// LLMValidator проверяет сообщение языковой моделью
type LLMValidator struct {
	completer llm.Completer
	groups    []string
}

// NewLLMValidator groups список допустимых кодов групп для подсказки модели
func NewLLMValidator(completer llm.Completer, groups []string) *LLMValidator {
	return &LLMValidator{completer: completer, groups: groups}
}

func (v *LLMValidator) Name() string {
	return StrategyLLM
}

func (v *LLMValidator) Check(ctx context.Context, message string) (Result, error) {
	if strings.TrimSpace(message) == "" {
		return Result{
			Valid:    false,
			Feedback: "Your heads up is empty. Include your full name, your group (e.g., G61) and the reason.",
			Strategy: StrategyLLM,
		}, nil
	}

	reply, err := v.completer.Complete(ctx, v.prompt(message))
	if err != nil {
		return Result{}, fmt.Errorf("llm validation: %w", err)
	}

	if isValidMarker(reply) {
		return Result{Valid: true, Strategy: StrategyLLM}, nil
	}

	feedback := trimFeedback(reply)
	if feedback == "" {
		return Result{}, fmt.Errorf("llm validation: %w", llm.ErrEmptyResponse)
	}
	return Result{Valid: false, Feedback: feedback, Strategy: StrategyLLM}, nil
}

func (v *LLMValidator) prompt(message string) string {
	groups := "G61-G69"
	if len(v.groups) > 0 {
		groups = strings.Join(v.groups, ", ")
	}
	return fmt.Sprintf(validationPrompt, groups, message)
}

func isValidMarker(reply string) bool {
	return strings.EqualFold(strings.Trim(reply, " \t\r\n.!\"'`*"), validMarker)
}

// trimFeedback оставляет первые непустые строки ответа
func trimFeedback(reply string) string {
	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxFeedbackLines {
			break
		}
	}
	return strings.Join(lines, "\n")
}
