// Package headsup проверяет heads-up сообщения студентов, извлекает из них
// имя и группу и сверяет их с реестром.
package headsup

import (
	"context"

	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	"go.uber.org/zap"
)

const (
	StrategyLLM   = "llm"
	StrategyRules = "rules"
)

// Result итог проверки сообщения. Feedback пуст, если сообщение корректно.
type Result struct {
	Valid    bool
	Feedback string
	Strategy string
}

// Strategy один из способов проверки. Ошибка означает, что стратегия
// не смогла вынести решение и нужно переключиться на запасную.
type Strategy interface {
	Name() string
	Check(ctx context.Context, message string) (Result, error)
}

// Validator проверяет сообщение основной стратегией и при её отказе
// переключается на правила. Никогда не возвращает ошибку.
type Validator struct {
	primary Strategy
	rules   *RuleValidator
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewValidator создаёт валидатор. primary может быть nil, тогда работают только правила.
func NewValidator(primary Strategy, rules *RuleValidator, m *metrics.Metrics, logger *zap.Logger) *Validator {
	if rules == nil {
		rules = NewRuleValidator()
	}
	return &Validator{
		primary: primary,
		rules:   rules,
		metrics: m,
		logger:  logger,
	}
}

func (v *Validator) Validate(ctx context.Context, message string) Result {
	if v.primary != nil {
		result, err := v.primary.Check(ctx, message)
		if err == nil {
			v.metrics.ObserveValidation(result.Strategy, result.Valid)
			return result
		}

		v.metrics.IncValidatorFallback()
		v.logger.Warn("Primary validator unavailable, falling back to rules",
			zap.String("strategy", v.primary.Name()),
			zap.Error(err),
		)
	}

	result := v.rules.Validate(message)
	v.metrics.ObserveValidation(result.Strategy, result.Valid)
	return result
}
