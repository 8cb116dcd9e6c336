// Package llm вызывает chat-completion API (OpenAI или Gemini через OpenAI-совместимый endpoint).
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Completer отправляет prompt модели и возвращает текст ответа.
// Любая ошибка означает, что модель недоступна.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.0-flash"
	defaultTimeout     = 20 * time.Second
)

var ErrEmptyResponse = errors.New("llm returned empty response")

type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// Client реализация Completer поверх go-openai
type Client struct {
	api      *openai.Client
	provider Provider
	model    string
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewClient создаёт клиента для выбранного провайдера
func NewClient(cfg Config, m *metrics.Metrics, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	model := cfg.Model

	switch cfg.Provider {
	case ProviderGemini:
		apiCfg.BaseURL = geminiBaseURL
		if model == "" {
			model = defaultGeminiModel
		}
	case ProviderOpenAI, "":
		cfg.Provider = ProviderOpenAI
		if model == "" {
			model = defaultOpenAIModel
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		api:      openai.NewClientWithConfig(apiCfg),
		provider: cfg.Provider,
		model:    model,
		timeout:  timeout,
		metrics:  m,
		logger:   logger,
	}, nil
}

// Complete отправляет один user-message и возвращает текст первого варианта
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.complete(ctx, prompt)
	c.metrics.ObserveLLMRequest(string(c.provider), err, time.Since(start))

	if err != nil {
		c.logger.Warn("LLM request failed",
			zap.String("provider", string(c.provider)),
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
