package headsup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Freeeeeet/headsup_bot/internal/llm"
	"github.com/Freeeeeet/headsup_bot/internal/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var errNoJSONObject = errors.New("no json object in response")

const extractionPrompt = `Extract structured student data from the heads-up message below.
Return ONLY a JSON object with exactly these keys:
  "studentName": the student's full name as written in the message
  "group": the group code, the letter G followed by two digits (e.g. "G61")
If a value cannot be found, use null for that key.
Example: {"studentName": "John Doe", "group": "G61"}

Message:
"""
%s
"""`

// ExtractedData имя и группа из сообщения. Пустые поля означают, что извлечь не удалось.
type ExtractedData struct {
	StudentName string `json:"studentName" validate:"required,notblank"`
	Group       string `json:"group" validate:"required,notblank"`
}

// OK сообщает, что оба поля извлечены
func (d ExtractedData) OK() bool {
	return d.StudentName != "" && d.Group != ""
}

// Extractor достаёт имя и группу из сообщения с помощью модели
type Extractor struct {
	completer llm.Completer
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewExtractor(completer llm.Completer, logger *zap.Logger) *Extractor {
	return &Extractor{
		completer: completer,
		validate:  validation.New(),
		logger:    logger,
	}
}

// Extract никогда не возвращает ошибку: при любом сбое поля пустые
func (e *Extractor) Extract(ctx context.Context, message string) ExtractedData {
	if e.completer == nil || strings.TrimSpace(message) == "" {
		return ExtractedData{}
	}

	reply, err := e.completer.Complete(ctx, fmt.Sprintf(extractionPrompt, message))
	if err != nil {
		e.logger.Warn("Student data extraction unavailable", zap.Error(err))
		return ExtractedData{}
	}

	data, err := ParseExtraction(reply)
	if err != nil {
		e.logger.Warn("Failed to parse extraction response",
			zap.String("response", reply),
			zap.Error(err),
		)
		return ExtractedData{}
	}

	if err := e.validate.Struct(data); err != nil {
		e.logger.Info("Extracted data is incomplete",
			zap.String("student_name", data.StudentName),
			zap.String("group", data.Group),
			zap.String("reason", validation.Describe(err)),
		)
		return ExtractedData{}
	}

	return data
}

// ParseExtraction разбирает ответ модели: убирает ``` обёртку,
// берёт подстроку от первой { до последней } и декодирует JSON
func ParseExtraction(reply string) (ExtractedData, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Язык после открывающих кавычек: ```json
		if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.Contains(text[:nl], "{") {
			text = text[nl+1:]
		}
	}
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return ExtractedData{}, errNoJSONObject
	}

	var raw struct {
		StudentName *string `json:"studentName"`
		Group       *string `json:"group"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return ExtractedData{}, fmt.Errorf("decode extraction json: %w", err)
	}

	var data ExtractedData
	if raw.StudentName != nil {
		data.StudentName = strings.Join(strings.Fields(*raw.StudentName), " ")
	}
	if raw.Group != nil {
		data.Group = normalizeGroup(*raw.Group)
	}
	return data, nil
}

// normalizeGroup верхний регистр без окружающих пробелов и знаков препинания.
// Соответствие реестру проверяет Reconciler.
func normalizeGroup(group string) string {
	trimmed := strings.TrimFunc(group, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.ToUpper(trimmed)
}
