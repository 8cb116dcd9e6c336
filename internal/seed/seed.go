// Package seed загружает реестр студентов из CSV (name,school,group).
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/Freeeeeet/headsup_bot/internal/validation"
	"go.uber.org/zap"
)

// Row строка реестра
type Row struct {
	Name   string `json:"name" validate:"required,notblank,max=200"`
	School string `json:"school" validate:"required,notblank"`
	Group  string `json:"group" validate:"required,groupcode"`
}

// RowError ошибка в конкретной строке файла
type RowError struct {
	Line int
	Err  string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// StudentUpserter сохраняет студента по (name, group)
type StudentUpserter interface {
	Upsert(ctx context.Context, student *model.Student) error
}

// Parse читает CSV. Строка заголовка пропускается, если первая ячейка "name".
// Некорректные строки возвращаются в errs, остальные в rows.
func Parse(r io.Reader) (rows []Row, errs []RowError, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	v := validation.New()
	line := 0
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++

		var parseErr *csv.ParseError
		if errors.As(readErr, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
			errs = append(errs, RowError{Line: line, Err: "expected name,school,group"})
			continue
		}
		if readErr != nil {
			return nil, nil, fmt.Errorf("read csv: %w", readErr)
		}

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}

		row := Row{
			Name:   strings.Join(strings.Fields(record[0]), " "),
			School: strings.TrimSpace(record[1]),
			Group:  strings.ToUpper(strings.TrimSpace(record[2])),
		}
		if err := v.Struct(row); err != nil {
			errs = append(errs, RowError{Line: line, Err: validation.Describe(err)})
			continue
		}
		rows = append(rows, row)
	}

	return rows, errs, nil
}

// Load сохраняет строки, повторный запуск не создаёт дублей
func Load(ctx context.Context, store StudentUpserter, rows []Row, logger *zap.Logger) (int, error) {
	loaded := 0
	for _, row := range rows {
		student := &model.Student{Name: row.Name, School: row.School, Group: row.Group}
		if err := store.Upsert(ctx, student); err != nil {
			return loaded, fmt.Errorf("upsert %q (%s): %w", row.Name, row.Group, err)
		}
		loaded++
		logger.Debug("Student seeded",
			zap.Int64("student_id", student.ID),
			zap.String("name", student.Name),
			zap.String("group", student.Group),
		)
	}
	return loaded, nil
}
