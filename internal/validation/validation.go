// Package validation настраивает go-playground/validator для моделей бота.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	NotBlankTag  = "notblank"
	GroupCodeTag = "groupcode"
)

var groupCodePattern = regexp.MustCompile(`^G\d{2}$`)

// New создаёт validator с именами полей из json-тегов и собственными тегами
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation(NotBlankTag, notBlank)
	_ = v.RegisterValidation(GroupCodeTag, groupCode)

	return v
}

// IsGroupCode проверяет формат кода группы: G и две цифры
func IsGroupCode(s string) bool {
	return groupCodePattern.MatchString(s)
}

// Describe превращает ошибку валидации в короткий список "поле: правило"
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func groupCode(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && IsGroupCode(s)
}
