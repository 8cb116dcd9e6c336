package keyboard

import (
	"strconv"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// Callback data регистрации
const (
	RegSchool  = "reg_school:" // reg_school:AIT
	RegGroup   = "reg_group:"  // reg_group:G61
	RegName    = "reg_name:"   // reg_name:<student id>
	RegConfirm = "reg_confirm"
	RegCancel  = "reg_cancel"
)

// Schools выбор школы
func Schools(schools []model.School) *Builder {
	buttons := make([]models.InlineKeyboardButton, 0, len(schools))
	for _, s := range schools {
		buttons = append(buttons, Button(s.Name, RegSchool+s.Name))
	}
	return NewBuilder().Columns(2, buttons...).Row(Button("Cancel", RegCancel))
}

// Groups выбор группы внутри школы
func Groups(groups []string) *Builder {
	buttons := make([]models.InlineKeyboardButton, 0, len(groups))
	for _, g := range groups {
		buttons = append(buttons, Button(g, RegGroup+g))
	}
	return NewBuilder().Columns(3, buttons...).Row(Button("Cancel", RegCancel))
}

// Candidates выбор своего имени среди незарегистрированных
func Candidates(students []*model.Student) *Builder {
	b := NewBuilder()
	for _, s := range students {
		b.Row(Button(s.Name, RegName+strconv.FormatInt(s.ID, 10)))
	}
	return b.Row(Button("Cancel", RegCancel))
}

// ConfirmRegistration подтверждение выбора
func ConfirmRegistration() *Builder {
	return NewBuilder().Row(
		Button("Confirm", RegConfirm),
		Button("Cancel", RegCancel),
	)
}
