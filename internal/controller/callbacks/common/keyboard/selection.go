package keyboard

import "github.com/Freeeeeet/headsup_bot/internal/controller/state"

// Callback data клавиатур выбора
const (
	SelectToggle  = "sel_toggle:" // sel_toggle:<option id>
	SelectConfirm = "sel_confirm"
	SelectCancel  = "sel_cancel"
)

const selectedMark = "✅ "

// Selection клавиатура с отметками: по одному пункту в ряд, внизу Confirm и Cancel
func Selection(p *state.Pending) *Builder {
	b := NewBuilder()
	for _, o := range p.Options {
		label := o.Label
		if p.IsSelected(o.ID) {
			label = selectedMark + label
		}
		b.Row(Button(label, SelectToggle+o.ID))
	}
	return b.Row(
		Button("Confirm", SelectConfirm),
		Button("Cancel", SelectCancel),
	)
}
