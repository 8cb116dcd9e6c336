package model

// School школа и её группы в порядке отображения
type School struct {
	Name   string   `json:"name" mapstructure:"name"`
	Groups []string `json:"groups" mapstructure:"groups"`
}

// HasGroup проверяет, относится ли группа к школе
func (s School) HasGroup(group string) bool {
	for _, g := range s.Groups {
		if g == group {
			return true
		}
	}
	return false
}
