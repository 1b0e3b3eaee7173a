package theme_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/theme"
)

func TestFor_PicksPaletteSide(t *testing.T) {
	tests := []struct {
		theme     model.Theme
		wantTheme model.Theme
		wantRed   lipgloss.Color
	}{
		{model.ThemeDark, model.ThemeDark, "#FF6B6B"},
		{model.ThemeLight, model.ThemeLight, "#C53030"},
		{"", model.ThemeLight, "#C53030"},
		{"solarized", model.ThemeLight, "#C53030"},
	}
	for _, tt := range tests {
		t.Run(string(tt.theme), func(t *testing.T) {
			s := theme.For(tt.theme)
			assert.Equal(t, tt.wantTheme, s.Theme)
			assert.Equal(t, tt.wantRed, s.Error.GetForeground())
			assert.Equal(t, tt.wantRed, s.Overdue.GetForeground())
		})
	}
}

func TestPriority(t *testing.T) {
	s := theme.For(model.ThemeDark)

	assert.Equal(t, lipgloss.Color("#FFA94D"), s.Priority(model.PriorityHigh).GetForeground())
	assert.Equal(t, lipgloss.Color("#5B9BD5"), s.Priority(model.PriorityLow).GetForeground())
	assert.Equal(t, lipgloss.Color("#868E96"), s.Priority("unknown").GetForeground())
	assert.True(t, s.Priority(model.PriorityMedium).GetBold())
}

func TestTask(t *testing.T) {
	s := theme.For(model.ThemeLight)
	today := "2025-06-15"

	done := model.Task{Completed: true, DueDate: "2025-01-01"}
	late := model.Task{DueDate: "2025-06-14"}
	open := model.Task{DueDate: "2025-06-15"}

	assert.True(t, s.Task(done, today).GetStrikethrough())
	assert.Equal(t, lipgloss.Color("#C53030"), s.Task(late, today).GetForeground())
	assert.False(t, s.Task(open, today).GetBold())
}

func TestCheckbox(t *testing.T) {
	assert.Equal(t, "[x]", theme.Checkbox(true))
	assert.Equal(t, "[ ]", theme.Checkbox(false))
}
