// Package theme turns a user's theme preference into the lipgloss styles
// the CLI renders with.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/productivity-tracker/internal/model"
)

// pair holds the dark and light value of one palette entry.
type pair struct{ dark, light string }

var (
	blue   = pair{dark: "#5B9BD5", light: "#2B6CB0"}
	green  = pair{dark: "#6BCB77", light: "#2F855A"}
	yellow = pair{dark: "#FFD93D", light: "#B7791F"}
	red    = pair{dark: "#FF6B6B", light: "#C53030"}
	orange = pair{dark: "#FFA94D", light: "#C05621"}
	gray   = pair{dark: "#868E96", light: "#718096"}
	white  = pair{dark: "#F8F9FA", light: "#1A202C"}
	border = pair{dark: "#495057", light: "#E2E8F0"}
)

// Styles is the style set of one theme.
type Styles struct {
	Theme model.Theme

	Header  lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
	Dimmed  lipgloss.Style
	Overdue lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Label   lipgloss.Style

	priority map[model.Priority]lipgloss.Color
	fallback lipgloss.Color
}

// For returns the styles of t. Unknown themes get the light styles.
func For(t model.Theme) Styles {
	if !t.Valid() {
		t = model.ThemeLight
	}

	pick := func(p pair) lipgloss.Color {
		if t == model.ThemeDark {
			return lipgloss.Color(p.dark)
		}
		return lipgloss.Color(p.light)
	}

	return Styles{
		Theme: t,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(pick(white)).
			Background(pick(blue)).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(pick(gray)).
			Italic(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(pick(border)).
			Padding(0, 1),
		Dimmed: lipgloss.NewStyle().
			Foreground(pick(gray)).
			Strikethrough(true),
		Overdue: lipgloss.NewStyle().
			Bold(true).
			Foreground(pick(red)),
		Success: lipgloss.NewStyle().Foreground(pick(green)),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(pick(red)),
		Label:   lipgloss.NewStyle().Bold(true),
		priority: map[model.Priority]lipgloss.Color{
			model.PriorityHigh:   pick(orange),
			model.PriorityMedium: pick(yellow),
			model.PriorityLow:    pick(blue),
		},
		fallback: pick(gray),
	}
}

// Priority returns a color-coded style for p.
func (s Styles) Priority(p model.Priority) lipgloss.Style {
	color, ok := s.priority[p]
	if !ok {
		color = s.fallback
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// Task picks the style of a task line: dimmed when completed, highlighted
// when overdue.
func (s Styles) Task(task model.Task, today string) lipgloss.Style {
	switch {
	case task.Completed:
		return s.Dimmed
	case task.IsOverdue(today):
		return s.Overdue
	default:
		return lipgloss.NewStyle()
	}
}

// Checkbox renders the completion marker of a task or milestone.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}
