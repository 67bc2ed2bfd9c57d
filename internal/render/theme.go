package render

import (
	"slices"

	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by ThemeFor.
const (
	ThemeDefault = "default" // Purple/green dark theme
	ThemeMono    = "mono"    // No colors, for pipes and plain terminals
)

// Themes returns the available theme names.
func Themes() []string {
	return []string{ThemeDefault, ThemeMono}
}

// Theme holds the styles used to draw tasks and the matrix.
type Theme struct {
	Name string

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Done     lipgloss.Style
	Overdue  lipgloss.Style
	Key      lipgloss.Style
	Selected lipgloss.Style

	Box      lipgloss.Style
	Priority map[string]lipgloss.Style
	quadrant map[matrix.Quadrant]lipgloss.Color
}

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	primaryColor   = lipgloss.Color("#A78BFA") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#F87171") // Red
	mutedColor     = lipgloss.Color("#9CA3AF") // Gray
	borderColor    = lipgloss.Color("#6B7280") // Gray
	blueColor      = lipgloss.Color("#60A5FA") // Blue
)

// ThemeFor returns the named theme, or the default theme for unknown names.
func ThemeFor(name string) *Theme {
	if name == ThemeMono {
		return monoTheme()
	}
	return defaultTheme()
}

// IsValidTheme reports whether name is a known theme.
func IsValidTheme(name string) bool {
	return slices.Contains(Themes(), name)
}

func defaultTheme() *Theme {
	return &Theme{
		Name:     ThemeDefault,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		Subtitle: lipgloss.NewStyle().Foreground(mutedColor).Italic(true),
		Muted:    lipgloss.NewStyle().Foreground(mutedColor),
		Done:     lipgloss.NewStyle().Foreground(mutedColor).Strikethrough(true),
		Overdue:  lipgloss.NewStyle().Bold(true).Foreground(errorColor),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(secondaryColor),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1),
		Priority: map[string]lipgloss.Style{
			"High":   lipgloss.NewStyle().Bold(true).Foreground(errorColor),
			"Medium": lipgloss.NewStyle().Foreground(warningColor),
			"Low":    lipgloss.NewStyle().Foreground(mutedColor),
		},
		quadrant: map[matrix.Quadrant]lipgloss.Color{
			matrix.ImportantUrgent:       errorColor,
			matrix.ImportantNotUrgent:    blueColor,
			matrix.NotImportantUrgent:    warningColor,
			matrix.NotImportantNotUrgent: mutedColor,
		},
	}
}

func monoTheme() *Theme {
	plain := lipgloss.NewStyle()
	return &Theme{
		Name:     ThemeMono,
		Title:    plain.Bold(true),
		Subtitle: plain,
		Muted:    plain,
		Done:     plain,
		Overdue:  plain.Bold(true),
		Key:      plain.Bold(true),
		Selected: plain.Reverse(true),
		Box: plain.
			Border(lipgloss.NormalBorder()).
			Padding(0, 1),
		Priority: map[string]lipgloss.Style{},
	}
}

// PriorityStyle returns the style for a priority label.
func (t *Theme) PriorityStyle(priority string) lipgloss.Style {
	if s, ok := t.Priority[priority]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// QuadrantBox returns the box style for q, with the border tinted by
// quadrant when the theme has colors.
func (t *Theme) QuadrantBox(q matrix.Quadrant) lipgloss.Style {
	if c, ok := t.quadrant[q]; ok {
		return t.Box.BorderForeground(c)
	}
	return t.Box
}

// QuadrantTitle returns the heading style for q.
func (t *Theme) QuadrantTitle(q matrix.Quadrant) lipgloss.Style {
	if c, ok := t.quadrant[q]; ok {
		return t.Title.Foreground(c)
	}
	return t.Title
}
