package render

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#6C7A80")
	colorMale   = lipgloss.Color("#5DADE2")
	colorFemale = lipgloss.Color("#EC7EA8")
)

var styles = struct {
	Name     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style
	Title    lipgloss.Style
	Male     lipgloss.Style
	Female   lipgloss.Style
	Other    lipgloss.Style
}{
	Name:     lipgloss.NewStyle().Bold(true),
	Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Muted:    lipgloss.NewStyle().Foreground(colorMuted),
	Label:    lipgloss.NewStyle().Foreground(colorMuted).Width(12),
	Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Male:     lipgloss.NewStyle().Foreground(colorMale),
	Female:   lipgloss.NewStyle().Foreground(colorFemale),
	Other:    lipgloss.NewStyle().Foreground(colorMuted),
}
