package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	SearchBar     lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	Selected      lipgloss.Style
	CourseCode    lipgloss.Style
	Tag           lipgloss.Style
	Full          lipgloss.Style
	Blocked       lipgloss.Style
	GridHeader    lipgloss.Style
	GridCell      lipgloss.Style
	GridBusy      lipgloss.Style
	GridCursor    lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1),
		Dim:       lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		SearchBar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Selected:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		CourseCode:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Tag:           lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Full:          lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Blocked:       lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")),
		GridHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		GridCell:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		GridBusy:      lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("78")),
		GridCursor:    lipgloss.NewStyle().Reverse(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
