package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var manual = []helpSection{
	{"Navigation", []helpEntry{
		{"↑/↓, j/k", "Move through courses and sections"},
		{"PgUp/PgDn", "Page up/down"},
		{"Home/End", "Go to top/bottom"},
		{"Tab", "Switch between catalog and selection"},
	}},
	{"Catalog", []helpEntry{
		{"Space", "Add or remove the course (or the section under the cursor)"},
		{"Enter", "Show sections of the course, or toggle the section"},
		{"/", "Filter courses by code, name or instructor"},
		{"Esc", "Clear the filter"},
		{"d", "Switch department (Tab completes)"},
		{"r", "Reload courses"},
	}},
	{"Selection", []helpEntry{
		{"←/→", "Previous/next generated schedule"},
		{"c", "Clear the selection"},
		{"g", "Move focus between course list and schedule grid"},
		{"h/j/k/l", "Move the grid cursor while the grid has focus"},
		{"b", "Block or unblock the hour under the grid cursor"},
		{"y", "Show the permalink to this schedule"},
	}},
	{"Other", []helpEntry{
		{"?", "Toggle the key summary"},
		{"H", "Open this manual"},
		{"q", "Quit"},
	}},
}

// renderManual renders the full key reference shown in the pager
func renderManual() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("yacs Help"))
	b.WriteString("\n")
	for _, section := range manual {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, e := range section.entries {
			b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(e.keys), descStyle.Render(e.desc)))
		}
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  Sections meeting in a blocked hour are flagged in the course list."))
	return b.String()
}

// HelpOps shows the manual in the ov pager
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{program: program}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
