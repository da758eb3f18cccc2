package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"yacs/internal/domain"
	"yacs/internal/ui/input/types"
)

// RowKind tells course rows from section rows
type RowKind int

const (
	RowCourse RowKind = iota
	RowSection
)

// Row is one line of the course list
type Row struct {
	Kind     RowKind
	Course   *domain.Course
	Section  *domain.Section
	Expanded bool
	// Blocked marks a section meeting in a slot the user blocked
	Blocked bool
	// Scheduled marks a section that is part of the visible schedule
	Scheduled bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Screen     types.Screen
	Semester   string
	Department string

	Rows           []Row
	Cursor         int
	ListFocused    bool
	ViewportOffset int
	ViewportHeight int
	EmptyText      string
	Err            error
	StatusMessage  string

	FilterQuery   string
	MatchCount    int
	InputMode     types.Mode
	InputPrompt   string
	InputView     string
	SearchVisible bool

	// Selection screen only
	Grid          *Grid
	ScheduleLabel string
	ICalURL       string
	Permalink     string
	ShowClear     bool

	HelpView string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	if state.SearchVisible && state.InputMode == types.ModeDepartment {
		content.WriteString(r.styles.SearchBar.Render(state.InputPrompt + state.InputView))
		content.WriteString("\n")
	}

	if len(state.Rows) == 0 {
		content.WriteString(r.styles.Dim.Render(state.EmptyText))
		content.WriteString("\n")
	} else {
		content.WriteString(r.renderList(state))
	}

	if state.Screen == types.ScreenSelection {
		content.WriteString("\n")
		content.WriteString(r.renderScheduleHeader(state))
		content.WriteString("\n")
		if state.Grid != nil {
			content.WriteString(r.RenderGrid(*state.Grid))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	if state.InputMode == types.ModeFilter {
		content.WriteString(r.styles.Filter.Render(state.InputPrompt) + state.InputView)
		content.WriteString("\n")
	}
	if state.Err != nil {
		content.WriteString(r.styles.StatusError.Render(state.Err.Error()))
		content.WriteString("\n")
	}
	if state.StatusMessage != "" {
		content.WriteString(r.styles.Status.Render(state.StatusMessage))
		content.WriteString("\n")
	}
	content.WriteString(r.styles.Help.Render(state.HelpView))

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("yacs")

	tabs := []string{r.styles.Tab.Render("Catalog"), r.styles.Tab.Render("Selection")}
	if state.Screen == types.ScreenCatalog {
		tabs[0] = r.styles.ActiveTab.Render("Catalog")
	} else {
		tabs[1] = r.styles.ActiveTab.Render("Selection")
	}
	left := logo + "  " + strings.Join(tabs, " ")

	var right []string
	if state.Semester != "" {
		right = append(right, state.Semester)
	}
	if state.Screen == types.ScreenCatalog && state.Department != "" {
		right = append(right, state.Department)
	}
	rightContent := r.styles.Dim.Render(strings.Join(right, " · "))
	if state.FilterQuery != "" && state.InputMode != types.ModeFilter {
		rightContent += "  " + r.styles.Filter.Render(fmt.Sprintf("[Filter: %s · %d]", state.FilterQuery, state.MatchCount))
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(left) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return left + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderList(state ViewState) string {
	var b strings.Builder
	height := state.ViewportHeight
	if height <= 0 {
		height = len(state.Rows)
	}
	end := state.ViewportOffset + height
	if end > len(state.Rows) {
		end = len(state.Rows)
	}

	if state.ViewportOffset > 0 {
		b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("  ↑ %d more", state.ViewportOffset)))
		b.WriteString("\n")
	}
	for i := state.ViewportOffset; i < end; i++ {
		row := state.Rows[i]
		var line string
		if row.Kind == RowCourse {
			line = r.renderCourse(row, state.Width)
		} else {
			line = r.renderSection(row, state.Width)
		}
		if i == state.Cursor && state.ListFocused {
			line = r.styles.SelectionBg.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if rest := len(state.Rows) - end; rest > 0 {
		b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("  ↓ %d more", rest)))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderScheduleHeader(state ViewState) string {
	parts := []string{r.styles.Highlight.Render(state.ScheduleLabel)}
	if state.Permalink != "" {
		parts = append(parts, r.styles.Dim.Render(state.Permalink))
	}
	if state.ICalURL != "" {
		parts = append(parts, r.styles.Dim.Render("iCal: "+state.ICalURL))
	}
	if state.ShowClear {
		parts = append(parts, r.styles.Dim.Render("c: clear selection"))
	}
	return strings.Join(parts, "  ")
}

// truncate shortens s to width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
