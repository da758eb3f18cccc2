package views

import (
	"fmt"
	"strings"
)

const (
	gridLabelWidth = 8
	gridCellWidth  = 11
)

// GridCell is one hour of one day on the schedule grid
type GridCell struct {
	Label   string
	Busy    bool
	Blocked bool
	Cursor  bool
}

// Grid is the week view of the visible schedule. Cells are indexed [slot][day].
type Grid struct {
	Days    []string
	Times   []string
	Cells   [][]GridCell
	Focused bool
}

// RenderGrid draws the week as a table of fixed width cells
func (r *Renderer) RenderGrid(g Grid) string {
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", gridLabelWidth))
	for _, d := range g.Days {
		b.WriteString(r.styles.GridHeader.Render(fmt.Sprintf("%-*s", gridCellWidth, d)))
	}
	b.WriteString("\n")

	for slot, label := range g.Times {
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("%*s ", gridLabelWidth-1, label)))
		for day := range g.Days {
			b.WriteString(r.renderCell(g.Cells[slot][day], g.Focused))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (r *Renderer) renderCell(c GridCell, focused bool) string {
	text := c.Label
	if text == "" {
		text = "·"
	}
	text = fmt.Sprintf("%-*s", gridCellWidth-1, truncate(text, gridCellWidth-1))

	style := r.styles.GridCell
	switch {
	case c.Blocked:
		style = r.styles.Blocked
	case c.Busy:
		style = r.styles.GridBusy
	}
	if c.Cursor && focused {
		style = style.Inherit(r.styles.GridCursor).Reverse(true)
	}
	return style.Render(text) + " "
}
