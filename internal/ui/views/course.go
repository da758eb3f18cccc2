package views

import (
	"fmt"
	"strings"

	"yacs/internal/domain"
)

func checkbox(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func (r *Renderer) renderCourse(row Row, width int) string {
	c := row.Course
	marker := "▸"
	if row.Expanded {
		marker = "▾"
	}

	box := checkbox(c.Selected)
	if c.Selected {
		box = r.styles.Selected.Render(box)
	}

	var tags []string
	for _, tag := range c.Tags() {
		tags = append(tags, tag.Name)
	}

	seats := fmt.Sprintf("%d seats", c.SeatsLeft())
	seatStyle := r.styles.Dim
	if c.SeatsLeft() == 0 {
		seatStyle = r.styles.Full
	}

	nameWidth := 36
	if width > 0 && width < 100 {
		nameWidth = 24
	}
	return fmt.Sprintf("%s %s %s  %-*s  %-13s %s  %s",
		marker,
		box,
		r.styles.CourseCode.Render(fmt.Sprintf("%-9s", c.Code())),
		nameWidth, truncate(c.Name, nameWidth),
		c.CreditsDisplay(),
		seatStyle.Render(fmt.Sprintf("%-9s", seats)),
		r.styles.Tag.Render(strings.Join(tags, ", ")),
	)
}

func (r *Renderer) renderSection(row Row, width int) string {
	s := row.Section
	box := checkbox(s.Selected)
	if s.Selected {
		box = r.styles.Selected.Render(box)
	}

	seats := fmt.Sprintf("%d/%d", s.SeatsTaken, s.SeatsTotal)
	seatStyle := r.styles.Dim
	if s.IsFull() {
		seatStyle = r.styles.Full
	}

	line := fmt.Sprintf("    %s %-3s CRN %-6d %-44s %-16s %s",
		box,
		s.Number,
		s.CRN,
		truncate(PeriodsSummary(s.Periods), 44),
		truncate(strings.Join(s.Instructors(), ", "), 16),
		seatStyle.Render(seats),
	)
	if row.Scheduled {
		line += " " + r.styles.Highlight.Render("●")
	}
	if row.Blocked {
		line += " " + r.styles.Blocked.Render(" blocked ")
	}
	return line
}

// PeriodsSummary renders meetings as "MR 10:00am-11:50am, W 12:00pm-1:50pm"
func PeriodsSummary(periods []domain.Period) string {
	if len(periods) == 0 {
		return "TBA"
	}
	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		if p.IsToBeAnnounced() {
			parts = append(parts, strings.TrimSpace(domain.DayCodes(p.Days)+" TBA"))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s-%s", domain.DayCodes(p.Days), p.Start.Short(), p.End.Short()))
	}
	return strings.Join(parts, ", ")
}
