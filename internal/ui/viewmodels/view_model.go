package viewmodels

import (
	"fmt"

	"yacs/internal/controllers"
	"yacs/internal/domain"
	"yacs/internal/ui/services/search"
	"yacs/internal/ui/state"
	"yacs/internal/ui/views"
)

// Grid bounds used when the schedule has nothing earlier or later
const (
	DefaultFirstHour = 8
	DefaultLastHour  = 18
)

// ViewModel transforms controller and UI state into view-ready data
type ViewModel struct {
	state  *state.AppState
	search *search.Service
}

// NewViewModel creates a new view model
func NewViewModel(appState *state.AppState, searchSvc *search.Service) *ViewModel {
	return &ViewModel{state: appState, search: searchSvc}
}

// Rows flattens the filtered courses and their expanded sections into list rows.
// sel is nil on the catalog screen.
func (vm *ViewModel) Rows(courses []*domain.Course, sel *controllers.SelectionController) []views.Row {
	scheduled := make(map[int]bool)
	if sel != nil {
		if s := sel.CurrentSchedule(); s != nil {
			for _, crn := range s.CRNs {
				scheduled[crn] = true
			}
		}
	}

	var rows []views.Row
	for _, c := range vm.search.Filter(courses) {
		expanded := vm.state.IsExpanded(c.ID)
		rows = append(rows, views.Row{Kind: views.RowCourse, Course: c, Expanded: expanded})
		if !expanded {
			continue
		}
		for _, s := range c.Sections {
			row := views.Row{Kind: views.RowSection, Course: c, Section: s, Scheduled: scheduled[s.CRN]}
			if sel != nil {
				row.Blocked = sel.SectionBlocked(s)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

type scheduledSection struct {
	course  *domain.Course
	section *domain.Section
}

// scheduledSections maps the visible schedule back to the loaded courses, in course order
func scheduledSections(sel *controllers.SelectionController) []scheduledSection {
	var out []scheduledSection
	schedule := sel.CurrentSchedule()
	if schedule == nil {
		return out
	}
	crns := make(map[int]bool, len(schedule.CRNs))
	for _, crn := range schedule.CRNs {
		crns[crn] = true
	}
	for _, c := range sel.Courses {
		for _, s := range c.Sections {
			if crns[s.CRN] {
				out = append(out, scheduledSection{course: c, section: s})
			}
		}
	}
	return out
}

// GridSlots returns the start of every hour row on the schedule grid
func GridSlots(sel *controllers.SelectionController) []domain.Time {
	first, last := DefaultFirstHour, DefaultLastHour
	if sel != nil {
		for _, ss := range scheduledSections(sel) {
			for _, p := range ss.section.Periods {
				if p.IsToBeAnnounced() {
					continue
				}
				if p.Start.Hour < first {
					first = p.Start.Hour
				}
				end := p.End.Hour
				if p.End.Minute > 0 {
					end++
				}
				if end > last {
					last = end
				}
			}
		}
	}
	slots := make([]domain.Time, 0, last-first)
	for h := first; h < last; h++ {
		slots = append(slots, domain.NewTime(h, 0))
	}
	return slots
}

// Grid builds the week view of the visible schedule with blocked slots and the cursor
func (vm *ViewModel) Grid(sel *controllers.SelectionController) views.Grid {
	slots := GridSlots(sel)
	vm.state.ClampGrid(len(slots))
	sections := scheduledSections(sel)

	g := views.Grid{Focused: vm.state.GridFocused}
	for _, d := range domain.SchoolDays {
		g.Days = append(g.Days, d.Abbrev())
	}
	for i, t := range slots {
		g.Times = append(g.Times, t.Short())
		row := make([]views.GridCell, len(domain.SchoolDays))
		for j, day := range domain.SchoolDays {
			cell := views.GridCell{
				Blocked: sel.IsBlocked(t, day),
				Cursor:  vm.state.GridCursor == state.GridCell{Day: j, Slot: i},
			}
			for _, ss := range sections {
				if sectionCovers(ss.section, day, t) {
					cell.Busy = true
					cell.Label = ss.course.Code()
					break
				}
			}
			row[j] = cell
		}
		g.Cells = append(g.Cells, row)
	}
	return g
}

func sectionCovers(s *domain.Section, day domain.Weekday, t domain.Time) bool {
	for _, p := range s.Periods {
		if p.Covers(day, t, controllers.BlockMinutes) {
			return true
		}
	}
	return false
}

// CursorSlot returns the time and day under the grid cursor
func (vm *ViewModel) CursorSlot(sel *controllers.SelectionController) (domain.Time, domain.Weekday) {
	slots := GridSlots(sel)
	vm.state.ClampGrid(len(slots))
	return slots[vm.state.GridCursor.Slot], domain.SchoolDays[vm.state.GridCursor.Day]
}

// ScheduleLabel describes where the user is in the list of generated schedules
func ScheduleLabel(sel *controllers.SelectionController) string {
	switch {
	case sel.Selection() == nil || sel.Semester == nil:
		return "Loading selection..."
	case !sel.SchedulesReady() && sel.Err != nil:
		return "Schedules unavailable"
	case !sel.SchedulesReady():
		return "Computing schedules..."
	case len(sel.Schedules) == 0:
		if sel.ShowClearButton() {
			return "No schedules fit the selected sections"
		}
		return "No schedules"
	default:
		return fmt.Sprintf("Schedule %d of %d  (←/→)", sel.ScheduleIndex+1, len(sel.Schedules))
	}
}
