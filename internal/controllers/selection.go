package controllers

import (
	"net/url"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"yacs/internal/async"
	"yacs/internal/domain"
)

// BlockMinutes is the length of a blockable time slot on the schedule grid
const BlockMinutes = 60

type blockKey struct {
	time domain.Time
	day  domain.Weekday
}

// SelectionController shows the courses of a saved selection, the schedules
// generated from it, and keeps the location a permalink to the visible schedule.
type SelectionController struct {
	binder

	// Semester is nil until the semester future resolves
	Semester *domain.Semester
	// Schedules is nil until the presenter resolves
	Schedules []domain.Schedule
	// ScheduleIndex is the visible schedule
	ScheduleIndex int
	// ICalURL exports the visible schedule; empty when there is none
	ICalURL string

	fetch     CourseFetcher
	presenter SchedulePresenter
	location  Location
	search    *SearchOptions
	icalBase  string

	blocked map[blockKey]bool

	started     bool
	fetchGen    int
	scheduleGen int

	// pendingClear is a clear made before the courses loaded, saved once they do
	pendingClear bool
}

// NewSelectionController hides the search bar and wires the controller to its collaborators
func NewSelectionController(
	semester *async.Future[domain.Semester],
	fetch CourseFetcher,
	selection *async.Future[Selection],
	presenter SchedulePresenter,
	search *SearchOptions,
	location Location,
	opts ...Option,
) *SelectionController {
	o := buildOptions(opts)
	c := &SelectionController{
		binder:    newBinder(o),
		fetch:     fetch,
		presenter: presenter,
		location:  location,
		search:    search,
		icalBase:  o.icalURL,
		blocked:   make(map[blockKey]bool),
	}
	c.logger = o.logger.Named("selection")

	if search != nil {
		search.Visible = false
	}
	if location != nil {
		if n, err := strconv.Atoi(location.Search().Get("n")); err == nil && n > 0 {
			c.ScheduleIndex = n
		}
	}

	semester.Then(func(s domain.Semester) {
		c.Semester = &s
		c.start()
	}, func(err error) {
		c.report("could not resolve the current semester", err, true)
	})

	selection.Then(func(sel Selection) {
		c.selection = sel
		c.start()
	}, func(err error) {
		c.report("could not load the selection", err, true)
	})

	return c
}

// start runs once both the semester and the selection are known
func (c *SelectionController) start() {
	if c.started || c.Semester == nil || c.selection == nil {
		return
	}
	c.started = true
	c.load()
}

// Query returns the fetch criteria for the courses of the selection
func (c *SelectionController) Query() domain.CourseQuery {
	q := domain.CourseQuery{}
	if c.Semester != nil {
		q.SemesterID = c.Semester.ID
	}
	if c.selection != nil {
		ids := append([]int(nil), c.selection.CourseIDs()...)
		sort.Ints(ids)
		q.IDs = make([]string, 0, len(ids))
		for _, id := range ids {
			q.IDs = append(q.IDs, strconv.Itoa(id))
		}
	}
	return q
}

func (c *SelectionController) load() {
	if c.selection.NumberOfCourses() == 0 {
		c.bindCourses(nil)
		c.savePendingClear()
		c.EmptyText = "You have not selected any courses."
		c.computeSchedules()
		return
	}

	c.fetchGen++
	gen := c.fetchGen
	query := c.Query()
	c.logger.Debug("fetching selected courses",
		zap.Int("semester_id", query.SemesterID),
		zap.Strings("ids", query.IDs))

	c.fetch(query).Then(func(courses []*domain.Course) {
		if gen != c.fetchGen {
			return
		}
		c.bindCourses(courses)
		c.savePendingClear()
		c.publish(domain.CoursesLoadedEvent{SemesterID: query.SemesterID, Count: len(c.Courses)})
		c.computeSchedules()
	}, func(err error) {
		if gen != c.fetchGen {
			return
		}
		c.report("could not fetch selected courses", err, true)
	})
}

// Reload fetches the selected courses again
func (c *SelectionController) Reload() {
	if !c.started {
		return
	}
	c.load()
}

// ShowClearButton reports whether there is anything to clear
func (c *SelectionController) ShowClearButton() bool {
	return c.selection != nil && c.selection.NumberOfCourses() > 0
}

// ClickClearSelection empties the selection. The cleared state is applied to
// the courses and saved, right away or when the pending fetch binds them.
func (c *SelectionController) ClickClearSelection() {
	if c.selection == nil {
		return
	}
	c.selection.Clear()
	if !c.coursesLoaded {
		c.pendingClear = true
		return
	}
	c.selection.Apply(c.Courses)
	c.save()
	c.computeSchedules()
}

func (c *SelectionController) savePendingClear() {
	if !c.pendingClear {
		return
	}
	c.pendingClear = false
	c.save()
}

// ClickCourse toggles a whole course of the selection
func (c *SelectionController) ClickCourse(course *domain.Course) bool {
	return c.clickCourse(course, c.computeSchedules)
}

// ClickSection toggles one section of a course in the selection
func (c *SelectionController) ClickSection(course *domain.Course, section *domain.Section) bool {
	return c.clickSection(course, section, c.computeSchedules)
}

// ToggleBlockableTime marks or unmarks a slot as unavailable
func (c *SelectionController) ToggleBlockableTime(t domain.Time, day domain.Weekday) {
	k := blockKey{time: t, day: day}
	if c.blocked[k] {
		delete(c.blocked, k)
		return
	}
	c.blocked[k] = true
}

// IsBlocked reports whether a slot was marked unavailable
func (c *SelectionController) IsBlocked(t domain.Time, day domain.Weekday) bool {
	return c.blocked[blockKey{time: t, day: day}]
}

// SectionBlocked reports whether any meeting of section falls in a blocked slot
func (c *SelectionController) SectionBlocked(section *domain.Section) bool {
	for k := range c.blocked {
		for _, p := range section.Periods {
			if p.Covers(k.day, k.time, BlockMinutes) {
				return true
			}
		}
	}
	return false
}

// CurrentSchedule returns the visible schedule, or nil when there is none
func (c *SelectionController) CurrentSchedule() *domain.Schedule {
	if len(c.Schedules) == 0 || c.ScheduleIndex < 0 || c.ScheduleIndex >= len(c.Schedules) {
		return nil
	}
	return &c.Schedules[c.ScheduleIndex]
}

// SchedulesReady reports whether the presenter has answered for the current selection
func (c *SelectionController) SchedulesReady() bool {
	return c.Schedules != nil
}

// KeyDown pages through schedules. Keys are ignored while there are no schedules.
func (c *SelectionController) KeyDown(key Key) {
	if len(c.Schedules) == 0 {
		return
	}
	switch key {
	case KeyLeft:
		if c.ScheduleIndex > 0 {
			c.ScheduleIndex--
		}
	case KeyRight:
		if c.ScheduleIndex < len(c.Schedules)-1 {
			c.ScheduleIndex++
		}
	default:
		return
	}
	c.clampIndex()
	c.syncLocation()
}

func (c *SelectionController) computeSchedules() {
	c.scheduleGen++
	gen := c.scheduleGen
	sel := c.selection
	if sel == nil || sel.NumberOfCourses() == 0 || c.presenter == nil {
		c.setSchedules([]domain.Schedule{})
		return
	}

	c.presenter(c.Courses, sel).Then(func(schedules []domain.Schedule) {
		if gen != c.scheduleGen {
			return
		}
		c.setSchedules(schedules)
		c.publish(domain.SchedulesComputedEvent{SelectionID: sel.ID(), Count: len(schedules)})
	}, func(err error) {
		if gen != c.scheduleGen {
			return
		}
		c.report("could not compute schedules", err, false)
	})
}

func (c *SelectionController) setSchedules(schedules []domain.Schedule) {
	if len(schedules) == 0 {
		c.Schedules = []domain.Schedule{}
		c.ScheduleIndex = 0
		c.syncLocation()
		return
	}
	c.Schedules = schedules
	c.clampIndex()
	c.syncLocation()
}

func (c *SelectionController) clampIndex() {
	if c.ScheduleIndex >= len(c.Schedules) {
		c.ScheduleIndex = len(c.Schedules) - 1
	}
	if c.ScheduleIndex < 0 {
		c.ScheduleIndex = 0
	}
}

// syncLocation writes the permalink query and the export link for the visible schedule
func (c *SelectionController) syncLocation() {
	if c.location != nil && c.selection != nil {
		c.location.SetSearch(url.Values{
			"id": {strconv.FormatInt(c.selection.ID(), 10)},
			"n":  {strconv.Itoa(c.ScheduleIndex)},
		})
	}
	c.ICalURL = ICalLink(c.icalBase, c.CurrentSchedule())
}

// ICalLink builds the calendar export URL for a schedule
func ICalLink(base string, schedule *domain.Schedule) string {
	if schedule == nil || len(schedule.CRNs) == 0 {
		return ""
	}
	q := url.Values{}
	for _, crn := range schedule.CRNs {
		q.Add("crn", strconv.Itoa(crn))
	}
	return base + "?" + q.Encode()
}
