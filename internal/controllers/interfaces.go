package controllers

import (
	"net/url"

	"yacs/internal/async"
	"yacs/internal/domain"
)

// CourseFetcher loads the courses matching a query
type CourseFetcher func(query domain.CourseQuery) *async.Future[[]*domain.Course]

// SchedulePresenter computes candidate schedules for the selected sections of courses
type SchedulePresenter func(courses []*domain.Course, selection Selection) *async.Future[[]domain.Schedule]

// Selection is the user's chosen sections for a semester.
// Apply marks courses and sections in place and must be idempotent.
type Selection interface {
	ID() int64
	Apply(courses []*domain.Course)
	UpdateCourse(course *domain.Course) *async.Future[struct{}]
	UpdateSection(course *domain.Course, section *domain.Section) *async.Future[struct{}]
	Save() *async.Future[struct{}]
	Clear()
	NumberOfCourses() int
	CourseIDs() []int
}

// Location holds the query parameters of the current view
type Location interface {
	Search() url.Values
	SetSearch(values url.Values)
}

// SearchOptions controls the shared department search bar
type SearchOptions struct {
	Visible bool
}

// Key identifies a navigation key by its browser key code
type Key int

// Navigation keys
const (
	KeyLeft  Key = 37
	KeyRight Key = 39
)
