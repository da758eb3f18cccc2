package controllers

import (
	"net/url"
	"sort"

	"yacs/internal/async"
	"yacs/internal/domain"
)

// fakeSelection records every call the controllers make
type fakeSelection struct {
	id      int64
	courses map[int][]int

	applied        [][]*domain.Course
	updatedCourses []*domain.Course
	updatedSection []*domain.Section
	saves          int
	clears         int

	updateResult *async.Future[struct{}]
	saveResult   *async.Future[struct{}]
	// keepOnClear makes Clear only count the call
	keepOnClear bool
}

func newFakeSelection(id int64, courses map[int][]int) *fakeSelection {
	if courses == nil {
		courses = map[int][]int{}
	}
	return &fakeSelection{id: id, courses: courses}
}

func (s *fakeSelection) ID() int64 { return s.id }

func (s *fakeSelection) Apply(courses []*domain.Course) {
	s.applied = append(s.applied, courses)
}

func (s *fakeSelection) UpdateCourse(course *domain.Course) *async.Future[struct{}] {
	s.updatedCourses = append(s.updatedCourses, course)
	return s.updateResult
}

func (s *fakeSelection) UpdateSection(course *domain.Course, section *domain.Section) *async.Future[struct{}] {
	s.updatedCourses = append(s.updatedCourses, course)
	s.updatedSection = append(s.updatedSection, section)
	return s.updateResult
}

func (s *fakeSelection) Save() *async.Future[struct{}] {
	s.saves++
	return s.saveResult
}

func (s *fakeSelection) Clear() {
	s.clears++
	if !s.keepOnClear {
		s.courses = map[int][]int{}
	}
}

func (s *fakeSelection) NumberOfCourses() int { return len(s.courses) }

func (s *fakeSelection) CourseIDs() []int {
	ids := make([]int, 0, len(s.courses))
	for id := range s.courses {
		ids = append(ids, id)
	}
	// map order is random; controllers must sort themselves
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	return ids
}

func (s *fakeSelection) lastApplied() []*domain.Course {
	if len(s.applied) == 0 {
		return nil
	}
	return s.applied[len(s.applied)-1]
}

// fakeFetcher returns the same deferred for every call and records queries
type fakeFetcher struct {
	calls    []domain.CourseQuery
	deferred *async.Deferred[[]*domain.Course]
}

func (f *fakeFetcher) fetch(q domain.CourseQuery) *async.Future[[]*domain.Course] {
	f.calls = append(f.calls, q)
	return f.deferred.Future()
}

type fakePresenter struct {
	calls    int
	deferred *async.Deferred[[]domain.Schedule]
}

func (p *fakePresenter) present([]*domain.Course, Selection) *async.Future[[]domain.Schedule] {
	p.calls++
	return p.deferred.Future()
}

type fakeLocation struct {
	values url.Values
	writes int
}

func (l *fakeLocation) Search() url.Values {
	if l.values == nil {
		return url.Values{}
	}
	return l.values
}

func (l *fakeLocation) SetSearch(v url.Values) {
	l.values = v
	l.writes++
}

// sameSlice reports whether a and b share a backing array and length
func sameSlice(a, b []*domain.Course) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
