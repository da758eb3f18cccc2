package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"yacs/internal/async"
	"yacs/internal/controllers"
	"yacs/internal/domain"
	"yacs/internal/eventbus"
	"yacs/internal/store"
)

// ErrConflict is returned by validators when the chosen sections cannot form a schedule
var ErrConflict = errors.New("selected sections conflict")

// Store persists selections
type Store interface {
	Save(ctx context.Context, rec store.Record) (int64, error)
	Load(ctx context.Context, id int64) (store.Record, error)
	Latest(ctx context.Context, semesterID int) (store.Record, error)
}

// Validator checks that a set of sections still admits a schedule
type Validator interface {
	Validate(ctx context.Context, semesterID int, sectionIDs []int) error
}

// ValidatorFunc adapts a function to Validator
type ValidatorFunc func(ctx context.Context, semesterID int, sectionIDs []int) error

// Validate implements Validator
func (f ValidatorFunc) Validate(ctx context.Context, semesterID int, sectionIDs []int) error {
	return f(ctx, semesterID, sectionIDs)
}

// Option configures a Selection
type Option func(*Selection)

// WithID sets the id of an already persisted selection
func WithID(id int64) Option {
	return func(s *Selection) { s.id = id }
}

// WithRevision sets the starting revision
func WithRevision(rev int) Option {
	return func(s *Selection) { s.revision = rev }
}

// WithStore persists the selection on Save
func WithStore(st Store) Option {
	return func(s *Selection) { s.store = st }
}

// WithValidator checks every update before it is accepted
func WithValidator(v Validator) Option {
	return func(s *Selection) { s.validator = v }
}

// WithBus publishes save and clear events
func WithBus(b eventbus.EventBus) Option {
	return func(s *Selection) { s.bus = b }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Selection) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds store and validator calls
func WithTimeout(d time.Duration) Option {
	return func(s *Selection) { s.timeout = d }
}

// Selection maps course ids to the chosen section ids for one semester.
// It is not safe for concurrent use; all methods run on the loop's goroutine.
type Selection struct {
	loop       *async.Loop
	id         int64
	semesterID int
	courses    map[int]map[int]bool
	revision   int

	store     Store
	validator Validator
	bus       eventbus.EventBus
	logger    *zap.Logger
	timeout   time.Duration

	// lastSave is the newest queued save. Saves run one after another so the
	// first insert assigns the id every later save updates.
	lastSave *async.Future[struct{}]
}

var _ controllers.Selection = (*Selection)(nil)

// New creates a selection pre-seeded with courses (course id to section ids)
func New(loop *async.Loop, semesterID int, courses map[int][]int, opts ...Option) *Selection {
	s := &Selection{
		loop:       loop,
		semesterID: semesterID,
		courses:    make(map[int]map[int]bool),
		logger:     zap.NewNop(),
		timeout:    10 * time.Second,
	}
	for id, sections := range courses {
		if len(sections) == 0 {
			continue
		}
		set := make(map[int]bool, len(sections))
		for _, sid := range sections {
			set[sid] = true
		}
		s.courses[id] = set
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the persisted id, zero until the first successful save
func (s *Selection) ID() int64 { return s.id }

// SemesterID returns the semester the selection belongs to
func (s *Selection) SemesterID() int { return s.semesterID }

// Revision counts saves
func (s *Selection) Revision() int { return s.revision }

// NumberOfCourses returns how many courses have at least one chosen section
func (s *Selection) NumberOfCourses() int { return len(s.courses) }

// CourseIDs returns the selected course ids in ascending order
func (s *Selection) CourseIDs() []int {
	ids := make([]int, 0, len(s.courses))
	for id := range s.courses {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SectionIDs returns every chosen section id in ascending order
func (s *Selection) SectionIDs() []int {
	var ids []int
	for _, set := range s.courses {
		for sid := range set {
			ids = append(ids, sid)
		}
	}
	sort.Ints(ids)
	return ids
}

// Mapping returns a copy of the course to sections mapping
func (s *Selection) Mapping() map[int][]int {
	m := make(map[int][]int, len(s.courses))
	for id, set := range s.courses {
		sections := make([]int, 0, len(set))
		for sid := range set {
			sections = append(sections, sid)
		}
		sort.Ints(sections)
		m[id] = sections
	}
	return m
}

// HasSection reports whether a section is chosen
func (s *Selection) HasSection(courseID, sectionID int) bool {
	return s.courses[courseID][sectionID]
}

// Apply marks courses and sections in place from the selection state
func (s *Selection) Apply(courses []*domain.Course) {
	for _, c := range courses {
		set := s.courses[c.ID]
		c.Selected = len(set) > 0
		for _, sec := range c.Sections {
			sec.Selected = set[sec.ID]
		}
	}
}

// UpdateCourse adds every section of a selected course or removes an unselected one.
// The change is reverted when validation fails.
func (s *Selection) UpdateCourse(course *domain.Course) *async.Future[struct{}] {
	prev := s.snapshotCourse(course.ID)
	if course.Selected {
		set := make(map[int]bool, len(course.Sections))
		for _, sec := range course.Sections {
			set[sec.ID] = true
		}
		s.setCourse(course.ID, set)
	} else {
		delete(s.courses, course.ID)
	}
	return s.validate(course.ID, prev, s.snapshotCourse(course.ID))
}

// UpdateSection adds or removes one section depending on its Selected flag
func (s *Selection) UpdateSection(course *domain.Course, section *domain.Section) *async.Future[struct{}] {
	prev := s.snapshotCourse(course.ID)
	set := make(map[int]bool)
	for sid := range s.courses[course.ID] {
		set[sid] = true
	}
	if section.Selected {
		set[section.ID] = true
	} else {
		delete(set, section.ID)
	}
	s.setCourse(course.ID, set)
	return s.validate(course.ID, prev, s.snapshotCourse(course.ID))
}

// Clear removes every course
func (s *Selection) Clear() {
	s.courses = make(map[int]map[int]bool)
	if s.bus != nil {
		s.bus.Publish(domain.SelectionClearedEvent{SelectionID: s.id})
	}
}

// Save bumps the revision and persists the selection when a store is configured.
// A save waits for the previous one to settle before it reaches the store.
func (s *Selection) Save() *async.Future[struct{}] {
	s.revision++
	if s.store == nil {
		s.publishSaved()
		return async.Resolved(s.loop, struct{}{})
	}

	rec := store.Record{
		SemesterID: s.semesterID,
		Courses:    s.Mapping(),
		Revision:   s.revision,
	}
	d := async.NewDeferred[struct{}](s.loop)
	run := func() {
		rec.ID = s.id
		st := s.store
		saved := async.Go(context.Background(), s.loop, func(ctx context.Context) (int64, error) {
			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			return st.Save(ctx, rec)
		})
		saved.Then(func(id int64) {
			s.id = id
			s.publishSaved()
			d.Resolve(struct{}{})
		}, func(err error) {
			d.Reject(err)
		})
	}

	if prev := s.lastSave; prev != nil && !prev.Settled() {
		prev.Then(func(struct{}) { run() }, func(error) { run() })
	} else {
		run()
	}
	s.lastSave = d.Future()
	return s.lastSave
}

func (s *Selection) publishSaved() {
	s.logger.Debug("selection saved", zap.Int64("id", s.id), zap.Int("revision", s.revision))
	if s.bus != nil {
		s.bus.Publish(domain.SelectionSavedEvent{SelectionID: s.id, Courses: len(s.courses), Revision: s.revision})
	}
}

func (s *Selection) snapshotCourse(courseID int) map[int]bool {
	set, ok := s.courses[courseID]
	if !ok {
		return nil
	}
	cp := make(map[int]bool, len(set))
	for k := range set {
		cp[k] = true
	}
	return cp
}

func (s *Selection) setCourse(courseID int, set map[int]bool) {
	if len(set) == 0 {
		delete(s.courses, courseID)
		return
	}
	s.courses[courseID] = set
}

// validate runs the validator off the loop. On failure courseID goes back to
// prev, unless a later update already replaced what this one wrote.
func (s *Selection) validate(courseID int, prev, wrote map[int]bool) *async.Future[struct{}] {
	if s.validator == nil {
		return async.Resolved(s.loop, struct{}{})
	}
	sections := s.SectionIDs()
	semesterID := s.semesterID
	v := s.validator
	checked := async.Go(context.Background(), s.loop, func(ctx context.Context) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return struct{}{}, v.Validate(ctx, semesterID, sections)
	})

	d := async.NewDeferred[struct{}](s.loop)
	checked.Then(func(struct{}) {
		d.Resolve(struct{}{})
	}, func(err error) {
		s.logger.Info("selection update rejected",
			zap.Int("course_id", courseID),
			zap.Error(err))
		if sameSections(s.courses[courseID], wrote) {
			s.setCourse(courseID, prev)
		}
		d.Reject(fmt.Errorf("update course %d: %w", courseID, err))
	})
	return d.Future()
}

func sameSections(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for sid := range a {
		if !b[sid] {
			return false
		}
	}
	return true
}
