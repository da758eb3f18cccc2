package selection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"yacs/internal/async"
	"yacs/internal/domain"
	"yacs/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func await[T any](t *testing.T, f *async.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return async.Await(ctx, f)
}

func course(id int, sectionIDs ...int) *domain.Course {
	c := &domain.Course{ID: id}
	for _, sid := range sectionIDs {
		c.Sections = append(c.Sections, &domain.Section{ID: sid})
	}
	return c
}

func TestNewSeedsMapping(t *testing.T) {
	s := New(async.NewLoop(), 12, map[int][]int{2: {3}, 4: {5}, 6: {}}, WithID(1))

	assert.Equal(t, int64(1), s.ID())
	assert.Equal(t, 2, s.NumberOfCourses(), "courses without sections are dropped")
	assert.Equal(t, []int{2, 4}, s.CourseIDs())
	assert.Equal(t, []int{3, 5}, s.SectionIDs())
}

func TestEmptySelection(t *testing.T) {
	s := New(async.NewLoop(), 12, nil)
	assert.Equal(t, 0, s.NumberOfCourses())
	assert.Empty(t, s.CourseIDs())
}

func TestApplyIsIdempotent(t *testing.T) {
	s := New(async.NewLoop(), 12, map[int][]int{2: {3}})
	courses := []*domain.Course{course(2, 3, 4), course(5, 6)}
	courses[1].Selected = true
	courses[1].Sections[0].Selected = true

	for i := 0; i < 2; i++ {
		s.Apply(courses)
		assert.True(t, courses[0].Selected)
		assert.True(t, courses[0].Sections[0].Selected)
		assert.False(t, courses[0].Sections[1].Selected)
		assert.False(t, courses[1].Selected)
		assert.False(t, courses[1].Sections[0].Selected)
	}
}

func TestUpdateCourseAddsAndRemoves(t *testing.T) {
	loop := async.NewLoop()
	s := New(loop, 12, nil)
	c := course(2, 3, 4)

	c.ToggleSelected()
	_, err := await(t, s.UpdateCourse(c))
	require.NoError(t, err)
	assert.Equal(t, map[int][]int{2: {3, 4}}, s.Mapping())

	c.ToggleSelected()
	_, err = await(t, s.UpdateCourse(c))
	require.NoError(t, err)
	assert.Equal(t, 0, s.NumberOfCourses())
}

func TestUpdateSection(t *testing.T) {
	loop := async.NewLoop()
	s := New(loop, 12, map[int][]int{2: {3}})
	c := course(2, 3, 4)
	s.Apply([]*domain.Course{c})

	c.ToggleSection(c.Sections[1])
	_, err := await(t, s.UpdateSection(c, c.Sections[1]))
	require.NoError(t, err)
	assert.True(t, s.HasSection(2, 4))

	c.ToggleSection(c.Sections[0])
	c.ToggleSection(c.Sections[1])
	_, err = await(t, s.UpdateSection(c, c.Sections[0]))
	require.NoError(t, err)
	_, err = await(t, s.UpdateSection(c, c.Sections[1]))
	require.NoError(t, err)
	assert.Equal(t, 0, s.NumberOfCourses(), "course disappears with its last section")
}

func TestRejectedUpdateReverts(t *testing.T) {
	loop := async.NewLoop()
	var seen []int
	validator := ValidatorFunc(func(_ context.Context, semesterID int, sections []int) error {
		assert.Equal(t, 12, semesterID)
		seen = sections
		return ErrConflict
	})
	s := New(loop, 12, map[int][]int{2: {3}}, WithValidator(validator))
	c := course(7, 8)
	c.ToggleSelected()

	_, err := await(t, s.UpdateCourse(c))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []int{3, 8}, seen)
	assert.Equal(t, map[int][]int{2: {3}}, s.Mapping(), "rejected change is reverted")

	s.Apply([]*domain.Course{c})
	assert.False(t, c.Selected)
}

func TestRejectedUpdateKeepsLaterChange(t *testing.T) {
	loop := async.NewLoop()
	release := make(chan struct{})
	validator := ValidatorFunc(func(_ context.Context, _ int, sections []int) error {
		if len(sections) == 2 {
			<-release
			return ErrConflict
		}
		return nil
	})
	s := New(loop, 12, map[int][]int{2: {3}}, WithValidator(validator))
	c := course(2, 3, 4)
	c.Sections[0].Selected = true

	c.Sections[1].Selected = true
	first := s.UpdateSection(c, c.Sections[1])
	c.Sections[0].Selected = false
	second := s.UpdateSection(c, c.Sections[0])

	_, err := await(t, second)
	require.NoError(t, err)
	assert.Equal(t, map[int][]int{2: {4}}, s.Mapping())

	close(release)
	_, err = await(t, first)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, map[int][]int{2: {4}}, s.Mapping(), "the later accepted change survives")
}

func TestClear(t *testing.T) {
	s := New(async.NewLoop(), 12, map[int][]int{2: {3}, 4: {5}})
	s.Clear()
	assert.Equal(t, 0, s.NumberOfCourses())
}

type memStore struct {
	records map[int64]store.Record
	nextID  int64
	fail    error
}

func newMemStore() *memStore {
	return &memStore{records: map[int64]store.Record{}}
}

func (m *memStore) Save(_ context.Context, rec store.Record) (int64, error) {
	if m.fail != nil {
		return 0, m.fail
	}
	if rec.ID == 0 {
		m.nextID++
		rec.ID = m.nextID
	}
	m.records[rec.ID] = rec
	return rec.ID, nil
}

func (m *memStore) Load(_ context.Context, id int64) (store.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return store.Record{}, store.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Latest(_ context.Context, semesterID int) (store.Record, error) {
	var best store.Record
	for _, rec := range m.records {
		if rec.SemesterID == semesterID && rec.ID > best.ID {
			best = rec
		}
	}
	if best.ID == 0 {
		return store.Record{}, store.ErrNotFound
	}
	return best, nil
}

func TestSavePersistsAndAssignsID(t *testing.T) {
	loop := async.NewLoop()
	st := newMemStore()
	s := New(loop, 12, map[int][]int{2: {3}}, WithStore(st))

	_, err := await(t, s.Save())
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID())
	assert.Equal(t, 1, s.Revision())
	assert.Equal(t, map[int][]int{2: {3}}, st.records[1].Courses)

	_, err = await(t, s.Save())
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID(), "second save updates the same record")
	assert.Equal(t, 2, st.records[1].Revision)
}

func TestOverlappingSavesShareOneRecord(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	loop := async.NewLoop()
	s := New(loop, 12, map[int][]int{2: {3}}, WithStore(st))
	first := s.Save()
	c := course(4, 5)
	c.ToggleSelected()
	s.UpdateCourse(c)
	second := s.Save()

	_, err = await(t, second)
	require.NoError(t, err)
	_, err = await(t, first)
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.ID())
	_, err = st.Load(context.Background(), 2)
	assert.ErrorIs(t, err, store.ErrNotFound, "the second save updates instead of inserting")

	rec, err := st.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Revision)
	assert.Equal(t, map[int][]int{2: {3}, 4: {5}}, rec.Courses)
}

func TestSaveFailure(t *testing.T) {
	st := newMemStore()
	st.fail = errors.New("disk full")
	s := New(async.NewLoop(), 12, nil, WithStore(st))

	_, err := await(t, s.Save())
	assert.EqualError(t, err, "disk full")
	assert.Zero(t, s.ID())
}

func TestLoaderCurrent(t *testing.T) {
	loop := async.NewLoop()
	st := newMemStore()
	l := NewLoader(loop, st)

	fresh, err := await(t, l.Current(12))
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.NumberOfCourses())
	assert.Zero(t, fresh.ID())

	_, err = st.Save(context.Background(), store.Record{SemesterID: 12, Courses: map[int][]int{2: {3}}, Revision: 4})
	require.NoError(t, err)

	latest, err := await(t, l.Current(12))
	require.NoError(t, err)
	assert.Equal(t, int64(1), latest.ID())
	assert.Equal(t, 4, latest.Revision())
	assert.Equal(t, []int{2}, latest.CourseIDs())
}

func TestLoaderLoadCurrentWithID(t *testing.T) {
	loop := async.NewLoop()
	st := newMemStore()
	_, err := st.Save(context.Background(), store.Record{SemesterID: 12, Courses: map[int][]int{2: {3}, 4: {5}}})
	require.NoError(t, err)
	l := NewLoader(loop, st)

	sel, err := await(t, l.LoadCurrentWithID(1))
	require.NoError(t, err)
	assert.Equal(t, 12, sel.SemesterID())
	assert.Equal(t, 2, sel.NumberOfCourses())

	_, err = await(t, l.LoadCurrentWithID(9))
	assert.ErrorIs(t, err, store.ErrNotFound)

	widened, err := await(t, AsController(l.LoadCurrentWithID(1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), widened.ID())
}

func TestLoaderWithSQLiteStore(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	loop := async.NewLoop()
	l := NewLoader(loop, st)
	sel, err := await(t, l.Current(12))
	require.NoError(t, err)

	c := course(2, 3)
	c.ToggleSelected()
	_, err = await(t, sel.UpdateCourse(c))
	require.NoError(t, err)
	_, err = await(t, sel.Save())
	require.NoError(t, err)

	reloaded, err := await(t, l.LoadCurrentWithID(sel.ID()))
	require.NoError(t, err)
	assert.Equal(t, map[int][]int{2: {3}}, reloaded.Mapping())
}
