package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yacs/internal/async"
	"yacs/internal/controllers"
	"yacs/internal/store"
)

// Loader resolves the selection a view works on
type Loader struct {
	loop    *async.Loop
	store   Store
	opts    []Option
	timeout time.Duration
}

// NewLoader creates a loader. opts are applied to every selection it builds.
func NewLoader(loop *async.Loop, st Store, opts ...Option) *Loader {
	return &Loader{loop: loop, store: st, opts: opts, timeout: 10 * time.Second}
}

// Current returns the most recent selection of the semester, or a fresh empty one
func (l *Loader) Current(semesterID int) *async.Future[*Selection] {
	if l.store == nil {
		return async.Resolved(l.loop, l.build(store.Record{SemesterID: semesterID}))
	}
	return async.Go(context.Background(), l.loop, func(ctx context.Context) (*Selection, error) {
		ctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()
		rec, err := l.store.Latest(ctx, semesterID)
		if errors.Is(err, store.ErrNotFound) {
			return l.build(store.Record{SemesterID: semesterID}), nil
		}
		if err != nil {
			return nil, err
		}
		return l.build(rec), nil
	})
}

// LoadCurrentWithID loads a saved selection. It rejects with store.ErrNotFound when missing.
func (l *Loader) LoadCurrentWithID(id int64) *async.Future[*Selection] {
	if l.store == nil {
		return async.Rejected[*Selection](l.loop, fmt.Errorf("load selection %d: %w", id, store.ErrNotFound))
	}
	return async.Go(context.Background(), l.loop, func(ctx context.Context) (*Selection, error) {
		ctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()
		rec, err := l.store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		return l.build(rec), nil
	})
}

func (l *Loader) build(rec store.Record) *Selection {
	opts := append([]Option{WithStore(l.store), WithID(rec.ID), WithRevision(rec.Revision)}, l.opts...)
	return New(l.loop, rec.SemesterID, rec.Courses, opts...)
}

// AsController widens a selection future to the controller interface
func AsController(f *async.Future[*Selection]) *async.Future[controllers.Selection] {
	return async.Map(f, func(s *Selection) controllers.Selection { return s })
}
