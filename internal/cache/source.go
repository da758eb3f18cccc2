package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"yacs/internal/api"
	"yacs/internal/domain"
)

// Source caches the answers of another api.Source. Concurrent identical
// queries share a single upstream call.
type Source struct {
	next   api.Source
	cache  Cache
	group  singleflight.Group
	logger *zap.Logger
}

var _ api.Source = (*Source)(nil)

// NewSource wraps next with cache
func NewSource(next api.Source, cache Cache, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{next: next, cache: cache, logger: logger.Named("cache")}
}

// CurrentSemester is never cached: it changes when the term rolls over
func (s *Source) CurrentSemester(ctx context.Context) (domain.Semester, error) {
	return s.next.CurrentSemester(ctx)
}

// Departments returns cached departments of a semester
func (s *Source) Departments(ctx context.Context, semesterID int) ([]domain.Department, error) {
	var depts []domain.Department
	err := s.load(ctx, "departments:"+strconv.Itoa(semesterID), &depts, func(ctx context.Context) (any, error) {
		return s.next.Departments(ctx, semesterID)
	})
	return depts, err
}

// Courses returns cached courses for a query. Each call gets fresh values.
func (s *Source) Courses(ctx context.Context, query domain.CourseQuery) ([]*domain.Course, error) {
	var courses []*domain.Course
	err := s.load(ctx, query.Key(), &courses, func(ctx context.Context) (any, error) {
		return s.next.Courses(ctx, query)
	})
	if courses == nil && err == nil {
		courses = []*domain.Course{}
	}
	return courses, err
}

// Invalidate drops every cached answer
func (s *Source) Invalidate(ctx context.Context) error {
	return s.cache.Purge(ctx)
}

// load decodes key into dest, calling fetch through singleflight on a miss
func (s *Source) load(ctx context.Context, key string, dest any, fetch func(context.Context) (any, error)) error {
	raw, err := s.cache.Get(ctx, key)
	if err == nil {
		if err := json.Unmarshal(raw, dest); err == nil {
			return nil
		}
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		val, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("marshal cache value for %s: %w", key, err)
		}
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("cache fill", zap.String("key", key), zap.Bool("shared", shared))
	return json.Unmarshal(v.([]byte), dest)
}
