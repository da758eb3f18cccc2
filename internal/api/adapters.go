package api

import (
	"context"
	"fmt"
	"sort"

	"yacs/internal/async"
	"yacs/internal/controllers"
	"yacs/internal/domain"
	"yacs/internal/selection"
)

// Fetcher exposes a Source as a controllers.CourseFetcher that runs off the loop
func Fetcher(ctx context.Context, loop *async.Loop, src Source) controllers.CourseFetcher {
	return func(query domain.CourseQuery) *async.Future[[]*domain.Course] {
		return async.Go(ctx, loop, func(ctx context.Context) ([]*domain.Course, error) {
			return src.Courses(ctx, query)
		})
	}
}

// SemesterFuture resolves the current semester of src
func SemesterFuture(ctx context.Context, loop *async.Loop, src Source) *async.Future[domain.Semester] {
	return async.Go(ctx, loop, src.CurrentSemester)
}

// Presenter exposes a Scheduler as a controllers.SchedulePresenter. The
// sections sent are those the selection has marked on courses.
func Presenter(ctx context.Context, loop *async.Loop, sched Scheduler) controllers.SchedulePresenter {
	return func(courses []*domain.Course, sel controllers.Selection) *async.Future[[]domain.Schedule] {
		ids := selectedSections(courses, sel)
		if len(ids) == 0 {
			return async.Resolved(loop, []domain.Schedule{})
		}
		return async.Go(ctx, loop, func(ctx context.Context) ([]domain.Schedule, error) {
			return sched.Schedules(ctx, ids)
		})
	}
}

type sectionLister interface {
	SectionIDs() []int
}

func selectedSections(courses []*domain.Course, sel controllers.Selection) []int {
	if sl, ok := sel.(sectionLister); ok {
		return sl.SectionIDs()
	}
	var ids []int
	for _, c := range courses {
		for _, s := range c.Sections {
			if s.Selected {
				ids = append(ids, s.ID)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

// Validator accepts a set of sections when the API can build at least one schedule from it
func Validator(sched Scheduler) selection.Validator {
	return selection.ValidatorFunc(func(ctx context.Context, _ int, sectionIDs []int) error {
		if len(sectionIDs) == 0 {
			return nil
		}
		schedules, err := sched.Schedules(ctx, sectionIDs)
		if err != nil {
			return err
		}
		if len(schedules) == 0 {
			return fmt.Errorf("%w: %w", selection.ErrConflict, ErrNoSchedules)
		}
		return nil
	})
}
