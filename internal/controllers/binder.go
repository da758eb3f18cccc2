package controllers

import (
	"fmt"

	"go.uber.org/zap"

	"yacs/internal/async"
	"yacs/internal/domain"
	"yacs/internal/eventbus"
)

// Option configures a controller
type Option func(*options)

type options struct {
	logger    *zap.Logger
	bus       eventbus.EventBus
	icalURL   string
	emptyText string
}

// WithLogger sets the logger used to report failures
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBus publishes controller events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithICalURL sets the base of the calendar export link
func WithICalURL(base string) Option {
	return func(o *options) { o.icalURL = base }
}

// WithEmptyText overrides the placeholder shown while no courses are listed
func WithEmptyText(text string) Option {
	return func(o *options) {
		if text != "" {
			o.emptyText = text
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:    zap.NewNop(),
		emptyText: "Loading courses...",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// binder holds the view state shared by both controllers: the course list
// bound to a selection, and the click handlers that mutate that selection.
type binder struct {
	// Courses is never nil
	Courses []*domain.Course
	// EmptyText is shown while Courses is empty
	EmptyText string
	// Err holds the last failure reported to the user
	Err error

	selection     Selection
	coursesLoaded bool

	logger *zap.Logger
	bus    eventbus.EventBus
}

func newBinder(o options) binder {
	return binder{
		Courses:   []*domain.Course{},
		EmptyText: o.emptyText,
		logger:    o.logger,
		bus:       o.bus,
	}
}

// Selection returns the bound selection, or nil before it resolves
func (b *binder) Selection() Selection {
	return b.selection
}

// CoursesLoaded reports whether Courses holds a fetch result bound to the selection
func (b *binder) CoursesLoaded() bool {
	return b.coursesLoaded
}

func (b *binder) bindCourses(courses []*domain.Course) {
	if courses == nil {
		courses = []*domain.Course{}
	}
	b.Courses = courses
	b.coursesLoaded = true
	b.Err = nil
	b.selection.Apply(b.Courses)
}

// mutate toggles the clicked entity optimistically and settles the change:
// success saves then reapplies, failure only reapplies to revert.
func (b *binder) mutate(update *async.Future[struct{}], onSaved func()) {
	update.Then(func(struct{}) {
		b.save()
		b.selection.Apply(b.Courses)
		if onSaved != nil {
			onSaved()
		}
	}, func(err error) {
		b.logger.Info("selection change rejected, reverting", zap.Error(err))
		b.selection.Apply(b.Courses)
	})
}

func (b *binder) clickCourse(course *domain.Course, onSaved func()) bool {
	if b.selection == nil || course == nil {
		return false
	}
	course.ToggleSelected()
	b.mutate(b.selection.UpdateCourse(course), onSaved)
	return true
}

func (b *binder) clickSection(course *domain.Course, section *domain.Section, onSaved func()) bool {
	if b.selection == nil || course == nil || section == nil {
		return false
	}
	course.ToggleSection(section)
	b.mutate(b.selection.UpdateSection(course, section), onSaved)
	return true
}

func (b *binder) save() {
	f := b.selection.Save()
	if f == nil {
		return
	}
	f.Then(nil, func(err error) {
		b.report("could not save selection", err, false)
	})
}

// report records a failure. When replaceEmpty is set the placeholder text explains it.
func (b *binder) report(msg string, err error, replaceEmpty bool) {
	b.Err = fmt.Errorf("%s: %w", msg, err)
	if replaceEmpty {
		b.EmptyText = fmt.Sprintf("Failed to load courses (%v). Press r to retry.", err)
	}
	b.logger.Error(msg, zap.Error(err))
	b.publish(domain.ErrorEvent{Message: msg, Err: err})
}

func (b *binder) publish(e domain.DomainEvent) {
	if b.bus != nil {
		b.bus.Publish(e)
	}
}
