package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCoursesLoaded     EventType = "CoursesLoaded"
	EventSelectionSaved    EventType = "SelectionSaved"
	EventSelectionCleared  EventType = "SelectionCleared"
	EventSchedulesComputed EventType = "SchedulesComputed"
	EventError             EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CoursesLoadedEvent is emitted when a controller has bound fetched courses
type CoursesLoadedEvent struct {
	SemesterID     int
	DepartmentCode string
	Count          int
}

func (e CoursesLoadedEvent) Type() EventType { return EventCoursesLoaded }

// SelectionSavedEvent is emitted after a selection is persisted
type SelectionSavedEvent struct {
	SelectionID int64
	Courses     int
	Revision    int
}

func (e SelectionSavedEvent) Type() EventType { return EventSelectionSaved }

// SelectionClearedEvent is emitted when every course is removed from a selection
type SelectionClearedEvent struct {
	SelectionID int64
}

func (e SelectionClearedEvent) Type() EventType { return EventSelectionCleared }

// SchedulesComputedEvent is emitted when the presenter returns schedules
type SchedulesComputedEvent struct {
	SelectionID int64
	Count       int
}

func (e SchedulesComputedEvent) Type() EventType { return EventSchedulesComputed }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
