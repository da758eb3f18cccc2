package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"yacs/internal/domain"
	"yacs/internal/eventbus"
)

// Msg wraps a domain event for the UI
type Msg struct {
	Event eventbus.DomainEvent
}

// Sender delivers messages into the running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Forward relays every domain event on bus to the program. The returned
// function unsubscribes.
func Forward(bus eventbus.EventBus, sender Sender) func() {
	var unsubs []func()
	for _, t := range eventbus.AllEventTypes {
		unsubs = append(unsubs, bus.Subscribe(t, func(e eventbus.DomainEvent) {
			sender.Send(Msg{Event: e})
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Describe renders an event as a status bar line
func Describe(e eventbus.DomainEvent) string {
	switch ev := e.(type) {
	case domain.CoursesLoadedEvent:
		if ev.DepartmentCode != "" {
			return fmt.Sprintf("Loaded %d %s courses", ev.Count, ev.DepartmentCode)
		}
		return fmt.Sprintf("Loaded %d selected courses", ev.Count)
	case domain.SelectionSavedEvent:
		return fmt.Sprintf("Selection saved (%d courses)", ev.Courses)
	case domain.SelectionClearedEvent:
		return "Selection cleared"
	case domain.SchedulesComputedEvent:
		switch ev.Count {
		case 0:
			return "No schedules fit the selected sections"
		case 1:
			return "1 schedule"
		default:
			return fmt.Sprintf("%d schedules", ev.Count)
		}
	case domain.ErrorEvent:
		return "Error: " + ev.Message
	default:
		return ""
	}
}
