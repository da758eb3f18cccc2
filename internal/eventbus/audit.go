package eventbus

import (
	"go.uber.org/zap"

	"yacs/internal/domain"
)

// Audit subscribes a logger to every event type and returns a function that removes it
func Audit(b EventBus, logger *zap.Logger) func() {
	var unsubs []func()
	for _, t := range AllEventTypes {
		unsubs = append(unsubs, b.Subscribe(t, func(e DomainEvent) {
			logEvent(logger, e)
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func logEvent(logger *zap.Logger, e DomainEvent) {
	switch ev := e.(type) {
	case domain.CoursesLoadedEvent:
		logger.Info("courses loaded",
			zap.Int("semester_id", ev.SemesterID),
			zap.String("department", ev.DepartmentCode),
			zap.Int("count", ev.Count))
	case domain.SelectionSavedEvent:
		logger.Info("selection saved",
			zap.Int64("selection_id", ev.SelectionID),
			zap.Int("courses", ev.Courses),
			zap.Int("revision", ev.Revision))
	case domain.SelectionClearedEvent:
		logger.Info("selection cleared", zap.Int64("selection_id", ev.SelectionID))
	case domain.SchedulesComputedEvent:
		logger.Info("schedules computed",
			zap.Int64("selection_id", ev.SelectionID),
			zap.Int("count", ev.Count))
	case domain.ErrorEvent:
		logger.Error(ev.Message, zap.Error(ev.Err))
	default:
		logger.Info("event", zap.String("type", string(e.Type())))
	}
}
