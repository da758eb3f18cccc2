package state

import (
	"yacs/internal/domain"
	"yacs/internal/ui/input/types"
)

// GridCell addresses one blockable slot of the schedule grid
type GridCell struct {
	Day  int // index into domain.SchoolDays
	Slot int // index into the grid's hour rows
}

// AppState contains the UI state that outlives a single screen visit
type AppState struct {
	Screen types.Screen

	// Department browsed on the catalog screen
	Department  string
	Departments []domain.Department

	// Expanded course ids per screen
	Expanded map[types.Screen]map[int]bool

	// Grid state on the selection screen
	GridFocused bool
	GridCursor  GridCell

	// UI state
	ViewportHeight int
	ShowHelp       bool
	StatusMessage  string
	FilterQuery    string
}

// NewAppState creates a new application state
func NewAppState(department string) *AppState {
	return &AppState{
		Screen:     types.ScreenCatalog,
		Department: department,
		Expanded: map[types.Screen]map[int]bool{
			types.ScreenCatalog:   {},
			types.ScreenSelection: {},
		},
		ViewportHeight: 20,
	}
}

// ToggleExpanded opens or closes the section list of a course on the current screen
func (s *AppState) ToggleExpanded(courseID int) {
	expanded := s.Expanded[s.Screen]
	if expanded[courseID] {
		delete(expanded, courseID)
	} else {
		expanded[courseID] = true
	}
}

// IsExpanded reports whether a course shows its sections on the current screen
func (s *AppState) IsExpanded(courseID int) bool {
	return s.Expanded[s.Screen][courseID]
}

// DepartmentCodes lists the known department codes for completion
func (s *AppState) DepartmentCodes() []string {
	codes := make([]string, 0, len(s.Departments))
	for _, d := range s.Departments {
		codes = append(codes, d.Code)
	}
	return codes
}

// MoveGrid moves the grid cursor, clamped to days x slots
func (s *AppState) MoveGrid(direction string, slots int) {
	switch direction {
	case "up":
		s.GridCursor.Slot--
	case "down":
		s.GridCursor.Slot++
	case "left":
		s.GridCursor.Day--
	case "right":
		s.GridCursor.Day++
	}
	s.ClampGrid(slots)
}

// ClampGrid keeps the grid cursor inside a grid of the given height
func (s *AppState) ClampGrid(slots int) {
	days := len(domain.SchoolDays)
	if s.GridCursor.Day < 0 {
		s.GridCursor.Day = 0
	}
	if s.GridCursor.Day >= days {
		s.GridCursor.Day = days - 1
	}
	if s.GridCursor.Slot >= slots {
		s.GridCursor.Slot = slots - 1
	}
	if s.GridCursor.Slot < 0 {
		s.GridCursor.Slot = 0
	}
}
