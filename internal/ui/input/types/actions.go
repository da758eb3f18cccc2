package types

import "yacs/internal/controllers"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// MoveGridAction moves the schedule grid cursor
type MoveGridAction struct {
	Direction string // "up", "down", "left", "right"
}

func (a MoveGridAction) Type() string { return "move_grid" }

type FocusGridAction struct{}

func (a FocusGridAction) Type() string { return "focus_grid" }

// Selection actions
type ToggleAction struct{}

func (a ToggleAction) Type() string { return "toggle" }

type ExpandAction struct{}

func (a ExpandAction) Type() string { return "expand" }

type ClearSelectionAction struct{}

func (a ClearSelectionAction) Type() string { return "clear_selection" }

type BlockTimeAction struct{}

func (a BlockTimeAction) Type() string { return "block_time" }

// PageScheduleAction flips through generated schedules
type PageScheduleAction struct {
	Key controllers.Key
}

func (a PageScheduleAction) Type() string { return "page_schedule" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
	Mode Mode
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Command actions
type SwitchScreenAction struct{}

func (a SwitchScreenAction) Type() string { return "switch_screen" }

type ReloadAction struct{}

func (a ReloadAction) Type() string { return "reload" }

type CopyPermalinkAction struct{}

func (a CopyPermalinkAction) Type() string { return "copy_permalink" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type OpenHelpPagerAction struct{}

func (a OpenHelpPagerAction) Type() string { return "open_help_pager" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
