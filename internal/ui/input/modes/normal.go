package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"yacs/internal/controllers"
	"yacs/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	onSelection := ctx.Screen() == types.ScreenSelection
	grid := onSelection && ctx.GridFocused()

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		if ctx.FilterQuery() != "" {
			return []types.Action{types.CancelTextAction{Mode: types.ModeFilter}}, true
		}
		return nil, false

	case tea.KeyUp:
		if grid {
			return []types.Action{types.MoveGridAction{Direction: "up"}}, true
		}
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		if grid {
			return []types.Action{types.MoveGridAction{Direction: "down"}}, true
		}
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft:
		if onSelection {
			return []types.Action{types.PageScheduleAction{Key: controllers.KeyLeft}}, true
		}
		return nil, false

	case tea.KeyRight:
		if onSelection {
			return []types.Action{types.PageScheduleAction{Key: controllers.KeyRight}}, true
		}
		return nil, false

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyTab:
		return []types.Action{types.SwitchScreenAction{}}, true

	case tea.KeySpace:
		if ctx.TotalItems() == 0 {
			return nil, false
		}
		return []types.Action{types.ToggleAction{}}, true

	case tea.KeyEnter:
		if ctx.TotalItems() == 0 {
			return nil, false
		}
		if ctx.OnSection() {
			return []types.Action{types.ToggleAction{}}, true
		}
		return []types.Action{types.ExpandAction{}}, true
	}

	switch msg.String() {
	case "j":
		if grid {
			return []types.Action{types.MoveGridAction{Direction: "down"}}, true
		}
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		if grid {
			return []types.Action{types.MoveGridAction{Direction: "up"}}, true
		}
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "h":
		if grid {
			return []types.Action{types.MoveGridAction{Direction: "left"}}, true
		}
		return nil, false

	case "l":
		if grid {
			return []types.Action{types.MoveGridAction{Direction: "right"}}, true
		}
		return nil, false

	case "g":
		if onSelection {
			return []types.Action{types.FocusGridAction{}}, true
		}
		return nil, false

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: ctx.FilterQuery()}}, true

	case "d":
		// The department bar only exists where the search options are visible
		if !ctx.SearchVisible() {
			return nil, false
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeDepartment}}, true

	case "r":
		return []types.Action{types.ReloadAction{}}, true

	case "c":
		if onSelection {
			return []types.Action{types.ClearSelectionAction{}}, true
		}
		return nil, false

	case "b":
		if onSelection {
			return []types.Action{types.BlockTimeAction{}}, true
		}
		return nil, false

	case "y":
		if onSelection {
			return []types.Action{types.CopyPermalinkAction{}}, true
		}
		return nil, false

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "H":
		return []types.Action{types.OpenHelpPagerAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}
