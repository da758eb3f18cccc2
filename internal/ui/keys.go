package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"yacs/internal/ui/input/types"
)

// keyMap documents the bindings of the normal mode for the help bar.
// Dispatch itself lives in input/modes.
type keyMap struct {
	Up, Down      key.Binding
	Toggle        key.Binding
	Expand        key.Binding
	Filter        key.Binding
	Department    key.Binding
	Reload        key.Binding
	Switch        key.Binding
	Schedules     key.Binding
	Clear         key.Binding
	Grid          key.Binding
	Block         key.Binding
	Permalink     key.Binding
	Help, Pager   key.Binding
	Quit          key.Binding
	screen        types.Screen
	searchVisible bool
}

var _ help.KeyMap = keyMap{}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Expand:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sections")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Department: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "department")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Switch:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		Schedules:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "schedules")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Grid:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grid focus")),
		Block:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block time")),
		Permalink:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "permalink")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Pager:      key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "manual")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forScreen enables only the bindings that do something on screen
func (k keyMap) forScreen(screen types.Screen, searchVisible bool) keyMap {
	k.screen = screen
	k.searchVisible = searchVisible
	onSelection := screen == types.ScreenSelection
	k.Department.SetEnabled(searchVisible)
	k.Schedules.SetEnabled(onSelection)
	k.Clear.SetEnabled(onSelection)
	k.Grid.SetEnabled(onSelection)
	k.Block.SetEnabled(onSelection)
	k.Permalink.SetEnabled(onSelection)
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.screen == types.ScreenSelection {
		return []key.Binding{k.Schedules, k.Toggle, k.Clear, k.Switch, k.Help, k.Quit}
	}
	return []key.Binding{k.Toggle, k.Expand, k.Filter, k.Department, k.Switch, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Expand},
		{k.Filter, k.Department, k.Reload, k.Switch},
		{k.Schedules, k.Clear, k.Grid, k.Block, k.Permalink},
		{k.Help, k.Pager, k.Quit},
	}
}
