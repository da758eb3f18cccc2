package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"yacs/internal/async"
	"yacs/internal/config"
	"yacs/internal/controllers"
	"yacs/internal/domain"
	"yacs/internal/eventbus"
	"yacs/internal/ui/input"
	inputtypes "yacs/internal/ui/input/types"
	"yacs/internal/ui/services/events"
	"yacs/internal/ui/services/location"
	"yacs/internal/ui/services/navigation"
	"yacs/internal/ui/services/search"
	"yacs/internal/ui/state"
	"yacs/internal/ui/viewmodels"
	"yacs/internal/ui/views"
)

// Deps are the collaborators the model builds its controllers from
type Deps struct {
	Loop   *async.Loop
	Bus    eventbus.EventBus
	Logger *zap.Logger
	Config *config.Config

	Semester    *async.Future[domain.Semester]
	Departments *async.Future[[]domain.Department] // optional
	Fetch       controllers.CourseFetcher
	Presenter   controllers.SchedulePresenter
	Selection   *async.Future[controllers.Selection]
	Location    *location.Service
	// Invalidate drops cached course answers before a reload. Optional.
	Invalidate  func() *async.Future[struct{}]

	StartScreen inputtypes.Screen
}

// Model represents the UI state
type Model struct {
	deps   Deps
	logger *zap.Logger
	state  *state.AppState

	width  int
	height int
	help   help.Model
	keys   keyMap
	paused bool // true while the pager owns the terminal

	searchOpts controllers.SearchOptions
	catalog    *controllers.CatalogController
	selection  *controllers.SelectionController
	rows       []views.Row

	search       *search.Service
	navigator    *navigation.Service
	viewModel    *viewmodels.ViewModel
	renderer     *views.Renderer
	inputHandler *input.Handler
	helpOps      *HelpOps
	stopEvents   func()

	program *tea.Program
}

// NewModel creates a new UI model and enters the start screen
func NewModel(deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Location == nil {
		deps.Location = location.NewService("")
	}

	department := ""
	if deps.Config != nil {
		department = deps.Config.UI.DefaultDepartment
	}
	appState := state.NewAppState(strings.ToUpper(department))

	m := &Model{
		deps:         deps,
		logger:       deps.Logger.Named("ui"),
		state:        appState,
		help:         help.New(),
		keys:         newKeyMap(),
		search:       search.NewService(),
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
	}
	m.navigator = navigation.NewService(func() int { return len(m.rows) })
	m.viewModel = viewmodels.NewViewModel(appState, m.search)

	if deps.Departments != nil {
		deps.Departments.Then(func(ds []domain.Department) {
			m.state.Departments = ds
			m.inputHandler.SetSuggestions(m.state.DepartmentCodes())
		}, func(err error) {
			m.logger.Warn("department list unavailable", zap.Error(err))
		})
	}

	m.enterScreen(deps.StartScreen)
	m.deps.Loop.Flush()
	m.refreshRows()
	return m
}

// SetProgram sets the program reference for terminal management and starts
// forwarding loop wakeups and bus events to it
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
	m.deps.Loop.SetNotify(func() {
		go p.Send(FlushMsg{})
	})
	if m.deps.Bus != nil {
		m.stopEvents = events.Forward(m.deps.Bus, p)
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	// callbacks may have been posted before the program was attached
	return func() tea.Msg { return FlushMsg{} }
}

// Update handles messages. Every message ends with a loop flush so that
// settled futures are applied before the next render.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.deps.Loop.Flush()
	m.refreshRows()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil

	case tea.KeyMsg:
		if m.paused {
			return nil
		}
		actions, cmd := m.inputHandler.HandleKey(msg, modelContext{m})

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return tea.Batch(cmds...)

	case FlushMsg:
		return nil

	case events.Msg:
		if text := events.Describe(msg.Event); text != "" {
			m.state.StatusMessage = text
		}
		return nil

	case pauseRenderingMsg:
		m.paused = true
		return nil

	case resumeRenderingMsg:
		m.paused = false
		return nil

	case helpPagerMsg:
		if msg.err != nil {
			m.logger.Error("help pager failed", zap.Error(msg.err))
			m.state.StatusMessage = "Help pager failed: " + msg.err.Error()
		}
		return nil

	default:
		return m.inputHandler.Update(msg)
	}
}

// enterScreen builds a fresh controller for the screen, the way a route
// change would
func (m *Model) enterScreen(screen inputtypes.Screen) {
	m.state.Screen = screen
	m.state.GridFocused = false
	m.search.ClearSearch()
	m.state.FilterQuery = ""
	m.navigator.Reset()

	opts := []controllers.Option{controllers.WithLogger(m.deps.Logger)}
	if m.deps.Bus != nil {
		opts = append(opts, controllers.WithBus(m.deps.Bus))
	}

	switch screen {
	case inputtypes.ScreenSelection:
		if m.deps.Config != nil && m.deps.Config.UI.ICalURL != "" {
			opts = append(opts, controllers.WithICalURL(m.deps.Config.UI.ICalURL))
		}
		m.catalog = nil
		m.selection = controllers.NewSelectionController(
			m.deps.Semester, m.deps.Fetch, m.deps.Selection, m.deps.Presenter,
			&m.searchOpts, m.deps.Location, opts...)
	default:
		m.searchOpts.Visible = true
		m.selection = nil
		m.catalog = controllers.NewCatalogController(
			m.state.Department, m.deps.Semester, m.deps.Fetch, m.deps.Selection, opts...)
	}
}

func (m *Model) courses() []*domain.Course {
	if m.selection != nil {
		return m.selection.Courses
	}
	return m.catalog.Courses
}

// refreshRows rebuilds the list after controllers changed
func (m *Model) refreshRows() {
	m.rows = m.viewModel.Rows(m.courses(), m.selection)
	m.navigator.SetViewportHeight(m.listHeight())
}

// listHeight is what remains of the terminal after the fixed chrome
func (m *Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	// padding, title, status and help lines
	h := m.height - 9
	if m.searchOpts.Visible && m.inputHandler.CurrentMode() == inputtypes.ModeDepartment {
		h -= 3
	}
	if m.selection != nil {
		h -= 3 + len(viewmodels.GridSlots(m.selection))
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) currentRow() (views.Row, bool) {
	i := m.navigator.Cursor()
	if i < 0 || i >= len(m.rows) {
		return views.Row{}, false
	}
	return m.rows[i], true
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigator.Navigate(navigation.Direction(a.Direction))

	case inputtypes.MoveGridAction:
		if m.selection != nil {
			m.state.MoveGrid(a.Direction, len(viewmodels.GridSlots(m.selection)))
		}

	case inputtypes.FocusGridAction:
		if m.selection != nil {
			m.state.GridFocused = !m.state.GridFocused
		}

	case inputtypes.ToggleAction:
		m.toggleCurrent()

	case inputtypes.ExpandAction:
		if row, ok := m.currentRow(); ok {
			m.state.ToggleExpanded(row.Course.ID)
		}

	case inputtypes.ClearSelectionAction:
		if m.selection != nil && m.selection.ShowClearButton() {
			m.selection.ClickClearSelection()
		}

	case inputtypes.BlockTimeAction:
		if m.selection != nil {
			t, day := m.viewModel.CursorSlot(m.selection)
			m.selection.ToggleBlockableTime(t, day)
			verb := "Unblocked"
			if m.selection.IsBlocked(t, day) {
				verb = "Blocked"
			}
			m.state.StatusMessage = verb + " " + day.Abbrev() + " " + t.Short()
		}

	case inputtypes.PageScheduleAction:
		if m.selection != nil {
			m.selection.KeyDown(a.Key)
		}

	case inputtypes.UpdateTextAction:
		if a.Mode == inputtypes.ModeFilter {
			m.applyFilter(a.Text)
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeFilter:
			m.applyFilter(a.Text)
		case inputtypes.ModeDepartment:
			m.setDepartment(a.Text)
		}

	case inputtypes.CancelTextAction:
		if a.Mode == inputtypes.ModeFilter {
			m.applyFilter("")
		}

	case inputtypes.SwitchScreenAction:
		next := inputtypes.ScreenSelection
		if m.state.Screen == inputtypes.ScreenSelection {
			next = inputtypes.ScreenCatalog
		}
		m.enterScreen(next)

	case inputtypes.ReloadAction:
		m.state.StatusMessage = "Reloading..."
		m.reload()

	case inputtypes.CopyPermalinkAction:
		m.state.StatusMessage = m.permalinkStatus()

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp
		m.help.ShowAll = m.state.ShowHelp

	case inputtypes.OpenHelpPagerAction:
		if m.program == nil {
			m.state.StatusMessage = "Help pager unavailable"
			return nil
		}
		return m.fetchHelpPager(renderManual())

	case inputtypes.QuitAction:
		if m.stopEvents != nil {
			m.stopEvents()
		}
		return tea.Quit
	}
	return nil
}

func (m *Model) toggleCurrent() {
	row, ok := m.currentRow()
	if !ok {
		return
	}
	var accepted bool
	switch {
	case m.selection != nil && row.Kind == views.RowSection:
		accepted = m.selection.ClickSection(row.Course, row.Section)
	case m.selection != nil:
		accepted = m.selection.ClickCourse(row.Course)
	case row.Kind == views.RowSection:
		accepted = m.catalog.ClickSection(row.Course, row.Section)
	default:
		accepted = m.catalog.ClickCourse(row.Course)
	}
	if !accepted {
		m.state.StatusMessage = "Selection is still loading"
	}
}

// reload refetches the current screen, past the course cache when there is one
func (m *Model) reload() {
	if m.deps.Invalidate == nil {
		m.reloadScreen()
		return
	}
	m.deps.Invalidate().Then(func(struct{}) {
		m.reloadScreen()
	}, func(err error) {
		m.logger.Warn("course cache not invalidated", zap.Error(err))
		m.reloadScreen()
	})
}

func (m *Model) reloadScreen() {
	if m.selection != nil {
		m.selection.Reload()
		return
	}
	m.catalog.Reload()
}

func (m *Model) applyFilter(query string) {
	m.search.SetQuery(query)
	m.state.FilterQuery = m.search.Query()
	m.navigator.Reset()
}

func (m *Model) setDepartment(text string) {
	code := strings.ToUpper(strings.TrimSpace(text))
	if code == "" || m.catalog == nil || code == m.catalog.Department {
		return
	}
	m.state.Department = code
	m.state.StatusMessage = "Loading " + code + "..."
	m.applyFilter("")
	m.catalog.SetDepartment(code)
}

// permalink is only meaningful once the selection has been stored
func (m *Model) permalink() string {
	if m.selection == nil || m.selection.Selection() == nil || m.selection.Selection().ID() == 0 {
		return ""
	}
	if len(m.deps.Location.Search()) == 0 {
		return ""
	}
	return m.deps.Location.Permalink()
}

func (m *Model) permalinkStatus() string {
	if link := m.permalink(); link != "" {
		return "Permalink: " + link
	}
	return "Nothing to link yet, select some courses first"
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	program := m.program
	ops := m.helpOps
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := ops.ShowHelpInPager(helpContent)
		program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.paused {
		return ""
	}
	return m.renderer.Render(m.buildViewState())
}

func (m *Model) buildViewState() views.ViewState {
	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Screen:         m.state.Screen,
		Rows:           m.rows,
		Cursor:         m.navigator.Cursor(),
		ListFocused:    !m.state.GridFocused,
		ViewportOffset: m.navigator.ViewportOffset(),
		ViewportHeight: m.navigator.ViewportHeight(),
		StatusMessage:  m.state.StatusMessage,
		FilterQuery:    m.state.FilterQuery,
		MatchCount:     m.search.MatchCount(),
		InputMode:      m.inputHandler.CurrentMode(),
		InputPrompt:    m.inputHandler.Prompt(),
		InputView:      m.inputHandler.TextInput().View(),
		SearchVisible:  m.searchOpts.Visible,
		HelpView:       m.help.View(m.keys.forScreen(m.state.Screen, m.searchOpts.Visible)),
	}

	if m.selection != nil {
		vs.EmptyText = m.selection.EmptyText
		vs.Err = m.selection.Err
		if m.selection.Semester != nil {
			vs.Semester = m.selection.Semester.Name
		}
		grid := m.viewModel.Grid(m.selection)
		vs.Grid = &grid
		vs.ScheduleLabel = viewmodels.ScheduleLabel(m.selection)
		vs.ICalURL = m.selection.ICalURL
		vs.Permalink = m.permalink()
		vs.ShowClear = m.selection.ShowClearButton()
	} else {
		vs.EmptyText = m.catalog.EmptyText
		vs.Err = m.catalog.Err
		vs.Department = m.catalog.Department
		if m.catalog.Semester != nil {
			vs.Semester = m.catalog.Semester.Name
		}
	}
	if m.state.FilterQuery != "" && len(vs.Rows) == 0 && len(m.courses()) > 0 {
		vs.EmptyText = "No courses match " + m.state.FilterQuery
	}
	return vs
}

// modelContext exposes what the input modes need to pick actions
type modelContext struct {
	m *Model
}

func (c modelContext) Screen() inputtypes.Screen { return c.m.state.Screen }
func (c modelContext) CurrentIndex() int         { return c.m.navigator.Cursor() }
func (c modelContext) TotalItems() int           { return len(c.m.rows) }
func (c modelContext) GridFocused() bool         { return c.m.state.GridFocused }
func (c modelContext) SearchVisible() bool       { return c.m.searchOpts.Visible }
func (c modelContext) FilterQuery() string       { return c.m.state.FilterQuery }

func (c modelContext) OnSection() bool {
	row, ok := c.m.currentRow()
	return ok && row.Kind == views.RowSection
}
