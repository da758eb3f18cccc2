package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"yacs/internal/api"
	"yacs/internal/async"
	"yacs/internal/cache"
	"yacs/internal/catalog"
	"yacs/internal/config"
	"yacs/internal/controllers"
	"yacs/internal/domain"
	"yacs/internal/eventbus"
	"yacs/internal/logging"
	"yacs/internal/selection"
	"yacs/internal/store"
	"yacs/internal/ui"
	"yacs/internal/ui/input/types"
	"yacs/internal/ui/services/location"
)

// openTarget is a selection requested by permalink. The zero value opens the catalog.
type openTarget struct {
	id     int64
	values url.Values
}

// app holds the long-lived services shared by every command
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	bus       eventbus.EventBus
	source    api.Source
	scheduler api.Scheduler // nil with the offline catalog
	cached    *cache.Source // nil without a cache backend
	store     *store.SelectionStore
	closers   []func() error
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.NewConfigService(flags.configPath).Load()
	if err != nil {
		return nil, err
	}
	if flags.department != "" {
		cfg.UI.DefaultDepartment = strings.ToUpper(flags.department)
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
		cfg.Catalog.CSVPath = ""
	}
	if flags.catalogPath != "" {
		cfg.Catalog.CSVPath = flags.catalogPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, cfg.LogPath(), flags.debug)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	a.bus = eventbus.New(logger)
	a.closers = append(a.closers, func() error {
		a.bus.Close()
		return nil
	})
	stopAudit := eventbus.Audit(a.bus, logger)
	a.closers = append(a.closers, func() error {
		stopAudit()
		return nil
	})

	if err := a.openSource(); err != nil {
		a.Close()
		return nil, err
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = st
	a.closers = append(a.closers, st.Close)

	logger.Info("yacs started",
		zap.String("api", cfg.API.BaseURL),
		zap.String("catalog", cfg.Catalog.CSVPath),
		zap.String("cache", cfg.Cache.Backend),
		zap.String("db", cfg.DBPath()))
	return a, nil
}

// openSource picks the offline catalog or the API, wrapped in the configured cache
func (a *app) openSource() error {
	cfg := a.cfg
	if cfg.Catalog.CSVPath != "" {
		c, err := catalog.LoadFile(cfg.Catalog.CSVPath)
		if err != nil {
			return err
		}
		a.logger.Info("using offline catalog", zap.Stringer("catalog", c))
		a.source = c
		return nil
	}

	client, err := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout.Duration),
		api.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.scheduler = client

	switch cfg.Cache.Backend {
	case "memory":
		a.cached = cache.NewSource(client, cache.NewMemory(cfg.Cache.Size, cfg.Cache.TTL.Duration), a.logger)
		a.source = a.cached
	case "redis":
		rcfg := cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPass,
			DB:       cfg.Cache.RedisDB,
			Prefix:   "yacs:",
			TTL:      cfg.Cache.TTL.Duration,
		}
		rc, err := cache.NewRedisClient(rcfg)
		if err != nil {
			return err
		}
		r := cache.NewRedis(rc, rcfg, a.logger)
		a.closers = append(a.closers, r.Close)
		a.cached = cache.NewSource(client, r, a.logger)
		a.source = a.cached
	default:
		a.source = client
	}
	return nil
}

// Close releases everything in reverse order of creation
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("shutdown", zap.Error(err))
		}
	}
	a.closers = nil
}

func (a *app) selectionOptions() []selection.Option {
	opts := []selection.Option{
		selection.WithBus(a.bus),
		selection.WithLogger(a.logger),
		selection.WithTimeout(a.cfg.API.Timeout.Duration),
	}
	if a.cfg.API.Validate && a.scheduler != nil {
		opts = append(opts, selection.WithValidator(api.Validator(a.scheduler)))
	}
	return opts
}

func runTUI(ctx context.Context, flags *globalFlags, target openTarget) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()

	loop := async.NewLoop()
	semester := api.SemesterFuture(ctx, loop, a.source)
	departments := async.Chain(semester, func(s domain.Semester) *async.Future[[]domain.Department] {
		return async.Go(ctx, loop, func(ctx context.Context) ([]domain.Department, error) {
			return a.source.Departments(ctx, s.ID)
		})
	})

	loader := selection.NewLoader(loop, a.store, a.selectionOptions()...)
	loc := location.NewService(a.cfg.UI.PermalinkBase)
	start := types.ScreenCatalog

	var current *async.Future[*selection.Selection]
	if target.id > 0 {
		current = loader.LoadCurrentWithID(target.id)
		loc.SetSearch(target.values)
		start = types.ScreenSelection
	} else {
		current = async.Chain(semester, func(s domain.Semester) *async.Future[*selection.Selection] {
			return loader.Current(s.ID)
		})
	}

	var presenter controllers.SchedulePresenter
	if a.scheduler != nil {
		presenter = api.Presenter(ctx, loop, a.scheduler)
	}

	var invalidate func() *async.Future[struct{}]
	if a.cached != nil {
		invalidate = func() *async.Future[struct{}] {
			return async.Go(ctx, loop, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, a.cached.Invalidate(ctx)
			})
		}
	}

	model := ui.NewModel(ui.Deps{
		Loop:        loop,
		Bus:         a.bus,
		Logger:      a.logger,
		Config:      a.cfg,
		Semester:    semester,
		Departments: departments,
		Fetch:       api.Fetcher(ctx, loop, a.source),
		Presenter:   presenter,
		Selection:   selection.AsController(current),
		Location:    loc,
		Invalidate:  invalidate,
		StartScreen: start,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// runExport writes the current semester's courses, limited to --department when set
func runExport(ctx context.Context, flags *globalFlags, w io.Writer) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, 4*a.cfg.API.Timeout.Duration)
	defer cancel()

	sem, err := a.source.CurrentSemester(ctx)
	if err != nil {
		return err
	}
	query := domain.CourseQuery{SemesterID: sem.ID, DepartmentCode: strings.ToUpper(flags.department)}
	courses, err := a.source.Courses(ctx, query)
	if err != nil {
		return err
	}

	a.logger.Info("exporting catalog",
		zap.Int("semester_id", sem.ID),
		zap.String("department", query.DepartmentCode),
		zap.Int("courses", len(courses)))
	return catalog.Export(w, sem, courses)
}
