// Package app wires the task store and the theme to their persisted blobs.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"todoman/internal/config"
	"todoman/internal/storage"
	"todoman/internal/store"
	"todoman/internal/theme"
	"todoman/internal/todo"
)

// Settings are the initial selections used when nothing is persisted.
type Settings struct {
	Filter todo.Filter
	Sort   todo.Sort
	Theme  theme.Theme
}

// SettingsFrom reads the initial selections out of cfg.
func SettingsFrom(cfg config.Config) (Settings, error) {
	filter, err := cfg.InitialFilter()
	if err != nil {
		return Settings{}, fmt.Errorf("default filter: %w", err)
	}
	sort, err := cfg.InitialSort()
	if err != nil {
		return Settings{}, fmt.Errorf("default sort: %w", err)
	}
	t, err := theme.Parse(cfg.Theme)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Filter: filter, Sort: sort, Theme: t}, nil
}

type App struct {
	Tasks *store.Store
	Theme *theme.Store

	ctx       context.Context
	log       *slog.Logger
	taskRepo  *storage.TaskRepo
	themeRepo *storage.ThemeRepo

	mu      sync.Mutex
	lastErr error
}

// Load builds the stores from what backend holds. A missing or corrupt blob
// falls back to an empty list or the configured theme; any other backend
// error is returned. From then on every task or theme change is written
// back to backend.
func Load(ctx context.Context, backend storage.Backend, set Settings, logger *slog.Logger, opts ...store.Option) (*App, error) {
	opts = append([]store.Option{store.WithFilter(set.Filter), store.WithSort(set.Sort)}, opts...)
	a := &App{
		Tasks:     store.New(opts...),
		ctx:       ctx,
		log:       logger,
		taskRepo:  storage.NewTaskRepo(backend),
		themeRepo: storage.NewThemeRepo(backend),
	}

	tasks, err := a.taskRepo.Load(ctx)
	switch {
	case err == nil:
		a.Tasks.Replace(tasks)
		logger.Info("loaded tasks", "count", len(tasks))
	case errors.Is(err, storage.ErrNotFound):
		logger.Info("no saved tasks, starting empty")
	case storage.Recoverable(err):
		logger.Warn("saved tasks unreadable, starting empty", "error", err)
	default:
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	initial := set.Theme
	saved, err := a.themeRepo.Load(ctx)
	switch {
	case err == nil:
		initial = saved
	case errors.Is(err, storage.ErrNotFound):
	case storage.Recoverable(err):
		logger.Warn("saved theme unreadable, using default", "error", err, "theme", initial)
	default:
		return nil, fmt.Errorf("load theme: %w", err)
	}
	a.Theme = theme.NewStore(initial)

	a.Tasks.Subscribe(a.onTasksChanged)
	a.Theme.OnChange(a.onThemeChanged)
	return a, nil
}

func (a *App) onTasksChanged(c store.Change) {
	if !c.TasksChanged() {
		return
	}
	if err := a.taskRepo.Save(a.ctx, a.Tasks.Tasks()); err != nil {
		a.log.Error("save tasks", "op", c.Op.String(), "task", c.TaskID, "error", err)
		a.setErr(fmt.Errorf("save tasks: %w", err))
		return
	}
	a.log.Debug("saved tasks", "op", c.Op.String(), "task", c.TaskID)
}

func (a *App) onThemeChanged(t theme.Theme) {
	if err := a.themeRepo.Save(a.ctx, t); err != nil {
		a.log.Error("save theme", "theme", t, "error", err)
		a.setErr(fmt.Errorf("save theme: %w", err))
		return
	}
	a.log.Debug("saved theme", "theme", t)
}

func (a *App) setErr(err error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
}

// TakeErr returns the most recent save failure, if any, and clears it.
func (a *App) TakeErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.lastErr
	a.lastErr = nil
	return err
}

// Flush writes the current tasks and theme regardless of pending changes.
func (a *App) Flush(ctx context.Context) error {
	return errors.Join(
		a.taskRepo.Save(ctx, a.Tasks.Tasks()),
		a.themeRepo.Save(ctx, a.Theme.Current()),
	)
}
