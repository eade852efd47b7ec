package storage

import (
	"context"
	"errors"
	"fmt"

	"todoman/internal/theme"
	"todoman/internal/todo"
)

const (
	TasksKey = "todo-storage"
	ThemeKey = "theme-storage"
)

type taskState struct {
	Todos []todo.Task `json:"todos"`
}

// TaskRepo reads and writes the task list blob.
type TaskRepo struct {
	backend Backend
}

func NewTaskRepo(b Backend) *TaskRepo {
	return &TaskRepo{backend: b}
}

// Load returns ErrNotFound when nothing was saved yet and ErrCorrupt when
// the blob cannot be decoded.
func (r *TaskRepo) Load(ctx context.Context) ([]todo.Task, error) {
	data, err := r.backend.Get(ctx, TasksKey)
	if err != nil {
		return nil, err
	}
	var st taskState
	if _, err := Decode(data, &st); err != nil {
		return nil, err
	}
	if err := checkTasks(st.Todos); err != nil {
		return nil, err
	}
	return st.Todos, nil
}

func (r *TaskRepo) Save(ctx context.Context, tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := Encode(taskState{Todos: tasks})
	if err != nil {
		return err
	}
	return r.backend.Put(ctx, TasksKey, data)
}

// checkTasks rejects blobs that decode but break the list's invariants.
func checkTasks(tasks []todo.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: task %d has no id", ErrCorrupt, i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate task id %s", ErrCorrupt, t.ID)
		}
		seen[t.ID] = struct{}{}
		if _, err := todo.ValidateTitle(t.Title); err != nil {
			return fmt.Errorf("%w: task %s: %v", ErrCorrupt, t.ID, err)
		}
		if p, err := todo.ParsePriority(string(t.Priority)); err != nil || p != t.Priority {
			return fmt.Errorf("%w: task %s: priority %q", ErrCorrupt, t.ID, t.Priority)
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			return fmt.Errorf("%w: task %s updated before it was created", ErrCorrupt, t.ID)
		}
	}
	return nil
}

type themeState struct {
	Theme theme.Theme `json:"theme"`
}

// ThemeRepo reads and writes the theme blob.
type ThemeRepo struct {
	backend Backend
}

func NewThemeRepo(b Backend) *ThemeRepo {
	return &ThemeRepo{backend: b}
}

func (r *ThemeRepo) Load(ctx context.Context) (theme.Theme, error) {
	data, err := r.backend.Get(ctx, ThemeKey)
	if err != nil {
		return "", err
	}
	var st themeState
	if _, err := Decode(data, &st); err != nil {
		return "", err
	}
	t, err := theme.Parse(string(st.Theme))
	if err != nil || st.Theme == "" {
		return "", fmt.Errorf("%w: theme %q", ErrCorrupt, st.Theme)
	}
	return t, nil
}

func (r *ThemeRepo) Save(ctx context.Context, t theme.Theme) error {
	data, err := Encode(themeState{Theme: t})
	if err != nil {
		return err
	}
	return r.backend.Put(ctx, ThemeKey, data)
}

// Recoverable reports whether a Load error should fall back to defaults
// instead of stopping startup.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt)
}
