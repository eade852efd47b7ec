package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoman/internal/app"
	"todoman/internal/config"
	"todoman/internal/logging"
	"todoman/internal/storage"
	"todoman/internal/theme"
	"todoman/internal/todo"
)

type failingBackend struct {
	storage.Backend
}

func (failingBackend) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func newTestModel(t *testing.T, backend storage.Backend) (Model, *app.App) {
	t.Helper()
	set := app.Settings{Filter: todo.DefaultFilter(), Sort: todo.DefaultSort(), Theme: theme.Light}
	a, err := app.Load(context.Background(), backend, set, logging.Discard())
	require.NoError(t, err)
	m := New(a, config.Default())
	m.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local) }
	return m, a
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends each key in turn. Entries wrapped in quotes are typed as text.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		if strings.HasPrefix(k, `"`) && strings.HasSuffix(k, `"`) && len(k) >= 2 {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k[1 : len(k)-1])}
		} else {
			msg = keyMsg(k)
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestAddRejectsBlankTitle(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())

	m = press(t, m, "a", `"   "`, "enter", "enter", "enter", "enter")

	assert.Zero(t, a.Tasks.Stats().Total)
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, fieldTitle, m.form.index)
	assert.Contains(t, m.View(), "Title cannot be empty")
}

func TestAddTask(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())

	m = press(t, m, "a", `"Buy milk"`, "enter", `"2 litres"`, "enter", "enter", `"2024-01-05"`, "enter")

	require.Equal(t, modeList, m.mode)
	tasks := a.Tasks.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "2 litres", tasks[0].Description)
	assert.Equal(t, todo.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, "2024-01-05", todo.FormatDue(tasks[0].DueDate))
	assert.False(t, tasks[0].Completed)

	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "[medium]")
	assert.Contains(t, view, "overdue")
}

func TestAddRejectsBadDueDate(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())

	m = press(t, m, "a", `"Buy milk"`, "tab", "tab", "tab", `"tomorrow"`, "enter")

	assert.Zero(t, a.Tasks.Stats().Total)
	assert.Equal(t, fieldDue, m.form.index)
	assert.Contains(t, m.View(), "Due date must look like")
}

func TestCancelAddLeavesStoreAlone(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())

	m = press(t, m, "a", `"Buy milk"`, "esc")

	assert.Equal(t, modeList, m.mode)
	assert.Zero(t, a.Tasks.Stats().Total)
}

func TestToggleActsOnCursorRow(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())
	first := a.Tasks.Add("first", "", todo.PriorityMedium, nil)
	second := a.Tasks.Add("second", "", todo.PriorityMedium, nil)

	m = press(t, m, "j", "x")
	got, _ := a.Tasks.Get(second.ID)
	assert.True(t, got.Completed)
	got, _ = a.Tasks.Get(first.ID)
	assert.False(t, got.Completed)

	m = press(t, m, " ")
	got, _ = a.Tasks.Get(second.ID)
	assert.False(t, got.Completed)
	assert.Equal(t, "Reopened task", m.status)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())
	a.Tasks.Add("Buy milk", "", todo.PriorityMedium, nil)

	m = press(t, m, "d")
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), `Delete "Buy milk"? y/n`)

	m = press(t, m, "n")
	assert.Equal(t, 1, a.Tasks.Stats().Total)

	m = press(t, m, "d", "y")
	assert.Zero(t, a.Tasks.Stats().Total)
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "No tasks yet")
}

func TestEditTask(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local)
	task := a.Tasks.Add("Buy milk", "", todo.PriorityHigh, &due)

	m = press(t, m, "e")
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Buy milk", m.input.Value())

	// Description, then blank out the due date field.
	m = press(t, m, "tab", `"oat"`, "enter", "enter")
	require.Equal(t, fieldDue, m.form.index)
	m.input.SetValue("")
	m = press(t, m, "enter")

	got, ok := a.Tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "oat", got.Description)
	assert.Equal(t, todo.PriorityHigh, got.Priority)
	assert.Nil(t, got.DueDate)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestFilterKeysChangeContainerFilter(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())
	done := a.Tasks.Add("done", "", todo.PriorityLow, nil)
	a.Tasks.Add("open", "", todo.PriorityHigh, nil)
	a.Tasks.Toggle(done.ID)

	m = press(t, m, "f")
	assert.Equal(t, todo.StatusActive, a.Tasks.Filter().Status)
	assert.NotContains(t, m.View(), "done [low]")

	m = press(t, m, "f")
	assert.Equal(t, todo.StatusCompleted, a.Tasks.Filter().Status)

	m = press(t, m, "f", "p")
	assert.Equal(t, todo.StatusAll, a.Tasks.Filter().Status)
	assert.Equal(t, todo.PriorityHigh, a.Tasks.Filter().Priority)

	m = press(t, m, "p", "p")
	assert.Equal(t, todo.PriorityLow, a.Tasks.Filter().Priority)
	assert.Contains(t, m.View(), "done")

	m = press(t, m, "p")
	assert.Equal(t, todo.PriorityAll, a.Tasks.Filter().Priority)
}

func TestFilteredOutMessage(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())
	a.Tasks.Add("open", "", todo.PriorityHigh, nil)

	m = press(t, m, "f", "f")
	assert.Contains(t, m.View(), "No tasks match the current filter.")
}

func TestSortKeys(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())

	m = press(t, m, "3")
	assert.Equal(t, todo.Sort{By: todo.SortPriority, Order: todo.Asc}, a.Tasks.Sort())

	m = press(t, m, "o")
	assert.Equal(t, todo.Sort{By: todo.SortPriority, Order: todo.Desc}, a.Tasks.Sort())

	m = press(t, m, "2")
	assert.Equal(t, todo.Sort{By: todo.SortDueDate, Order: todo.Desc}, a.Tasks.Sort(), "order is kept")

	press(t, m, "1")
	assert.Equal(t, todo.SortCreatedAt, a.Tasks.Sort().By)
}

func TestThemeKeyFlipsTheme(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())

	m = press(t, m, "t")
	assert.Equal(t, theme.Dark, a.Theme.Current())
	assert.Contains(t, m.View(), "dark")

	press(t, m, "t")
	assert.Equal(t, theme.Light, a.Theme.Current())
}

func TestSaveFailureIsShown(t *testing.T) {
	m, a := newTestModel(t, failingBackend{Backend: storage.NewMemory()})

	m = press(t, m, "a", `"Buy milk"`, "enter", "enter", "enter", "enter")

	assert.Equal(t, 1, a.Tasks.Stats().Total)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.View(), "disk full")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, storage.NewMemory())

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSplitKeys(t *testing.T) {
	assert.Equal(t, []string{" ", "x"}, splitKeys(" ,x"))
	assert.Equal(t, []string{"k", "up"}, splitKeys("k, up"))
	assert.Empty(t, splitKeys(""))
	assert.Equal(t, "space/x", helpKeys(splitKeys(" ,x")))
}

func TestClampCursor(t *testing.T) {
	assert.Equal(t, 0, clampCursor(5, 0))
	assert.Equal(t, 0, clampCursor(-1, 3))
	assert.Equal(t, 2, clampCursor(7, 3))
	assert.Equal(t, 1, clampCursor(1, 3))
}

func TestTaskDueTodayIsNotOverdue(t *testing.T) {
	m, a := newTestModel(t, storage.NewMemory())
	today := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)
	a.Tasks.Add("Pay rent", "", todo.PriorityHigh, &today)

	view := m.View()
	assert.Contains(t, view, "due 2024-01-10")
	assert.NotContains(t, view, "overdue")
}
