package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoman/internal/app"
	"todoman/internal/config"
	"todoman/internal/store"
	"todoman/internal/theme"
	"todoman/internal/todo"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type Model struct {
	tasks   *store.Store
	theme   *theme.Store
	takeErr func() error

	keys   keyMap
	help   help.Model
	input  textinput.Model
	styles styles
	now    func() time.Time

	mode       mode
	cursor     int
	form       *formState
	pendingDel *todo.Task
	status     string
	statusErr  bool
}

// New builds the model over a loaded app.
func New(a *app.App, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	keys := newKeyMap(cfg.Keys)
	return Model{
		tasks:   a.Tasks,
		theme:   a.Theme,
		takeErr: a.TakeErr,
		keys:    keys,
		help:    help.New(),
		input:   ti,
		styles:  stylesFor(a.Theme.Current()),
		now:     time.Now,
		mode:    modeList,
		status:  fmt.Sprintf("Press %s to add a task, %s for help.", keys.Add.Help().Key, keys.Help.Help().Key),
	}
}

func Run(a *app.App, cfg config.Config) error {
	program := tea.NewProgram(New(a, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		default:
			return m.updateList(msg)
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-40, 20)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.tasks.Visible()
	m.cursor = clampCursor(m.cursor, len(visible))

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case key.Matches(msg, m.keys.Add):
		return m.openForm(newAddForm(), "New task: enter advances, the last field saves")
	case key.Matches(msg, m.keys.Edit):
		if len(visible) == 0 {
			m.setStatus("No tasks to edit")
			return m, nil
		}
		return m.openForm(newEditForm(visible[m.cursor]), "Editing task: enter advances, the last field saves")
	case key.Matches(msg, m.keys.Toggle):
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[m.cursor]
		if !m.tasks.Toggle(t.ID) {
			m.setStatus("Task no longer exists")
			return m, nil
		}
		if t.Completed {
			m.setStatus("Reopened task")
		} else {
			m.setStatus("Completed task")
		}
		m.checkSave()
	case key.Matches(msg, m.keys.Delete):
		if len(visible) == 0 {
			return m, nil
		}
		t := visible[m.cursor]
		m.pendingDel = &t
		m.mode = modeConfirmDelete
		m.setStatus(fmt.Sprintf("Delete %q? y/n", t.Title))
	case key.Matches(msg, m.keys.FilterStatus):
		next := nextStatus(m.tasks.Filter().Status)
		m.tasks.SetFilter(todo.FilterPatch{Status: &next})
		m.setStatus("Showing " + string(next) + " tasks")
	case key.Matches(msg, m.keys.FilterPriority):
		next := nextPriority(m.tasks.Filter().Priority)
		m.tasks.SetFilter(todo.FilterPatch{Priority: &next})
		m.setStatus("Priority filter: " + string(next))
	case key.Matches(msg, m.keys.SortCreated):
		m.tasks.SetSort(todo.SortCreatedAt)
		m.setStatus("Sorted by creation time")
	case key.Matches(msg, m.keys.SortDue):
		m.tasks.SetSort(todo.SortDueDate)
		m.setStatus("Sorted by due date")
	case key.Matches(msg, m.keys.SortPriority):
		m.tasks.SetSort(todo.SortPriority)
		m.setStatus("Sorted by priority")
	case key.Matches(msg, m.keys.SortOrder):
		cur := m.tasks.Sort()
		m.tasks.SetSort(cur.By, cur.Order.Flip())
		m.setStatus("Order: " + string(cur.Order.Flip()))
	case key.Matches(msg, m.keys.Theme):
		t := m.theme.Toggle()
		m.styles = stylesFor(t)
		m.setStatus("Theme: " + string(t))
		m.checkSave()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks.Visible()))
	return m, nil
}

func (m Model) openForm(f *formState, prompt string) (tea.Model, tea.Cmd) {
	m.form = f
	m.mode = modeForm
	m.input.SetValue(f.value())
	m.input.Placeholder = f.label()
	m.setStatus(prompt)
	return m, m.input.Focus()
}

func (m Model) closeForm(status string) Model {
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.setStatus(status)
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.closeForm("Cancelled"), nil
	case key.Matches(msg, m.keys.NextField):
		m.moveField(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.moveField(-1)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.form.set(m.input.Value())
		if m.form.last() {
			return m.saveForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// moveField stores the input into the current field and loads the next one.
func (m *Model) moveField(delta int) {
	m.form.set(m.input.Value())
	m.form.move(delta)
	m.input.SetValue(m.form.value())
	m.input.Placeholder = m.form.label()
	m.setStatus(fmt.Sprintf("Field %d of %d: %s", m.form.index+1, fieldCount, m.form.label()))
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	vals, field, err := m.form.parse(time.Local)
	if err != nil {
		m.form.index = field
		m.input.SetValue(m.form.value())
		m.input.Placeholder = m.form.label()
		m.setError(formError(err))
		return m, nil
	}

	if m.form.editing() {
		id := m.form.taskID
		if !m.tasks.Update(id, vals.patch()) {
			return m.closeForm("Task no longer exists"), nil
		}
		m = m.closeForm("Saved task")
		m.focus(id)
	} else {
		t := m.tasks.Add(vals.title, vals.description, vals.priority, vals.due)
		m = m.closeForm("Added task")
		m.focus(t.ID)
	}
	m.checkSave()
	return m, nil
}

func formError(err error) string {
	switch {
	case errors.Is(err, todo.ErrTitleRequired):
		return "Title cannot be empty"
	case errors.Is(err, todo.ErrInvalidPriority):
		return "Priority must be high, medium or low"
	case errors.Is(err, todo.ErrInvalidDate):
		return "Due date must look like 2024-01-31"
	default:
		return err.Error()
	}
}

// focus moves the cursor onto id if the current filter shows it.
func (m *Model) focus(id string) {
	for i, t := range m.tasks.Visible() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.pendingDel != nil && m.tasks.Delete(m.pendingDel.ID) {
			m.setStatus("Deleted task")
			m.checkSave()
		} else {
			m.setStatus("Nothing to delete")
		}
	case "n", "N", "esc":
		m.setStatus("Delete cancelled")
	default:
		return m, nil
	}
	m.mode = modeList
	m.pendingDel = nil
	m.cursor = clampCursor(m.cursor, len(m.tasks.Visible()))
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// checkSave surfaces a failed write from the last mutation.
func (m *Model) checkSave() {
	if err := m.takeErr(); err != nil {
		m.setError(err.Error())
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("todoman"))
	b.WriteString("\n")
	b.WriteString(m.renderBar())
	b.WriteString("\n\n")

	visible := m.tasks.Visible()
	switch {
	case m.tasks.Stats().Total == 0:
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("No tasks yet. Press %s to add one.", m.keys.Add.Help().Key)))
		b.WriteString("\n")
	case len(visible) == 0:
		b.WriteString(m.styles.muted.Render("No tasks match the current filter."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTaskList(visible))
	}

	if m.form != nil {
		b.WriteString("\n")
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(m.styles.errText.Render(m.status))
	} else {
		b.WriteString(m.styles.status.Render(m.status))
	}
	b.WriteString("\n")
	if m.form != nil {
		b.WriteString(m.help.View(formHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}

	return m.styles.app.Render(b.String())
}

func (m Model) renderBar() string {
	f, s := m.tasks.Filter(), m.tasks.Sort()
	st := m.tasks.Stats()
	return m.styles.bar.Render(fmt.Sprintf(
		"status: %s • priority: %s • sort: %s %s • %d total, %d active, %d completed • %s",
		f.Status, f.Priority, s.By, s.Order, st.Total, st.Active, st.Completed, m.theme.Current()))
}

func (m Model) renderTaskList(visible []todo.Task) string {
	now := m.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var b strings.Builder
	for i, t := range visible {
		cursor := " "
		if i == m.cursor && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = m.styles.done.Render(title)
		} else if i == m.cursor {
			title = m.styles.selected.Render(title)
		}

		row := fmt.Sprintf("%s %s %s %s", cursor, checkbox, title,
			m.styles.priority[t.Priority].Render("["+string(t.Priority)+"]"))
		if t.DueDate != nil {
			due := "due " + todo.FormatDue(t.DueDate)
			if t.Overdue(today) {
				row += " " + m.styles.overdue.Render(due+" (overdue)")
			} else {
				row += " " + m.styles.muted.Render(due)
			}
		}
		b.WriteString(row)
		b.WriteString("\n")
		if t.Description != "" {
			b.WriteString("      ")
			b.WriteString(m.styles.muted.Render(t.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

var statusCycle = []todo.Status{todo.StatusAll, todo.StatusActive, todo.StatusCompleted}

var priorityCycle = []todo.Priority{todo.PriorityAll, todo.PriorityHigh, todo.PriorityMedium, todo.PriorityLow}

func nextStatus(s todo.Status) todo.Status {
	return cycle(statusCycle, s)
}

func nextPriority(p todo.Priority) todo.Priority {
	return cycle(priorityCycle, p)
}

func cycle[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
