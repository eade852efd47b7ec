package ui

import (
	"fmt"
	"strings"
	"time"

	"todoman/internal/ptr"
	"todoman/internal/todo"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDue
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"title",
	"description",
	"priority (high/medium/low)",
	"due date (YYYY-MM-DD)",
}

// formState backs both the add and the edit form. taskID is empty when
// adding.
type formState struct {
	taskID string
	values [fieldCount]string
	index  int
}

func newAddForm() *formState {
	f := &formState{}
	f.values[fieldPriority] = string(todo.PriorityMedium)
	return f
}

func newEditForm(t todo.Task) *formState {
	f := &formState{taskID: t.ID}
	f.values[fieldTitle] = t.Title
	f.values[fieldDescription] = t.Description
	f.values[fieldPriority] = string(t.Priority)
	f.values[fieldDue] = todo.FormatDue(t.DueDate)
	return f
}

func (f formState) editing() bool { return f.taskID != "" }

func (f formState) label() string { return fieldLabels[f.index] }

func (f formState) value() string { return f.values[f.index] }

func (f *formState) set(v string) { f.values[f.index] = v }

func (f *formState) move(delta int) {
	f.index = wrapIndex(f.index+delta, fieldCount)
}

func (f formState) last() bool { return f.index == fieldCount-1 }

type formValues struct {
	title       string
	description string
	priority    todo.Priority
	due         *time.Time
}

// parse validates every field. The returned index points at the first
// offending field.
func (f formState) parse(loc *time.Location) (formValues, int, error) {
	title, err := todo.ValidateTitle(f.values[fieldTitle])
	if err != nil {
		return formValues{}, fieldTitle, err
	}
	priority, err := todo.ParsePriority(f.values[fieldPriority])
	if err != nil {
		return formValues{}, fieldPriority, err
	}
	due, err := todo.ParseDue(f.values[fieldDue], loc)
	if err != nil {
		return formValues{}, fieldDue, err
	}
	return formValues{
		title:       title,
		description: strings.TrimSpace(f.values[fieldDescription]),
		priority:    priority,
		due:         due,
	}, 0, nil
}

// patch turns edited values into an update. An empty due date clears it.
func (v formValues) patch() todo.Patch {
	p := todo.Patch{
		Title:       ptr.To(v.title),
		Description: ptr.To(v.description),
		Priority:    ptr.To(v.priority),
		DueDate:     v.due,
	}
	if v.due == nil {
		p.ClearDueDate = true
	}
	return p
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	heading := "New task"
	if m.form.editing() {
		heading = "Edit task"
	}
	b.WriteString(m.styles.title.Render(heading))
	b.WriteString("\n")
	for i, name := range fieldLabels {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
			b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, m.input.View()))
			continue
		}
		val := m.form.values[i]
		if strings.TrimSpace(val) == "" {
			val = m.styles.muted.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("%s %-26s : %s\n", prefix, name, val))
	}
	return m.styles.form.Render(strings.TrimRight(b.String(), "\n"))
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
