package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTitleRequired   = errors.New("title cannot be empty")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status filter")
	ErrInvalidSortBy   = errors.New("invalid sort key")
	ErrInvalidOrder    = errors.New("invalid sort order")
	ErrInvalidDate     = errors.New("invalid date")
)

// TimeLayout is the persisted timestamp format: ISO-8601, UTC, milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the format due dates are typed in.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high < medium < low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// ParsePriority accepts high/medium/low in any case. Empty input is medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, nil
	}
	switch p := Priority(s); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidPriority, s)
}

// Task is a single to-do record.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateTitle trims s and rejects empty or whitespace-only titles.
func ValidateTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrTitleRequired
	}
	return s, nil
}

// ParseDue parses a YYYY-MM-DD due date in loc. Empty input means no due date.
func ParseDue(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	t = Normalize(t)
	return &t, nil
}

// FormatDue renders a due date for display and editing.
func FormatDue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(DateLayout)
}

// Normalize converts t to UTC and drops everything below a millisecond so
// the value survives a round trip through TimeLayout unchanged.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Overdue reports whether an open task is due before cutoff. The UI passes
// the start of the current day, so a task due today is not overdue.
func (t Task) Overdue(cutoff time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(cutoff)
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

type taskJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
	DueDate     *string  `json:"dueDate,omitempty"`
	Completed   bool     `json:"completed"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	w := taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   t.Completed,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
	if t.DueDate != nil {
		s := formatTime(*t.DueDate)
		w.DueDate = &s
	}
	return json.Marshal(w)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	created, err := parseTime(w.CreatedAt)
	if err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	updated, err := parseTime(w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updatedAt: %w", err)
	}
	priority, err := ParsePriority(string(w.Priority))
	if err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	*t = Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Priority:    priority,
		Completed:   w.Completed,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
	if w.DueDate != nil && *w.DueDate != "" {
		due, err := parseTime(*w.DueDate)
		if err != nil {
			return fmt.Errorf("dueDate: %w", err)
		}
		t.DueDate = &due
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	return Normalize(t), nil
}
