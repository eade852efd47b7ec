package todo

import (
	"fmt"
	"slices"
	"strings"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// PriorityAll disables the priority filter.
const PriorityAll Priority = "all"

type SortBy string

const (
	SortCreatedAt SortBy = "createdAt"
	SortDueDate   SortBy = "dueDate"
	SortPriority  SortBy = "priority"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Filter restricts which tasks are shown. Both fields must match.
type Filter struct {
	Status   Status
	Priority Priority
}

// Sort is the current sort key and direction.
type Sort struct {
	By    SortBy
	Order Order
}

func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Priority: PriorityAll}
}

func DefaultSort() Sort {
	return Sort{By: SortCreatedAt, Order: Asc}
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAll, StatusActive, StatusCompleted:
		return st, nil
	case "":
		return StatusAll, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
}

// ParsePriorityFilter is ParsePriority plus "all". Empty input is "all".
func ParsePriorityFilter(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(PriorityAll) {
		return PriorityAll, nil
	}
	return ParsePriority(s)
}

func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "createdat", "created", "date":
		return SortCreatedAt, nil
	case "duedate", "due":
		return SortDueDate, nil
	case "priority":
		return SortPriority, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidSortBy, s)
}

func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, nil
	case "":
		return Asc, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidOrder, s)
}

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Match reports whether t passes both filter dimensions.
func (f Filter) Match(t Task) bool {
	switch f.Status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	if f.Priority != "" && f.Priority != PriorityAll && f.Priority != t.Priority {
		return false
	}
	return true
}

// Compare orders a before b under s. Tasks without a due date always come
// after dated ones when sorting by due date, whatever the direction.
func (s Sort) Compare(a, b Task) int {
	var c int
	switch s.By {
	case SortDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		c = a.DueDate.Compare(*b.DueDate)
	case SortPriority:
		c = a.Priority.Rank() - b.Priority.Rank()
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if s.Order == Desc {
		return -c
	}
	return c
}

// Visible returns copies of the tasks that pass f, stably ordered by s.
// The input slice is not modified.
func Visible(tasks []Task, f Filter, s Sort) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t.Clone())
		}
	}
	slices.SortStableFunc(out, s.Compare)
	return out
}
