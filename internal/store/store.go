// Package store holds the authoritative task list and the current filter
// and sort selections. All mutation goes through a *Store.
package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"todoman/internal/todo"
)

type Op int

const (
	OpAdd Op = iota
	OpToggle
	OpDelete
	OpUpdate
	OpFilter
	OpSort
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpToggle:
		return "toggle"
	case OpDelete:
		return "delete"
	case OpUpdate:
		return "update"
	case OpFilter:
		return "filter"
	case OpSort:
		return "sort"
	default:
		return "unknown"
	}
}

// Change describes a completed mutation. TaskID is empty for filter and
// sort changes.
type Change struct {
	Op     Op
	TaskID string
}

// TasksChanged reports whether the task list itself was modified.
func (c Change) TasksChanged() bool {
	return c.Op != OpFilter && c.Op != OpSort
}

type Observer func(Change)

type Stats struct {
	Total     int
	Active    int
	Completed int
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithFilter sets the initial filter.
func WithFilter(f todo.Filter) Option {
	return func(s *Store) { s.filter = f }
}

// WithSort sets the initial sort.
func WithSort(srt todo.Sort) Option {
	return func(s *Store) { s.sort = srt }
}

type Store struct {
	mu     sync.RWMutex
	tasks  []todo.Task
	filter todo.Filter
	sort   todo.Sort

	now   func() time.Time
	newID func() string

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

func New(opts ...Option) *Store {
	s := &Store{
		filter:    todo.DefaultFilter(),
		sort:      todo.DefaultSort(),
		now:       time.Now,
		newID:     newUUID,
		observers: map[int]Observer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Replace swaps the whole list, typically with what was loaded from disk.
// Observers are not notified.
func (s *Store) Replace(tasks []todo.Task) {
	s.mu.Lock()
	s.tasks = cloneAll(tasks)
	s.mu.Unlock()
}

// Add appends a new task. title must already be validated; an empty
// priority means medium.
func (s *Store) Add(title, description string, priority todo.Priority, due *time.Time) todo.Task {
	if priority == "" {
		priority = todo.PriorityMedium
	}
	s.mu.Lock()
	now := todo.Normalize(s.now())
	t := todo.Task{
		ID:          s.uniqueID(),
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if due != nil {
		d := todo.Normalize(*due)
		t.DueDate = &d
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.notify(Change{Op: OpAdd, TaskID: t.ID})
	return t.Clone()
}

// uniqueID guards against a generator handing out an id already in use.
// Callers hold s.mu.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// Toggle flips the completion flag. It returns false, changing nothing,
// when id is unknown.
func (s *Store) Toggle(id string) bool {
	return s.modify(id, OpToggle, func(t todo.Task) todo.Task {
		t.Completed = !t.Completed
		return t
	})
}

// Update merges p into the task. It returns false, changing nothing, when
// id is unknown.
func (s *Store) Update(id string, p todo.Patch) bool {
	return s.modify(id, OpUpdate, p.Apply)
}

// Delete removes the task. It returns false when id is unknown.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.mu.Unlock()

	s.notify(Change{Op: OpDelete, TaskID: id})
	return true
}

func (s *Store) modify(id string, op Op, fn func(todo.Task) todo.Task) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	prev := s.tasks[i]
	next := fn(prev)
	next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
	next.UpdatedAt = s.bump(prev.UpdatedAt)
	s.tasks[i] = next
	s.mu.Unlock()

	s.notify(Change{Op: op, TaskID: id})
	return true
}

// bump returns a timestamp strictly after prev, using the clock when it has
// moved on.
func (s *Store) bump(prev time.Time) time.Time {
	now := todo.Normalize(s.now())
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// SetFilter merges p into the current filter.
func (s *Store) SetFilter(p todo.FilterPatch) {
	s.mu.Lock()
	s.filter = p.Apply(s.filter)
	s.mu.Unlock()
	s.notify(Change{Op: OpFilter})
}

// SetSort replaces the sort key. The order is only replaced when given.
func (s *Store) SetSort(by todo.SortBy, order ...todo.Order) {
	s.mu.Lock()
	s.sort.By = by
	if len(order) > 0 {
		s.sort.Order = order[0]
	}
	s.mu.Unlock()
	s.notify(Change{Op: OpSort})
}

// Tasks returns a deep copy of the list in insertion order.
func (s *Store) Tasks() []todo.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

func (s *Store) Get(id string) (todo.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return todo.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

func (s *Store) Filter() todo.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Store) Sort() todo.Sort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// Visible computes the filtered, sorted view of the current state.
func (s *Store) Visible() []todo.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return todo.Visible(s.tasks, s.filter, s.sort)
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		} else {
			st.Active++
		}
	}
	return st
}

// Subscribe registers fn to run after every mutation, on the mutating
// goroutine, once the store's lock has been released. The returned func
// unregisters it.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.obsMu.Lock()
	keys := make([]int, 0, len(s.observers))
	for k := range s.observers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fns := make([]Observer, 0, len(keys))
	for _, k := range keys {
		fns = append(fns, s.observers[k])
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// cloneAll deep-copies tasks so no caller shares a due date with the store.
func cloneAll(tasks []todo.Task) []todo.Task {
	if tasks == nil {
		return nil
	}
	out := make([]todo.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t todo.Task) bool { return t.ID == id })
}
