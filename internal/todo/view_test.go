package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func at(min int) *time.Time {
	t := base.Add(time.Duration(min) * time.Minute)
	return &t
}

func mk(id string, p Priority, completed bool, createdMin int, due *time.Time) Task {
	return Task{
		ID:        id,
		Title:     "task " + id,
		Priority:  p,
		Completed: completed,
		DueDate:   due,
		CreatedAt: *at(createdMin),
		UpdatedAt: *at(createdMin),
	}
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func fixture() []Task {
	return []Task{
		mk("a", PriorityLow, false, 0, nil),
		mk("b", PriorityHigh, true, 1, at(300)),
		mk("c", PriorityMedium, false, 2, at(100)),
		mk("d", PriorityHigh, false, 3, nil),
		mk("e", PriorityMedium, true, 4, at(200)),
	}
}

func TestVisibleFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", DefaultFilter(), []string{"a", "b", "c", "d", "e"}},
		{"active", Filter{Status: StatusActive, Priority: PriorityAll}, []string{"a", "c", "d"}},
		{"completed", Filter{Status: StatusCompleted, Priority: PriorityAll}, []string{"b", "e"}},
		{"high", Filter{Status: StatusAll, Priority: PriorityHigh}, []string{"b", "d"}},
		{"active and high", Filter{Status: StatusActive, Priority: PriorityHigh}, []string{"d"}},
		{"completed and low", Filter{Status: StatusCompleted, Priority: PriorityLow}, []string{}},
		{"zero filter shows all", Filter{}, []string{"a", "b", "c", "d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(fixture(), tt.filter, DefaultSort())
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestVisibleFilterNeverLeaks(t *testing.T) {
	for _, task := range Visible(fixture(), Filter{Status: StatusActive, Priority: PriorityAll}, DefaultSort()) {
		assert.False(t, task.Completed, task.ID)
	}
	for _, task := range Visible(fixture(), Filter{Status: StatusAll, Priority: PriorityHigh}, DefaultSort()) {
		assert.Equal(t, PriorityHigh, task.Priority, task.ID)
	}
}

func TestVisibleSort(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{"created asc", Sort{SortCreatedAt, Asc}, []string{"a", "b", "c", "d", "e"}},
		{"created desc", Sort{SortCreatedAt, Desc}, []string{"e", "d", "c", "b", "a"}},
		{"due asc undated last", Sort{SortDueDate, Asc}, []string{"c", "e", "b", "a", "d"}},
		{"due desc undated still last", Sort{SortDueDate, Desc}, []string{"b", "e", "c", "a", "d"}},
		{"priority asc stable", Sort{SortPriority, Asc}, []string{"b", "d", "c", "e", "a"}},
		{"priority desc stable", Sort{SortPriority, Desc}, []string{"a", "c", "e", "b", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(fixture(), DefaultFilter(), tt.sort)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestVisiblePriorityOrderForAllPermutations(t *testing.T) {
	ps := []Priority{PriorityLow, PriorityHigh, PriorityMedium}
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		tasks := make([]Task, 0, 3)
		for i, idx := range perm {
			tasks = append(tasks, mk(string(ps[idx]), ps[idx], false, i, nil))
		}
		got := Visible(tasks, DefaultFilter(), Sort{SortPriority, Asc})
		assert.Equal(t, []string{"high", "medium", "low"}, ids(got), "permutation %v", perm)
	}
}

func TestVisibleDoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Visible(in, Filter{Status: StatusActive, Priority: PriorityAll}, Sort{SortPriority, Desc})
	assert.Equal(t, fixture(), in)
}

func TestVisibleReturnsIndependentCopies(t *testing.T) {
	in := fixture()
	got := Visible(in, DefaultFilter(), DefaultSort())
	require.NotNil(t, got[1].DueDate)
	*got[1].DueDate = got[1].DueDate.AddDate(1, 0, 0)
	assert.Equal(t, fixture(), in)
}

func TestParseFilterAndSortValues(t *testing.T) {
	s, err := ParseStatus("Active")
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, s)
	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	p, err := ParsePriorityFilter("")
	assert.NoError(t, err)
	assert.Equal(t, PriorityAll, p)
	p, err = ParsePriorityFilter("low")
	assert.NoError(t, err)
	assert.Equal(t, PriorityLow, p)

	by, err := ParseSortBy("due")
	assert.NoError(t, err)
	assert.Equal(t, SortDueDate, by)
	_, err = ParseSortBy("title")
	assert.ErrorIs(t, err, ErrInvalidSortBy)

	o, err := ParseOrder("DESC")
	assert.NoError(t, err)
	assert.Equal(t, Desc, o)
	assert.Equal(t, Asc, o.Flip())
	_, err = ParseOrder("sideways")
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestFilterPatchApply(t *testing.T) {
	st := StatusCompleted
	f := FilterPatch{Status: &st}.Apply(DefaultFilter())
	assert.Equal(t, Filter{Status: StatusCompleted, Priority: PriorityAll}, f)

	pr := PriorityLow
	f = FilterPatch{Priority: &pr}.Apply(f)
	assert.Equal(t, Filter{Status: StatusCompleted, Priority: PriorityLow}, f)
}
