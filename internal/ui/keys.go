package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"todoman/internal/config"
)

type keyMap struct {
	Quit           key.Binding
	Add            key.Binding
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	Edit           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	FilterStatus   key.Binding
	FilterPriority key.Binding
	SortCreated    key.Binding
	SortDue        key.Binding
	SortPriority   key.Binding
	SortOrder      key.Binding
	Theme          key.Binding
	Help           key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           binding(k.Quit, "quit"),
		Add:            binding(k.Add, "add"),
		Up:             binding(k.Up, "up"),
		Down:           binding(k.Down, "down"),
		Toggle:         binding(k.Toggle, "toggle"),
		Delete:         binding(k.Delete, "delete"),
		Edit:           binding(k.Edit, "edit"),
		Confirm:        binding(k.Confirm, "save/next"),
		Cancel:         binding(k.Cancel, "cancel"),
		NextField:      binding(k.NextField, "next field"),
		PrevField:      binding(k.PrevField, "prev field"),
		FilterStatus:   binding(k.FilterStatus, "status filter"),
		FilterPriority: binding(k.FilterPriority, "priority filter"),
		SortCreated:    binding(k.SortCreated, "sort created"),
		SortDue:        binding(k.SortDue, "sort due"),
		SortPriority:   binding(k.SortPriority, "sort priority"),
		SortOrder:      binding(k.SortOrder, "flip order"),
		Theme:          binding(k.Theme, "theme"),
		Help:           binding(k.Help, "more"),
	}
}

func binding(keys, desc string) key.Binding {
	ks := splitKeys(keys)
	return key.NewBinding(key.WithKeys(ks...), key.WithHelp(helpKeys(ks), desc))
}

// splitKeys splits a comma separated key list. A lone space is the space
// bar and is kept as is.
func splitKeys(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		switch trimmed := strings.TrimSpace(part); {
		case trimmed != "":
			out = append(out, trimmed)
		case part != "":
			out = append(out, " ")
		}
	}
	return out
}

func helpKeys(ks []string) string {
	names := make([]string, len(ks))
	for i, k := range ks {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, "/")
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Edit, k.FilterStatus, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete},
		{k.FilterStatus, k.FilterPriority, k.SortCreated, k.SortDue, k.SortPriority, k.SortOrder},
		{k.Theme, k.Help, k.Quit},
	}
}

// formHelp is the help shown while a form is open.
type formHelp struct{ keyMap }

func (f formHelp) ShortHelp() []key.Binding {
	return []key.Binding{f.Confirm, f.NextField, f.PrevField, f.Cancel}
}

func (f formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{f.ShortHelp()}
}
