// Package theme holds the light/dark display preference, independent of
// task state.
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrInvalidTheme = errors.New("invalid theme")

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func Parse(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Light, Dark:
		return t, nil
	case "":
		return Light, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidTheme, s)
}

func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type Store struct {
	mu        sync.Mutex
	current   Theme
	observers []func(Theme)
}

func NewStore(initial Theme) *Store {
	if initial != Dark {
		initial = Light
	}
	return &Store{current: initial}
}

func (s *Store) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Toggle flips the theme and returns the new value.
func (s *Store) Toggle() Theme {
	s.mu.Lock()
	s.current = s.current.Other()
	t := s.current
	fns := append([]func(Theme){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(t)
	}
	return t
}

// Set changes the theme, notifying observers only when it differs.
func (s *Store) Set(t Theme) {
	s.mu.Lock()
	if s.current == t {
		s.mu.Unlock()
		return
	}
	s.current = t
	fns := append([]func(Theme){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(t)
	}
}

// OnChange registers fn to run after every theme change.
func (s *Store) OnChange(fn func(Theme)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}
