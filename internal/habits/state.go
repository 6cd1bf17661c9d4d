// Package habits holds the in-memory habit list and the transitions that
// change it. State values are never mutated in place: every transition
// returns a new State and leaves the receiver untouched.
package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jgoulah/minihabits/internal/calendar"
	"github.com/jgoulah/minihabits/pkg/models"
)

var (
	ErrNotFound    = errors.New("habit not found")
	ErrAmbiguous   = errors.New("habit name is ambiguous")
	ErrEmptyName   = errors.New("habit name is empty")
	ErrDuplicateID = errors.New("habit id already exists")
	ErrInvalidDate = errors.New("invalid date key")
	ErrFutureDate  = errors.New("date is in the future")
)

// State is the ordered habit list
type State struct {
	Habits []models.Habit
}

// NewState wraps an existing list, copying the slice
func NewState(habits []models.Habit) State {
	return State{Habits: append([]models.Habit(nil), habits...)}
}

// NewHabit creates a habit with a fresh time-ordered id and no completions
func NewHabit(name string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, ErrEmptyName
	}
	id, err := uuid.NewV7()
	if err != nil {
		return models.Habit{}, fmt.Errorf("generating habit id: %w", err)
	}
	return models.Habit{ID: id.String(), Name: name, Completed: map[string]bool{}}, nil
}

// Index returns the position of the habit with id, or -1
func (s State) Index(id string) int {
	for i, h := range s.Habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Find looks a habit up by id
func (s State) Find(id string) (models.Habit, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Habits[i], true
	}
	return models.Habit{}, false
}

// Resolve finds a habit by exact id, then by case-insensitive name
func (s State) Resolve(ref string) (models.Habit, error) {
	if h, ok := s.Find(ref); ok {
		return h, nil
	}

	var matches []models.Habit
	for _, h := range s.Habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%w: %q matches %d habits, use the id", ErrAmbiguous, ref, len(matches))
	}
}

// AddHabit appends h to the end of the list
func (s State) AddHabit(h models.Habit) (State, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return s, ErrEmptyName
	}
	if h.ID == "" || s.Index(h.ID) >= 0 {
		return s, fmt.Errorf("%w: %q", ErrDuplicateID, h.ID)
	}

	h = h.Clone()
	next := make([]models.Habit, 0, len(s.Habits)+1)
	next = append(next, s.Habits...)
	return State{Habits: append(next, h)}, nil
}

// ToggleDay flips completion of one day and returns the new value.
// Unchecking removes the key. Days after today cannot be toggled.
func (s State) ToggleDay(id, key string, today time.Time) (State, bool, error) {
	i := s.Index(id)
	if i < 0 {
		return s, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	future, err := calendar.IsFuture(key, today)
	if err != nil {
		return s, false, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if future {
		return s, false, fmt.Errorf("%w: %s", ErrFutureDate, key)
	}

	h := s.Habits[i].Clone()
	done := !h.Completed[key]
	if done {
		h.Completed[key] = true
	} else {
		delete(h.Completed, key)
	}
	return s.replace(i, h), done, nil
}

// RenameHabit changes the display name
func (s State) RenameHabit(id, name string) (State, error) {
	i := s.Index(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyName
	}

	h := s.Habits[i]
	h.Name = name
	return s.replace(i, h), nil
}

// DeleteHabit filters the habit out of the list
func (s State) DeleteHabit(id string) (State, error) {
	i := s.Index(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := make([]models.Habit, 0, len(s.Habits)-1)
	next = append(next, s.Habits[:i]...)
	next = append(next, s.Habits[i+1:]...)
	return State{Habits: next}, nil
}

// Neighbors returns the ids of the habits before and after id in list
// order; either is empty at the ends of the list
func (s State) Neighbors(id string) (prev, next string, err error) {
	i := s.Index(id)
	if i < 0 {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if i > 0 {
		prev = s.Habits[i-1].ID
	}
	if i < len(s.Habits)-1 {
		next = s.Habits[i+1].ID
	}
	return prev, next, nil
}

func (s State) replace(i int, h models.Habit) State {
	next := append([]models.Habit(nil), s.Habits...)
	next[i] = h
	return State{Habits: next}
}
