package models

import (
	"bytes"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Habit is a user-defined task tracked by per-day completion
type Habit struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Completed map[string]bool `json:"completed"` // keyed by YYYY-MM-DD, missing means not done
}

// Done reports whether the habit was completed on the given date key
func (h Habit) Done(key string) bool {
	return h.Completed[key]
}

// Clone returns a copy whose completion map can be mutated independently
func (h Habit) Clone() Habit {
	completed := make(map[string]bool, len(h.Completed))
	for k, v := range h.Completed {
		completed[k] = v
	}
	h.Completed = completed
	return h
}

// rawHabit is the lenient on-disk shape. Per-day values that are not
// booleans are dropped rather than failing the whole document.
type rawHabit struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Completed map[string]jsontext.Value `json:"completed"`
}

// DecodeDocument parses the persisted habit list.
// Empty input is an absent document and yields no habits. Entries without
// an id or with an id already seen are skipped and counted. Repeated
// object members and invalid UTF-8 in strings are tolerated so a
// hand-edited file does not discard every habit.
func DecodeDocument(data []byte) (habits []Habit, skipped int, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, 0, nil
	}

	var raw []rawHabit
	if err := json.Unmarshal(data, &raw,
		jsontext.AllowDuplicateNames(true),
		jsontext.AllowInvalidUTF8(true),
	); err != nil {
		return nil, 0, fmt.Errorf("parsing habit document: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	habits = make([]Habit, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" || seen[r.ID] {
			skipped++
			continue
		}
		seen[r.ID] = true

		completed := make(map[string]bool, len(r.Completed))
		for key, v := range r.Completed {
			switch v.Kind() {
			case 't':
				completed[key] = true
			case 'f':
				completed[key] = false
			}
		}
		habits = append(habits, Habit{ID: r.ID, Name: r.Name, Completed: completed})
	}

	return habits, skipped, nil
}

// EncodeDocument serializes the full habit list. Date keys are written in
// sorted order so successive saves of the same state are byte-identical.
func EncodeDocument(habits []Habit) ([]byte, error) {
	if habits == nil {
		habits = []Habit{}
	}
	data, err := json.Marshal(habits, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encoding habit document: %w", err)
	}
	return data, nil
}
