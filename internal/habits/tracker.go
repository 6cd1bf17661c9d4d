package habits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/minihabits/internal/calendar"
	"github.com/jgoulah/minihabits/internal/stats"
	"github.com/jgoulah/minihabits/pkg/models"
)

// ErrSaveFailed wraps persistence errors after a mutation. The mutation
// itself is kept in memory.
var ErrSaveFailed = errors.New("saving habits failed")

// Tracker owns the current State and writes it back after every change
type Tracker struct {
	store *Store
	log   *zap.Logger
	now   func() time.Time
	state State
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock overrides the wall clock used to decide what today is
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Open loads the habit list once
func Open(ctx context.Context, store *Store, log *zap.Logger, opts ...Option) (*Tracker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	list, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading habits: %w", err)
	}
	t.state = NewState(list)
	log.Debug("loaded habits", zap.Int("count", len(list)))

	return t, nil
}

// State returns the current state
func (t *Tracker) State() State {
	return t.state
}

// Habits returns the current habit list
func (t *Tracker) Habits() []models.Habit {
	return t.state.Habits
}

// Today returns the current local calendar day
func (t *Tracker) Today() time.Time {
	return calendar.Today(t.now())
}

// Resolve finds a habit by id or name
func (t *Tracker) Resolve(ref string) (models.Habit, error) {
	return t.state.Resolve(ref)
}

// Add creates a habit at the end of the list
func (t *Tracker) Add(ctx context.Context, name string) (models.Habit, error) {
	h, err := NewHabit(name)
	if err != nil {
		return models.Habit{}, err
	}
	next, err := t.state.AddHabit(h)
	if err != nil {
		return models.Habit{}, err
	}
	return h, t.commit(ctx, next)
}

// Toggle flips one day for the referenced habit and returns the new value
func (t *Tracker) Toggle(ctx context.Context, ref, key string) (bool, error) {
	h, err := t.state.Resolve(ref)
	if err != nil {
		return false, err
	}
	next, done, err := t.state.ToggleDay(h.ID, key, t.now())
	if err != nil {
		return false, err
	}
	return done, t.commit(ctx, next)
}

// Rename changes the referenced habit's name
func (t *Tracker) Rename(ctx context.Context, ref, name string) (models.Habit, error) {
	h, err := t.state.Resolve(ref)
	if err != nil {
		return models.Habit{}, err
	}
	next, err := t.state.RenameHabit(h.ID, name)
	if err != nil {
		return models.Habit{}, err
	}
	h, _ = next.Find(h.ID)
	return h, t.commit(ctx, next)
}

// Delete removes the referenced habit
func (t *Tracker) Delete(ctx context.Context, ref string) (models.Habit, error) {
	h, err := t.state.Resolve(ref)
	if err != nil {
		return models.Habit{}, err
	}
	next, err := t.state.DeleteHabit(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	return h, t.commit(ctx, next)
}

// Stats computes metrics for the referenced habit as of today
func (t *Tracker) Stats(ref string) (models.Habit, stats.Stats, error) {
	h, err := t.state.Resolve(ref)
	if err != nil {
		return models.Habit{}, stats.Stats{}, err
	}
	return h, stats.Compute(h.Completed, t.now()), nil
}

// Export returns the persisted form of the current state
func (t *Tracker) Export() ([]byte, error) {
	return t.store.Export(t.state.Habits)
}

// commit adopts next and saves it. A failed save leaves next in place so
// the following mutation retries the full write.
func (t *Tracker) commit(ctx context.Context, next State) error {
	t.state = next
	if err := t.store.Save(ctx, next.Habits); err != nil {
		t.log.Error("saving habits", zap.Int("count", len(next.Habits)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}
