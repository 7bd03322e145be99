package habit

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/clock"
)

// Slots is the persistent key/value backing a Tracker.
type Slots interface {
	Lookup(key string) (value string, ok bool, err error)
	Put(key, value string) error
}

// OperationHook observes every tracker operation with its outcome
// ("ok", "not_found", "invalid" or "persist_error").
type OperationHook func(op, result string)

type Option func(*Tracker)

func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

func WithOperationHook(h OperationHook) Option {
	return func(t *Tracker) { t.hook = h }
}

// WithDefaultTheme sets the theme used until one is stored.
func WithDefaultTheme(th Theme) Option {
	return func(t *Tracker) { t.theme = th }
}

// Tracker owns the ordered habit list. All mutation goes through its
// methods; readers get copies.
type Tracker struct {
	mu    sync.Mutex
	slots Slots
	clock clock.Clock
	log   *zap.Logger
	hook  OperationHook

	habits    []Habit
	lastReset string // stored reset marker
	clearedAt string // day the flags were last cleared; ahead of lastReset while the marker is unsaved
	theme     Theme
	fresh     bool // no habits slot existed at Open
}

// Open loads the tracker state from slots. A missing habits slot starts an
// empty list; a malformed one is an error so it is never overwritten.
func Open(slots Slots, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		slots: slots,
		clock: clock.System{},
		log:   zap.NewNop(),
		theme: ThemeLight,
	}
	for _, o := range opts {
		o(t)
	}

	raw, ok, err := slots.Lookup(KeyHabits)
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	t.fresh = !ok
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &t.habits); err != nil {
			return nil, fmt.Errorf("decode habits: %w", err)
		}
	}
	for i := range t.habits {
		if t.habits[i].CompletionHistory == nil {
			t.habits[i].CompletionHistory = []string{}
		}
	}

	if t.lastReset, _, err = slots.Lookup(KeyLastReset); err != nil {
		return nil, fmt.Errorf("load last reset: %w", err)
	}
	t.clearedAt = t.lastReset

	stored, ok, err := slots.Lookup(KeyTheme)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if ok {
		if th, err := ParseTheme(stored); err == nil {
			t.theme = th
		}
	}

	t.log.Debug("tracker opened",
		zap.Int("habits", len(t.habits)),
		zap.String("last_reset", t.lastReset),
		zap.Bool("fresh", t.fresh),
	)
	return t, nil
}

// Create appends a new habit. The name is trimmed; an empty color falls
// back to DefaultColor.
func (t *Tracker) Create(name string, category Category, color string) (Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		t.observe("create", "invalid")
		return Habit{}, ErrEmptyName
	}
	category, err := ParseCategory(string(category))
	if err != nil {
		t.observe("create", "invalid")
		return Habit{}, err
	}
	if strings.TrimSpace(color) == "" {
		color = DefaultColor
	}

	h := Habit{
		ID:                uuid.NewString(),
		Name:              name,
		Category:          category,
		Color:             color,
		CreatedAt:         t.clock.Now(),
		CompletionHistory: []string{},
	}
	t.habits = append(t.habits, h)
	t.fresh = false
	t.log.Debug("habit created", zap.String("id", h.ID), zap.String("name", h.Name))

	return h.clone(), t.persist("create")
}

// Delete removes the habit with id. ErrNotFound leaves the list untouched.
func (t *Tracker) Delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		t.observe("delete", "not_found")
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	t.habits = slices.Delete(t.habits, i, i+1)
	t.log.Debug("habit deleted", zap.String("id", id))

	return t.persist("delete")
}

// Toggle flips today's completion for id. Completing adds one to the
// streak and total and records today; un-completing subtracts one from
// each (never below zero) and removes today.
func (t *Tracker) Toggle(id string) (Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		t.observe("toggle", "not_found")
		return Habit{}, fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	// A toggle after midnight must not act on yesterday's flag.
	if _, err := t.rollover(); err != nil {
		t.log.Warn("day rollover not saved", zap.Error(err))
	}

	h := &t.habits[i]
	today := clock.Today(t.clock)
	if !h.CompletedToday {
		h.TotalCompletions++
		h.Streak++
		if !h.CompletedOn(today) {
			h.CompletionHistory = append(h.CompletionHistory, today)
		}
	} else {
		h.TotalCompletions = max(0, h.TotalCompletions-1)
		h.Streak = max(0, h.Streak-1)
		h.CompletionHistory = slices.DeleteFunc(h.CompletionHistory, func(d string) bool { return d == today })
	}
	h.CompletedToday = !h.CompletedToday

	t.log.Debug("habit toggled",
		zap.String("id", h.ID),
		zap.Bool("completed_today", h.CompletedToday),
		zap.Int("streak", h.Streak),
	)
	return h.clone(), t.persist("toggle")
}

// DailyReset clears every completedToday flag when the calendar date has
// changed since the last reset. Streaks, totals and history are untouched.
// It reports whether flags were cleared.
func (t *Tracker) DailyReset() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastReset == clock.Today(t.clock) {
		return false, nil
	}
	return t.rollover()
}

// rollover runs the reset if the day changed. Flags are cleared once per
// day; until the lastReset marker is stored, later calls only retry the
// writes so completions made in between survive. Caller holds mu.
func (t *Tracker) rollover() (bool, error) {
	today := clock.Today(t.clock)
	if t.lastReset == today {
		return false, nil
	}
	cleared := false
	if t.clearedAt != today {
		for i := range t.habits {
			t.habits[i].CompletedToday = false
		}
		t.clearedAt = today
		cleared = true
		t.log.Info("daily reset", zap.String("from", t.lastReset), zap.String("to", today), zap.Int("habits", len(t.habits)))
	}

	if err := t.persist("reset"); err != nil {
		return cleared, err
	}
	if err := t.slots.Put(KeyLastReset, today); err != nil {
		t.log.Warn("reset marker not saved", zap.Error(err))
		return cleared, &PersistenceError{Key: KeyLastReset, Err: err}
	}
	t.lastReset = today
	return cleared, nil
}

// List returns copies of all habits in insertion order, or only those in
// category when it is non-empty.
func (t *Tracker) List(category Category) []Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Habit, 0, len(t.habits))
	for _, h := range t.habits {
		if category != "" && h.Category != category {
			continue
		}
		out = append(out, h.clone())
	}
	return out
}

func (t *Tracker) Get(id string) (Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return Habit{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return t.habits[i].clone(), nil
}

// LastReset is the date of the most recent daily reset, empty if none ran.
func (t *Tracker) LastReset() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastReset
}

// Today is the tracker clock's calendar date.
func (t *Tracker) Today() string {
	return clock.Today(t.clock)
}

func (t *Tracker) index(id string) int {
	return slices.IndexFunc(t.habits, func(h Habit) bool { return h.ID == id })
}

// persist writes the full habit array. Caller holds mu.
func (t *Tracker) persist(op string) error {
	habits := t.habits
	if habits == nil {
		habits = []Habit{}
	}
	data, err := json.Marshal(habits)
	if err == nil {
		err = t.slots.Put(KeyHabits, string(data))
	}
	if err != nil {
		t.log.Warn("habits not saved", zap.String("op", op), zap.Error(err))
		t.observe(op, "persist_error")
		return &PersistenceError{Key: KeyHabits, Err: err}
	}
	t.observe(op, "ok")
	return nil
}

func (t *Tracker) observe(op, result string) {
	if t.hook != nil {
		t.hook(op, result)
	}
}
