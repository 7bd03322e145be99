package habit

import "go.uber.org/zap"

var demoHabits = []struct {
	name     string
	category Category
	color    string
}{
	{"Drink 8 glasses of water", Health, "#6366f1"},
	{"Read for 30 minutes", Learning, "#10b981"},
	{"Exercise for 20 minutes", Health, "#f59e0b"},
}

// Fresh reports whether no habit list has ever been stored.
func (t *Tracker) Fresh() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fresh
}

// SeedDemo adds the starter habits on a first run. A list the user
// emptied on purpose is left alone.
func (t *Tracker) SeedDemo() error {
	if !t.Fresh() {
		return nil
	}
	for _, d := range demoHabits {
		if _, err := t.Create(d.name, d.category, d.color); err != nil {
			return err
		}
	}
	t.log.Info("seeded demo habits", zap.Int("count", len(demoHabits)))
	return nil
}
