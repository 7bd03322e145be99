package habit

import (
	"fmt"

	"go.uber.org/zap"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t *Tracker) Theme() Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.theme
}

// ToggleTheme flips between light and dark and stores the choice.
func (t *Tracker) ToggleTheme() (Theme, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.theme = t.theme.Toggled()
	if err := t.slots.Put(KeyTheme, string(t.theme)); err != nil {
		t.log.Warn("theme not saved", zap.Error(err))
		return t.theme, &PersistenceError{Key: KeyTheme, Err: err}
	}
	return t.theme, nil
}
