package gallery

import (
	"strings"

	"github.com/jxwalker/pixnix/internal/logging"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeKey is the settings key holding the preference.
const ThemeKey = "theme"

// ParseTheme maps anything other than "dark" to light.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) Flip() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// SettingsStore is durable key-value storage.
type SettingsStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// ThemeChangedMsg is emitted after the theme flips.
type ThemeChangedMsg struct{ Theme Theme }

// ThemeToggle persists and applies the light/dark preference.
type ThemeToggle struct {
	store   SettingsStore
	current Theme
	log     *logging.Logger
}

// LoadTheme reads the stored preference. Missing, unreadable, or unknown values yield light.
func LoadTheme(store SettingsStore, log *logging.Logger) *ThemeToggle {
	if log == nil {
		log = logging.Discard()
	}
	t := &ThemeToggle{store: store, current: ThemeLight, log: log}
	if store == nil {
		return t
	}
	v, ok, err := store.Get(ThemeKey)
	if err != nil {
		log.Warnf("read theme: %v", err)
		return t
	}
	if ok {
		t.current = ParseTheme(v)
	}
	return t
}

func (t *ThemeToggle) Current() Theme { return t.current }

// Toggle flips the theme and persists it immediately. The in-memory value
// changes even if persisting fails.
func (t *ThemeToggle) Toggle() (Theme, error) {
	next := t.current.Flip()
	err := t.Set(next)
	return next, err
}

func (t *ThemeToggle) Set(v Theme) error {
	t.current = ParseTheme(string(v))
	if t.store == nil {
		return nil
	}
	if err := t.store.Set(ThemeKey, string(t.current)); err != nil {
		t.log.Warnf("persist theme: %v", err)
		return err
	}
	return nil
}
