package gallery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jxwalker/pixnix/internal/state"
)

type brokenStore struct{}

func (brokenStore) Get(string) (string, bool, error) { return "", false, errors.New("locked") }
func (brokenStore) Set(string, string) error         { return errors.New("locked") }

func TestThemeDefaultsToLight(t *testing.T) {
	db, err := state.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	tt := LoadTheme(db, nil)
	require.Equal(t, ThemeLight, tt.Current())
	require.Equal(t, ThemeLight, LoadTheme(brokenStore{}, nil).Current())
	require.Equal(t, ThemeLight, LoadTheme(nil, nil).Current())
}

func TestThemeTogglePersists(t *testing.T) {
	db, err := state.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	tt := LoadTheme(db, nil)
	next, err := tt.Toggle()
	require.NoError(t, err)
	require.Equal(t, ThemeDark, next)

	v, ok, err := db.GetSetting(ThemeKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dark", v)
	require.Equal(t, ThemeDark, LoadTheme(db, nil).Current())

	next, err = tt.Toggle()
	require.NoError(t, err)
	require.Equal(t, ThemeLight, next)
	require.Equal(t, ThemeLight, LoadTheme(db, nil).Current())
}

func TestThemeUnknownValueFallsBack(t *testing.T) {
	db, err := state.OpenMemory()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.SetSetting(ThemeKey, "solarized"))
	require.Equal(t, ThemeLight, LoadTheme(db, nil).Current())
	require.Equal(t, ThemeDark, ParseTheme(" DARK "))
}

func TestThemeToggleReportsPersistFailure(t *testing.T) {
	tt := LoadTheme(brokenStore{}, nil)
	next, err := tt.Toggle()
	require.Error(t, err)
	require.Equal(t, ThemeDark, next)
	require.Equal(t, ThemeDark, tt.Current())
}
