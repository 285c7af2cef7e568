package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerOnlyLastSurvives(t *testing.T) {
	d := NewDebouncer(5 * time.Millisecond)
	first := d.Schedule("one")
	second := d.Schedule("two")

	require.Nil(t, first(), "superseded command returns nil")
	msg := second()
	dm, ok := msg.(DebouncedMsg)
	require.True(t, ok)
	require.True(t, d.Pending())
	inner, ok := d.Accept(dm)
	require.True(t, ok)
	require.Equal(t, "two", inner)
	require.False(t, d.Pending())
}

func TestDebouncerRejectsLateFire(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	cmd := d.Schedule("old")
	dm := cmd().(DebouncedMsg)

	// a newer schedule landed before the old message was processed
	_ = d.Schedule("new")
	_, ok := d.Accept(dm)
	require.False(t, ok)
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(time.Hour)
	cmd := d.Schedule("x")
	d.Cancel()
	require.Nil(t, cmd())
	require.False(t, d.Pending())
	require.Equal(t, time.Hour, d.Delay())
}
