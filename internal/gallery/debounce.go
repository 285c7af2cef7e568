package gallery

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDebounce is the quiet period before a search fires.
const DefaultDebounce = 500 * time.Millisecond

// DebouncedMsg is delivered when a scheduled message survives its quiet period.
// Pass it back to Debouncer.Accept; a superseded one is rejected.
type DebouncedMsg struct {
	seq uint64
	Msg tea.Msg
}

// Debouncer is a cancellable timer. Each Schedule stops the previous timer and
// closes its cancel channel so the earlier command returns nil.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel chan struct{}
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule cancels anything pending and returns a command that yields a
// DebouncedMsg wrapping msg after the delay.
func (d *Debouncer) Schedule(msg tea.Msg) tea.Cmd {
	d.mu.Lock()
	d.stopLocked()
	d.seq++
	seq := d.seq
	t := time.NewTimer(d.delay)
	cancel := make(chan struct{})
	d.timer, d.cancel = t, cancel
	d.mu.Unlock()

	return func() tea.Msg {
		select {
		case <-t.C:
			return DebouncedMsg{seq: seq, Msg: msg}
		case <-cancel:
			return nil
		}
	}
}

// Cancel drops the pending message, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.stopLocked()
	d.seq++
	d.mu.Unlock()
}

// Accept unwraps m if it belongs to the most recent Schedule.
// A timer can fire just as a newer Schedule lands; the sequence check catches that.
func (d *Debouncer) Accept(m DebouncedMsg) (tea.Msg, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m.seq != d.seq {
		return nil, false
	}
	d.timer, d.cancel = nil, nil
	return m.Msg, true
}

// Pending reports whether a scheduled message has not fired or been accepted yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		close(d.cancel)
	}
	d.timer, d.cancel = nil, nil
}
