package gallery

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jxwalker/pixnix/internal/unsplash"
)

type updater interface {
	Update(tea.Msg) tea.Cmd
}

// run executes cmd and every command it produces, feeding messages back into u.
// Messages are returned in the order they were delivered.
func run(t *testing.T, u updater, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			out = append(out, msg)
			queue = append(queue, u.Update(msg))
		}
	}
	return out
}

func photos(prefix string, n, w, h int) []unsplash.Photo {
	out := make([]unsplash.Photo, n)
	for i := range out {
		out[i] = unsplash.Photo{
			ID:     fmt.Sprintf("%s%d", prefix, i),
			Width:  w,
			Height: h,
			User:   unsplash.User{Name: "Author"},
			URLs:   unsplash.URLs{Small: fmt.Sprintf("https://images.example/%s%d/small", prefix, i), Full: fmt.Sprintf("https://images.example/%s%d/full", prefix, i)},
		}
	}
	return out
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []unsplash.Query
	reply func(q unsplash.Query) ([]unsplash.Photo, error)
}

func (f *fakeFetcher) Fetch(ctx context.Context, q unsplash.Query) ([]unsplash.Photo, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	reply := f.reply
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if reply == nil {
		return photos("p", 30, 1920, 1080), nil
	}
	return reply(q)
}

func (f *fakeFetcher) Calls() []unsplash.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]unsplash.Query(nil), f.calls...)
}

func newTestController(f Fetcher) *Controller {
	return NewController(context.Background(), f, Options{
		DefaultCategory: "nature",
		PerPage:         30,
		Debounce:        10 * time.Millisecond,
		ScrollThreshold: 10,
		LazyMargin:      1,
	})
}
