package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jxwalker/pixnix/internal/config"
	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/state"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

type fakeFetcher struct {
	mu    sync.Mutex
	terms []string
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, q unsplash.Query) ([]unsplash.Photo, error) {
	f.mu.Lock()
	f.terms = append(f.terms, q.Term)
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]unsplash.Photo, q.PerPage)
	for i := range out {
		out[i] = unsplash.Photo{
			ID:     fmt.Sprintf("%s-%d-%d", q.Term, q.Page, i),
			Width:  1920,
			Height: 1080,
			User:   unsplash.User{Name: "Ann"},
			URLs:   unsplash.URLs{Small: "https://images.example/s", Full: "https://images.example/f"},
		}
	}
	return out, nil
}

func (f *fakeFetcher) Terms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.terms...)
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (s *fakeSaver) Save(ctx context.Context, d gallery.Detail) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, d.ID)
	if s.err != nil {
		return "", s.err
	}
	return filepath.Join("/walls", d.Filename), nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.API.PerPage = 9
	cfg.Gallery.DebounceMS = 1
	cfg.Download.DoneResetMS = 1
	cfg.Download.FallbackDelayMS = 1
	return cfg
}

// drive runs cmd and everything it spawns, feeding messages back into m.
// Spinner ticks are dropped so the loop terminates.
func drive(t *testing.T, m tea.Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 2000, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

func send(t *testing.T, m tea.Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	drive(t, m, cmd)
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

type harness struct {
	m       *model
	fetcher *fakeFetcher
	saver   *fakeSaver
	opened  []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithImages(t, nil)
}

func newHarnessWithImages(t *testing.T, images ImageSource) *harness {
	t.Helper()
	db, err := state.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{fetcher: &fakeFetcher{}, saver: &fakeSaver{}}
	h.m = New(Deps{
		Config:  testConfig(),
		Fetcher: h.fetcher,
		Images:  images,
		Saver:   h.saver,
		Store:   db,
		Open: func(u string) error {
			h.opened = append(h.opened, u)
			return nil
		},
	}).(*model)
	drive(t, h.m, h.m.Init())
	send(t, h.m, tea.WindowSizeMsg{Width: 100, Height: 28})
	return h
}

func TestInitialLoadRendersDefaultCategory(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, []string{"nature"}, h.fetcher.Terms())

	out := h.m.View()
	require.Contains(t, out, "Nature Wallpapers")
	require.Contains(t, out, "9 wallpapers")
	require.Len(t, h.m.tuiModel.Tiles(), 9)
	require.Equal(t, 3, h.m.tuiController.columns)
}

func TestTabCyclesCategories(t *testing.T) {
	h := newHarness(t)
	send(t, h.m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "abstract", h.m.tuiModel.State().Category)
	require.Equal(t, "abstract", h.fetcher.Terms()[len(h.fetcher.Terms())-1])

	send(t, h.m, tea.KeyMsg{Type: tea.KeyShiftTab})
	send(t, h.m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, "latest", h.m.tuiModel.State().Category)
	require.Equal(t, "", h.fetcher.Terms()[len(h.fetcher.Terms())-1])
}

func TestSearchIsDebounced(t *testing.T) {
	h := newHarness(t)
	send(t, h.m, keys("/"))
	require.Equal(t, focusSearch, h.m.tuiController.focus)
	send(t, h.m, keys("s"))
	send(t, h.m, keys("e"))
	send(t, h.m, keys("a"))
	send(t, h.m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, "sea", h.m.tuiModel.State().Query)
	require.Contains(t, h.fetcher.Terms(), "sea")
	require.Contains(t, h.m.View(), `Search: "sea"`)
}

func TestCategoryJumpUsesFuzzyMatch(t *testing.T) {
	h := newHarness(t)
	send(t, h.m, keys("c"))
	for _, r := range "mnt" {
		send(t, h.m, keys(string(r)))
	}
	send(t, h.m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "mountain", h.m.tuiModel.State().Category)

	send(t, h.m, keys("c"))
	for _, r := range "zzz" {
		send(t, h.m, keys(string(r)))
	}
	send(t, h.m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "mountain", h.m.tuiModel.State().Category)
	require.Contains(t, h.m.tuiModel.toasts[len(h.m.tuiModel.toasts)-1].msg, "No category matches")
}

func TestResolutionFilterCycles(t *testing.T) {
	h := newHarness(t)
	send(t, h.m, keys("r"))
	require.Equal(t, "1280x720", h.m.tuiModel.State().Filters.Resolution)
	require.Contains(t, h.m.View(), "Resolution: HD")
}

func TestOpenAndDownload(t *testing.T) {
	h := newHarness(t)
	send(t, h.m, tea.KeyMsg{Type: tea.KeyRight})
	send(t, h.m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, h.m.tuiModel.modal.Visible())
	id := h.m.tuiModel.Tiles()[1].Photo.ID
	require.Equal(t, id, h.m.tuiModel.modal.Detail().ID)
	require.Contains(t, h.m.View(), "Download")

	send(t, h.m, keys("d"))
	require.Equal(t, []string{id}, h.saver.saved)
	require.Contains(t, h.m.tuiModel.history[len(h.m.tuiModel.history)-1].msg, "Saved /walls/")
	require.Equal(t, gallery.LabelDownload, h.m.tuiModel.modal.ButtonLabel())

	send(t, h.m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, h.m.tuiModel.modal.Visible())
}

func TestDownloadFailureFallsBackToBrowser(t *testing.T) {
	h := newHarness(t)
	h.saver.err = errors.New("disk full")
	send(t, h.m, tea.KeyMsg{Type: tea.KeyEnter})
	send(t, h.m, keys("d"))

	require.Equal(t, []string{"https://images.example/f"}, h.opened)
	require.Equal(t, gallery.LabelDownload, h.m.tuiModel.modal.ButtonLabel())
	found := false
	for _, tt := range h.m.tuiModel.history {
		if strings.Contains(tt.msg, "Download failed: disk full") {
			found = true
		}
	}
	require.True(t, found)
}

func TestBackdropClickClosesModal(t *testing.T) {
	h := newHarness(t)
	send(t, h.m, tea.KeyMsg{Type: tea.KeyEnter})
	_ = h.m.View()
	r := h.m.tuiView.modalRect
	require.Greater(t, r.w, 0)

	send(t, h.m, tea.MouseMsg{X: r.x + 1, Y: r.y + 1, Type: tea.MouseLeft})
	require.True(t, h.m.tuiModel.modal.Visible())

	send(t, h.m, tea.MouseMsg{X: 0, Y: 0, Type: tea.MouseLeft})
	require.False(t, h.m.tuiModel.modal.Visible())
}

func TestThemeTogglePersists(t *testing.T) {
	h := newHarness(t)
	require.Contains(t, h.m.View(), "theme: light")
	send(t, h.m, keys("t"))
	require.Contains(t, h.m.View(), "theme: dark")
	require.Equal(t, gallery.ThemeDark, h.m.tuiView.th.name)
}

func TestLoadFailureShowsMessage(t *testing.T) {
	h := newHarness(t)
	h.fetcher.mu.Lock()
	h.fetcher.err = errors.New("boom")
	h.fetcher.mu.Unlock()
	send(t, h.m, tea.KeyMsg{Type: tea.KeyTab})
	require.Contains(t, h.m.View(), gallery.MsgLoadFailed)
}

func TestClickOnTileOpensDetail(t *testing.T) {
	h := newHarness(t)
	send(t, h.m, tea.MouseMsg{X: tileOuterW + 2, Y: headerLines + 1, Type: tea.MouseLeft})
	require.True(t, h.m.tuiModel.modal.Visible())
	require.Equal(t, h.m.tuiModel.Tiles()[1].Photo.ID, h.m.tuiModel.modal.Detail().ID)
}

func TestQuitShutsDown(t *testing.T) {
	h := newHarness(t)
	_, cmd := h.m.Update(keys("q"))
	require.NotNil(t, cmd)
	msg := cmd()
	if b, ok := msg.(tea.BatchMsg); ok {
		require.Len(t, b, 1)
		msg = b[0]()
	}
	require.IsType(t, tea.QuitMsg{}, msg)
	require.Equal(t, "", h.m.View())
}

type pngSource struct {
	mu    sync.Mutex
	calls int
	body  []byte
}

func newPNGSource(t *testing.T) *pngSource {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &pngSource{body: buf.Bytes()}
}

func (s *pngSource) Image(ctx context.Context, rawURL string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.body, nil
}

func TestFreshLoadAfterScrollActivatesVisibleTiles(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 40; i++ {
		send(t, h.m, tea.MouseMsg{X: 1, Y: headerLines + 1, Type: tea.MouseWheelDown})
	}
	require.Greater(t, h.m.tuiController.vp.YOffset, 0)
	require.True(t, h.m.tuiModel.State().Scrolled)

	send(t, h.m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "abstract", h.m.tuiModel.State().Category)
	require.Equal(t, 0, h.m.tuiController.vp.YOffset)
	require.False(t, h.m.tuiModel.State().Scrolled)

	tiles := h.m.tuiModel.Tiles()
	require.Len(t, tiles, 9)
	// the first two rows fill the 21-row viewport
	for _, tile := range tiles[:6] {
		require.NotEmpty(t, tile.Src, tile.Photo.ID)
	}
}

func TestPreviewsFollowTheGrid(t *testing.T) {
	src := newPNGSource(t)
	h := newHarnessWithImages(t, src)
	require.Len(t, h.m.tuiModel.previews, 9)
	for id := range h.m.tuiModel.previews {
		require.True(t, strings.HasPrefix(id, "nature-"), id)
	}

	send(t, h.m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotEmpty(t, h.m.tuiModel.previews)
	for id := range h.m.tuiModel.previews {
		require.True(t, strings.HasPrefix(id, "abstract-"), id)
	}
	require.Empty(t, h.m.tuiModel.fetching)

	// a late result for a photo that left the grid is ignored
	h.m.tuiModel.onPreview(previewReadyMsg{id: "nature-1-0", art: "x"})
	_, ok := h.m.tuiModel.Preview("nature-1-0")
	require.False(t, ok)
}
