package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/semaphore"

	"github.com/jxwalker/pixnix/internal/config"
	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/preview"
)

// ImageSource fetches preview bodies.
type ImageSource interface {
	Image(ctx context.Context, rawURL string) ([]byte, error)
}

// Deps is everything the TUI needs from the outside world. Nil Saver,
// Tracker, Images, or Store disable the matching feature.
type Deps struct {
	Ctx     context.Context
	Config  *config.Config
	Fetcher gallery.Fetcher
	Images  ImageSource
	Saver   gallery.Saver
	Tracker gallery.Tracker
	Store   gallery.SettingsStore
	Open    gallery.Opener
	Log     *logging.Logger
}

// Tile geometry. Every tile occupies exactly tileOuterW x tileOuterH cells.
const (
	tileInnerW  = 26
	tileOuterW  = tileInnerW + 4 // padding + border
	previewRows = 6
	tileLines   = previewRows + 3 // title, byline, badge
	tileOuterH  = tileLines + 2
	previewPx   = 200
)

const (
	maxHistory        = 20
	maxPreviewFetches = 4
)

type previewReadyMsg struct {
	id  string
	art string
	err error
}

type toast struct {
	msg  string
	bad  bool
	when time.Time
	ttl  time.Duration
}

// TUIModel owns the gallery components and the data derived from them.
type TUIModel struct {
	cfg        *config.Config
	apiHost    string
	ctx        context.Context
	log        *logging.Logger
	images     ImageSource
	open       gallery.Opener
	gallery    *gallery.Controller
	modal      *gallery.Modal
	theme      *gallery.ThemeToggle
	categories gallery.Categories
	previews   map[string]string
	fetching   map[string]bool
	fetchSlots *semaphore.Weighted
	toasts     []toast
	history    []toast
}

func NewTUIModel(d Deps) *TUIModel {
	ctx := d.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}
	open := d.Open
	if open == nil {
		open = openInBrowser
	}
	ctl := gallery.NewController(ctx, d.Fetcher, gallery.Options{
		DefaultCategory: cfg.Gallery.DefaultCategory,
		PerPage:         cfg.API.PerPage,
		Debounce:        time.Duration(cfg.Gallery.DebounceMS) * time.Millisecond,
		ScrollThreshold: cfg.Gallery.ScrollThresholdRows,
		LazyMargin:      cfg.Gallery.LazyMarginRows,
		ScrolledOffset:  1,
		Log:             log,
	})
	modal := gallery.NewModal(ctx, d.Saver, d.Tracker, open, gallery.ModalOptions{
		AppName:         cfg.General.AppName,
		FilenamePattern: cfg.Download.FilenamePattern,
		DoneReset:       time.Duration(cfg.Download.DoneResetMS) * time.Millisecond,
		FallbackDelay:   time.Duration(cfg.Download.FallbackDelayMS) * time.Millisecond,
		Log:             log,
	})
	images := d.Images
	if !cfg.UI.Previews {
		images = nil
	}
	return &TUIModel{
		cfg:        cfg,
		apiHost:    hostOf(cfg.API.BaseURL),
		ctx:        ctx,
		log:        log,
		images:     images,
		open:       open,
		gallery:    ctl,
		modal:      modal,
		theme:      gallery.LoadTheme(d.Store, log),
		categories: gallery.Categories(cfg.Gallery.Categories),
		previews:   make(map[string]string),
		fetching:   make(map[string]bool),
		fetchSlots: semaphore.NewWeighted(maxPreviewFetches),
	}
}

// State is a snapshot of the gallery state.
func (m *TUIModel) State() gallery.State { return m.gallery.State() }

func (m *TUIModel) Tiles() []*gallery.Tile { return m.gallery.Tiles() }

func (m *TUIModel) Preview(id string) (string, bool) {
	art, ok := m.previews[id]
	return art, ok
}

// previewCmd fetches and renders the thumbnail for one activated tile.
// At most maxPreviewFetches requests run at once.
func (m *TUIModel) previewCmd(pm gallery.PreviewMsg) tea.Cmd {
	if m.images == nil || pm.Src == "" {
		return nil
	}
	if _, ok := m.previews[pm.ID]; ok || m.fetching[pm.ID] {
		return nil
	}
	m.fetching[pm.ID] = true
	ctx, src, images, slots := m.ctx, preview.SizedURL(pm.Src, previewPx), m.images, m.fetchSlots
	return func() tea.Msg {
		if err := slots.Acquire(ctx, 1); err != nil {
			return previewReadyMsg{id: pm.ID, err: err}
		}
		defer slots.Release(1)
		b, err := images.Image(ctx, src)
		if err != nil {
			return previewReadyMsg{id: pm.ID, err: err}
		}
		img, err := preview.Decode(b)
		if err != nil {
			return previewReadyMsg{id: pm.ID, err: err}
		}
		return previewReadyMsg{id: pm.ID, art: preview.Render(img, tileInnerW, previewRows)}
	}
}

// onPreview stores a finished thumbnail. Results for tiles pruned since the
// fetch started are dropped.
func (m *TUIModel) onPreview(msg previewReadyMsg) {
	if !m.fetching[msg.id] {
		return
	}
	delete(m.fetching, msg.id)
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.log.Debugf("preview %s: %v", msg.id, msg.err)
		}
		m.previews[msg.id] = preview.Placeholder(nil, tileInnerW, previewRows)
		return
	}
	m.previews[msg.id] = msg.art
}

// prunePreviews forgets thumbnails and pending fetches for photos that are
// no longer on the grid.
func (m *TUIModel) prunePreviews() {
	keep := make(map[string]bool, len(m.Tiles()))
	for _, t := range m.Tiles() {
		keep[t.Photo.ID] = true
	}
	for id := range m.previews {
		if !keep[id] {
			delete(m.previews, id)
		}
	}
	for id := range m.fetching {
		if !keep[id] {
			delete(m.fetching, id)
		}
	}
}

// CategoryAt returns the category offset by delta from the current one, wrapping.
func (m *TUIModel) CategoryAt(delta int) string {
	if len(m.categories) == 0 {
		return ""
	}
	i := m.categories.Index(m.gallery.State().Category)
	if i < 0 {
		i = 0
		if delta > 0 {
			delta--
		}
	}
	n := len(m.categories)
	return m.categories[((i+delta)%n+n)%n]
}

// NextResolution cycles the resolution bucket.
func (m *TUIModel) NextResolution() string {
	cur := m.gallery.State().Filters.Resolution
	for i, b := range gallery.ResolutionBuckets {
		if b.Value == cur {
			return gallery.ResolutionBuckets[(i+1)%len(gallery.ResolutionBuckets)].Value
		}
	}
	return gallery.ResolutionBuckets[0].Value
}

// NextDevice cycles the device filter.
func (m *TUIModel) NextDevice() string {
	cur := m.gallery.State().Filters.Device
	for i, d := range gallery.Devices {
		if d == cur {
			return string(gallery.Devices[(i+1)%len(gallery.Devices)])
		}
	}
	return string(gallery.Devices[0])
}

// Toast notifications

func (m *TUIModel) addToast(s string, bad bool) {
	t := toast{msg: s, bad: bad, when: time.Now(), ttl: 5 * time.Second}
	m.toasts = append(m.toasts, t)
	m.history = append(m.history, t)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.gcToasts()
}

func (m *TUIModel) gcToasts() {
	now := time.Now()
	fresh := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Sub(t.when) < t.ttl {
			fresh = append(fresh, t)
		}
	}
	m.toasts = fresh
}
