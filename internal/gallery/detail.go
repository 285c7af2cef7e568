package gallery

import (
	"context"
	"net/url"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jxwalker/pixnix/internal/classifier"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/unsplash"
	"github.com/jxwalker/pixnix/internal/util"
)

// Download button labels.
const (
	LabelDownload    = "Download"
	LabelDownloading = "Downloading…"
	LabelDownloaded  = "Downloaded ✓"
	LabelFailed      = "Download failed"
)

// Detail is everything the modal shows for one photo.
type Detail struct {
	ID               string
	Title            string
	Author           string
	AuthorURL        string
	Resolution       string
	Width            int
	Height           int
	Likes            int
	Orientation      string
	PageURL          string
	DownloadURL      string
	DownloadLocation string
	Filename         string
}

// Referral appends utm_source=<app>&utm_medium=referral to raw.
func Referral(raw, app string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	ref := "utm_source=" + url.QueryEscape(app) + "&utm_medium=referral"
	if u.RawQuery == "" {
		u.RawQuery = ref
	} else {
		u.RawQuery += "&" + ref
	}
	return u.String()
}

// Filename expands the download pattern for p. Tokens: {id} {width} {height} {author}.
func Filename(pattern string, p unsplash.Photo) string {
	if pattern == "" {
		pattern = "pixnix-{id}-{width}x{height}.jpg"
	}
	name := util.ExpandPattern(pattern, map[string]string{
		"id":     p.ID,
		"width":  strconv.Itoa(p.Width),
		"height": strconv.Itoa(p.Height),
		"author": p.User.Username,
	})
	return util.SafeFileName(name)
}

// NewDetail builds the modal contents for p.
func NewDetail(p unsplash.Photo, app, pattern string) Detail {
	if app == "" {
		app = "pixnix"
	}
	return Detail{
		ID:               p.ID,
		Title:            p.Title(),
		Author:           p.Author(),
		AuthorURL:        Referral(p.User.Links.HTML, app),
		Resolution:       p.Resolution(),
		Width:            p.Width,
		Height:           p.Height,
		Likes:            p.Likes,
		Orientation:      classifier.Orientation(p.Width, p.Height),
		PageURL:          Referral(p.Links.HTML, app),
		DownloadURL:      p.BestURL(),
		DownloadLocation: p.Links.DownloadLocation,
		Filename:         Filename(pattern, p),
	}
}

// Saver stores the asset for d and returns where it was written.
type Saver interface {
	Save(ctx context.Context, d Detail) (string, error)
}

// Tracker reports a download selection to the photo API.
type Tracker interface {
	TrackDownload(ctx context.Context, downloadLocation string) error
}

// Opener opens a URL in the system browser.
type Opener func(rawURL string) error

// Modal intents.
type (
	OpenDetailMsg  struct{ Photo unsplash.Photo }
	CloseDetailMsg struct{}
	DownloadMsg    struct{}
)

// DownloadFinishedMsg is emitted when a download for the current opening ends.
type DownloadFinishedMsg struct {
	Detail Detail
	Path   string
	Err    error
}

// BrowserFallbackMsg is emitted after the fallback tried to open the asset URL.
type BrowserFallbackMsg struct {
	URL string
	Err error
}

type downloadDoneMsg struct {
	token uint64
	path  string
	err   error
}

type labelResetMsg struct{ token uint64 }

type fallbackMsg struct {
	token uint64
	url   string
}

type trackedMsg struct{ err error }

type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonDownloading
	ButtonDone
	ButtonFailed
)

type ModalOptions struct {
	AppName         string
	FilenamePattern string
	DoneReset       time.Duration
	FallbackDelay   time.Duration
	Log             *logging.Logger
}

// Modal is the detail view. Every Open issues a new token; completions carrying
// an older token never touch the button.
type Modal struct {
	ctx     context.Context
	saver   Saver
	tracker Tracker
	open    Opener
	opts    ModalOptions

	visible bool
	detail  Detail
	token   uint64
	button  ButtonState
	saved   string
}

func NewModal(ctx context.Context, s Saver, t Tracker, open Opener, opts ModalOptions) *Modal {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.DoneReset <= 0 {
		opts.DoneReset = 2 * time.Second
	}
	if opts.FallbackDelay <= 0 {
		opts.FallbackDelay = 1500 * time.Millisecond
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	return &Modal{ctx: ctx, saver: s, tracker: t, open: open, opts: opts}
}

func (m *Modal) Visible() bool       { return m.visible }
func (m *Modal) Detail() Detail      { return m.detail }
func (m *Modal) Button() ButtonState { return m.button }
func (m *Modal) SavedPath() string   { return m.saved }

func (m *Modal) ButtonLabel() string {
	switch m.button {
	case ButtonDownloading:
		return LabelDownloading
	case ButtonDone:
		return LabelDownloaded
	case ButtonFailed:
		return LabelFailed
	default:
		return LabelDownload
	}
}

func (m *Modal) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OpenDetailMsg:
		return m.Open(msg.Photo)
	case CloseDetailMsg:
		m.Close()
	case DownloadMsg:
		return m.Download()
	case downloadDoneMsg:
		return m.onDownloadDone(msg)
	case labelResetMsg:
		if msg.token == m.token && m.button == ButtonDone {
			m.button = ButtonIdle
		}
	case fallbackMsg:
		return m.onFallback(msg)
	case trackedMsg:
		// result already logged by the tracking command
	}
	return nil
}

// Open shows p and fires the attribution tracking request.
func (m *Modal) Open(p unsplash.Photo) tea.Cmd {
	m.token++
	m.detail = NewDetail(p, m.opts.AppName, m.opts.FilenamePattern)
	m.button = ButtonIdle
	m.saved = ""
	m.visible = true
	return m.track(m.detail.DownloadLocation)
}

func (m *Modal) Close() {
	m.visible = false
}

// Download saves the current photo. Repeated presses while downloading are ignored.
func (m *Modal) Download() tea.Cmd {
	if !m.visible || m.button == ButtonDownloading || m.saver == nil {
		return nil
	}
	m.button = ButtonDownloading
	token, d, ctx, s := m.token, m.detail, m.ctx, m.saver
	return func() tea.Msg {
		path, err := s.Save(ctx, d)
		return downloadDoneMsg{token: token, path: path, err: err}
	}
}

func (m *Modal) onDownloadDone(msg downloadDoneMsg) tea.Cmd {
	d := m.detail
	if msg.token != m.token {
		m.opts.Log.Debugf("ignoring download completion from an earlier opening")
		return nil
	}
	finished := func() tea.Msg { return DownloadFinishedMsg{Detail: d, Path: msg.path, Err: msg.err} }
	if msg.err != nil {
		m.opts.Log.Errorf("download %s: %v", d.ID, msg.err)
		m.button = ButtonFailed
		fm := fallbackMsg{token: msg.token, url: d.DownloadURL}
		return tea.Batch(finished, tea.Tick(m.opts.FallbackDelay, func(time.Time) tea.Msg { return fm }))
	}
	m.button = ButtonDone
	m.saved = msg.path
	reset := labelResetMsg{token: msg.token}
	return tea.Batch(finished, tea.Tick(m.opts.DoneReset, func(time.Time) tea.Msg { return reset }))
}

// onFallback opens the asset URL in the browser. The label is only restored
// if the same opening is still showing.
func (m *Modal) onFallback(msg fallbackMsg) tea.Cmd {
	if msg.token == m.token && m.button == ButtonFailed {
		m.button = ButtonIdle
	}
	if msg.url == "" || m.open == nil {
		return nil
	}
	open, u := m.open, msg.url
	return func() tea.Msg {
		return BrowserFallbackMsg{URL: u, Err: open(u)}
	}
}

func (m *Modal) track(loc string) tea.Cmd {
	if m.tracker == nil || loc == "" {
		return nil
	}
	ctx, t, log := m.ctx, m.tracker, m.opts.Log
	return func() tea.Msg {
		err := t.TrackDownload(ctx, loc)
		if err != nil {
			log.Warnf("track download %s: %v", logging.SanitizeURL(loc), err)
		}
		return trackedMsg{err: err}
	}
}
