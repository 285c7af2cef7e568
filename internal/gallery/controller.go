package gallery

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

// Fetcher retrieves one page of photos.
type Fetcher interface {
	Fetch(ctx context.Context, q unsplash.Query) ([]unsplash.Photo, error)
}

// Intents accepted by Controller.Update.
type (
	ChangeCategoryMsg struct{ Category string }
	// SearchMsg is sent on every keystroke; the controller debounces it.
	SearchMsg       struct{ Query string }
	ChangeFilterMsg struct{ Kind, Value string }
	LoadMoreMsg     struct{}
	// ScrollMsg reports the scroll surface geometry in rows.
	ScrollMsg struct{ Top, ClientHeight, ScrollHeight int }
	// LayoutMsg tells the controller how tiles are placed after a resize.
	LayoutMsg struct{ Layout GridLayout }
)

// Filter kinds for ChangeFilterMsg.
const (
	FilterResolution = "resolution"
	FilterDevice     = "device"
)

// PreviewMsg is emitted for each tile the lazy loader activates.
type PreviewMsg struct {
	ID  string
	Src string
}

// PageLoadedMsg is emitted after a page result has been applied to State.
type PageLoadedMsg struct {
	Append bool
	Count  int
	Err    error
}

type searchFireMsg struct{ query string }

type pageMsg struct {
	gen    uint64
	append bool
	query  unsplash.Query
	photos []unsplash.Photo
	err    error
}

type Options struct {
	DefaultCategory string
	PerPage         int
	Debounce        time.Duration
	ScrollThreshold int // distance from the bottom that triggers LoadMore
	LazyMargin      int
	ScrolledOffset  int // Top beyond which the header switches to its scrolled style
	Log             *logging.Logger
}

func (o *Options) defaults() {
	if o.PerPage <= 0 {
		o.PerPage = unsplash.DefaultPerPage
	}
	if o.Debounce == 0 {
		o.Debounce = DefaultDebounce
	}
	if o.ScrollThreshold <= 0 {
		o.ScrollThreshold = 10
	}
	if o.LazyMargin < 0 {
		o.LazyMargin = 0
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
}

// Controller drives fetch, filter, and render cycles over one State.
type Controller struct {
	state    State
	grid     *Grid
	fetcher  Fetcher
	opts     Options
	debounce *Debouncer

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64

	layout     Layout
	scroll     ScrollMsg
	nearBottom bool
}

func NewController(ctx context.Context, f Fetcher, opts Options) *Controller {
	opts.defaults()
	if ctx == nil {
		ctx = context.Background()
	}
	c := &Controller{
		state:    NewState(opts.DefaultCategory),
		grid:     NewGrid(),
		fetcher:  f,
		opts:     opts,
		debounce: NewDebouncer(opts.Debounce),
		parent:   ctx,
		layout:   GridLayout{Columns: 1, TileHeight: 1},
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	return c
}

func (c *Controller) State() State       { return c.state }
func (c *Controller) Tiles() []*Tile     { return c.grid.Tiles }
func (c *Controller) PerPage() int       { return c.opts.PerPage }
func (c *Controller) Layout() Layout     { return c.layout }
func (c *Controller) Generation() uint64 { return c.gen }

// Init starts the first load for the default category.
func (c *Controller) Init() tea.Cmd {
	return c.LoadImages(false)
}

// Update consumes one message. It is the only place State changes.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ChangeCategoryMsg:
		return c.ChangeCategory(msg.Category)
	case SearchMsg:
		return c.Search(msg.Query)
	case DebouncedMsg:
		inner, ok := c.debounce.Accept(msg)
		if !ok {
			return nil
		}
		return c.Update(inner)
	case searchFireMsg:
		return c.fireSearch(msg.query)
	case ChangeFilterMsg:
		return c.ChangeFilter(msg.Kind, msg.Value)
	case LoadMoreMsg:
		return c.LoadMore()
	case ScrollMsg:
		return c.onScroll(msg)
	case LayoutMsg:
		c.layout = msg.Layout
		return c.rescan()
	case pageMsg:
		return c.onPage(msg)
	}
	return nil
}

// ChangeCategory switches to category and starts a fresh load, superseding any
// cycle in flight and any pending search.
func (c *Controller) ChangeCategory(category string) tea.Cmd {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}
	c.debounce.Cancel()
	c.state.Category = category
	c.state.CategoryActive = true
	c.state.Query = ""
	c.state.Page = 1
	c.state.HasMore = true
	c.supersede()
	return c.LoadImages(false)
}

// Search schedules a debounced search for q.
func (c *Controller) Search(q string) tea.Cmd {
	return c.debounce.Schedule(searchFireMsg{query: q})
}

func (c *Controller) fireSearch(q string) tea.Cmd {
	c.state.Query = strings.TrimSpace(q)
	c.state.CategoryActive = false
	c.state.Page = 1
	c.state.HasMore = true
	c.supersede()
	return c.LoadImages(false)
}

// ChangeFilter updates one filter and re-derives the rendered list without
// touching the network. When filtering leaves less than a page and more pages
// exist, one supplemental page is requested.
func (c *Controller) ChangeFilter(kind, value string) tea.Cmd {
	switch kind {
	case FilterResolution:
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "" {
			v = ResolutionAll
		}
		c.state.Filters.Resolution = v
	case FilterDevice:
		d, ok := ParseDevice(value)
		if !ok {
			c.opts.Log.Warnf("unknown device filter %q", value)
			return nil
		}
		c.state.Filters.Device = d
	default:
		c.opts.Log.Warnf("unknown filter kind %q", kind)
		return nil
	}
	c.grid.Refilter(&c.state)
	cmds := []tea.Cmd{c.rescan()}
	if len(c.state.Photos) < c.opts.PerPage && c.state.HasMore {
		cmds = append(cmds, c.LoadMore())
	}
	return tea.Batch(cmds...)
}

// LoadImages fetches the current page. It is a no-op while a load is in flight.
func (c *Controller) LoadImages(appendMode bool) tea.Cmd {
	if c.state.Loading {
		return nil
	}
	c.state.Loading = true
	c.state.Notice = ""
	q := unsplash.Query{
		Term:    c.state.EffectiveTerm(),
		Page:    c.state.Page,
		PerPage: c.opts.PerPage,
	}
	if q.Term != "" {
		q.Orientation = unsplash.OrientationForDevice(string(c.state.Filters.Device))
	}
	gen, ctx, f := c.gen, c.ctx, c.fetcher
	c.opts.Log.Debugf("load gen=%d term=%q page=%d append=%t", gen, q.Term, q.Page, appendMode)
	return func() tea.Msg {
		photos, err := f.Fetch(ctx, q)
		return pageMsg{gen: gen, append: appendMode, query: q, photos: photos, err: err}
	}
}

// LoadMore requests the next page. It is a no-op while a load is in flight.
func (c *Controller) LoadMore() tea.Cmd {
	if c.state.Loading {
		return nil
	}
	c.state.Page++
	return c.LoadImages(true)
}

// Shutdown cancels any in-flight request and pending search.
func (c *Controller) Shutdown() {
	c.debounce.Cancel()
	c.cancel()
}

// supersede invalidates the in-flight cycle so a fresh load can start.
func (c *Controller) supersede() {
	c.cancel()
	c.gen++
	c.ctx, c.cancel = context.WithCancel(c.parent)
	c.state.Loading = false
	c.nearBottom = false
}

func (c *Controller) onPage(m pageMsg) tea.Cmd {
	if m.gen != c.gen {
		c.opts.Log.Debugf("dropping stale page gen=%d current=%d", m.gen, c.gen)
		return nil
	}
	c.state.Loading = false
	if !m.append {
		// a fresh result set is shown from the top of the surface
		c.scroll.Top = 0
		c.state.Scrolled = false
	}
	done := func(count int, err error) tea.Cmd {
		return func() tea.Msg { return PageLoadedMsg{Append: m.append, Count: count, Err: err} }
	}

	if m.err != nil {
		if !errors.Is(m.err, context.Canceled) {
			c.opts.Log.Errorf("fetch %q page %d: %v", m.query.Term, m.query.Page, m.err)
		}
		c.state.HasMore = false
		if m.append {
			c.state.Notice = NoticeAppendFailed
		} else {
			c.grid.Clear(&c.state)
			c.state.Message = MsgLoadFailed
		}
		return done(0, m.err)
	}

	if len(m.photos) == 0 {
		c.state.HasMore = false
		if !m.append {
			c.grid.Clear(&c.state)
			c.state.Message = MsgNoResults
		}
		return done(0, nil)
	}

	c.state.Message = ""
	c.grid.Render(&c.state, m.photos, m.append)
	c.state.HasMore = len(m.photos) == c.opts.PerPage
	return tea.Batch(done(len(m.photos), nil), c.rescan())
}

func (c *Controller) onScroll(m ScrollMsg) tea.Cmd {
	c.scroll = m
	c.state.Scrolled = m.Top > c.opts.ScrolledOffset
	cmds := []tea.Cmd{c.rescan()}
	if m.ScrollHeight-m.Top-m.ClientHeight < c.opts.ScrollThreshold {
		if !c.nearBottom && c.state.HasMore && !c.state.Loading {
			c.nearBottom = true
			cmds = append(cmds, c.LoadMore())
		}
	} else {
		c.nearBottom = false
	}
	return tea.Batch(cmds...)
}

// rescan runs the lazy loader over the last known viewport.
func (c *Controller) rescan() tea.Cmd {
	activated := c.grid.Lazy.Scan(c.grid.Tiles, c.layout, c.scroll.Top, c.scroll.ClientHeight, c.opts.LazyMargin)
	if len(activated) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(activated))
	for _, t := range activated {
		pm := PreviewMsg{ID: t.Photo.ID, Src: t.Src}
		cmds = append(cmds, func() tea.Msg { return pm })
	}
	return tea.Batch(cmds...)
}
