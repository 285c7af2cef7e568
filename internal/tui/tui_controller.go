package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/unsplash"
)

type focus int

const (
	focusGrid focus = iota
	focusSearch
	focusJump
)

// Rows above and below the grid viewport.
const (
	headerLines = 5
	footerLines = 2
)

type TUIController struct {
	model       *TUIModel
	view        *TUIView
	keys        keyMap
	help        help.Model
	spin        spinner.Model
	vp          viewport.Model
	searchInput textinput.Model
	jumpInput   textinput.Model
	focus       focus
	selected    int
	showHelp    bool
	showToasts  bool
	width       int
	height      int
	columns     int
	quitting    bool
}

func NewTUIController(model *TUIModel, view *TUIView) *TUIController {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search wallpapers..."
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 100

	jumpInput := textinput.New()
	jumpInput.Placeholder = "category"
	jumpInput.Prompt = "category> "
	jumpInput.CharLimit = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &TUIController{
		model:       model,
		view:        view,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spin:        sp,
		vp:          viewport.New(0, 0),
		searchInput: searchInput,
		jumpInput:   jumpInput,
		columns:     1,
	}
}

func (c *TUIController) Init() tea.Cmd {
	c.view.SetTheme(c.model.theme.Current())
	return tea.Batch(c.model.gallery.Init(), c.spin.Tick)
}

func (c *TUIController) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmds = append(cmds, c.resize(msg.Width, msg.Height))

	case tea.KeyMsg:
		cmds = append(cmds, c.handleKeyMsg(msg))

	case tea.MouseMsg:
		cmds = append(cmds, c.handleMouse(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		cmds = append(cmds, cmd)

	case gallery.PreviewMsg:
		cmds = append(cmds, c.model.previewCmd(msg))

	case previewReadyMsg:
		c.model.onPreview(msg)

	case gallery.PageLoadedMsg:
		c.onPageLoaded(msg)

	case gallery.DownloadFinishedMsg:
		if msg.Err != nil {
			c.model.addToast("Download failed: "+firstLine(msg.Err)+" (opening in browser)", true)
		} else {
			c.model.addToast("Saved "+msg.Path+" "+sizeOf(msg.Path), false)
		}

	case gallery.BrowserFallbackMsg:
		if msg.Err != nil {
			c.model.addToast("Could not open browser: "+msg.Err.Error(), true)
		}

	case gallery.ThemeChangedMsg:
		c.view.SetTheme(msg.Theme)

	default:
		// Controller and modal internals: debounce, pages, download and tracking results.
		cmds = append(cmds, c.model.gallery.Update(msg), c.model.modal.Update(msg))
	}
	c.refresh()
	return tea.Batch(cmds...)
}

func (c *TUIController) onPageLoaded(msg gallery.PageLoadedMsg) {
	if !msg.Append {
		c.selected = 0
		c.vp.GotoTop()
		c.model.prunePreviews()
	}
	if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
		c.model.addToast(firstLine(unsplash.Friendly(msg.Err, c.model.apiHost)), true)
	}
}

func (c *TUIController) resize(w, h int) tea.Cmd {
	c.width, c.height = w, h
	c.view.SetSize(w, h)
	c.help.Width = w
	c.searchInput.Width = max(10, w-4)
	c.vp.Width = w
	c.vp.Height = max(1, h-headerLines-footerLines)
	c.columns = max(1, w/tileOuterW)
	layout := gallery.GridLayout{Columns: c.columns, TileHeight: tileOuterH}
	c.refresh()
	return tea.Batch(c.model.gallery.Update(gallery.LayoutMsg{Layout: layout}), c.scrolled())
}

// refresh rebuilds the grid content; the viewport keeps its offset.
func (c *TUIController) refresh() {
	c.model.gcToasts()
	tiles := c.model.Tiles()
	if c.selected >= len(tiles) {
		c.selected = max(0, len(tiles)-1)
	}
	c.vp.SetContent(c.view.renderGrid(c.model, c.selected, c.columns))
}

// scrolled reports the viewport geometry to the gallery controller.
func (c *TUIController) scrolled() tea.Cmd {
	return c.model.gallery.Update(gallery.ScrollMsg{
		Top:          c.vp.YOffset,
		ClientHeight: c.vp.Height,
		ScrollHeight: c.vp.TotalLineCount(),
	})
}

func (c *TUIController) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return c.quit()
	}
	if c.showHelp {
		if key.Matches(msg, c.keys.Help, c.keys.Close) || msg.String() == "q" {
			c.showHelp = false
		}
		return nil
	}
	if c.model.modal.Visible() {
		return c.handleModalKeys(msg)
	}
	switch c.focus {
	case focusSearch:
		return c.handleSearchKeys(msg)
	case focusJump:
		return c.handleJumpKeys(msg)
	}
	return c.handleNormalKeys(msg)
}

func (c *TUIController) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	g := c.model.gallery
	tiles := c.model.Tiles()
	switch {
	case key.Matches(msg, c.keys.Quit):
		return c.quit()
	case key.Matches(msg, c.keys.Help):
		c.showHelp = true
	case key.Matches(msg, c.keys.Toasts):
		c.showToasts = !c.showToasts
	case key.Matches(msg, c.keys.Search):
		c.focus = focusSearch
		return c.searchInput.Focus()
	case key.Matches(msg, c.keys.Jump):
		c.focus = focusJump
		c.jumpInput.SetValue("")
		return c.jumpInput.Focus()
	case key.Matches(msg, c.keys.NextCat):
		c.searchInput.SetValue("")
		return g.Update(gallery.ChangeCategoryMsg{Category: c.model.CategoryAt(1)})
	case key.Matches(msg, c.keys.PrevCat):
		c.searchInput.SetValue("")
		return g.Update(gallery.ChangeCategoryMsg{Category: c.model.CategoryAt(-1)})
	case key.Matches(msg, c.keys.Resolution):
		return g.Update(gallery.ChangeFilterMsg{Kind: gallery.FilterResolution, Value: c.model.NextResolution()})
	case key.Matches(msg, c.keys.Device):
		return g.Update(gallery.ChangeFilterMsg{Kind: gallery.FilterDevice, Value: c.model.NextDevice()})
	case key.Matches(msg, c.keys.More):
		if c.model.State().ShowLoadMore() {
			return g.Update(gallery.LoadMoreMsg{})
		}
	case key.Matches(msg, c.keys.Theme):
		return c.toggleTheme()
	case key.Matches(msg, c.keys.Open):
		if c.selected < len(tiles) {
			return c.model.modal.Update(gallery.OpenDetailMsg{Photo: tiles[c.selected].Photo})
		}
	case key.Matches(msg, c.keys.Right):
		return c.moveSelection(1)
	case key.Matches(msg, c.keys.Left):
		return c.moveSelection(-1)
	case key.Matches(msg, c.keys.Down):
		return c.moveSelection(c.columns)
	case key.Matches(msg, c.keys.Up):
		return c.moveSelection(-c.columns)
	case key.Matches(msg, c.keys.PageDown):
		c.vp.HalfViewDown()
		return c.scrolled()
	case key.Matches(msg, c.keys.PageUp):
		c.vp.HalfViewUp()
		return c.scrolled()
	}
	return nil
}

func (c *TUIController) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		c.focus = focusGrid
		c.searchInput.Blur()
		return nil
	}
	before := c.searchInput.Value()
	var cmd tea.Cmd
	c.searchInput, cmd = c.searchInput.Update(msg)
	if v := c.searchInput.Value(); v != before {
		return tea.Batch(cmd, c.model.gallery.Update(gallery.SearchMsg{Query: v}))
	}
	return cmd
}

func (c *TUIController) handleJumpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		c.focus = focusGrid
		c.jumpInput.Blur()
		return nil
	case "enter":
		c.focus = focusGrid
		c.jumpInput.Blur()
		name, ok := c.model.categories.Match(c.jumpInput.Value())
		if !ok {
			c.model.addToast(fmt.Sprintf("No category matches %q", c.jumpInput.Value()), true)
			return nil
		}
		c.searchInput.SetValue("")
		return c.model.gallery.Update(gallery.ChangeCategoryMsg{Category: name})
	}
	var cmd tea.Cmd
	c.jumpInput, cmd = c.jumpInput.Update(msg)
	return cmd
}

func (c *TUIController) handleModalKeys(msg tea.KeyMsg) tea.Cmd {
	modal := c.model.modal
	switch {
	case key.Matches(msg, c.keys.Close):
		return modal.Update(gallery.CloseDetailMsg{})
	case key.Matches(msg, c.keys.Quit):
		return c.quit()
	case key.Matches(msg, c.keys.Download):
		return modal.Update(gallery.DownloadMsg{})
	case key.Matches(msg, c.keys.Browser):
		u := modal.Detail().PageURL
		if u == "" {
			return nil
		}
		open := c.model.open
		return func() tea.Msg { return gallery.BrowserFallbackMsg{URL: u, Err: open(u)} }
	case key.Matches(msg, c.keys.Theme):
		return c.toggleTheme()
	}
	return nil
}

func (c *TUIController) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if c.model.modal.Visible() {
		if msg.Type == tea.MouseLeft && !c.view.modalRect.contains(msg.X, msg.Y) {
			return c.model.modal.Update(gallery.CloseDetailMsg{})
		}
		return nil
	}
	switch msg.Type {
	case tea.MouseWheelDown:
		c.vp.LineDown(3)
		return c.scrolled()
	case tea.MouseWheelUp:
		c.vp.LineUp(3)
		return c.scrolled()
	case tea.MouseLeft:
		if msg.Y < headerLines || msg.Y >= headerLines+c.vp.Height {
			return nil
		}
		row := (msg.Y - headerLines + c.vp.YOffset) / tileOuterH
		col := msg.X / tileOuterW
		if col >= c.columns {
			return nil
		}
		idx := row*c.columns + col
		tiles := c.model.Tiles()
		if idx < len(tiles) {
			c.selected = idx
			return c.model.modal.Update(gallery.OpenDetailMsg{Photo: tiles[idx].Photo})
		}
	}
	return nil
}

// moveSelection shifts the highlighted tile and keeps it inside the viewport.
func (c *TUIController) moveSelection(delta int) tea.Cmd {
	n := len(c.model.Tiles())
	if n == 0 {
		return nil
	}
	c.selected = min(max(c.selected+delta, 0), n-1)
	top := (c.selected / c.columns) * tileOuterH
	switch {
	case top < c.vp.YOffset:
		c.vp.SetYOffset(top)
	case top+tileOuterH > c.vp.YOffset+c.vp.Height:
		c.vp.SetYOffset(top + tileOuterH - c.vp.Height)
	}
	return c.scrolled()
}

func (c *TUIController) toggleTheme() tea.Cmd {
	next, err := c.model.theme.Toggle()
	if err != nil {
		c.model.addToast("Theme not saved: "+err.Error(), true)
	}
	return func() tea.Msg { return gallery.ThemeChangedMsg{Theme: next} }
}

func (c *TUIController) quit() tea.Cmd {
	c.quitting = true
	c.model.gallery.Shutdown()
	return tea.Quit
}

func sizeOf(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return "(" + humanize.Bytes(uint64(fi.Size())) + ")"
}

// firstLine keeps toasts to one row; friendly errors carry multi-line hints.
func firstLine(err error) string {
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
