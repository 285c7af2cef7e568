package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/preview"
)

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type TUIView struct {
	th     Theme
	width  int
	height int
	// modalRect is where the last rendered modal sits, for backdrop clicks.
	modalRect rect
}

func NewTUIView() *TUIView {
	return &TUIView{th: lightTheme()}
}

func (v *TUIView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *TUIView) SetTheme(t gallery.Theme) { v.th = themeFor(t) }

func (v *TUIView) View(model *TUIModel, c *TUIController) string {
	if c.quitting {
		return ""
	}
	if v.width == 0 {
		return "Loading..."
	}
	if c.showHelp {
		return v.renderHelp(c)
	}
	if model.modal.Visible() {
		return v.renderModal(model)
	}
	v.modalRect = rect{}

	var b strings.Builder
	b.WriteString(v.renderNavbar(model, c))
	b.WriteString("\n")
	b.WriteString(v.renderSearch(c))
	b.WriteString("\n")
	b.WriteString(v.renderCategories(model))
	b.WriteString("\n")
	b.WriteString(v.renderFilters(model))
	b.WriteString("\n")
	b.WriteString(v.renderTitle(model))
	b.WriteString("\n")
	if c.showToasts {
		b.WriteString(lipgloss.NewStyle().Height(c.vp.Height).MaxHeight(c.vp.Height).Render(v.renderToastDrawer(model)))
	} else {
		b.WriteString(c.vp.View())
	}
	b.WriteString("\n")
	b.WriteString(v.renderStatus(model, c))
	b.WriteString("\n")
	b.WriteString(c.help.View(c.keys))
	return b.String()
}

// renderNavbar switches to the scrolled style once the grid leaves the top.
func (v *TUIView) renderNavbar(model *TUIModel, c *TUIController) string {
	style := v.th.navbar
	if model.State().Scrolled {
		style = v.th.navbarScrolled
	}
	left := "pixnix"
	right := fmt.Sprintf("theme: %s", model.theme.Current())
	gap := v.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return style.Width(v.width).MaxWidth(v.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (v *TUIView) renderSearch(c *TUIController) string {
	if c.focus == focusJump {
		return c.jumpInput.View()
	}
	return c.searchInput.View()
}

func (v *TUIView) renderCategories(model *TUIModel) string {
	st := model.State()
	parts := make([]string, 0, len(model.categories))
	for _, name := range model.categories {
		style := v.th.tabInactive
		if st.CategoryActive && strings.EqualFold(name, st.Category) {
			style = v.th.tabActive
		}
		parts = append(parts, style.Render(gallery.Capitalize(name)))
	}
	return lipgloss.NewStyle().MaxWidth(v.width).Render(strings.Join(parts, "  •  "))
}

func (v *TUIView) renderFilters(model *TUIModel) string {
	f := model.State().Filters
	return v.th.label.Render("Resolution: ") + gallery.BucketLabel(f.Resolution) +
		v.th.label.Render("   Device: ") + gallery.Capitalize(string(f.Device))
}

func (v *TUIView) renderTitle(model *TUIModel) string {
	st := model.State()
	left := v.th.title.Render(st.Title())
	right := v.th.label.Render(st.CountLabel())
	gap := v.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderStatus is the row under the grid: spinner, load-more hint, notice, or the newest toast.
func (v *TUIView) renderStatus(model *TUIModel, c *TUIController) string {
	st := model.State()
	var parts []string
	switch {
	case st.Loading:
		parts = append(parts, c.spin.View()+" Loading wallpapers…")
	case st.ShowLoadMore():
		parts = append(parts, v.th.label.Render("m or scroll down: load more"))
	}
	if st.Notice != "" {
		parts = append(parts, v.th.bad.Render(st.Notice))
	}
	if t := v.renderToasts(model); t != "" {
		parts = append(parts, t)
	}
	return lipgloss.NewStyle().MaxWidth(v.width).Render(strings.Join(parts, "  "))
}

// renderGrid lays tiles out in rows of cols. A message replaces the grid when set.
func (v *TUIView) renderGrid(model *TUIModel, selected, cols int) string {
	st := model.State()
	if st.Message != "" {
		return "\n" + lipgloss.PlaceHorizontal(v.width, lipgloss.Center, v.th.label.Render(st.Message))
	}
	tiles := model.Tiles()
	if len(tiles) == 0 {
		return ""
	}
	if cols < 1 {
		cols = 1
	}
	rows := make([]string, 0, len(tiles)/cols+1)
	for i := 0; i < len(tiles); i += cols {
		end := min(i+cols, len(tiles))
		cells := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			cells = append(cells, v.renderTile(model, tiles[j], j == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (v *TUIView) renderTile(model *TUIModel, t *gallery.Tile, selected bool) string {
	art, ok := model.Preview(t.Photo.ID)
	if !ok {
		art = preview.Placeholder(nil, tileInnerW, previewRows)
		if t.Src == "" || model.images == nil {
			art = v.blank(t)
		}
	}
	lines := []string{
		art,
		v.th.head.Render(truncate(t.Title, tileInnerW)),
		v.th.label.Render(truncate(t.Byline, tileInnerW)),
		v.th.badge.Render(truncate(t.Orientation+"  "+t.Photo.Resolution(), tileInnerW)),
	}
	style := v.th.tile
	if selected {
		style = v.th.tileSelected
	}
	return style.Width(tileInnerW + 2).Height(tileLines).MaxHeight(tileOuterH).Render(strings.Join(lines, "\n"))
}

// blank is the not-yet-loaded preview area; the alt text stands in for the image.
func (v *TUIView) blank(t *gallery.Tile) string {
	lines := make([]string, previewRows)
	lines[previewRows/2] = v.th.label.Render(truncate(t.Alt, tileInnerW))
	for i := range lines {
		lines[i] = padRight(lines[i], tileInnerW)
	}
	return strings.Join(lines, "\n")
}
