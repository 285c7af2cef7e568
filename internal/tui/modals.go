package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jxwalker/pixnix/internal/gallery"
	"github.com/jxwalker/pixnix/internal/preview"
)

const modalWidth = 60

// renderModal draws the detail view centred over a blank backdrop and
// records its bounds so clicks outside it can close it.
func (v *TUIView) renderModal(model *TUIModel) string {
	m := model.modal
	d := m.Detail()

	art, ok := model.Preview(d.ID)
	if !ok {
		art = preview.Placeholder(nil, tileInnerW, previewRows)
	}

	var b strings.Builder
	b.WriteString(v.th.title.Render(truncate(d.Title, modalWidth)) + "\n")
	b.WriteString(v.th.label.Render("by ") + d.Author + "\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(modalWidth, lipgloss.Center, art) + "\n\n")
	b.WriteString(v.field("Resolution", d.Resolution))
	b.WriteString(v.field("Orientation", d.Orientation))
	b.WriteString(v.field("Likes", humanize.Comma(int64(d.Likes))))
	b.WriteString(v.field("File", d.Filename))
	b.WriteString(v.field("Photo", truncate(d.PageURL, modalWidth-14)))
	b.WriteString(v.field("Author", truncate(d.AuthorURL, modalWidth-14)))
	b.WriteString("\n")
	b.WriteString(v.renderButton(m))
	if p := m.SavedPath(); p != "" && m.Button() == gallery.ButtonDone {
		b.WriteString("  " + v.th.ok.Render(truncate(p, modalWidth-20)))
	}
	b.WriteString("\n\n")
	b.WriteString(v.th.footer.Render("d download • o open on Unsplash • t theme • esc close"))

	box := v.th.modal.Width(modalWidth + 4).Render(b.String())
	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	v.modalRect = rect{x: max(0, (v.width-bw)/2), y: max(0, (v.height-bh)/2), w: bw, h: bh}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

func (v *TUIView) renderButton(m *gallery.Modal) string {
	label := m.ButtonLabel()
	switch m.Button() {
	case gallery.ButtonDownloading:
		return v.th.buttonActive.Render(label)
	case gallery.ButtonFailed:
		return v.th.bad.Render("[ " + label + " ]")
	default:
		return v.th.button.Render(label)
	}
}

func (v *TUIView) field(name, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s %s\n", v.th.label.Render(padRight(name+":", 12)), value)
}
