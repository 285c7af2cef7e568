package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Toast notifications

func (v *TUIView) renderToasts(m *TUIModel) string {
	if len(m.toasts) == 0 {
		return ""
	}
	t := m.toasts[len(m.toasts)-1]
	if t.bad {
		return v.th.bad.Render(t.msg)
	}
	return v.th.ok.Render(t.msg)
}

// Toast drawer

func (v *TUIView) renderToastDrawer(m *TUIModel) string {
	if len(m.history) == 0 {
		return v.th.label.Render("(no recent notifications)")
	}
	var sb strings.Builder
	sb.WriteString(v.th.head.Render("Notifications") + "\n")
	for i := len(m.history) - 1; i >= 0; i-- { // newest first
		t := m.history[i]
		sb.WriteString(fmt.Sprintf("%s  %s\n", t.msg, v.th.label.Render(humanize.Time(t.when))))
	}
	return sb.String()
}

// Help screen

func (v *TUIView) renderHelp(c *TUIController) string {
	var sb strings.Builder
	sb.WriteString(v.th.head.Render("Help (pixnix)") + "\n\n")
	h := c.help
	h.ShowAll = true
	sb.WriteString(h.View(c.keys))
	sb.WriteString("\n\n")
	sb.WriteString(v.th.head.Render("Search") + "\n")
	sb.WriteString("Typing searches after a short pause; an empty search returns to the category\n")
	sb.WriteString(v.th.head.Render("Category jump") + "\n")
	sb.WriteString("c then a few letters (\"mnt\" finds mountain); Enter to switch\n")
	sb.WriteString(v.th.head.Render("Detail") + "\n")
	sb.WriteString("d downloads to the configured folder; on failure the image opens in the browser\n")
	sb.WriteString("Click outside the panel or press esc to close\n")
	sb.WriteString("\n")
	sb.WriteString(v.th.footer.Render("? or esc to return"))
	return sb.String()
}
