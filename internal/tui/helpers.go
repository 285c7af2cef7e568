package tui

import (
	"fmt"
	neturl "net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jxwalker/pixnix/internal/gallery"
)

// Theme and styling helpers

type Theme struct {
	name           gallery.Theme
	navbar         lipgloss.Style
	navbarScrolled lipgloss.Style
	title          lipgloss.Style
	label          lipgloss.Style
	tabActive      lipgloss.Style
	tabInactive    lipgloss.Style
	tile           lipgloss.Style
	tileSelected   lipgloss.Style
	badge          lipgloss.Style
	head           lipgloss.Style
	footer         lipgloss.Style
	modal          lipgloss.Style
	button         lipgloss.Style
	buttonActive   lipgloss.Style
	ok             lipgloss.Style
	bad            lipgloss.Style
}

func darkTheme() Theme {
	tile := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	return Theme{
		name:           gallery.ThemeDark,
		navbar:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")).Padding(0, 1),
		navbarScrolled: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("236")).Padding(0, 1),
		title:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		label:          lipgloss.NewStyle().Faint(true),
		tabActive:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219")),
		tabInactive:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		tile:           tile,
		tileSelected:   tile.BorderForeground(lipgloss.Color("219")),
		badge:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		head:           lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		footer:         lipgloss.NewStyle().Faint(true),
		modal:          lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("63")).Padding(1, 2),
		button:         lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 2),
		buttonActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("240")).Padding(0, 2),
		ok:             lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		bad:            lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func lightTheme() Theme {
	tile := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("250")).Padding(0, 1)
	return Theme{
		name:           gallery.ThemeLight,
		navbar:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1),
		navbarScrolled: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("232")).Background(lipgloss.Color("254")).Padding(0, 1),
		title:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		label:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		tabActive:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("162")),
		tabInactive:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		tile:           tile,
		tileSelected:   tile.BorderForeground(lipgloss.Color("162")),
		badge:          lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		head:           lipgloss.NewStyle().Foreground(lipgloss.Color("162")).Bold(true),
		footer:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		modal:          lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 2),
		button:         lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("62")).Padding(0, 2),
		buttonActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("250")).Padding(0, 2),
		ok:             lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		bad:            lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
}

func themeFor(t gallery.Theme) Theme {
	if t == gallery.ThemeDark {
		return darkTheme()
	}
	return lightTheme()
}

// String utilities

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func padRight(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}

func hostOf(urlStr string) string {
	u, err := neturl.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// openInBrowser hands rawURL to the platform opener.
func openInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", rawURL)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// OpenInBrowser is exported for the CLI's show --open.
func OpenInBrowser(rawURL string) error { return openInBrowser(rawURL) }
