package configwizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jxwalker/pixnix/internal/config"
)

type field struct {
	label string
	value func(*config.Config) string
}

var fields = []field{
	{"general.data_root", func(c *config.Config) string { return c.General.DataRoot }},
	{"general.download_root", func(c *config.Config) string { return c.General.DownloadRoot }},
	{"api.access_key_env", func(c *config.Config) string { return c.API.AccessKeyEnv }},
	{"gallery.default_category", func(c *config.Config) string { return c.Gallery.DefaultCategory }},
	{"api.per_page (1-30)", func(c *config.Config) string { return fmt.Sprint(c.API.PerPage) }},
	{"download.concurrency", func(c *config.Config) string { return fmt.Sprint(c.Download.Concurrency) }},
}

// Wizard collects the handful of settings a first run needs.
type Wizard struct {
	base   *config.Config
	inputs []textinput.Model
	focus  int
	done   bool
	out    *config.Config
}

func New(defaults *config.Config) *Wizard {
	if defaults == nil {
		defaults = config.Default()
	}
	w := &Wizard{base: defaults}
	for _, f := range fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = f.label
		ti.SetValue(f.value(defaults))
		ti.CharLimit = 256
		w.inputs = append(w.inputs, ti)
	}
	w.inputs[0].Focus()
	return w
}

func (w *Wizard) Init() tea.Cmd { return textinput.Blink }

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "ctrl+c", "esc":
			w.done = true
			return w, tea.Quit
		case "enter":
			if w.focus == len(w.inputs)-1 {
				w.done = true
				w.out = w.buildConfig()
				return w, tea.Quit
			}
			w.move(1)
			return w, nil
		case "tab", "down":
			w.move(1)
			return w, nil
		case "shift+tab", "up":
			w.move(-1)
			return w, nil
		}
	}
	var cmd tea.Cmd
	w.inputs[w.focus], cmd = w.inputs[w.focus].Update(msg)
	return w, cmd
}

func (w *Wizard) move(delta int) {
	w.focus = max(0, min(len(w.inputs)-1, w.focus+delta))
	for j := range w.inputs {
		if j == w.focus {
			w.inputs[j].Focus()
		} else {
			w.inputs[j].Blur()
		}
	}
}

func (w *Wizard) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("pixnix config wizard") + "\n")
	b.WriteString("Tab/Shift-Tab to navigate, Enter on the last field to save, Esc to cancel.\n\n")
	for i, input := range w.inputs {
		marker := " "
		if i == w.focus {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-28s %s\n", marker, fields[i].label+":", input.View()))
	}
	if w.out != nil {
		b.WriteString("\nDone. Saving...\n")
	}
	return b.String()
}

func (w *Wizard) buildConfig() *config.Config {
	get := func(i int) string { return strings.TrimSpace(w.inputs[i].Value()) }
	parseInt := func(s string, def int) int {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
		return def
	}
	o := *w.base
	o.Version = 1
	o.General.DataRoot = get(0)
	o.General.DownloadRoot = get(1)
	o.API.AccessKeyEnv = get(2)
	if o.API.AccessKeyEnv == "" {
		o.API.AccessKeyEnv = config.DefaultAccessKeyEnv
	}
	o.Gallery.DefaultCategory = strings.ToLower(get(3))
	o.API.PerPage = min(parseInt(get(4), config.DefaultPerPage), 30)
	o.Download.Concurrency = parseInt(get(5), 4)
	// The inline key never comes from the wizard.
	o.API.AccessKey = ""
	return &o
}

// Config is the result, or nil when the wizard was cancelled.
func (w *Wizard) Config() *config.Config { return w.out }
