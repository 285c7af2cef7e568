package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
	Open       key.Binding
	Close      key.Binding
	Download   key.Binding
	Browser    key.Binding
	Search     key.Binding
	Jump       key.Binding
	NextCat    key.Binding
	PrevCat    key.Binding
	Resolution key.Binding
	Device     key.Binding
	More       key.Binding
	Theme      key.Binding
	Toasts     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Download:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Browser:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open on unsplash")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Jump:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "jump to category")),
		NextCat:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		PrevCat:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
		Resolution: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resolution")),
		Device:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "device")),
		More:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Toasts:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "notifications")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.NextCat, k.Resolution, k.Device, k.Theme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageDown, k.PageUp},
		{k.Open, k.Close, k.Download, k.Browser},
		{k.Search, k.Jump, k.NextCat, k.PrevCat, k.Resolution, k.Device, k.More},
		{k.Theme, k.Toasts, k.Help, k.Quit},
	}
}
