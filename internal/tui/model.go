package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type model struct {
	tuiModel      *TUIModel
	tuiView       *TUIView
	tuiController *TUIController
}

// New creates a new TUI model that implements the tea.Model interface.
// It orchestrates the MVC components: TUIModel, TUIView, and TUIController.
func New(d Deps) tea.Model {
	tuiModel := NewTUIModel(d)
	tuiView := NewTUIView()
	tuiController := NewTUIController(tuiModel, tuiView)
	return &model{
		tuiModel:      tuiModel,
		tuiView:       tuiView,
		tuiController: tuiController,
	}
}

func (m *model) Init() tea.Cmd {
	return m.tuiController.Init()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.tuiController.Update(msg)
}

func (m *model) View() string {
	return m.tuiView.View(m.tuiModel, m.tuiController)
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(d Deps) error {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if d.Ctx != nil {
		opts = append(opts, tea.WithContext(d.Ctx))
	}
	if d.Config == nil || d.Config.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	_, err := tea.NewProgram(New(d), opts...).Run()
	return err
}
