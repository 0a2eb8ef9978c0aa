package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RosterView ViewState = iota
	ConfirmView
	CueView
	ResultView
)

// PlayerLister is the roster read access the TUI needs.
type PlayerLister interface {
	List(criteria map[string]any) ([]*models.Player, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	roster       PlayerLister
	engine       tasks.RosterEngine
	width        int
	height       int
	playerList   list.Model
	selected     *models.Player
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	cued         *models.Player
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, roster PlayerLister, engine tasks.RosterEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   RosterView,
		roster: roster,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the roster.
func (m *Model) Init() tea.Cmd {
	return m.loadRoster()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playerList.Width() == 0 {
			m.playerList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case RosterView:
			return m.handleRosterKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case rosterLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.players))
		for i, player := range msg.players {
			items[i] = playerItem{player: player}
		}
		m.playerList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playerList.Title = "Roster"
		m.playerList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case cueCompleteMsg:
		m.cued = msg.player
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case RosterView:
		return m.renderRoster()
	case ConfirmView:
		return m.renderConfirm()
	case CueView:
		return m.renderCue()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleRosterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playerList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(playerItem); ok && item.player.HasTrack() {
				m.selected = item.player
				m.view = ConfirmView
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.playerList, cmd = m.playerList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.selected = nil
		m.view = RosterView
		return m, nil
	case "y":
		m.view = CueView
		return m, m.startCue()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = RosterView
		m.selected = nil
		m.cued = nil
		m.err = nil
		return m, m.loadRoster()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == RosterView {
		m.playerList, cmd = m.playerList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadRoster() tea.Cmd {
	return func() tea.Msg {
		players, err := m.roster.List(map[string]any{})
		return rosterLoadedMsg{players: players, err: err}
	}
}

func (m *Model) startCue() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	name := m.selected.Name()
	progress := m.progressChan

	return tea.Batch(
		func() tea.Msg {
			player, err := m.engine.WalkUp(m.ctx, name, progress)
			close(progress)
			return cueCompleteMsg{player: player, err: err}
		},
		m.waitForProgress(),
	)
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	if progress == nil {
		return nil
	}

	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRoster() string {
	cueKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "cue walk-up"))
	helpKeys := []key.Binding{cueKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playerList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	track := m.selected.Track()
	title := styles.title.Render(fmt.Sprintf("Cue walk-up for %s?", m.selected.Name()))
	info := fmt.Sprintf("\nTrack: %s - %s\n", track.Artist, track.Title)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderCue() string {
	title := styles.title.Render("Cueing Walk-Up")
	return fmt.Sprintf("%s\n\n%s", title, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Walk-up failed: %v\n\nPress r to return, q to quit", m.err))
	}

	if m.cued == nil {
		return styles.err.Render("No result available\n\nPress r to return, q to quit")
	}

	track := m.cued.Track()
	title := styles.ok.Render("✓ Walk-Up Cued")
	info := fmt.Sprintf("\n%s walked up to %s - %s", m.cued.Name(), track.Artist, track.Title)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
