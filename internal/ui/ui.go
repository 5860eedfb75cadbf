package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/persist"
	"github.com/desertthunder/cadence/internal/player"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	QueueView
	NowPlayingView
)

const seekStep = 5.0

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	catalog     services.Catalog
	session     *player.Session
	coordinator *persist.Coordinator
	width       int
	height      int
	libraryList list.Model
	queueList   list.Model
	tracks      []models.Track
	snapshot    player.Snapshot
	snapshots   chan player.Snapshot
	progressBar progress.Model
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model with the provided dependencies. The
// coordinator may be nil to run without persistence.
func NewModel(ctx context.Context, catalog services.Catalog, session *player.Session, coordinator *persist.Coordinator) *Model {
	snapshots := make(chan player.Snapshot, 50)
	session.OnChange(func(snap player.Snapshot) {
		select {
		case snapshots <- snap:
		default:
			// Renderer is behind; drop the intermediate frame.
		}
	})

	return &Model{
		ctx:         ctx,
		view:        LibraryView,
		catalog:     catalog,
		session:     session,
		coordinator: coordinator,
		snapshot:    session.Snapshot(),
		snapshots:   snapshots,
		progressBar: progress.New(progress.WithDefaultGradient()),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init loads the library and starts listening for playback changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchLibrary(), m.waitForSnapshot())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = msg.Width - 8
		if m.libraryList.Width() == 0 {
			m.libraryList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.queueList.Width() == 0 {
			m.queueList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleTransportKeys(msg); handled {
			return m, cmd
		}

		switch m.view {
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case QueueView:
			return m.handleQueueKeys(msg)
		case NowPlayingView:
			return m.handleNowPlayingKeys(msg)
		}

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.tracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.libraryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.libraryList.Title = "Library"
		m.libraryList.SetSize(m.width-4, m.height-8)
		return m, nil

	case snapshotMsg:
		m.snapshot = player.Snapshot(msg)
		m.rebuildQueueList()
		if m.coordinator != nil {
			m.coordinator.QueueChanged(models.QueueSnapshot{
				Tracks:   m.snapshot.Queue,
				Index:    m.snapshot.Index,
				Position: m.snapshot.Position,
			})
		}
		return m, m.waitForSnapshot()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LibraryView:
		return m.renderLibrary()
	case QueueView:
		return m.renderQueue()
	case NowPlayingView:
		return m.renderNowPlaying()
	default:
		return ""
	}
}

// handleTransportKeys handles the bindings that work in every view.
func (m *Model) handleTransportKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.quit):
		if m.coordinator != nil {
			m.coordinator.Flush()
		}
		return tea.Quit, true

	case key.Matches(msg, m.keys.playPause):
		switch {
		case m.snapshot.State == player.StatePlaying:
			m.session.Pause()
		case m.snapshot.State == player.StateIdle && len(m.snapshot.Queue) > 0:
			// A restored queue sits idle until something starts it;
			// Resume would be a no-op here.
			m.session.PlayAt(m.ctx, m.snapshot.Index)
		default:
			m.session.Resume()
		}
		return nil, true

	case key.Matches(msg, m.keys.next):
		m.session.Advance(m.ctx)
		return nil, true

	case key.Matches(msg, m.keys.prev):
		m.session.Retreat(m.ctx)
		return nil, true

	case key.Matches(msg, m.keys.shuffle):
		enabled := m.session.ToggleShuffle()
		m.saveSettings(func(s *models.Settings) { s.ShuffleEnabled = enabled })
		return nil, true

	case key.Matches(msg, m.keys.repeat):
		mode := m.session.ToggleRepeat()
		m.saveSettings(func(s *models.Settings) { s.RepeatMode = mode })
		return nil, true
	}

	return nil, false
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		index := m.libraryList.Index()
		if index >= 0 && index < len(m.tracks) {
			m.session.SetQueue(m.ctx, m.tracks, index)
			m.view = NowPlayingView
		}
		return m, nil
	case key.Matches(msg, m.keys.queue):
		m.view = QueueView
		return m, nil
	}

	var cmd tea.Cmd
	m.libraryList, cmd = m.libraryList.Update(msg)
	return m, cmd
}

func (m *Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = LibraryView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.session.PlayAt(m.ctx, m.queueList.Index())
		m.view = NowPlayingView
		return m, nil
	case key.Matches(msg, m.keys.remove):
		m.session.RemoveFromQueue(m.queueList.Index())
		return m, nil
	}

	var cmd tea.Cmd
	m.queueList, cmd = m.queueList.Update(msg)
	return m, cmd
}

func (m *Model) handleNowPlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = LibraryView
		return m, nil
	case key.Matches(msg, m.keys.queue):
		m.view = QueueView
		return m, nil
	case key.Matches(msg, m.keys.seekFwd):
		m.session.Seek(m.snapshot.Position + seekStep)
		return m, nil
	case key.Matches(msg, m.keys.seekBack):
		m.session.Seek(m.snapshot.Position - seekStep)
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LibraryView:
		m.libraryList, cmd = m.libraryList.Update(msg)
	case QueueView:
		m.queueList, cmd = m.queueList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchLibrary() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.catalog.Tracks(m.ctx)
		return tracksFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.snapshots)
	}
}

func (m *Model) rebuildQueueList() {
	items := make([]list.Item, len(m.snapshot.Queue))
	for i, track := range m.snapshot.Queue {
		items[i] = queueItem{track: track, index: i, current: i == m.snapshot.Index}
	}

	if m.queueList.Items() == nil {
		m.queueList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.queueList.Title = "Queue"
		return
	}
	m.queueList.SetItems(items)
}

func (m *Model) saveSettings(mutate func(*models.Settings)) {
	if m.coordinator == nil {
		return
	}

	settings, err := m.coordinator.LoadSettings(m.ctx)
	if err != nil {
		settings = models.DefaultSettings()
	}
	mutate(&settings)
	m.coordinator.SaveSettings(settings)
}

func (m *Model) renderLibrary() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.queue, m.keys.playPause, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.libraryList.View(), m.renderStatusLine(), helpView)
}

func (m *Model) renderQueue() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.queueList.View(), m.renderStatusLine(), helpView)
}

func (m *Model) renderNowPlaying() string {
	snap := m.snapshot

	if snap.Track == nil {
		title := styles.title.Render("Now Playing")
		return fmt.Sprintf("%s\nNothing playing\n\n%s",
			title, m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	}

	title := styles.title.Render(fmt.Sprintf("%s - %s", snap.Track.Artist, snap.Track.Title))

	var bar string
	if snap.Duration > 0 {
		bar = m.progressBar.ViewAs(snap.Position / snap.Duration)
	}
	timing := fmt.Sprintf("%s / %s",
		shared.FormatPosition(snap.Position), shared.FormatPosition(snap.Duration))

	helpKeys := []key.Binding{
		m.keys.playPause, m.keys.next, m.keys.prev,
		m.keys.seekBack, m.keys.seekFwd, m.keys.back, m.keys.quit,
	}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s  %s\n%s\n\n%s",
		title, m.renderStatusLine(), bar, timing, snap.Track.Album, helpView)
}

// renderStatusLine summarises playback state, repeat, and shuffle.
func (m *Model) renderStatusLine() string {
	snap := m.snapshot

	parts := []string{fmt.Sprintf("[%s]", snap.State)}
	if snap.Track != nil {
		parts = append(parts, fmt.Sprintf("%s - %s", snap.Track.Artist, snap.Track.Title))
	}
	parts = append(parts, fmt.Sprintf("repeat:%s", snap.RepeatMode))
	if snap.ShuffleEnabled {
		parts = append(parts, "shuffle")
	}

	return styles.help.Render(strings.Join(parts, "  "))
}
