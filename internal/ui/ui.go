package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cine/internal/catalog"
	"github.com/desertthunder/cine/internal/playback"
	"github.com/desertthunder/cine/internal/services"
	"github.com/desertthunder/cine/internal/session"
	"github.com/desertthunder/cine/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	SearchView
	PlayerView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	returnView ViewState

	aggregator *catalog.Aggregator
	searcher   *catalog.Searcher
	store      *session.Store
	catalog    services.Catalog
	recorder   playback.WatchRecorder

	width  int
	height int

	snapshot     *catalog.Snapshot
	sectionIdx   int
	sectionList  list.Model
	loading      bool
	progressChan chan catalog.ProgressUpdate
	progress     catalog.ProgressUpdate

	// load result parked until the progress channel drains
	pendingSnapshot *catalog.Snapshot
	pendingErr      error

	searchInput textinput.Model
	searchList  list.Model
	searching   bool

	player      *playback.Session
	playerState playback.State

	err  error
	help help.Model
	keys keyMap
}

// ModelOpts contains the dependencies for creating a TUI model.
type ModelOpts struct {
	Aggregator *catalog.Aggregator
	Searcher   *catalog.Searcher
	Store      *session.Store
	Catalog    services.Catalog
	Recorder   playback.WatchRecorder
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	input := textinput.New()
	input.Placeholder = "Search videos..."
	input.CharLimit = 80

	return &Model{
		ctx:         ctx,
		view:        BrowseView,
		aggregator:  opts.Aggregator,
		searcher:    opts.Searcher,
		store:       opts.Store,
		catalog:     opts.Catalog,
		recorder:    opts.Recorder,
		searchInput: input,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init kicks off the initial catalog load.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.sectionList.Width() == 0 {
			m.sectionList.SetSize(msg.Width-4, msg.Height-10)
		}
		if m.searchList.Width() == 0 {
			m.searchList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		}

	case catalogProgressMsg:
		m.progress = catalog.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.snapshot = msg.snapshot
		m.setSection(m.sectionIdx)
		return m, nil

	case searchResultMsg:
		if msg.Err != nil {
			// Keep the previous result list on a failed search.
			return m, m.waitForSearch()
		}
		m.searchList = list.New(videoItems(msg.Videos), list.NewDefaultDelegate(), 0, 0)
		m.searchList.Title = fmt.Sprintf("Results for %q", msg.Query)
		m.searchList.SetShowHelp(false)
		m.searchList.SetSize(m.width-4, m.height-10)
		return m, m.waitForSearch()

	case videoLoadedMsg:
		m.playerState = msg.state
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case playbackToggledMsg:
		m.playerState = msg.state
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != PlayerView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case BrowseView:
		return m.renderBrowse()
	case SearchView:
		return m.renderSearch()
	case PlayerView:
		return m.renderPlayer()
	default:
		return ""
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		m.cycleSection(1)
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.cycleSection(-1)
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.searchInput.Focus()
		if !m.searching {
			m.searching = true
			return m, m.waitForSearch()
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadCatalog()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.sectionList.SelectedItem().(videoItem); ok {
			return m, m.openPlayer(item.video.ID, BrowseView)
		}
	}

	var cmd tea.Cmd
	m.sectionList, cmd = m.sectionList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = BrowseView
		m.searchInput.Blur()
		m.searcher.Stop()
		return m, nil
	case "enter":
		if item, ok := m.searchList.SelectedItem().(videoItem); ok {
			return m, m.openPlayer(item.video.ID, SearchView)
		}
		return m, nil
	case "down", "up":
		var cmd tea.Cmd
		m.searchList, cmd = m.searchList.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.searcher.Update(m.ctx, after)
	}
	return m, cmd
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.closePlayer()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closePlayer()
		m.err = nil
		m.view = m.returnView
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		return m, m.togglePlayback()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		m.sectionList, cmd = m.sectionList.Update(msg)
	case SearchView:
		m.searchList, cmd = m.searchList.Update(msg)
	}
	return m, cmd
}

// setSection rebuilds the browse list for the section at index idx.
func (m *Model) setSection(idx int) {
	if m.snapshot == nil || len(m.snapshot.Categories) == 0 {
		return
	}
	keys := m.snapshot.Keys()
	m.sectionIdx = ((idx % len(keys)) + len(keys)) % len(keys)
	section := m.snapshot.Sections[keys[m.sectionIdx]]

	m.sectionList = list.New(videoItems(section), list.NewDefaultDelegate(), 0, 0)
	m.sectionList.Title = keys[m.sectionIdx]
	m.sectionList.SetShowHelp(false)
	m.sectionList.SetSize(m.width-4, m.height-10)
}

func (m *Model) cycleSection(delta int) {
	m.setSection(m.sectionIdx + delta)
}

func (m *Model) loadCatalog() tea.Cmd {
	m.loading = true
	m.progressChan = make(chan catalog.ProgressUpdate, 50)

	token := ""
	if m.store != nil {
		token = m.store.Current().Token
	}

	progress := m.progressChan
	go func() {
		snapshot, err := m.aggregator.Load(m.ctx, token, progress)
		m.snapshotDone(snapshot, err)
		close(progress)
	}()

	return m.waitForProgress()
}

// snapshotDone stashes the load result for waitForProgress to pick up after
// the progress channel drains.
func (m *Model) snapshotDone(snapshot *catalog.Snapshot, err error) {
	m.pendingSnapshot = snapshot
	m.pendingErr = err
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return catalogLoadedMsg{snapshot: m.pendingSnapshot, err: m.pendingErr}
		}

		update, ok := <-m.progressChan
		if !ok {
			m.progressChan = nil
			return catalogLoadedMsg{snapshot: m.pendingSnapshot, err: m.pendingErr}
		}
		return catalogProgressMsg(update)
	}
}

func (m *Model) waitForSearch() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-m.searcher.Results()
		if !ok {
			return nil
		}
		return searchResultMsg(result)
	}
}

func (m *Model) openPlayer(videoID string, from ViewState) tea.Cmd {
	m.returnView = from
	m.view = PlayerView
	m.playerState = playback.Loading

	token := ""
	if m.store != nil {
		token = m.store.Current().Token
	}

	m.player = playback.NewSession(playback.SessionOpts{
		Catalog:  m.catalog,
		Recorder: m.recorder,
		Engine:   playback.NullEngine{},
		Token:    token,
	})

	player := m.player
	return func() tea.Msg {
		err := player.Load(m.ctx, videoID)
		return videoLoadedMsg{state: player.State(), err: err}
	}
}

func (m *Model) togglePlayback() tea.Cmd {
	player := m.player
	if player == nil {
		return nil
	}
	return func() tea.Msg {
		state, err := player.Toggle(m.ctx)
		return playbackToggledMsg{state: state, err: err}
	}
}

func (m *Model) closePlayer() {
	if m.player != nil {
		m.player.Release()
		m.player = nil
	}
}

func (m *Model) renderBrowse() string {
	if m.loading || m.snapshot == nil {
		title := styles.title.Render("Loading catalog")
		return fmt.Sprintf("%s\n\n%s", title, m.progress.Message)
	}

	var hero string
	if h := m.snapshot.Hero(); h != nil {
		hero = styles.ok.Render(fmt.Sprintf("Featured: %s", h.Title))
	}

	helpKeys := []key.Binding{m.keys.nextTab, m.keys.enter, m.keys.search, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s\n\n%s", hero, m.sectionList.View(), helpView)
}

func (m *Model) renderSearch() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s\n\n%s", m.searchInput.View(), m.searchList.View(), helpView)
}

func (m *Model) renderPlayer() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Playback error: %v", m.err)), helpView)
	}

	video := m.player.Video()
	if m.playerState == playback.Loading || video == nil {
		return fmt.Sprintf("%s\n\n%s", styles.title.Render("Loading video"), helpView)
	}

	title := styles.title.Render(video.Title)
	meta := styles.help.Render(fmt.Sprintf("%s • %s views", video.Duration, shared.FormatViews(video.Views)))

	var status string
	switch m.playerState {
	case playback.Playing:
		status = styles.ok.Render("▶ Playing")
	case playback.Paused:
		status = styles.warn.Render("⏸ Paused")
	default:
		status = m.playerState.String()
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n\n%s", title, meta, video.Description, status, helpView)
}
