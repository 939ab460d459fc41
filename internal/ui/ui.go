package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/catalog"
	"github.com/desertthunder/reelx/internal/collection"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/rating"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	CatalogErrorView
	BrowseView
	WatchlistView
	ViewedView
	DetailView
	RatingView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	logger *log.Logger
	store  *catalog.Store
	sync   *collection.Sync
	loader *tasks.SessionLoader

	view     ViewState
	lastList ViewState
	width    int
	height   int

	browse    list.Model
	watchlist list.Model
	viewed    list.Model
	search    textinput.Model
	searching bool

	detail    *models.Movie
	detailFor int
	detailErr error
	workflow  *rating.Workflow
	ratingErr error
	pending   bool

	progressChan chan tasks.ProgressUpdate
	resultChan   chan sessionLoaded
	progress     tasks.ProgressUpdate

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model over the catalog store and collection sync.
func NewModel(ctx context.Context, store *catalog.Store, sync *collection.Sync, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	search := textinput.New()
	search.Placeholder = "search titles"
	search.Prompt = "/ "

	return &Model{
		ctx:       ctx,
		logger:    logger,
		store:     store,
		sync:      sync,
		loader:    tasks.NewSessionLoader(store, sync),
		view:      LoadingView,
		lastList:  BrowseView,
		browse:    newMovieList("Catalog"),
		watchlist: newMovieList("Watchlist"),
		viewed:    newMovieList("Viewed"),
		search:    search,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the session load.
func (m *Model) Init() tea.Cmd {
	return m.startLoad()
}

// State returns the current view state.
func (m *Model) State() ViewState { return m.view }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.browse, &m.watchlist, &m.viewed} {
			l.SetSize(max(msg.Width-4, 20), max(msg.Height-8, 5))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgSessionLoaded:
		data := msg.data.(sessionLoaded)
		m.progressChan, m.resultChan = nil, nil
		if data.err != nil {
			m.err = data.err
			m.view = CatalogErrorView
			return m, nil
		}
		m.err = nil
		m.view = BrowseView
		m.lastList = BrowseView
		m.refresh()
		return m, nil

	case MsgDetailLoaded:
		data := msg.data.(detailLoaded)
		if m.view != DetailView || m.detailFor != data.movieID {
			return m, nil
		}
		m.detail, m.detailErr = data.movie, data.err
		return m, nil

	case MsgMutationDone:
		data := msg.data.(mutationDone)
		if data.err != nil {
			m.logger.Debug("mutation not applied", "action", data.action, "movie", data.movieID, "error", data.err)
		}
		m.refresh()
		return m, nil

	case MsgRatingSubmitted:
		data := msg.data.(ratingSubmitted)
		m.refresh()
		// The modal was closed while this submit was in flight.
		if data.workflow != m.workflow {
			if data.err != nil {
				m.logger.Debug("rating not applied", "movie", data.workflow.Movie().ID, "error", data.err)
			}
			return m, nil
		}
		m.pending = false
		if data.err != nil {
			m.ratingErr = data.err
			return m, nil
		}
		if data.ok {
			m.closeRating()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case LoadingView:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	case CatalogErrorView:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.retry):
			return m, m.startLoad()
		}
		return m, nil
	case RatingView:
		return m.handleRatingKeys(msg)
	case DetailView:
		return m.handleDetailKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEsc:
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refresh()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		m.view = nextList(m.view)
		m.lastList = m.view
		return m, nil
	case key.Matches(msg, m.keys.search) && m.view == BrowseView:
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.retry):
		return m, m.reloadCollections()
	case key.Matches(msg, m.keys.enter):
		if movie, ok := m.selected(); ok {
			return m, m.openDetail(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.watchlist):
		if movie, ok := m.selected(); ok {
			return m, m.toggleWatchlist(movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.rate):
		if movie, ok := m.selected(); ok {
			m.openRating(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if movie, ok := m.selected(); ok {
			return m, m.removeSelected(movie.ID)
		}
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.lastList
		m.detail, m.detailErr, m.detailFor = nil, nil, 0
		return m, nil
	case key.Matches(msg, m.keys.watchlist):
		if m.detail != nil {
			return m, m.toggleWatchlist(m.detail.ID)
		}
	case key.Matches(msg, m.keys.rate):
		if m.detail != nil {
			m.openRating(*m.detail)
		}
	}
	return m, nil
}

func (m *Model) handleRatingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending {
		// Leave the submit running; its result still updates the collections.
		if key.Matches(msg, m.keys.back) {
			m.closeRating()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		if err := m.workflow.Cancel(); err != nil {
			m.logger.Debug("cancel rating", "error", err)
		}
		m.closeRating()
		return m, nil
	case key.Matches(msg, m.keys.stars):
		r := int(msg.Runes[0] - '0')
		if err := m.workflow.Select(r); err != nil {
			m.ratingErr = err
		} else {
			m.ratingErr = nil
		}
		return m, nil
	case key.Matches(msg, m.keys.up), msg.String() == "right", msg.String() == "l":
		_ = m.workflow.Select(min(m.workflow.Rating()+1, models.MaxRating))
		return m, nil
	case key.Matches(msg, m.keys.down), msg.String() == "left", msg.String() == "h":
		if m.workflow.Rating() > models.MinRating {
			_ = m.workflow.Select(m.workflow.Rating() - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.workflow.State() != rating.Selected {
			return m, nil
		}
		m.pending = true
		m.ratingErr = nil
		return m, m.submitRating(m.workflow)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		m.browse, cmd = m.browse.Update(msg)
	case WatchlistView:
		m.watchlist, cmd = m.watchlist.Update(msg)
	case ViewedView:
		m.viewed, cmd = m.viewed.Update(msg)
	}
	return m, cmd
}

// refresh rebuilds every list from the store and sync state.
func (m *Model) refresh() {
	ids := m.sync.WatchlistIDs()
	movies := catalog.Filter(m.store.Movies(), m.search.Value())

	m.browse.SetItems(movieItems(movies, ids, m.sync.Rating))
	m.watchlist.SetItems(movieItems(m.sync.Watchlist(), ids, m.sync.Rating))
	m.viewed.SetItems(viewedItems(m.sync.Viewed(), ids))
}

func (m *Model) activeList() *list.Model {
	switch m.view {
	case WatchlistView:
		return &m.watchlist
	case ViewedView:
		return &m.viewed
	default:
		return &m.browse
	}
}

func (m *Model) selected() (models.Movie, bool) {
	item, ok := m.activeList().SelectedItem().(movieItem)
	if !ok {
		return models.Movie{}, false
	}
	return item.movie, true
}

func (m *Model) openDetail(movie models.Movie) tea.Cmd {
	if m.view != DetailView && m.view != RatingView {
		m.lastList = m.view
	}
	m.view = DetailView
	m.detail, m.detailErr = nil, nil
	m.detailFor = movie.ID
	return func() tea.Msg {
		detail, err := m.store.LoadDetail(m.ctx, movie.ID)
		return detailLoadedMsg(movie.ID, detail, err)
	}
}

func (m *Model) openRating(movie models.Movie) {
	if m.view != DetailView {
		m.lastList = m.view
	}
	m.workflow = rating.NewWithRating(movie, m.sync, m.sync.Rating(movie.ID))
	m.ratingErr = nil
	m.view = RatingView
}

func (m *Model) closeRating() {
	m.workflow = nil
	m.ratingErr = nil
	m.pending = false
	if m.detail != nil {
		m.view = DetailView
		return
	}
	m.view = m.lastList
}

func (m *Model) toggleWatchlist(movieID int) tea.Cmd {
	if m.sync.InWatchlist(movieID) {
		return func() tea.Msg {
			err := m.sync.RemoveFromWatchlist(m.ctx, movieID)
			return mutationDoneMsg(models.ActionRemoveWatchlist, movieID, err)
		}
	}
	movies := m.store.Movies()
	return func() tea.Msg {
		err := m.sync.AddToWatchlist(m.ctx, movieID, movies)
		return mutationDoneMsg(models.ActionAddWatchlist, movieID, err)
	}
}

func (m *Model) removeSelected(movieID int) tea.Cmd {
	switch m.view {
	case ViewedView:
		return func() tea.Msg {
			err := m.sync.RemoveFromViewed(m.ctx, movieID)
			return mutationDoneMsg(models.ActionRemoveViewed, movieID, err)
		}
	case WatchlistView:
		return func() tea.Msg {
			err := m.sync.RemoveFromWatchlist(m.ctx, movieID)
			return mutationDoneMsg(models.ActionRemoveWatchlist, movieID, err)
		}
	}
	return nil
}

func (m *Model) submitRating(w *rating.Workflow) tea.Cmd {
	return func() tea.Msg {
		ok, err := w.Submit(m.ctx)
		return ratingSubmittedMsg(w, ok, err)
	}
}

func (m *Model) reloadCollections() tea.Cmd {
	return func() tea.Msg {
		wErr, vErr := m.loader.LoadCollections(m.ctx)
		return mutationDoneMsg("", 0, errors.Join(wErr, vErr))
	}
}

func (m *Model) startLoad() tea.Cmd {
	m.view = LoadingView
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 16)
	m.resultChan = make(chan sessionLoaded, 1)

	progress, results := m.progressChan, m.resultChan
	go func() {
		result, err := m.loader.Load(m.ctx, progress)
		results <- sessionLoaded{result, err}
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, results := m.progressChan, m.resultChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			r := <-results
			return sessionLoadedMsg(r.result, r.err)
		}
		return progressUpdateMsg(update)
	}
}

func nextList(v ViewState) ViewState {
	switch v {
	case BrowseView:
		return WatchlistView
	case WatchlistView:
		return ViewedView
	default:
		return BrowseView
	}
}
