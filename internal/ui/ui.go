package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/controller"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
)

// Screen is the view currently shown by the TUI.
type Screen int

const (
	ListScreen Screen = iota
	DetailScreen
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	logger *log.Logger
	screen Screen

	list      *controller.ListController
	detail    *controller.DetailController
	genres    *services.GenreCache
	listBox   *mailbox[controller.ViewState]
	detailBox *mailbox[controller.DetailState]

	listState   controller.ViewState
	detailState controller.DetailState

	movies    list.Model
	input     textinput.Model
	spinner   spinner.Model
	searchSeq int
	status    string

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a TUI model with its own list and details controllers.
func NewModel(ctx context.Context, catalog services.Catalog, store controller.PreferenceStore, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Model{
		ctx:       ctx,
		logger:    logger,
		screen:    ListScreen,
		genres:    services.NewGenreCache(catalog),
		listBox:   newMailbox[controller.ViewState](),
		detailBox: newMailbox[controller.DetailState](),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.list = controller.NewListController(catalog, store, m.listBox.put, logger)
	m.detail = controller.NewDetailController(catalog, store, m.detailBox.put, logger)
	m.listState = m.list.State()

	m.movies = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.movies.Title = "Popular Movies"
	m.movies.SetFilteringEnabled(false)
	m.movies.SetShowHelp(false)

	m.input = textinput.New()
	m.input.Prompt = "/ "
	m.input.Placeholder = "Search movies"

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	return m
}

func wrapList(s controller.ViewState) tea.Msg     { return listStateMsg(s) }
func wrapDetail(s controller.DetailState) tea.Msg { return detailStateMsg(s) }

// Init starts the popular listing and the genre table fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.listBox.wait(wrapList),
		m.detailBox.wait(wrapDetail),
		m.spinner.Tick,
		m.loadGenres(),
		func() tea.Msg {
			m.list.StartInitialLoad()
			return nil
		},
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movies.SetSize(msg.Width-4, msg.Height-6)
		m.input.Width = msg.Width - 8
		return m, nil

	case listStateMsg:
		m.applyListState(controller.ViewState(msg))
		return m, m.listBox.wait(wrapList)

	case detailStateMsg:
		m.detailState = controller.DetailState(msg)
		return m, m.detailBox.wait(wrapDetail)

	case searchTickMsg:
		if msg.seq == m.searchSeq {
			m.list.Search(msg.query)
		}
		return m, nil

	case genresLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("genre table unavailable", "err", msg.err)
			return m, nil
		}
		m.movies.SetItems(toItems(m.listState.Items, m.genres.Primary))
		return m, nil

	case favoriteToggledMsg:
		switch {
		case msg.err != nil:
			m.status = styles.err.Render(fmt.Sprintf("Could not update favorites: %v", msg.err))
		case msg.favorite:
			m.status = styles.ok.Render("♥ Added to favorites")
		default:
			m.status = styles.warn.Render("Removed from favorites")
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.screen == DetailScreen {
			return m.handleDetailKeys(msg)
		}
		if m.input.Focused() {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

// View renders the UI based on the current screen.
func (m *Model) View() string {
	switch m.screen {
	case DetailScreen:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

// Close cancels all outstanding fetches.
func (m *Model) Close() {
	m.list.CancelAll()
	m.detail.Cancel()
}

func (m *Model) applyListState(s controller.ViewState) {
	replaced := s.Status == controller.Ready && s.Kind.Category() == controller.CategoryReplace
	m.listState = s

	m.movies.SetItems(toItems(s.Items, m.genres.Primary))
	if replaced {
		m.movies.ResetSelected()
	}
	if s.Query == "" {
		m.movies.Title = "Popular Movies"
	} else {
		m.movies.Title = fmt.Sprintf("Results for %q", s.Query)
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Close()
		return m, tea.Quit
	case "esc":
		m.input.Blur()
		return m, nil
	case "enter":
		m.input.Blur()
		m.searchSeq++
		m.list.Search(m.input.Value())
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	return m, tea.Batch(cmd, debounceSearch(m.searchSeq, m.input.Value()))
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.more):
		if !m.list.LoadMore() {
			m.status = styles.help.Render("Nothing more to load")
		}
		return m, nil
	case key.Matches(msg, m.keys.retry):
		m.retryList()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.movies.SelectedItem().(movieItem); ok {
			if err := m.list.Select(m.ctx, item.movie.ID); err != nil {
				m.logger.Warn("failed to remember selection", "movie_id", item.movie.ID, "err", err)
			}
			m.detail.Load(item.movie.ID)
			m.screen = DetailScreen
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.movies, cmd = m.movies.Update(msg)

	if key.Matches(msg, m.keys.down) && m.movies.Index() == len(m.movies.Items())-1 {
		m.list.LoadMore()
	}
	return m, cmd
}

// retryList re-issues whatever produced the current error.
func (m *Model) retryList() {
	if m.listState.Status != controller.Error {
		return
	}

	switch m.listState.Kind {
	case controller.KindPaginate:
		m.list.LoadMore()
	case controller.KindSearch:
		m.list.Search(m.listState.FailedQuery)
	default:
		m.list.StartInitialLoad()
	}
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.detail.Cancel()
		m.screen = ListScreen
		return m, nil
	case key.Matches(msg, m.keys.retry):
		if m.detailState.Status == controller.Error {
			m.detail.Load(m.detailState.MovieID)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.detailState.Status != controller.Ready {
			return m, nil
		}
		return m, m.toggleFavorite()
	case key.Matches(msg, m.keys.open):
		return m, m.openInBrowser(m.detailState.MovieID)
	}
	return m, nil
}

func (m *Model) loadGenres() tea.Cmd {
	return func() tea.Msg {
		return genresLoadedMsg{err: m.genres.Load(m.ctx)}
	}
}

func (m *Model) toggleFavorite() tea.Cmd {
	return func() tea.Msg {
		fav, err := m.detail.ToggleFavorite(m.ctx)
		return favoriteToggledMsg{favorite: fav, err: err}
	}
}

func (m *Model) openInBrowser(id int) tea.Cmd {
	return func() tea.Msg {
		if err := shared.OpenBrowser(shared.MoviePageURL(id)); err != nil {
			m.logger.Warn("failed to open browser", "err", err)
			return statusMsg(styles.warn.Render("Could not open browser: " + shared.MoviePageURL(id)))
		}
		return statusMsg("")
	}
}

func (m *Model) renderList() string {
	var b strings.Builder

	if m.input.Focused() || m.input.Value() != "" {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	switch m.listState.Status {
	case controller.Loading:
		if len(m.listState.Items) == 0 {
			b.WriteString(fmt.Sprintf("%s Loading movies...\n", m.spinner.View()))
			return b.String()
		}
	case controller.Error:
		if len(m.listState.Items) == 0 {
			b.WriteString(styles.err.Render(m.listState.Message))
			b.WriteString("\n\n")
			b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.retry, m.keys.search, m.keys.quit}))
			return b.String()
		}
	case controller.Ready:
		if len(m.listState.Items) == 0 {
			b.WriteString(styles.help.Render("No movies found."))
			b.WriteString("\n\n")
			b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.search, m.keys.quit}))
			return b.String()
		}
	}

	b.WriteString(m.movies.View())
	b.WriteString("\n")

	switch {
	case m.listState.Status == controller.Loading:
		b.WriteString(fmt.Sprintf("%s Loading...\n", m.spinner.View()))
	case m.listState.Status == controller.Error:
		b.WriteString(styles.err.Render(m.listState.Message) + "\n")
	case m.status != "":
		b.WriteString(m.status + "\n")
	case m.listState.HasMore():
		b.WriteString(styles.help.Render(fmt.Sprintf("Page %d of %d", m.listState.Page, m.listState.TotalPages)) + "\n")
	}

	keys := []key.Binding{m.keys.enter, m.keys.search}
	if m.listState.HasMore() {
		keys = append(keys, m.keys.more)
	}
	if m.listState.Status == controller.Error {
		keys = append(keys, m.keys.retry)
	}
	keys = append(keys, m.keys.quit)
	b.WriteString(m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderDetail() string {
	s := m.detailState

	switch s.Status {
	case controller.Loading, controller.Idle:
		return fmt.Sprintf("%s Loading movie...\n\n%s", m.spinner.View(), m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	case controller.Error:
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(s.Message), m.help.ShortHelpView([]key.Binding{m.keys.retry, m.keys.back, m.keys.quit}))
	}

	d := s.View.Details
	c := s.View.Credits

	var b strings.Builder
	title := d.Title
	if s.Favorite {
		title = "♥ " + title
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")
	if d.Tagline != "" {
		b.WriteString(styles.help.Render(d.Tagline) + "\n\n")
	}

	rows := [][2]string{
		{"Year", d.Year()},
		{"Runtime", shared.FormatRuntime(d.Runtime)},
		{"Rating", styles.Rating(d.VoteAverage, "★ "+d.Rating())},
		{"Genres", d.GenreNames()},
		{"Director", c.Director()},
		{"Countries", d.Countries()},
		{"Languages", d.Languages()},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n", styles.label.Render(fmt.Sprintf("%-10s", r[0])), r[1]))
	}

	if d.Overview != "" {
		b.WriteString("\n" + d.Overview + "\n")
	}

	if cast := c.TopCast(models.TopCastSize); len(cast) > 0 {
		b.WriteString("\n" + styles.label.Render("Cast") + "\n")
		for _, member := range cast {
			b.WriteString(fmt.Sprintf("  • %s as %s\n", member.Name, member.Character))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.favorite, m.keys.open, m.keys.back, m.keys.quit}))
	return b.String()
}
