// Package ui implements the two-pane feed and episode browser on top of
// dataview lists.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/casts/internal/command"
	"github.com/runger/casts/internal/dataview"
	"github.com/runger/casts/internal/library"
	"github.com/runger/casts/internal/logging"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// chromeLines is the number of rows not available to list rows: the
	// pane headers and the status line.
	chromeLines = 2

	defaultPaneWidth   = 32
	defaultPlaceholder = " . . . "
)

// ErrNothingSelected is reported by commands that act on a selection.
var ErrNothingSelected = errors.New("nothing selected")

type pane int

const (
	paneFeeds pane = iota
	paneEpisodes
)

// Options configures a Model.
type Options struct {
	List           dataview.Options
	FetchTimeout   time.Duration
	FeedsPaneWidth int
	Placeholder    string

	// RCFile is executed once at start-up. Empty disables it.
	RCFile string

	Keys   *command.KeyMap
	Logger *slog.Logger
}

type (
	initMsg struct{}

	feedAddedMsg struct {
		summary library.FeedSummary
		err     error
	}

	feedUpdatedMsg struct {
		summary library.FeedSummary
		err     error
	}

	feedRemovedMsg struct {
		id  int64
		err error
	}

	episodeMarkedMsg struct {
		id     int64
		status library.EpisodeStatus
		feed   library.FeedSummary
		err    error
	}
)

// Model is the bubbletea model of the browser.
type Model struct {
	store   library.Store
	opts    Options
	logger  *slog.Logger
	keys    *command.KeyMap
	queue   *cmdQueue
	timeout time.Duration

	feeds    *dataview.InteractiveList[library.FeedSummary, int64]
	episodes *dataview.InteractiveList[library.EpisodeSummary, int64]

	// episodesFeed is the feed the episodes pane was last attached to.
	episodesFeed    int64
	hasEpisodesFeed bool

	focus pane

	prompt     textinput.Model
	prompting  bool
	history    []string
	historyIdx int

	status    string
	statusErr bool

	width    int
	height   int
	quitting bool
}

// NewModel creates a browser over store.
func NewModel(store library.Store, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Keys == nil {
		opts.Keys = command.DefaultKeyMap()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.FeedsPaneWidth <= 0 {
		opts.FeedsPaneWidth = defaultPaneWidth
	}
	if opts.Placeholder == "" {
		opts.Placeholder = defaultPlaceholder
	}
	if opts.List == (dataview.Options{}) {
		opts.List = dataview.DefaultOptions()
	}

	window := listHeight(defaultHeight)
	listOpts := []dataview.ListOption{
		dataview.WithOptions(opts.List),
		dataview.WithLogger(opts.Logger),
	}

	ti := textinput.New()
	ti.Prompt = ":"
	ti.CharLimit = 1024
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		store:    store,
		opts:     opts,
		logger:   opts.Logger,
		keys:     opts.Keys,
		queue:    &cmdQueue{},
		timeout:  opts.FetchTimeout,
		feeds:    dataview.NewLinearList[library.FeedSummary, int64](window, listOpts...),
		episodes: dataview.NewPaginatedList[library.EpisodeSummary, int64](window, listOpts...),
		prompt:   ti,
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m, tea.Batch(cmd, m.queue.drain())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initMsg:
		m.feeds.SetProvider(newFeedsProvider(m.store, m.queue, m.timeout, m.logger))
		return m.runRCFile()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.feeds.SetWindowSize(listHeight(msg.Height))
		m.episodes.SetWindowSize(listHeight(msg.Height))
		m.prompt.Width = max(msg.Width-2, 1)
		return m, nil

	case feedsDataMsg:
		if !m.accept("feeds", msg.req.Version, m.feeds.Version()) {
			return m, nil
		}
		if msg.err != nil {
			logging.LogFetchError(m.logger, "feeds", msg.req.Data.String(), msg.err)
			m.setError(msg.err)
			return m, nil
		}
		m.feeds.HandleData(msg.resp)
		m.syncEpisodes()
		return m, nil

	case episodesDataMsg:
		if !m.accept("episodes", msg.req.Version, m.episodes.Version()) {
			return m, nil
		}
		if msg.err != nil {
			logging.LogFetchError(m.logger, "episodes", msg.req.Data.String(), msg.err)
			m.setError(msg.err)
			return m, nil
		}
		m.episodes.HandleData(msg.resp)
		return m, nil

	case feedAddedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.feeds.AddItem(msg.summary)
		m.feeds.SelectID(msg.summary.FeedID)
		m.syncEpisodes()
		m.setStatus("added " + msg.summary.Title)
		return m, nil

	case feedUpdatedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.feeds.ReplaceItem(msg.summary)
		m.episodes.UpdateAll(func(e *library.EpisodeSummary) {
			if e.FeedID == msg.summary.FeedID {
				e.FeedTitle = msg.summary.Title
			}
		})
		m.setStatus("renamed to " + msg.summary.Title)
		return m, nil

	case feedRemovedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.feeds.RemoveItem(msg.id)
		m.syncEpisodes()
		m.setStatus("feed deleted")
		return m, nil

	case episodeMarkedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.episodes.UpdateItem(msg.id, func(e *library.EpisodeSummary) {
			e.Status = msg.status
		})
		m.feeds.ReplaceItem(msg.feed)
		m.setStatus("marked " + string(msg.status))
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// accept reports whether a response tagged with version may reach its list.
func (m Model) accept(list string, version, current uint64) bool {
	if version == current {
		return true
	}
	logging.LogStaleResponse(m.logger, list, version, current)
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case ":":
		m.prompting = true
		m.historyIdx = len(m.history)
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, nil
	}

	cmd, ok := m.keys.Lookup(msg.String())
	if !ok {
		return m, nil
	}
	return m.run(cmd, "key "+msg.String())
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closePrompt()
		return m, nil

	case tea.KeyEnter:
		line := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if line == "" {
			return m, nil
		}
		m.history = append(m.history, line)
		cmd, err := command.Parse(line)
		if err != nil {
			logging.LogCommandError(m.logger, "prompt", line, err)
			m.setError(err)
			return m, nil
		}
		return m.run(cmd, "prompt")

	case tea.KeyUp:
		if m.historyIdx > 0 {
			m.historyIdx--
			m.prompt.SetValue(m.history[m.historyIdx])
			m.prompt.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIdx < len(m.history) {
			m.historyIdx++
			value := ""
			if m.historyIdx < len(m.history) {
				value = m.history[m.historyIdx]
			}
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// run executes cmd through a command.Runner so that map, unmap and exec
// behave the same from keys, the prompt and rc files.
func (m Model) run(cmd command.Command, source string) (Model, tea.Cmd) {
	var out []tea.Cmd
	runner := m.runner(&m, &out)
	if err := runner.Run(cmd); err != nil {
		logging.LogCommandError(m.logger, source, cmd.String(), err)
		m.setError(err)
	}
	return m, tea.Batch(out...)
}

func (m Model) runRCFile() (Model, tea.Cmd) {
	if m.opts.RCFile == "" {
		return m, nil
	}
	if _, err := os.Stat(m.opts.RCFile); errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	var out []tea.Cmd
	runner := m.runner(&m, &out)
	errs := runner.RunFile(m.opts.RCFile)
	for _, err := range errs {
		logging.LogCommandError(m.logger, m.opts.RCFile, "", err)
	}
	if len(errs) > 0 {
		m.setError(errs[0])
	}
	return m, tea.Batch(out...)
}

func (m Model) runner(target *Model, out *[]tea.Cmd) *command.Runner {
	return &command.Runner{
		Keys: m.keys,
		Host: func(cmd command.Command) error {
			c, err := target.execute(cmd)
			if c != nil {
				*out = append(*out, c)
			}
			return err
		},
	}
}

// execute performs a command that is not handled by the runner itself.
func (m *Model) execute(cmd command.Command) (tea.Cmd, error) {
	switch cmd.Kind {
	case command.KindCursor:
		if m.focus == paneFeeds {
			if m.feeds.HandleCommand(cmd.Cursor) {
				m.syncEpisodes()
			}
		} else {
			m.episodes.HandleCommand(cmd.Cursor)
		}
		return nil, nil

	case command.KindToggleFocus:
		if m.focus == paneFeeds {
			m.focus = paneEpisodes
		} else {
			m.focus = paneFeeds
		}
		return nil, nil

	case command.KindQuit:
		m.quitting = true
		return tea.Quit, nil

	case command.KindAddFeed:
		return m.addFeed(cmd.Title, cmd.Source), nil

	case command.KindRenameFeed:
		feed, ok := m.feeds.Selection()
		if !ok {
			return nil, fmt.Errorf("rename-feed: %w", ErrNothingSelected)
		}
		return m.renameFeed(feed.FeedID, cmd.Title), nil

	case command.KindDeleteFeed:
		feed, ok := m.feeds.Selection()
		if !ok {
			return nil, fmt.Errorf("delete-feed: %w", ErrNothingSelected)
		}
		return m.removeFeed(feed.FeedID), nil

	case command.KindMark:
		episode, ok := m.episodes.Selection()
		if !ok {
			return nil, fmt.Errorf("mark: %w", ErrNothingSelected)
		}
		return m.markEpisode(episode, cmd.Status), nil

	default:
		return nil, fmt.Errorf("%s: not available here", cmd)
	}
}

// syncEpisodes points the episodes pane at the selected feed. The pane is
// only reattached when the selected feed changes.
func (m *Model) syncEpisodes() {
	feed, ok := m.feeds.Selection()
	if !ok {
		if m.episodes.Provider() != nil {
			m.episodes.SetProvider(nil)
		}
		m.hasEpisodesFeed = false
		return
	}
	if m.hasEpisodesFeed && m.episodesFeed == feed.FeedID {
		return
	}
	m.episodesFeed = feed.FeedID
	m.hasEpisodesFeed = true
	m.episodes.SetProvider(newEpisodesProvider(m.store, library.ForFeed(feed.FeedID), m.queue, m.timeout, m.logger))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// Focused reports which pane has the cursor.
func (m Model) Focused() string {
	if m.focus == paneEpisodes {
		return "episodes"
	}
	return "feeds"
}

// Quitting reports whether the model asked the program to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) addFeed(title, source string) tea.Cmd {
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		feed := &library.Feed{Title: title, Source: source}
		if err := store.AddFeed(ctx, feed); err != nil {
			return feedAddedMsg{err: fmt.Errorf("add-feed: %w", err)}
		}
		summary, err := store.FeedSummaryOf(ctx, feed.ID)
		if err != nil {
			return feedAddedMsg{err: fmt.Errorf("add-feed: %w", err)}
		}
		return feedAddedMsg{summary: summary}
	}
}

func (m Model) renameFeed(id int64, title string) tea.Cmd {
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := store.RenameFeed(ctx, id, title); err != nil {
			return feedUpdatedMsg{err: fmt.Errorf("rename-feed: %w", err)}
		}
		summary, err := store.FeedSummaryOf(ctx, id)
		if err != nil {
			return feedUpdatedMsg{err: fmt.Errorf("rename-feed: %w", err)}
		}
		return feedUpdatedMsg{summary: summary}
	}
}

func (m Model) removeFeed(id int64) tea.Cmd {
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := store.RemoveFeed(ctx, id); err != nil {
			return feedRemovedMsg{err: fmt.Errorf("delete-feed: %w", err)}
		}
		return feedRemovedMsg{id: id}
	}
}

func (m Model) markEpisode(episode library.EpisodeSummary, status library.EpisodeStatus) tea.Cmd {
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := store.MarkEpisode(ctx, episode.EpisodeID, status); err != nil {
			return episodeMarkedMsg{err: fmt.Errorf("mark: %w", err)}
		}
		feed, err := store.FeedSummaryOf(ctx, episode.FeedID)
		if err != nil {
			return episodeMarkedMsg{err: fmt.Errorf("mark: %w", err)}
		}
		return episodeMarkedMsg{id: episode.EpisodeID, status: status, feed: feed}
	}
}

// listHeight returns the number of list rows that fit in a terminal of the
// given height.
func listHeight(height int) int {
	return max(height-chromeLines, 1)
}
