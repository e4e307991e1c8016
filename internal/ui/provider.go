package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/casts/internal/dataview"
	"github.com/runger/casts/internal/library"
	"github.com/runger/casts/internal/logging"
)

const defaultFetchTimeout = 500 * time.Millisecond

// cmdQueue collects the fetches lists issue while an Update runs. The model
// drains it into the command it returns, so every fetch runs off the event
// loop and comes back as a message.
type cmdQueue struct {
	cmds []tea.Cmd
}

func (q *cmdQueue) push(cmd tea.Cmd) {
	q.cmds = append(q.cmds, cmd)
}

func (q *cmdQueue) drain() tea.Cmd {
	if len(q.cmds) == 0 {
		return nil
	}
	cmds := q.cmds
	q.cmds = nil
	return tea.Batch(cmds...)
}

// feedsDataMsg answers a request of the feeds list.
type feedsDataMsg struct {
	req  dataview.Versioned[dataview.Request]
	resp dataview.Versioned[dataview.Message[library.FeedSummary]]
	err  error
}

// episodesDataMsg answers a request of the episodes list.
type episodesDataMsg struct {
	req  dataview.Versioned[dataview.Request]
	resp dataview.Versioned[dataview.Message[library.EpisodeSummary]]
	err  error
}

// FeedsProvider loads every feed summary in one query.
type FeedsProvider struct {
	store   library.Store
	queue   *cmdQueue
	timeout time.Duration
	logger  *slog.Logger
}

var _ dataview.DataProvider = (*FeedsProvider)(nil)

func newFeedsProvider(store library.Store, queue *cmdQueue, timeout time.Duration, logger *slog.Logger) *FeedsProvider {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &FeedsProvider{store: store, queue: queue, timeout: timeout, logger: logger}
}

// Request implements dataview.DataProvider.
func (p *FeedsProvider) Request(req dataview.Versioned[dataview.Request]) {
	store, timeout := p.store, p.timeout
	p.logger.Debug("feeds fetch", "request", req.Data.String(), "version", req.Version)
	p.queue.push(func() tea.Msg {
		if req.Data.Kind != dataview.RequestFullLoad {
			return feedsDataMsg{req: req, err: fmt.Errorf("feeds provider: unsupported request %s", req.Data)}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		feeds, err := store.ListFeeds(ctx)
		if err != nil {
			return feedsDataMsg{req: req, err: fmt.Errorf("feeds provider: %w", err)}
		}
		return feedsDataMsg{
			req:  req,
			resp: dataview.Respond(req, dataview.FullLoadMessage(feeds)),
		}
	})
}

// EpisodesProvider answers size and page requests for one episodes query.
type EpisodesProvider struct {
	store   library.Store
	query   library.EpisodesQuery
	queue   *cmdQueue
	timeout time.Duration
	logger  *slog.Logger
}

var _ dataview.DataProvider = (*EpisodesProvider)(nil)

func newEpisodesProvider(store library.Store, query library.EpisodesQuery, queue *cmdQueue, timeout time.Duration, logger *slog.Logger) *EpisodesProvider {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &EpisodesProvider{store: store, query: query, queue: queue, timeout: timeout, logger: logger}
}

// Query returns the query the provider answers.
func (p *EpisodesProvider) Query() library.EpisodesQuery {
	return p.query
}

// Request implements dataview.DataProvider.
func (p *EpisodesProvider) Request(req dataview.Versioned[dataview.Request]) {
	store, query, timeout := p.store, p.query, p.timeout
	p.logger.Debug("episodes fetch", "request", req.Data.String(), "version", req.Version)
	p.queue.push(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		switch req.Data.Kind {
		case dataview.RequestSize:
			n, err := store.CountEpisodes(ctx, query)
			if err != nil {
				return episodesDataMsg{req: req, err: fmt.Errorf("episodes provider: %w", err)}
			}
			return episodesDataMsg{
				req:  req,
				resp: dataview.Respond(req, dataview.SizeMessage[library.EpisodeSummary](n)),
			}
		case dataview.RequestPage:
			page := req.Data.Page
			items, err := store.QueryEpisodes(ctx, query, page.Offset(), page.Size)
			if err != nil {
				return episodesDataMsg{req: req, err: fmt.Errorf("episodes provider: %w", err)}
			}
			return episodesDataMsg{
				req:  req,
				resp: dataview.Respond(req, dataview.PageMessage(page.Index, items)),
			}
		default:
			return episodesDataMsg{req: req, err: fmt.Errorf("episodes provider: unsupported request %s", req.Data)}
		}
	})
}
