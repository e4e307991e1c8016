package dataview

import (
	"io"
	"log/slog"
)

// Options holds the tuning knobs of a list. They are fixed at construction.
type Options struct {
	PageSize      int // Items per page (paginated lists only)
	LoadMargins   int // Rows fetched beyond each edge of the window
	ScrollMargins int // Rows kept between the cursor and the window edge
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		PageSize:      128,
		LoadMargins:   32,
		ScrollMargins: 3,
	}
}

func (o Options) normalized() Options {
	if o.PageSize < 1 {
		o.PageSize = 1
	}
	if o.LoadMargins < 0 {
		o.LoadMargins = 0
	}
	if o.ScrollMargins < 0 {
		o.ScrollMargins = 0
	}
	return o
}

type listConfig struct {
	options Options
	logger  *slog.Logger
}

// ListOption configures an InteractiveList at construction.
type ListOption func(*listConfig)

// WithOptions sets the list options.
func WithOptions(o Options) ListOption {
	return func(c *listConfig) {
		c.options = o
	}
}

// WithLogger sets the logger used for debug output. Lists log nothing by
// default.
func WithLogger(l *slog.Logger) ListOption {
	return func(c *listConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newListConfig(opts []ListOption) listConfig {
	c := listConfig{
		options: DefaultOptions(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.options = c.options.normalized()
	return c
}
