// Package library provides SQLite-based persistent storage for casts.
// It holds podcast feeds and their episodes and answers the count and
// offset/limit queries the episode list pages through.
package library

import (
	"context"
	"fmt"
	"time"
)

// Store defines the interface for all library operations.
type Store interface {
	// Feeds
	AddFeed(ctx context.Context, f *Feed) error
	GetFeed(ctx context.Context, id int64) (*Feed, error)
	ListFeeds(ctx context.Context) ([]FeedSummary, error)
	FeedSummaryOf(ctx context.Context, id int64) (FeedSummary, error)
	RenameFeed(ctx context.Context, id int64, title string) error
	RemoveFeed(ctx context.Context, id int64) error
	SetFeedStatus(ctx context.Context, id int64, status FeedStatus, errorCode string) error

	// Episodes
	AddEpisode(ctx context.Context, e *Episode) error
	CountEpisodes(ctx context.Context, q EpisodesQuery) (int, error)
	QueryEpisodes(ctx context.Context, q EpisodesQuery, offset, count int) ([]EpisodeSummary, error)
	MarkEpisode(ctx context.Context, id int64, status EpisodeStatus) error

	// Lifecycle
	Close() error
}

// FeedStatus is the update state of a feed.
type FeedStatus string

const (
	FeedPending FeedStatus = "pending"
	FeedOK      FeedStatus = "ok"
	FeedError   FeedStatus = "error"
)

// Valid reports whether s is a known feed status.
func (s FeedStatus) Valid() bool {
	switch s {
	case FeedPending, FeedOK, FeedError:
		return true
	}
	return false
}

// EpisodeStatus is the listening state of an episode.
type EpisodeStatus string

const (
	EpisodeNew     EpisodeStatus = "new"
	EpisodeStarted EpisodeStatus = "started"
	EpisodePlayed  EpisodeStatus = "played"
)

// ParseEpisodeStatus validates a user-supplied episode status.
func ParseEpisodeStatus(s string) (EpisodeStatus, error) {
	switch st := EpisodeStatus(s); st {
	case EpisodeNew, EpisodeStarted, EpisodePlayed:
		return st, nil
	}
	return "", &InvalidStatusError{Value: s}
}

// InvalidStatusError is returned for an unknown episode status.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid episode status %q (want new, started or played)", e.Value)
}

// Feed is a stored podcast feed.
type Feed struct {
	ID            int64
	Title         string
	Source        string // Feed URL; unique
	Status        FeedStatus
	ErrorCode     string
	AddedAtUnixMs int64
}

// FeedSummary is the row shape of the feeds list.
type FeedSummary struct {
	FeedID       int64
	Title        string
	Status       FeedStatus
	ErrorCode    string
	EpisodeCount int
	NewCount     int
}

// ID returns the feed id.
func (f FeedSummary) ID() int64 { return f.FeedID }

// Episode is a stored episode.
type Episode struct {
	ID              int64
	FeedID          int64
	GUID            string // Generated when empty
	Title           string
	Description     string
	MediaURL        string
	DurationMs      int64
	PublishedUnixMs int64
	Status          EpisodeStatus
}

// EpisodeSummary is the row shape of the episodes list.
type EpisodeSummary struct {
	EpisodeID       int64
	FeedID          int64
	FeedTitle       string
	Title           string
	DurationMs      int64
	PublishedUnixMs int64
	Status          EpisodeStatus
}

// ID returns the episode id.
func (e EpisodeSummary) ID() int64 { return e.EpisodeID }

// Published returns the publication time, or the zero time when unknown.
func (e EpisodeSummary) Published() time.Time {
	if e.PublishedUnixMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.PublishedUnixMs)
}

// Duration returns the episode length.
func (e EpisodeSummary) Duration() time.Duration {
	return time.Duration(e.DurationMs) * time.Millisecond
}

// EpisodesQuery selects the episodes shown by the episode list.
type EpisodesQuery struct {
	FeedID *int64 // Only this feed; all feeds when nil
	Status EpisodeStatus
}

// ForFeed returns a query for a single feed.
func ForFeed(id int64) EpisodesQuery {
	return EpisodesQuery{FeedID: &id}
}
