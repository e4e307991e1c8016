package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrFeedNotFound is returned when a feed is not found.
var ErrFeedNotFound = errors.New("feed not found")

// ErrDuplicateFeed is returned when a feed with the same source exists.
var ErrDuplicateFeed = errors.New("feed already exists")

// AddFeed creates a new feed record and fills in its ID.
func (s *SQLiteStore) AddFeed(ctx context.Context, f *Feed) error {
	if f == nil {
		return errors.New("feed cannot be nil")
	}
	f.Source = strings.TrimSpace(f.Source)
	if f.Source == "" {
		return errors.New("source is required")
	}
	if strings.TrimSpace(f.Title) == "" {
		f.Title = f.Source
	}
	if f.Status == "" {
		f.Status = FeedPending
	}
	if !f.Status.Valid() {
		return fmt.Errorf("invalid feed status %q", f.Status)
	}
	if f.AddedAtUnixMs == 0 {
		f.AddedAtUnixMs = time.Now().UnixMilli()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO feeds (title, source, status, error_code, added_at_unix_ms)
		VALUES (?, ?, ?, ?, ?)
	`, f.Title, f.Source, string(f.Status), f.ErrorCode, f.AddedAtUnixMs)
	if err != nil {
		if isUniqueError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateFeed, f.Source)
		}
		return fmt.Errorf("failed to create feed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get feed id: %w", err)
	}
	f.ID = id
	return nil
}

// GetFeed retrieves a feed by ID.
func (s *SQLiteStore) GetFeed(ctx context.Context, id int64) (*Feed, error) {
	var f Feed
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, source, status, error_code, added_at_unix_ms
		FROM feeds
		WHERE id = ?
	`, id).Scan(&f.ID, &f.Title, &f.Source, &status, &f.ErrorCode, &f.AddedAtUnixMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	f.Status = FeedStatus(status)
	return &f, nil
}

// ListFeeds returns every feed in title order with its episode counts.
func (s *SQLiteStore) ListFeeds(ctx context.Context) ([]FeedSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.title, f.status, f.error_code,
		       COUNT(e.id),
		       COALESCE(SUM(CASE WHEN e.status = 'new' THEN 1 ELSE 0 END), 0)
		FROM feeds f
		LEFT JOIN episodes e ON e.feed_id = f.id
		GROUP BY f.id
		ORDER BY f.title COLLATE NOCASE, f.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feeds: %w", err)
	}
	defer rows.Close()

	feeds := []FeedSummary{}
	for rows.Next() {
		var f FeedSummary
		var status string
		if err := rows.Scan(&f.FeedID, &f.Title, &status, &f.ErrorCode, &f.EpisodeCount, &f.NewCount); err != nil {
			return nil, fmt.Errorf("failed to scan feed: %w", err)
		}
		f.Status = FeedStatus(status)
		feeds = append(feeds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feeds: %w", err)
	}
	return feeds, nil
}

// FeedSummaryOf returns the list row for a single feed.
func (s *SQLiteStore) FeedSummaryOf(ctx context.Context, id int64) (FeedSummary, error) {
	var f FeedSummary
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT f.id, f.title, f.status, f.error_code,
		       COUNT(e.id),
		       COALESCE(SUM(CASE WHEN e.status = 'new' THEN 1 ELSE 0 END), 0)
		FROM feeds f
		LEFT JOIN episodes e ON e.feed_id = f.id
		WHERE f.id = ?
		GROUP BY f.id
	`, id).Scan(&f.FeedID, &f.Title, &status, &f.ErrorCode, &f.EpisodeCount, &f.NewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return FeedSummary{}, ErrFeedNotFound
	}
	if err != nil {
		return FeedSummary{}, fmt.Errorf("failed to get feed summary: %w", err)
	}
	f.Status = FeedStatus(status)
	return f, nil
}

// RenameFeed changes a feed's title.
func (s *SQLiteStore) RenameFeed(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	return s.updateFeed(ctx, "rename", `UPDATE feeds SET title = ? WHERE id = ?`, title, id)
}

// RemoveFeed deletes a feed and all of its episodes.
func (s *SQLiteStore) RemoveFeed(ctx context.Context, id int64) error {
	return s.updateFeed(ctx, "remove", `DELETE FROM feeds WHERE id = ?`, id)
}

// SetFeedStatus records the result of the last update of a feed.
func (s *SQLiteStore) SetFeedStatus(ctx context.Context, id int64, status FeedStatus, errorCode string) error {
	if !status.Valid() {
		return fmt.Errorf("invalid feed status %q", status)
	}
	if status != FeedError {
		errorCode = ""
	}
	return s.updateFeed(ctx, "set status of",
		`UPDATE feeds SET status = ?, error_code = ? WHERE id = ?`, string(status), errorCode, id)
}

func (s *SQLiteStore) updateFeed(ctx context.Context, op, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s feed: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrFeedNotFound
	}
	return nil
}
