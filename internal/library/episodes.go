package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEpisodeNotFound is returned when an episode is not found.
	ErrEpisodeNotFound = errors.New("episode not found")

	// ErrQueryTooLarge is returned when a page query asks for more than
	// MaxQueryCount episodes.
	ErrQueryTooLarge = errors.New("episode query too large")
)

// MaxQueryCount is the largest count a single QueryEpisodes call accepts.
const MaxQueryCount = 1000

// AddEpisode creates a new episode record and fills in its ID. An empty GUID
// is replaced with a random one.
func (s *SQLiteStore) AddEpisode(ctx context.Context, e *Episode) error {
	if e == nil {
		return errors.New("episode cannot be nil")
	}
	if e.FeedID == 0 {
		return errors.New("feed_id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("title is required")
	}
	if e.GUID == "" {
		e.GUID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EpisodeNew
	}
	if _, err := ParseEpisodeStatus(string(e.Status)); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO episodes (
			feed_id, guid, title, description, media_url,
			duration_ms, published_unix_ms, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.FeedID,
		e.GUID,
		e.Title,
		e.Description,
		e.MediaURL,
		e.DurationMs,
		e.PublishedUnixMs,
		string(e.Status),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: %d", ErrFeedNotFound, e.FeedID)
		}
		if isUniqueError(err) {
			return fmt.Errorf("episode with guid %s already exists in feed %d", e.GUID, e.FeedID)
		}
		return fmt.Errorf("failed to create episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get episode id: %w", err)
	}
	e.ID = id
	return nil
}

// where renders the filter of q.
func (q EpisodesQuery) where() (string, []any) {
	clause := " WHERE 1=1"
	args := make([]any, 0, 2)

	if q.FeedID != nil {
		clause += " AND e.feed_id = ?"
		args = append(args, *q.FeedID)
	}

	if q.Status != "" {
		clause += " AND e.status = ?"
		args = append(args, string(q.Status))
	}

	return clause, args
}

// CountEpisodes returns the number of episodes selected by q.
func (s *SQLiteStore) CountEpisodes(ctx context.Context, q EpisodesQuery) (int, error) {
	where, args := q.where()
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM episodes e"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count episodes: %w", err)
	}
	return n, nil
}

// QueryEpisodes returns up to count episodes selected by q, newest first,
// skipping the first offset. Counts above MaxQueryCount are rejected rather
// than truncated so a caller never mistakes a short answer for the end.
func (s *SQLiteStore) QueryEpisodes(ctx context.Context, q EpisodesQuery, offset, count int) ([]EpisodeSummary, error) {
	if offset < 0 {
		return nil, fmt.Errorf("invalid offset %d", offset)
	}
	if count <= 0 {
		return []EpisodeSummary{}, nil
	}
	if count > MaxQueryCount {
		return nil, fmt.Errorf("%w: %d > %d", ErrQueryTooLarge, count, MaxQueryCount)
	}

	where, args := q.where()
	query := `
		SELECT e.id, e.feed_id, f.title, e.title, e.duration_ms,
		       e.published_unix_ms, e.status
		FROM episodes e
		JOIN feeds f ON f.id = e.feed_id` + where + `
		ORDER BY e.published_unix_ms DESC, e.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, count, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	episodes := make([]EpisodeSummary, 0, count)
	for rows.Next() {
		var e EpisodeSummary
		var status string
		err := rows.Scan(
			&e.EpisodeID,
			&e.FeedID,
			&e.FeedTitle,
			&e.Title,
			&e.DurationMs,
			&e.PublishedUnixMs,
			&status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		e.Status = EpisodeStatus(status)
		episodes = append(episodes, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating episodes: %w", err)
	}

	return episodes, nil
}

// MarkEpisode sets the listening status of an episode.
func (s *SQLiteStore) MarkEpisode(ctx context.Context, id int64, status EpisodeStatus) error {
	if _, err := ParseEpisodeStatus(string(status)); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE episodes SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to mark episode: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEpisodeNotFound
	}
	return nil
}
