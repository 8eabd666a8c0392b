package db

import (
	"context"
	"fmt"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"

	"podkeep/models"
)

// IncrementListen adds delta listens to an episode's counter in a
// single UPDATE, so concurrent processes never lose counts.
func (s *Store) IncrementListen(ctx context.Context, episodeID string, delta int64) error {
	return s.increment(ctx, "listen_count", episodeID, delta)
}

// IncrementDownload adds delta downloads to an episode's counter.
func (s *Store) IncrementDownload(ctx context.Context, episodeID string, delta int64) error {
	return s.increment(ctx, "download_count", episodeID, delta)
}

func (s *Store) increment(ctx context.Context, column, episodeID string, delta int64) error {
	if delta < 1 {
		return &models.ValidationError{Field: "count", Reason: "must be at least 1"}
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update("episodes")
	ub.Set(ub.Add(column, delta))
	ub.Where(ub.Equal("id", episodeID))
	query, args := ub.Build()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return &models.NotFoundError{Entity: "episode", ID: episodeID}
	}

	log.WithFields(log.Fields{
		"episode": episodeID,
		"column":  column,
		"delta":   delta,
	}).Info("Incremented counter")

	return nil
}

// PodcastStats aggregates a podcast's episode count and counter totals.
// An existing podcast with no episodes reports zeroes.
func (s *Store) PodcastStats(ctx context.Context, podcastID string) (models.PodcastStats, error) {
	if _, err := s.GetPodcast(ctx, podcastID); err != nil {
		return models.PodcastStats{}, err
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(
		"COUNT(*)",
		"COALESCE(SUM(listen_count), 0)",
		"COALESCE(SUM(download_count), 0)",
	)
	sb.From("episodes")
	sb.Where(sb.Equal("podcast_id", podcastID))
	query, args := sb.Build()

	stats := models.PodcastStats{PodcastID: podcastID}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.EpisodeCount,
		&stats.TotalListens,
		&stats.TotalDownloads,
	); err != nil {
		return models.PodcastStats{}, fmt.Errorf("query stats: %w", err)
	}

	return stats, nil
}
