package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"

	"podkeep/models"
)

var episodeColumns = []string{
	"id",
	"podcast_id",
	"title",
	"description",
	"audio_url",
	"audio_size",
	"duration_secs",
	"season",
	"episode_num",
	"explicit",
	"published_at",
	"listen_count",
	"download_count",
	"created_at",
}

// CreateEpisode validates and stores a new episode. The owning podcast
// must already exist.
func (s *Store) CreateEpisode(ctx context.Context, e models.Episode) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.GetPodcast(ctx, e.PodcastID); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"episode": e.ID,
		"podcast": e.PodcastID,
		"title":   e.Title,
	}).Info("Creating episode")

	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto("episodes")
	ib.Cols(episodeColumns...)
	ib.Values(
		e.ID,
		e.PodcastID,
		e.Title,
		e.Description,
		e.AudioURL,
		e.AudioSize,
		e.DurationSecs,
		e.Season,
		e.EpisodeNum,
		boolToInt(e.Explicit),
		timeOrNil(e.PublishedAt),
		e.ListenCount,
		e.DownloadCount,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	query, args := ib.Build()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}

	return nil
}

// GetEpisode loads one episode by id.
func (s *Store) GetEpisode(ctx context.Context, id string) (models.Episode, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(episodeColumns...)
	sb.From("episodes")
	sb.Where(sb.Equal("id", id))
	query, args := sb.Build()

	e, err := scanEpisode(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Episode{}, &models.NotFoundError{Entity: "episode", ID: id}
	}
	if err != nil {
		return models.Episode{}, fmt.Errorf("query episode: %w", err)
	}

	return e, nil
}

// ListEpisodes returns every episode of a podcast, newest publish time
// first with drafts at the end. Returns NotFoundError when the podcast
// itself is missing, so callers can tell an empty show from a typo.
func (s *Store) ListEpisodes(ctx context.Context, podcastID string) ([]models.Episode, error) {
	if _, err := s.GetPodcast(ctx, podcastID); err != nil {
		return nil, err
	}
	return s.episodesWhere(ctx, podcastID, false)
}

// PublishedEpisodes returns the episodes of a podcast that carry a
// publish time, newest first. Feed rendering starts here: drafts never
// leave the database.
func (s *Store) PublishedEpisodes(ctx context.Context, podcastID string) ([]models.Episode, error) {
	if _, err := s.GetPodcast(ctx, podcastID); err != nil {
		return nil, err
	}
	return s.episodesWhere(ctx, podcastID, true)
}

func (s *Store) episodesWhere(ctx context.Context, podcastID string, publishedOnly bool) ([]models.Episode, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(episodeColumns...)
	sb.From("episodes")
	sb.Where(sb.Equal("podcast_id", podcastID))
	if publishedOnly {
		sb.Where(sb.IsNotNull("published_at"))
	}
	// RFC 3339 UTC strings sort chronologically; DESC puts NULL drafts last.
	sb.OrderBy("published_at DESC", "id ASC")
	query, args := sb.Build()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []models.Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, e)
	}

	return episodes, rows.Err()
}

func scanEpisode(row rowScanner) (models.Episode, error) {
	var (
		e         models.Episode
		season    sql.NullInt64
		episode   sql.NullInt64
		explicit  int64
		published sql.NullString
		created   string
	)
	if err := row.Scan(
		&e.ID,
		&e.PodcastID,
		&e.Title,
		&e.Description,
		&e.AudioURL,
		&e.AudioSize,
		&e.DurationSecs,
		&season,
		&episode,
		&explicit,
		&published,
		&e.ListenCount,
		&e.DownloadCount,
		&created,
	); err != nil {
		return models.Episode{}, err
	}

	if season.Valid {
		v := int(season.Int64)
		e.Season = &v
	}
	if episode.Valid {
		v := int(episode.Int64)
		e.EpisodeNum = &v
	}
	e.Explicit = explicit != 0

	if published.Valid {
		t, err := time.Parse(time.RFC3339, published.String)
		if err != nil {
			return models.Episode{}, fmt.Errorf("parse published_at: %w", err)
		}
		utc := t.UTC()
		e.PublishedAt = &utc
	}

	createdAt, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return models.Episode{}, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = createdAt.UTC()

	return e, nil
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
