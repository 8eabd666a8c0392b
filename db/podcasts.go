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

var podcastColumns = []string{
	"id",
	"title",
	"author",
	"description",
	"feed_url",
	"image_url",
	"category",
	"explicit",
	"language",
	"created_at",
}

// CreatePodcast validates and stores a new show.
func (s *Store) CreatePodcast(ctx context.Context, p models.Podcast) error {
	if err := p.Validate(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"podcast": p.ID,
		"title":   p.Title,
	}).Info("Creating podcast")

	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto("podcasts")
	ib.Cols(podcastColumns...)
	ib.Values(
		p.ID,
		p.Title,
		p.Author,
		p.Description,
		p.FeedURL,
		p.ImageURL,
		p.Category,
		boolToInt(p.Explicit),
		p.Language,
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	query, args := ib.Build()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert podcast: %w", err)
	}

	return nil
}

// GetPodcast loads one podcast by id.
func (s *Store) GetPodcast(ctx context.Context, id string) (models.Podcast, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(podcastColumns...)
	sb.From("podcasts")
	sb.Where(sb.Equal("id", id))
	query, args := sb.Build()

	p, err := scanPodcast(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Podcast{}, &models.NotFoundError{Entity: "podcast", ID: id}
	}
	if err != nil {
		return models.Podcast{}, fmt.Errorf("query podcast: %w", err)
	}

	return p, nil
}

// ListPodcasts returns every podcast ordered by title, then id, so
// listings and exports share one stable order.
func (s *Store) ListPodcasts(ctx context.Context) ([]models.Podcast, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(podcastColumns...)
	sb.From("podcasts")
	sb.OrderBy("title COLLATE NOCASE ASC", "id ASC")
	query, args := sb.Build()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query podcasts: %w", err)
	}
	defer rows.Close()

	var podcasts []models.Podcast
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan podcast: %w", err)
		}
		podcasts = append(podcasts, p)
	}

	return podcasts, rows.Err()
}

func scanPodcast(row rowScanner) (models.Podcast, error) {
	var (
		p        models.Podcast
		explicit int64
		created  string
	)
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Author,
		&p.Description,
		&p.FeedURL,
		&p.ImageURL,
		&p.Category,
		&explicit,
		&p.Language,
		&created,
	); err != nil {
		return models.Podcast{}, err
	}

	p.Explicit = explicit != 0

	createdAt, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return models.Podcast{}, fmt.Errorf("parse created_at: %w", err)
	}
	p.CreatedAt = createdAt.UTC()

	return p, nil
}
