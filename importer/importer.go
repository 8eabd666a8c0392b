// Package importer seeds the catalog from an existing public RSS feed:
// it fetches and parses the document, then maps it onto podkeep's own
// records with freshly minted ids and zeroed counters.
package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"

	"podkeep/models"
)

// Options tune the fetch. Zero values fall back to built-in defaults.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxRetries uint64
}

// Fetch downloads and parses the feed at url, retrying transient
// failures with exponential backoff. Client errors (4xx) will not get
// better on a retry and fail immediately.
func Fetch(ctx context.Context, url string, opts Options) (*gofeed.Feed, error) {
	if url == "" {
		return nil, &models.ValidationError{Field: "feedUrl", Reason: "must not be empty"}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := opts.MaxRetries
	if retries == 0 {
		retries = 3
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if opts.UserAgent != "" {
		parser.UserAgent = opts.UserAgent
	}

	var feed *gofeed.Feed
	operation := func() error {
		parsed, err := parser.ParseURLWithContext(url, ctx)
		if err != nil {
			var httpErr gofeed.HTTPError
			if errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			log.WithField("url", url).WithError(err).Warn("Fetch attempt failed")
			return err
		}
		feed = parsed
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx)); err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}

	return feed, nil
}

// Map converts a parsed feed into a podcast and its episodes, minting
// fresh ids and stamping created times with now. feedURL becomes the
// podcast's canonical feed URL. Items without a usable enclosure or a
// title cannot become episodes and are skipped with a warning.
func Map(feed *gofeed.Feed, feedURL string, now time.Time) (models.Podcast, []models.Episode) {
	podcast := models.Podcast{
		ID:          uuid.NewString(),
		Title:       feed.Title,
		Description: feed.Description,
		FeedURL:     feedURL,
		Language:    feed.Language,
		CreatedAt:   now.UTC(),
	}
	if feed.Image != nil {
		podcast.ImageURL = feed.Image.URL
	}
	if feed.Author != nil {
		podcast.Author = feed.Author.Name
	}
	if ext := feed.ITunesExt; ext != nil {
		if podcast.Author == "" {
			podcast.Author = ext.Author
		}
		if podcast.ImageURL == "" {
			podcast.ImageURL = ext.Image
		}
		if len(ext.Categories) > 0 && ext.Categories[0] != nil {
			podcast.Category = ext.Categories[0].Text
		}
		podcast.Explicit = isExplicit(ext.Explicit)
	}
	if podcast.Language == "" {
		podcast.Language = "en"
	}

	episodes := make([]models.Episode, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		episode := mapItem(item, podcast.ID, now)
		if episode.Title == "" || episode.AudioURL == "" {
			log.WithFields(log.Fields{
				"title": item.Title,
				"guid":  item.GUID,
			}).Warn("Skipping item without title or enclosure")
			continue
		}
		episodes = append(episodes, episode)
	}

	return podcast, episodes
}

func mapItem(item *gofeed.Item, podcastID string, now time.Time) models.Episode {
	episode := models.Episode{
		ID:          uuid.NewString(),
		PodcastID:   podcastID,
		Title:       item.Title,
		Description: item.Description,
		CreatedAt:   now.UTC(),
	}

	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		episode.AudioURL = item.Enclosures[0].URL
		if n, err := strconv.ParseInt(item.Enclosures[0].Length, 10, 64); err == nil && n > 0 {
			episode.AudioSize = n
		}
	}

	if item.PublishedParsed != nil {
		utc := item.PublishedParsed.UTC()
		episode.PublishedAt = &utc
	}

	if ext := item.ITunesExt; ext != nil {
		episode.DurationSecs = parseDuration(ext.Duration)
		if n, err := strconv.Atoi(ext.Episode); err == nil && n > 0 {
			episode.EpisodeNum = &n
		}
		if n, err := strconv.Atoi(ext.Season); err == nil && n > 0 {
			episode.Season = &n
		}
		episode.Explicit = isExplicit(ext.Explicit)
	}

	return episode
}

// parseDuration accepts the formats feeds actually put in
// itunes:duration: plain seconds, MM:SS or HH:MM:SS. Anything else
// counts as unknown, which podkeep stores as zero.
func parseDuration(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0
	}

	var total int64
	for _, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

func isExplicit(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "explicit":
		return true
	}
	return false
}
