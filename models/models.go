package models

import "time"

// Podcast is a show in the catalog. Episode counters live on the
// episodes; the podcast row itself is immutable after creation.
type Podcast struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	FeedURL     string    `json:"feedUrl"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category,omitempty"`
	Explicit    bool      `json:"explicit"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate reports the first violated podcast invariant.
func (p Podcast) Validate() error {
	if p.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if p.FeedURL == "" {
		return &ValidationError{Field: "feedUrl", Reason: "must not be empty"}
	}
	return nil
}

// Episode belongs to exactly one podcast. A nil PublishedAt marks a
// draft; drafts are stored but never rendered into feeds. Counters are
// int64 and assumed to never wrap.
type Episode struct {
	ID            string     `json:"id"`
	PodcastID     string     `json:"podcastId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	AudioURL      string     `json:"audioUrl"`
	AudioSize     int64      `json:"audioSize"`
	DurationSecs  int64      `json:"durationSecs"`
	Season        *int       `json:"season,omitempty"`
	EpisodeNum    *int       `json:"episodeNum,omitempty"`
	Explicit      bool       `json:"explicit"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	ListenCount   int64      `json:"listenCount"`
	DownloadCount int64      `json:"downloadCount"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Validate reports the first violated episode invariant.
func (e Episode) Validate() error {
	if e.PodcastID == "" {
		return &ValidationError{Field: "podcastId", Reason: "must not be empty"}
	}
	if e.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if e.AudioURL == "" {
		return &ValidationError{Field: "audioUrl", Reason: "must not be empty"}
	}
	if e.AudioSize < 0 {
		return &ValidationError{Field: "audioSize", Reason: "must not be negative"}
	}
	if e.DurationSecs < 0 {
		return &ValidationError{Field: "durationSecs", Reason: "must not be negative"}
	}
	if e.Season != nil && *e.Season < 1 {
		return &ValidationError{Field: "season", Reason: "must be a positive integer when set"}
	}
	if e.EpisodeNum != nil && *e.EpisodeNum < 1 {
		return &ValidationError{Field: "episodeNum", Reason: "must be a positive integer when set"}
	}
	if e.ListenCount < 0 {
		return &ValidationError{Field: "listenCount", Reason: "must not be negative"}
	}
	if e.DownloadCount < 0 {
		return &ValidationError{Field: "downloadCount", Reason: "must not be negative"}
	}
	return nil
}

// PodcastStats aggregates the counters of a podcast's episodes.
type PodcastStats struct {
	PodcastID      string `json:"podcastId"`
	EpisodeCount   int64  `json:"episodeCount"`
	TotalListens   int64  `json:"totalListens"`
	TotalDownloads int64  `json:"totalDownloads"`
}
