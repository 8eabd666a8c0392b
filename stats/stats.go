// Package stats ranks episodes by audience counters and provides the
// counter arithmetic the record commands echo back to the caller.
package stats

import (
	"slices"
	"strings"
	"time"

	"podkeep/models"
)

// TopEpisodes returns the limit most listened-to episodes, most popular
// first. Ties fall to the newest publish time, then to the id, so the
// ranking is a total order: two runs over the same catalog agree. The
// input slice is never reordered. A limit larger than the catalog
// returns everything; zero returns an empty list.
func TopEpisodes(episodes []models.Episode, limit int) ([]models.Episode, error) {
	if limit < 0 {
		return nil, &models.ValidationError{Field: "limit", Reason: "must not be negative"}
	}

	ranked := slices.Clone(episodes)
	slices.SortStableFunc(ranked, byPopularity)
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func byPopularity(a, b models.Episode) int {
	if a.ListenCount != b.ListenCount {
		if a.ListenCount > b.ListenCount {
			return -1
		}
		return 1
	}
	at, bt := publishedOrZero(a), publishedOrZero(b)
	switch {
	case at.After(bt):
		return -1
	case bt.After(at):
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// publishedOrZero ranks drafts as if published at the zero time, i.e.
// behind every dated episode with the same listen count.
func publishedOrZero(e models.Episode) time.Time {
	if e.PublishedAt == nil {
		return time.Time{}
	}
	return e.PublishedAt.UTC()
}

// AddListens returns a copy of the episode with count more listens.
// Persisting the increment is the store's job, not this package's.
func AddListens(e models.Episode, count int64) models.Episode {
	e.ListenCount += count
	return e
}

// AddDownloads returns a copy of the episode with count more downloads.
func AddDownloads(e models.Episode, count int64) models.Episode {
	e.DownloadCount += count
	return e
}

// RecordListen returns a copy of the episode with one more listen.
func RecordListen(e models.Episode) models.Episode {
	return AddListens(e, 1)
}

// RecordDownload returns a copy of the episode with one more download.
func RecordDownload(e models.Episode) models.Episode {
	return AddDownloads(e, 1)
}
