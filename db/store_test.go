package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podkeep/db"
	"podkeep/models"
)

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storedPodcast(id, title string) models.Podcast {
	return models.Podcast{
		ID:          id,
		Title:       title,
		Author:      "Jane Doe",
		Description: "A show about things",
		FeedURL:     "https://example.com/" + id + ".xml",
		ImageURL:    "https://example.com/" + id + ".png",
		Category:    "Technology",
		Explicit:    true,
		Language:    "en",
		CreatedAt:   time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func storedEpisode(id, podcastID string, published *time.Time) models.Episode {
	return models.Episode{
		ID:           id,
		PodcastID:    podcastID,
		Title:        "Episode " + id,
		Description:  "Notes for " + id,
		AudioURL:     "https://example.com/" + id + ".mp3",
		AudioSize:    4096,
		DurationSecs: 1800,
		PublishedAt:  published,
		CreatedAt:    time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC),
	}
}

func utc(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestOpenCreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "catalog.db")

	store, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestOpenRejectsSecondInvocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	first, err := db.Open(path)
	require.NoError(t, err)

	_, err = db.Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in use")

	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestPodcastRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := storedPodcast("p1", "Tech Talk")
	require.NoError(t, store.CreatePodcast(ctx, want))

	got, err := store.GetPodcast(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetPodcastNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetPodcast(context.Background(), "missing")
	assert.True(t, models.IsNotFound(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestCreatePodcastValidates(t *testing.T) {
	store := openTestStore(t)

	invalid := storedPodcast("p1", "")
	err := store.CreatePodcast(context.Background(), invalid)
	assert.True(t, models.IsValidation(err))
}

func TestListPodcastsOrdersByTitle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "zebra stories")))
	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p2", "Alpha Weekly")))
	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p3", "beta Barks")))

	podcasts, err := store.ListPodcasts(ctx)
	require.NoError(t, err)
	require.Len(t, podcasts, 3)

	assert.Equal(t, "Alpha Weekly", podcasts[0].Title)
	assert.Equal(t, "beta Barks", podcasts[1].Title)
	assert.Equal(t, "zebra stories", podcasts[2].Title)
}

func TestEpisodeRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))

	season, number := 2, 7
	want := storedEpisode("e1", "p1", utc("2026-01-02T03:04:05Z"))
	want.Season = &season
	want.EpisodeNum = &number
	want.Explicit = true
	want.ListenCount = 3
	want.DownloadCount = 4
	require.NoError(t, store.CreateEpisode(ctx, want))

	got, err := store.GetEpisode(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDraftEpisodeRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e1", "p1", nil)))

	got, err := store.GetEpisode(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, got.PublishedAt)
}

func TestCreateEpisodeRequiresPodcast(t *testing.T) {
	store := openTestStore(t)

	err := store.CreateEpisode(context.Background(), storedEpisode("e1", "ghost", nil))
	assert.True(t, models.IsNotFound(err))
	assert.Contains(t, err.Error(), "ghost")
}

func TestListEpisodesOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e-old", "p1", utc("2026-01-01T00:00:00Z"))))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e-draft", "p1", nil)))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e-new", "p1", utc("2026-02-01T00:00:00Z"))))

	episodes, err := store.ListEpisodes(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, episodes, 3)

	assert.Equal(t, "e-new", episodes[0].ID)
	assert.Equal(t, "e-old", episodes[1].ID)
	assert.Equal(t, "e-draft", episodes[2].ID, "drafts list last")
}

func TestListEpisodesUnknownPodcast(t *testing.T) {
	store := openTestStore(t)

	_, err := store.ListEpisodes(context.Background(), "ghost")
	assert.True(t, models.IsNotFound(err))
}

func TestPublishedEpisodesExcludeDrafts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e-draft", "p1", nil)))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e-live", "p1", utc("2026-01-02T00:00:00Z"))))

	episodes, err := store.PublishedEpisodes(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "e-live", episodes[0].ID)
}

func TestEpisodesScopedToPodcast(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))
	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p2", "Other Show")))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e1", "p1", nil)))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e2", "p2", nil)))

	episodes, err := store.ListEpisodes(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "e1", episodes[0].ID)
}

func TestIncrementCounters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e1", "p1", nil)))

	require.NoError(t, store.IncrementListen(ctx, "e1", 1))
	require.NoError(t, store.IncrementListen(ctx, "e1", 5))
	require.NoError(t, store.IncrementDownload(ctx, "e1", 2))

	got, err := store.GetEpisode(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.ListenCount)
	assert.Equal(t, int64(2), got.DownloadCount)
}

func TestIncrementValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		delta int64
	}{
		{name: "zero delta", delta: 0},
		{name: "negative delta", delta: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.IncrementListen(ctx, "e1", tt.delta)
			assert.True(t, models.IsValidation(err))
		})
	}
}

func TestIncrementUnknownEpisode(t *testing.T) {
	store := openTestStore(t)

	err := store.IncrementDownload(context.Background(), "ghost", 1)
	assert.True(t, models.IsNotFound(err))
}

func TestPodcastStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e1", "p1", nil)))
	require.NoError(t, store.CreateEpisode(ctx, storedEpisode("e2", "p1", nil)))
	require.NoError(t, store.IncrementListen(ctx, "e1", 10))
	require.NoError(t, store.IncrementListen(ctx, "e2", 5))
	require.NoError(t, store.IncrementDownload(ctx, "e1", 3))

	stats, err := store.PodcastStats(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", stats.PodcastID)
	assert.Equal(t, int64(2), stats.EpisodeCount)
	assert.Equal(t, int64(15), stats.TotalListens)
	assert.Equal(t, int64(3), stats.TotalDownloads)
}

func TestPodcastStatsEmptyShow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePodcast(ctx, storedPodcast("p1", "Tech Talk")))

	stats, err := store.PodcastStats(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.EpisodeCount)
	assert.Equal(t, int64(0), stats.TotalListens)
	assert.Equal(t, int64(0), stats.TotalDownloads)
}

func TestPodcastStatsUnknownPodcast(t *testing.T) {
	store := openTestStore(t)

	_, err := store.PodcastStats(context.Background(), "ghost")
	assert.True(t, models.IsNotFound(err))
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, db.Migrate(path))
	require.NoError(t, db.Migrate(path))
}

func TestRollbackDropsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, db.Migrate(path))
	require.NoError(t, db.Rollback(path))
	// Re-applying after a rollback works.
	require.NoError(t, db.Migrate(path))
}
