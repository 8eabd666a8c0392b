// Package feeds renders catalog records into the standard podcast
// exchange documents: RSS 2.0 with iTunes extensions and OPML 2.0
// subscription lists. The renderers are pure; they receive fully loaded
// records, never touch storage, and return a complete document or an
// error, never a partial one.
package feeds

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"podkeep/models"
)

// itunesNS is the namespace Apple Podcasts expects for the itunes:
// extension elements.
const itunesNS = "http://www.itunes.com/dtds/podcast-1.0.dtd"

// rfc2822 lays out pubDate values. Instants are rendered in UTC, so the
// zone designator is always the literal GMT.
const rfc2822 = "Mon, 02 Jan 2006 15:04:05 GMT"

// enclosureType is fixed: the catalog tracks MP3 enclosures only.
const enclosureType = "audio/mpeg"

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Itunes  string     `xml:"xmlns:itunes,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string          `xml:"title"`
	Link        string          `xml:"link"`
	Description string          `xml:"description"`
	Language    string          `xml:"language"`
	Author      string          `xml:"itunes:author"`
	Explicit    string          `xml:"itunes:explicit"`
	Image       *itunesImage    `xml:"itunes:image,omitempty"`
	Category    *itunesCategory `xml:"itunes:category,omitempty"`
	Items       []rssItem       `xml:"item"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type itunesCategory struct {
	Text string `xml:"text,attr"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	Description string       `xml:"description,omitempty"`
	PubDate     string       `xml:"pubDate,omitempty"`
	GUID        string       `xml:"guid"`
	Duration    string       `xml:"itunes:duration"`
	EpisodeNum  *int         `xml:"itunes:episode,omitempty"`
	Season      *int         `xml:"itunes:season,omitempty"`
	Explicit    string       `xml:"itunes:explicit,omitempty"`
	Enclosure   rssEnclosure `xml:"enclosure"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// Render builds the Apple Podcasts-compatible RSS 2.0 document for a
// podcast. Only episodes with a publish time belong in a feed, so
// callers are expected to pass published episodes; items are rendered
// most recent first regardless of input order, and the input slice is
// left untouched. Episodes without a publish time are skipped rather
// than rendered with a bogus date.
func Render(p models.Podcast, episodes []models.Episode) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	language := p.Language
	if language == "" {
		language = "en"
	}

	published := lo.Filter(episodes, func(e models.Episode, _ int) bool {
		return e.PublishedAt != nil
	})
	slices.SortStableFunc(published, byMostRecent)

	channel := rssChannel{
		Title:       p.Title,
		Link:        p.FeedURL,
		Description: p.Description,
		Language:    language,
		Author:      p.Author,
		Explicit:    yesNo(p.Explicit),
		Items:       lo.Map(published, toItem),
	}
	if p.ImageURL != "" {
		channel.Image = &itunesImage{Href: p.ImageURL}
	}
	if p.Category != "" {
		channel.Category = &itunesCategory{Text: p.Category}
	}

	doc := rssDocument{Version: "2.0", Itunes: itunesNS, Channel: channel}
	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal rss: %w", err)
	}
	return string(out), nil
}

func toItem(e models.Episode, _ int) rssItem {
	item := rssItem{
		Title:       e.Title,
		Description: e.Description,
		GUID:        e.ID,
		Duration:    formatDuration(e.DurationSecs),
		EpisodeNum:  e.EpisodeNum,
		Season:      e.Season,
		Enclosure: rssEnclosure{
			URL:    e.AudioURL,
			Length: e.AudioSize,
			Type:   enclosureType,
		},
	}
	if e.PublishedAt != nil {
		item.PubDate = e.PublishedAt.UTC().Format(rfc2822)
	}
	if e.Explicit {
		item.Explicit = "yes"
	}
	return item
}

// byMostRecent orders newest first, with the episode id as a stable
// tie-break so two renders of the same catalog never differ.
func byMostRecent(a, b models.Episode) int {
	at, bt := a.PublishedAt.UTC(), b.PublishedAt.UTC()
	switch {
	case at.After(bt):
		return -1
	case bt.After(at):
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// formatDuration renders seconds as zero-padded HH:MM:SS. The hour
// component is always present, even for episodes under a minute.
func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

func yesNo(explicit bool) string {
	if explicit {
		return "yes"
	}
	return "no"
}
