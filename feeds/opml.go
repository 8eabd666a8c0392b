package feeds

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"podkeep/models"
)

// DefaultOPMLTitle heads exports when no title is configured.
const DefaultOPMLTitle = "Podcast Subscriptions"

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title string `xml:"title"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Type        string `xml:"type,attr"`
	Text        string `xml:"text,attr"`
	Title       string `xml:"title,attr"`
	XMLURL      string `xml:"xmlUrl,attr"`
	Description string `xml:"description,attr,omitempty"`
}

// ExportOPML builds an OPML 2.0 subscription list over the given
// podcasts, one outline per show. Outlines are ordered by title,
// case-insensitively, with the id as tie-break, so repeated exports of
// the same catalog diff cleanly. An empty catalog yields a valid
// document with an empty body.
func ExportOPML(title string, podcasts []models.Podcast) (string, error) {
	if title == "" {
		title = DefaultOPMLTitle
	}

	sorted := slices.Clone(podcasts)
	slices.SortStableFunc(sorted, byTitleFold)

	doc := opmlDocument{
		Version: "2.0",
		Head:    opmlHead{Title: title},
		Body: opmlBody{
			Outlines: lo.Map(sorted, func(p models.Podcast, _ int) opmlOutline {
				return opmlOutline{
					Type:        "rss",
					Text:        p.Title,
					Title:       p.Title,
					XMLURL:      p.FeedURL,
					Description: p.Description,
				}
			}),
		},
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal opml: %w", err)
	}
	return string(out), nil
}

func byTitleFold(a, b models.Podcast) int {
	if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
