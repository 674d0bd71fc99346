package feed

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/kairo-app/scrapper/internal/models"
)

// Feeds route enclosure URLs through analytics redirectors. Stripping the
// prefix leaves the origin URL, which is the one worth probing and storing.
// Patterns are tried in order; unrecognized prefixes pass through unchanged.
var trackingPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^https?://[^/]+/redirect\.mp3/`),
	regexp.MustCompile(`^https?://chrt\.fm/track/[^/]+/`),
	regexp.MustCompile(`^https?://chtbl\.com/track/[^/]+/`),
	regexp.MustCompile(`^https?://pdst\.fm/e/`),
	regexp.MustCompile(`^https?://mgln\.ai/e/[^/]+/`),
	regexp.MustCompile(`^https?://pscrb\.fm/rss/p/`),
}

var markupTags = regexp.MustCompile(`(?s)<[^>]*>`)

// NormalizeChannel maps a parsed feed's channel metadata to a Channel record
// keyed by the provider. Absent fields degrade to empty strings.
func NormalizeChannel(f *gofeed.Feed, provider string) models.Channel {
	ch := models.Channel{
		ID:          provider,
		Name:        f.Title,
		Description: strings.TrimSpace(f.Description),
		URL:         f.Link,
	}

	if f.Image != nil {
		ch.ImageURL = f.Image.URL
	}
	if ch.ImageURL == "" && f.ITunesExt != nil {
		ch.ImageURL = f.ITunesExt.Image
	}

	if f.ITunesExt != nil && f.ITunesExt.Author != "" {
		ch.Author = f.ITunesExt.Author
	} else if f.Author != nil {
		ch.Author = personName(f.Author)
	} else if f.DublinCoreExt != nil && len(f.DublinCoreExt.Creator) > 0 {
		ch.Author = f.DublinCoreExt.Creator[0]
	}

	return ch
}

// NormalizeEpisode maps one feed item to an Episode record. channelImage is
// the channel-level artwork, used when the item declares none of its own.
// Missing or malformed subfields degrade to empty values; this never fails.
func NormalizeEpisode(item *gofeed.Item, channelImage, provider string) models.Episode {
	ep := models.Episode{
		Provider: provider,
		Title:    item.Title,
		URL:      item.Link,
	}

	if item.PublishedParsed != nil {
		ep.Date = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		ep.Date = *item.UpdatedParsed
	}

	ep.Author = itemAuthor(item)
	ep.ImageURL = itemImage(item, channelImage)
	ep.EpisodeNumber = itemNumber(item)

	ep.Summary = strings.TrimSpace(html.UnescapeString(markupTags.ReplaceAllString(item.Description, "")))
	if ep.Summary == "" && item.ITunesExt != nil {
		ep.Summary = strings.TrimSpace(html.UnescapeString(markupTags.ReplaceAllString(item.ITunesExt.Summary, "")))
	}

	// Description keeps its markup; prefer the full content body when the
	// feed carries both.
	ep.Description = item.Content
	if ep.Description == "" {
		ep.Description = item.Description
	}

	if item.ITunesExt != nil {
		ep.Duration = item.ITunesExt.Duration
	}

	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			ep.AudioURL = CanonicalAudioURL(enc.URL)
			break
		}
	}

	ep.ID = EpisodeID(ep.Date, provider, ep.EpisodeNumber)
	return ep
}

// CanonicalAudioURL strips known tracking-redirect prefixes from an
// enclosure URL, repeatedly, since redirectors chain. The remainder keeps
// its scheme if it has one and gets https otherwise.
func CanonicalAudioURL(u string) string {
	for {
		stripped := false
		for _, re := range trackingPrefixes {
			loc := re.FindStringIndex(u)
			if loc == nil {
				continue
			}
			rest := u[loc[1]:]
			if rest == "" {
				continue
			}
			if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
				rest = "https://" + rest
			}
			u = rest
			stripped = true
			break
		}
		if !stripped {
			return u
		}
	}
}

// Author resolution order: itunes author, then the item's generic author
// field (with any trailing parenthetical email stripped), then dc:creator.
func itemAuthor(item *gofeed.Item) string {
	if item.ITunesExt != nil && item.ITunesExt.Author != "" {
		return item.ITunesExt.Author
	}
	if item.Author != nil {
		if name := personName(item.Author); name != "" {
			return name
		}
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return item.DublinCoreExt.Creator[0]
	}
	return ""
}

var parenthetical = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

func personName(p *gofeed.Person) string {
	name := strings.TrimSpace(parenthetical.ReplaceAllString(p.Name, ""))
	if name == "" {
		name = p.Email
	}
	return name
}

// Image resolution order: itunes image, then media:thumbnail or
// media:content, then the channel-level artwork.
func itemImage(item *gofeed.Item, channelImage string) string {
	if item.ITunesExt != nil && item.ITunesExt.Image != "" {
		return item.ITunesExt.Image
	}
	// The href attribute is what gofeed lifts into ITunesExt; feeds that
	// put the URL in the element body only show up in the raw extension.
	if itunes, ok := item.Extensions["itunes"]; ok {
		for _, e := range itunes["image"] {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
			if url := e.Attrs["href"]; url != "" {
				return url
			}
		}
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, tag := range []string{"thumbnail", "content"} {
			for _, e := range media[tag] {
				if url := e.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}
	return channelImage
}

func itemNumber(item *gofeed.Item) *int {
	if item.ITunesExt == nil || item.ITunesExt.Episode == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(item.ITunesExt.Episode))
	if err != nil {
		return nil
	}
	return &n
}
