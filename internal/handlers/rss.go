package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"

	"github.com/kairo-app/scrapper/internal/models"
)

// rssItemLimit bounds the combined feed to the most recent entries; the
// store is already sorted by date descending.
const rssItemLimit = 50

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := "https"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// CombinedRSS re-exports the merged dataset as a single podcast feed.
func (h *Handlers) CombinedRSS(w http.ResponseWriter, r *http.Request) {
	episodes := h.store.Episodes()
	if len(episodes) > rssItemLimit {
		episodes = episodes[:rssItemLimit]
	}

	rss, err := generateRSS(getBaseURL(r), episodes)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}

func generateRSS(baseURL string, episodes []models.Episode) (string, error) {
	now := time.Now()
	p := podcast.New(
		"Kairo Podcasts",
		baseURL+"/rss",
		"All tracked shows, merged into one feed.",
		&now, &now,
	)

	for _, ep := range episodes {
		description := ep.Summary
		if description == "" {
			description = ep.Title
		}
		pubDate := ep.Date
		item := podcast.Item{
			Title:       ep.Title,
			Description: description,
			Link:        ep.URL,
			PubDate:     &pubDate,
		}
		item.AddEnclosure(ep.AudioURL, podcast.MP3, 0)
		if ep.ImageURL != "" {
			item.AddImage(ep.ImageURL)
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
