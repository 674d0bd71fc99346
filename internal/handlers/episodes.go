package handlers

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/kairo-app/scrapper/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type pageMetadata struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type episodePage struct {
	Metadata pageMetadata     `json:"metadata"`
	Episodes []models.Episode `json:"episodes"`
}

// ListEpisodes returns a page of the merged episode list, already sorted by
// date descending in the store. Supports ?page, ?limit, ?provider and a
// case-insensitive title substring filter ?q.
func (h *Handlers) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes := h.store.Episodes()

	if provider := r.URL.Query().Get("provider"); provider != "" {
		episodes = filterEpisodes(episodes, func(ep models.Episode) bool {
			return ep.Provider == provider
		})
	}
	if q := strings.ToLower(r.URL.Query().Get("q")); q != "" {
		episodes = filterEpisodes(episodes, func(ep models.Episode) bool {
			return strings.Contains(strings.ToLower(ep.Title), q)
		})
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	total := len(episodes)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := episodes[start:end]
	if items == nil {
		items = []models.Episode{}
	}
	writeJSON(w, http.StatusOK, episodePage{
		Metadata: pageMetadata{Total: total, Page: page, Limit: limit},
		Episodes: items,
	})
}

// GetEpisode returns a single episode by its derived ID.
func (h *Handlers) GetEpisode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, ep := range h.store.Episodes() {
		if ep.ID == id {
			writeJSON(w, http.StatusOK, ep)
			return
		}
	}
	http.Error(w, "Episode not found", http.StatusNotFound)
}

// RandomEpisodes returns up to ?count episodes sampled without replacement.
func (h *Handlers) RandomEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes := h.store.Episodes()

	count := queryInt(r, "count", 1)
	if count < 1 {
		count = 1
	}
	if count > len(episodes) {
		count = len(episodes)
	}

	sampled := make([]models.Episode, len(episodes))
	copy(sampled, episodes)
	rand.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})

	writeJSON(w, http.StatusOK, episodePage{
		Metadata: pageMetadata{Total: len(episodes), Page: 1, Limit: count},
		Episodes: sampled[:count],
	})
}

func filterEpisodes(episodes []models.Episode, keep func(models.Episode) bool) []models.Episode {
	out := episodes[:0:0]
	for _, ep := range episodes {
		if keep(ep) {
			out = append(out, ep)
		}
	}
	return out
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
