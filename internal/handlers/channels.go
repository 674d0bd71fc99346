package handlers

import (
	"net/http"

	"github.com/kairo-app/scrapper/internal/models"
)

type channelList struct {
	Metadata pageMetadata     `json:"metadata"`
	Channels []models.Channel `json:"channels"`
}

// ListChannels returns every persisted channel, sorted by name in the store.
func (h *Handlers) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels := h.store.Channels()
	if channels == nil {
		channels = []models.Channel{}
	}
	writeJSON(w, http.StatusOK, channelList{
		Metadata: pageMetadata{Total: len(channels), Page: 1, Limit: len(channels)},
		Channels: channels,
	})
}
