package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kairo-app/scrapper/internal/store"
)

// Handlers serves read-only projections over the persisted dataset. Every
// request reads the store fresh; nothing here ever mutates it.
type Handlers struct {
	store *store.Store
}

func New(s *store.Store) *Handlers {
	return &Handlers{store: s}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
