package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/kairo-app/scrapper/internal/config"
	"github.com/kairo-app/scrapper/internal/handlers"
	"github.com/kairo-app/scrapper/internal/middleware"
	"github.com/kairo-app/scrapper/internal/store"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	cfg := config.Load()
	h := handlers.New(store.New(cfg.Store.DataDir))

	rl := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	r := mux.NewRouter()
	r.Use(rl.Middleware)
	r.HandleFunc("/api/episodes", h.ListEpisodes).Methods(http.MethodGet)
	r.HandleFunc("/api/episodes/random", h.RandomEpisodes).Methods(http.MethodGet)
	r.HandleFunc("/api/episodes/{id}", h.GetEpisode).Methods(http.MethodGet)
	r.HandleFunc("/api/channels", h.ListChannels).Methods(http.MethodGet)
	r.HandleFunc("/rss", h.CombinedRSS).Methods(http.MethodGet)

	log.Printf("Starting server on :%s (commit: %s)", cfg.Server.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		log.Fatal(err)
	}
}
