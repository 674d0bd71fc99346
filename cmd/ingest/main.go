package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/kairo-app/scrapper/internal/config"
	"github.com/kairo-app/scrapper/internal/pipeline"
	"github.com/kairo-app/scrapper/internal/providers"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	providerKey := flag.String("provider", "", "ingest a single provider by key (default: all)")
	flag.Parse()

	cfg := config.Load()
	p := pipeline.New(cfg)

	targets := providers.All
	if *providerKey != "" {
		prov, ok := providers.ByKey(*providerKey)
		if !ok {
			log.Fatalf("unknown provider: %s", *providerKey)
		}
		targets = []providers.Provider{prov}
	}

	log.Printf("Ingest starting (commit: %s)", CommitSHA)

	ctx := context.Background()
	failed := 0
	for _, prov := range targets {
		out, err := p.Run(ctx, prov)
		if err != nil {
			log.Printf("Failed to ingest %s: %v", prov.Key, err)
			failed++
			continue
		}
		log.Printf("Ingested %s: %d added, %d skipped, %d dropped, %d total",
			out.Provider, out.Added, out.Skipped, out.Dropped, out.Total)
	}

	if failed > 0 {
		log.Printf("%d of %d providers failed", failed, len(targets))
		os.Exit(1)
	}
}
