package pipeline

import (
	"context"
	"log"

	"github.com/kairo-app/scrapper/internal/config"
	"github.com/kairo-app/scrapper/internal/feed"
	"github.com/kairo-app/scrapper/internal/probe"
	"github.com/kairo-app/scrapper/internal/providers"
	"github.com/kairo-app/scrapper/internal/store"
)

// Pipeline wires the ingestion components together: one Run fetches a
// provider's feed, validates new audio and reconciles the result into the
// merged store.
type Pipeline struct {
	Store    *store.Store
	Ingester *feed.Ingester
}

// New builds a pipeline from configuration.
func New(cfg *config.Config) *Pipeline {
	batch := &probe.Batch{
		Prober:      probe.NewProber(cfg.Probe.Timeout),
		WindowSize:  cfg.Probe.WindowSize,
		MaxAttempts: cfg.Probe.MaxAttempts,
	}
	return &Pipeline{
		Store:    store.New(cfg.Store.DataDir),
		Ingester: feed.NewIngester(batch),
	}
}

// Outcome summarizes one provider run for the caller.
type Outcome struct {
	Provider string
	// Added is the number of new episodes merged in this run.
	Added int
	// Skipped is the number of episodes already in the store.
	Skipped int
	// Dropped is the number of new episodes excluded as unreachable.
	Dropped int
	// Total is the provider's episode count in the store after the run.
	Total int
}

// Run executes ingest-and-reconcile for one provider. A feed fetch failure
// is returned to the caller and leaves the persisted dataset untouched;
// other providers are unaffected.
func (p *Pipeline) Run(ctx context.Context, prov providers.Provider) (Outcome, error) {
	existing := p.Store.ExistingEpisodeIDs(prov.Key)

	res, err := p.Ingester.Ingest(ctx, prov.FeedURL, prov.Key, existing)
	if err != nil {
		return Outcome{Provider: prov.Key}, err
	}

	if res.Channel.Name == "" {
		res.Channel.Name = prov.Name
	}

	if err := p.Store.Reconcile(res.Episodes, res.Channel); err != nil {
		return Outcome{Provider: prov.Key}, err
	}

	total := len(p.Store.ExistingEpisodeIDs(prov.Key))
	out := Outcome{
		Provider: prov.Key,
		Added:    len(res.Episodes) - res.Skipped,
		Skipped:  res.Skipped,
		Dropped:  res.Dropped,
		Total:    total,
	}
	log.Printf("pipeline: %s done, %d added, %d skipped, %d dropped, %d total",
		out.Provider, out.Added, out.Skipped, out.Dropped, out.Total)
	return out, nil
}
