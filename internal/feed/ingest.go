package feed

import (
	"context"
	"fmt"
	"log"

	"github.com/mmcdole/gofeed"

	"github.com/kairo-app/scrapper/internal/models"
	"github.com/kairo-app/scrapper/internal/probe"
)

// Ingester turns one provider's feed into a normalized dataset ready for
// merging: fetch and parse the document, normalize every item, derive IDs,
// and confirm that new episodes' audio is actually reachable.
type Ingester struct {
	parser *gofeed.Parser
	batch  *probe.Batch
}

func NewIngester(batch *probe.Batch) *Ingester {
	return &Ingester{
		parser: gofeed.NewParser(),
		batch:  batch,
	}
}

// Result is the transient output of one ingestion run for one provider.
type Result struct {
	Episodes []models.Episode
	Channel  models.Channel

	// Skipped counts episodes already in the store, whose audio was
	// confirmed reachable in a prior run and is not probed again.
	Skipped int
	// Dropped counts new episodes excluded because their audio did not
	// validate. The feed still lists them, so a later run retries.
	Dropped int
}

// Ingest fetches and parses the feed, then builds the provider dataset.
// existing holds the episode IDs already persisted for this provider; only
// candidates absent from it have their audio URLs probed, so repeated runs
// cost O(new episodes) network checks rather than O(total). The feed
// document itself is fetched exactly once; any failure there aborts this
// provider's run.
func (ing *Ingester) Ingest(ctx context.Context, feedURL, provider string, existing map[string]struct{}) (*Result, error) {
	f, err := ing.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed for %s: %w", provider, err)
	}

	channel := NormalizeChannel(f, provider)

	candidates := make([]models.Episode, 0, len(f.Items))
	for _, item := range f.Items {
		if item == nil {
			continue
		}
		candidates = append(candidates, NormalizeEpisode(item, channel.ImageURL, provider))
	}

	var fresh []int
	urls := make([]string, 0, len(candidates))
	for i, ep := range candidates {
		if _, ok := existing[ep.ID]; ok {
			continue
		}
		fresh = append(fresh, i)
		urls = append(urls, ep.AudioURL)
	}

	reachable := make(map[int]bool, len(fresh))
	if len(fresh) > 0 {
		ok := ing.batch.ValidateAll(ctx, urls)
		for j, i := range fresh {
			reachable[i] = ok[j]
		}
	}

	res := &Result{Channel: channel}
	for i, ep := range candidates {
		if _, known := existing[ep.ID]; known {
			res.Episodes = append(res.Episodes, ep)
			res.Skipped++
			continue
		}
		if reachable[i] {
			res.Episodes = append(res.Episodes, ep)
			continue
		}
		log.Printf("ingest: dropping %s, audio unreachable: %s", ep.ID, ep.AudioURL)
		res.Dropped++
	}

	return res, nil
}
