package probe

import (
	"context"
	"log"
	"sync"
)

// Batch runs reachability checks over many URLs while keeping the number of
// simultaneous outbound connections bounded. URLs are partitioned into
// fixed-size windows; everything inside a window runs concurrently and a
// window fully drains before the next one starts.
type Batch struct {
	Prober      *Prober
	WindowSize  int
	MaxAttempts int
}

// ValidateAll probes every URL and returns results aligned index-for-index
// with the input, regardless of completion order. A panic inside one probe
// is contained to that slot, which defaults to false.
func (b *Batch) ValidateAll(ctx context.Context, urls []string) []bool {
	results := make([]bool, len(urls))

	window := b.WindowSize
	if window <= 0 {
		window = 100
	}

	for start := 0; start < len(urls); start += window {
		end := start + window
		if end > len(urls) {
			end = len(urls)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Printf("probe panic for %s: %v", urls[i], r)
					}
				}()
				results[i] = b.Prober.Validate(ctx, urls[i], b.MaxAttempts)
			}(i)
		}
		wg.Wait()
	}

	return results
}
