package probe

import (
	"context"
	"log"
	"net/http"
	"time"
)

const maxRedirectHops = 5

// Prober checks whether an audio URL is currently retrievable. It issues
// header-only requests so no audio is ever downloaded, and it absorbs all
// transport failures into a boolean outcome.
type Prober struct {
	client *http.Client
	// Timeout bounds a single attempt, not the whole validation.
	Timeout time.Duration
	// BackoffUnit scales the linear retry delay. Attempt i waits i units
	// before running. Tests shrink this; production uses one second.
	BackoffUnit time.Duration
}

// NewProber returns a Prober with the given per-attempt timeout.
func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirectHops {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		Timeout:     timeout,
		BackoffUnit: time.Second,
	}
}

// Validate reports whether url answers a HEAD request with 200 within
// maxAttempts tries. A 404 is treated as permanent absence and stops
// retrying immediately; every other failure is assumed transient and
// retried after a linearly growing delay (1s, 2s, ...).
func (p *Prober) Validate(ctx context.Context, url string, maxAttempts int) bool {
	if url == "" {
		return false
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := p.head(ctx, url)
		if err == nil {
			switch {
			case status == http.StatusOK:
				return true
			case status == http.StatusNotFound:
				return false
			}
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Duration(attempt) * p.BackoffUnit):
		}
	}

	log.Printf("probe: %s unreachable after %d attempts", url, maxAttempts)
	return false
}

func (p *Prober) head(ctx context.Context, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	return resp.StatusCode, nil
}
