package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairo-app/scrapper/internal/feed"
	"github.com/kairo-app/scrapper/internal/pipeline"
	"github.com/kairo-app/scrapper/internal/probe"
	"github.com/kairo-app/scrapper/internal/providers"
	"github.com/kairo-app/scrapper/internal/store"
	"github.com/kairo-app/scrapper/internal/test"
	"github.com/kairo-app/scrapper/pkg/tasks"
)

func newTestPipeline(dir string) *pipeline.Pipeline {
	p := probe.NewProber(2 * time.Second)
	p.BackoffUnit = time.Millisecond
	return &pipeline.Pipeline{
		Store:    store.New(dir),
		Ingester: feed.NewIngester(&probe.Batch{Prober: p, WindowSize: 100, MaxAttempts: 1}),
	}
}

func TestHandleIngestAllTask(t *testing.T) {
	mockEnqueuer := &test.MockTaskEnqueuer{}
	handler := NewTaskHandler(newTestPipeline(t.TempDir()), mockEnqueuer)

	task, err := tasks.NewIngestAllTask()
	require.NoError(t, err)

	err = handler.HandleIngestAllTask(context.Background(), task)

	assert.NoError(t, err)
	require.Len(t, mockEnqueuer.EnqueuedTasks, len(providers.All))
	for i, enqueued := range mockEnqueuer.EnqueuedTasks {
		assert.Equal(t, tasks.TypeIngestProvider, enqueued.Type())

		var payload tasks.IngestProviderTaskPayload
		require.NoError(t, json.Unmarshal(enqueued.Payload(), &payload))
		assert.Equal(t, providers.All[i].Key, payload.ProviderKey)
	}
}

func TestHandleIngestProviderTask_UnknownProvider(t *testing.T) {
	handler := NewTaskHandler(newTestPipeline(t.TempDir()), &test.MockTaskEnqueuer{})

	task, err := tasks.NewIngestProviderTask("nope")
	require.NoError(t, err)

	err = handler.HandleIngestProviderTask(context.Background(), task)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "unknown providers must not be retried")
}

func TestHandleIngestProviderTask_BadPayload(t *testing.T) {
	handler := NewTaskHandler(newTestPipeline(t.TempDir()), &test.MockTaskEnqueuer{})

	task := asynq.NewTask(tasks.TypeIngestProvider, []byte("not json"))

	err := handler.HandleIngestProviderTask(context.Background(), task)
	assert.Error(t, err)
}

// stubRegistry points lookupProvider at the given provider for the duration
// of the test, so handler tests don't depend on the real feed URLs.
func stubRegistry(t *testing.T, prov providers.Provider) {
	t.Helper()
	orig := lookupProvider
	lookupProvider = func(key string) (providers.Provider, bool) {
		if key == prov.Key {
			return prov, true
		}
		return providers.Provider{}, false
	}
	t.Cleanup(func() { lookupProvider = orig })
}

func TestHandleIngestProviderTask_FetchFailureIsRetryable(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	stubRegistry(t, providers.Provider{Key: "broken", Name: "Broken", FeedURL: broken.URL})
	handler := NewTaskHandler(newTestPipeline(t.TempDir()), &test.MockTaskEnqueuer{})

	task, err := tasks.NewIngestProviderTask("broken")
	require.NoError(t, err)

	err = handler.HandleIngestProviderTask(context.Background(), task)

	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "fetch failures must stay retryable")
	assert.Contains(t, fmt.Sprintf("%v", err), "failed to ingest broken")
}

func TestHandleIngestProviderTask_Success(t *testing.T) {
	audio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer audio.Close()

	feedXML := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Stub Cast</title>
    <item>
      <title>First</title>
      <pubDate>Tue, 04 Nov 2025 08:00:00 GMT</pubDate>
      <enclosure url="%s/ep1.mp3" type="audio/mpeg" length="1"/>
    </item>
  </channel>
</rss>`, audio.URL)
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}))
	defer feedSrv.Close()

	dir := t.TempDir()
	stubRegistry(t, providers.Provider{Key: "stubcast", Name: "Stub Cast", FeedURL: feedSrv.URL})
	handler := NewTaskHandler(newTestPipeline(dir), &test.MockTaskEnqueuer{})

	task, err := tasks.NewIngestProviderTask("stubcast")
	require.NoError(t, err)

	require.NoError(t, handler.HandleIngestProviderTask(context.Background(), task))

	eps := store.New(dir).Episodes()
	require.Len(t, eps, 1)
	assert.Equal(t, "20251104-stubcast-epunknown", eps[0].ID)
}
