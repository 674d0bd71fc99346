package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/kairo-app/scrapper/internal/pipeline"
	"github.com/kairo-app/scrapper/internal/providers"
	"github.com/kairo-app/scrapper/pkg/tasks"
)

type TaskHandler struct {
	pipeline    *pipeline.Pipeline
	asynqClient tasks.TaskEnqueuer
}

func NewTaskHandler(p *pipeline.Pipeline, client tasks.TaskEnqueuer) *TaskHandler {
	return &TaskHandler{pipeline: p, asynqClient: client}
}

var lookupProvider = providers.ByKey

func (h *TaskHandler) HandleIngestProviderTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.IngestProviderTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	prov, ok := lookupProvider(p.ProviderKey)
	if !ok {
		// Unknown keys are not retryable.
		return fmt.Errorf("unknown provider %q: %w", p.ProviderKey, asynq.SkipRetry)
	}

	log.Printf("Ingesting provider: %s", prov.Key)

	out, err := h.pipeline.Run(ctx, prov)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", prov.Key, err)
	}

	log.Printf("Ingested %s: %d added, %d skipped, %d dropped", out.Provider, out.Added, out.Skipped, out.Dropped)
	return nil
}

func (h *TaskHandler) HandleIngestAllTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Enqueuing ingestion for all providers...")

	for _, prov := range providers.All {
		task, err := tasks.NewIngestProviderTask(prov.Key)
		if err != nil {
			log.Printf("failed to create ingest task for %s: %v", prov.Key, err)
			continue
		}

		_, err = h.asynqClient.Enqueue(task)
		if err != nil {
			log.Printf("failed to enqueue ingest task for %s: %v", prov.Key, err)
			continue
		}
	}

	log.Println("Finished enqueuing providers.")
	return nil
}
