package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeIngestProvider = "provider:ingest"
	TypeIngestAll      = "providers:ingest_all"
)

type IngestProviderTaskPayload struct {
	ProviderKey string
}

func NewIngestProviderTask(providerKey string) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestProviderTaskPayload{ProviderKey: providerKey})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIngestProvider, payload), nil
}

func NewIngestAllTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeIngestAll, nil), nil
}
