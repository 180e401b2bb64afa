package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskCatalogReindex reloads the catalog source and re-embeds every product.
const TaskCatalogReindex = "catalog:reindex"

type CatalogReindexPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewCatalogReindexTask(payload CatalogReindexPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogReindex, data), nil
}

func ParseCatalogReindexPayload(task *asynq.Task) (CatalogReindexPayload, error) {
	var payload CatalogReindexPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CatalogReindexPayload{}, err
	}
	return payload, nil
}
