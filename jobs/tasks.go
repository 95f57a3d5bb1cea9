package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeImportEvents = "import:events"
	TypeImportRSVPs  = "import:rsvps"
)

// ImportPayload parameterizes one import run. Provider is empty for all
// providers.
type ImportPayload struct {
	Provider string `json:"provider,omitempty"`
}

// NewImportEventsTask builds an event-import task, optionally filtered to one
// provider.
func NewImportEventsTask(provider string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImportPayload{Provider: provider})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportEvents, payload,
		asynq.MaxRetry(2), asynq.Timeout(30*time.Minute)), nil
}

// NewImportRSVPsTask builds an RSVP-import task, optionally filtered to one
// provider.
func NewImportRSVPsTask(provider string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImportPayload{Provider: provider})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportRSVPs, payload,
		asynq.MaxRetry(2), asynq.Timeout(30*time.Minute)), nil
}
