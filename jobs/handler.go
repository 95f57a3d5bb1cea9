package jobs

import (
	"context"
	"encoding/json"

	"recruitsync/core/logger"
	importerService "recruitsync/modules/importer/service"

	"github.com/hibiken/asynq"
)

// ImportTaskHandler bridges queued import tasks onto the orchestrator.
type ImportTaskHandler struct {
	orchestrator *importerService.Orchestrator
}

func NewImportTaskHandler(orchestrator *importerService.Orchestrator) *ImportTaskHandler {
	return &ImportTaskHandler{orchestrator: orchestrator}
}

func (h *ImportTaskHandler) HandleImportEvents(ctx context.Context, task *asynq.Task) error {
	return h.run(ctx, task, importerService.ImportModeEvents)
}

func (h *ImportTaskHandler) HandleImportRSVPs(ctx context.Context, task *asynq.Task) error {
	return h.run(ctx, task, importerService.ImportModeRSVPs)
}

func (h *ImportTaskHandler) run(ctx context.Context, task *asynq.Task, mode string) error {
	var payload ImportPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Error("Jobs:ImportTaskHandler:BadPayload", "error", err, "type", task.Type())
			return err
		}
	}

	summary, appErr := h.orchestrator.RunImport(ctx, mode, payload.Provider)
	if appErr != nil {
		logger.Error("Jobs:ImportTaskHandler:RunFailed", "error", appErr, "mode", mode)
		return appErr
	}

	logger.Info("Jobs:ImportTaskHandler:RunDone",
		"mode", mode, "provider", payload.Provider,
		"credentials", summary.Credentials, "failed", summary.Failed)
	return nil
}

// NewMux registers every task handler.
func NewMux(handler *ImportTaskHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeImportEvents, handler.HandleImportEvents)
	mux.HandleFunc(TypeImportRSVPs, handler.HandleImportRSVPs)
	return mux
}
