package importer

import (
	"recruitsync/core/cache"
	"recruitsync/core/config"
	"recruitsync/core/constants"
	"recruitsync/core/database"
	"recruitsync/core/middleware"
	"recruitsync/core/storage"
	candidateRepository "recruitsync/modules/candidate/repository"
	candidateService "recruitsync/modules/candidate/service"
	credentialRepository "recruitsync/modules/credential/repository"
	credentialService "recruitsync/modules/credential/service"
	eventRepository "recruitsync/modules/event/repository"
	"recruitsync/modules/importer/adapter"
	"recruitsync/modules/importer/controller"
	"recruitsync/modules/importer/router"
	importerService "recruitsync/modules/importer/service"
	providerRepository "recruitsync/modules/provider/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init wires the import pipeline and mounts its routes. The returned
// orchestrator is shared with the job handlers.
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, archive *storage.PayloadArchive, queue *asynq.Client) *importerService.Orchestrator {
	providerRepo := providerRepository.NewProviderRepository(db)
	credentialRepo := credentialRepository.NewCredentialRepository(db)
	eventRepo := eventRepository.NewEventRepository(db)
	candidateRepo := candidateRepository.NewCandidateRepository(db)

	credSvc := credentialService.NewCredentialService(credentialRepo, c)
	chain := candidateService.NewChainService(candidateRepo)

	deps := adapter.Deps{Events: eventRepo, Cache: c, Archive: archive}
	registry := adapter.NewRegistry()

	poolSize := constants.ImportWorkerPoolSize
	if cfg, ok := config.GetSafe(); ok && cfg.Import.WorkerPoolSize > 0 {
		poolSize = cfg.Import.WorkerPoolSize
	}

	eventImporter := importerService.NewEventImporter(eventRepo)
	rsvpImporter := importerService.NewRSVPImporter(eventRepo, chain)
	orchestrator := importerService.NewOrchestrator(
		providerRepo, credentialRepo, credSvc, registry, deps,
		eventImporter, rsvpImporter, poolSize)

	publishSvc := importerService.NewPublishService(eventRepo, providerRepo, credSvc, registry, deps)

	ctrl := controller.NewImporterController(orchestrator, publishSvc, queue)
	mw := middleware.NewMiddleware()
	router.NewImporterRouter(ctrl).Setup(e, mw)

	return orchestrator
}
