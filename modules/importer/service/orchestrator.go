package service

import (
	"context"
	"fmt"
	"sync"

	"recruitsync/core/errors"
	"recruitsync/core/logger"
	credentialEntity "recruitsync/modules/credential/entity"
	credentialRepository "recruitsync/modules/credential/repository"
	credentialService "recruitsync/modules/credential/service"
	"recruitsync/modules/importer/adapter"
	"recruitsync/modules/importer/dto"
	providerEntity "recruitsync/modules/provider/entity"
	providerRepository "recruitsync/modules/provider/repository"
)

// Import modes
const (
	ImportModeEvents = "events"
	ImportModeRSVPs  = "rsvps"
)

// RunSummary aggregates one orchestrated run across all credentials.
type RunSummary struct {
	Mode        string `json:"mode"`
	Credentials int    `json:"credentials"`
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
	Events      int    `json:"events"`
	RSVPs       int    `json:"rsvps"`
	Dropped     int    `json:"dropped"`
}

// Orchestrator fans one import run out across every active credential,
// bounded by a fixed worker pool. Credentials are fully independent: one
// credential's dead token or provider outage never touches its siblings.
type Orchestrator struct {
	providers   providerRepository.ProviderRepositoryInterface
	credentials credentialRepository.CredentialRepositoryInterface
	credSvc     credentialService.CredentialService
	registry    *adapter.Registry
	deps        adapter.Deps
	events      *EventImporter
	rsvps       *RSVPImporter
	poolSize    int
}

func NewOrchestrator(
	providers providerRepository.ProviderRepositoryInterface,
	credentials credentialRepository.CredentialRepositoryInterface,
	credSvc credentialService.CredentialService,
	registry *adapter.Registry,
	deps adapter.Deps,
	events *EventImporter,
	rsvps *RSVPImporter,
	poolSize int,
) *Orchestrator {
	return &Orchestrator{
		providers:   providers,
		credentials: credentials,
		credSvc:     credSvc,
		registry:    registry,
		deps:        deps,
		events:      events,
		rsvps:       rsvps,
		poolSize:    poolSize,
	}
}

// RunImport processes every active credential for the given mode, optionally
// restricted to one provider. It blocks until all workers finish.
func (o *Orchestrator) RunImport(ctx context.Context, mode string, providerFilter string) (*RunSummary, *errors.AppError) {
	if mode != ImportModeEvents && mode != ImportModeRSVPs {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown import mode %q", mode), nil)
	}

	providers, err := o.listProviders(ctx, providerFilter)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Mode: mode}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, o.poolSize)

	for idx := range providers {
		provider := providers[idx]

		credentials, listErr := o.credentials.List(ctx, &provider.ID)
		if listErr != nil {
			logger.Error("Orchestrator:RunImport:ListCredentials:Error",
				"error", listErr, "provider", provider.Name)
			continue
		}

		for credIdx := range credentials {
			credential := credentials[credIdx]
			summary.Credentials++

			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				stats, runErr := o.runCredential(ctx, mode, &credential, &provider)
				mu.Lock()
				defer mu.Unlock()
				if stats != nil {
					summary.Events += stats.EventsUpserted
					summary.RSVPs += stats.RSVPsProcessed
					summary.Dropped += stats.ItemsDropped
				}
				if runErr != nil {
					summary.Failed++
				} else {
					summary.Succeeded++
				}
			}()
		}
	}

	wg.Wait()

	logger.Info("Orchestrator:RunImport:Done",
		"mode", mode, "credentials", summary.Credentials,
		"succeeded", summary.Succeeded, "failed", summary.Failed,
		"events", summary.Events, "rsvps", summary.RSVPs, "dropped", summary.Dropped)
	return summary, nil
}

func (o *Orchestrator) listProviders(ctx context.Context, filter string) ([]providerEntity.ProviderAccount, *errors.AppError) {
	if filter != "" {
		provider, err := o.providers.GetByName(ctx, filter)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve provider", err)
		}
		if provider == nil {
			return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("unknown provider %q", filter), nil)
		}
		return []providerEntity.ProviderAccount{*provider}, nil
	}

	providers, err := o.providers.List(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list providers", err)
	}
	return providers, nil
}

// runCredential handles one credential end to end: token check, member id
// discovery, then the mode's importer.
func (o *Orchestrator) runCredential(ctx context.Context, mode string, credential *credentialEntity.UserCredential, provider *providerEntity.ProviderAccount) (*ImportStats, *errors.AppError) {
	providerAdapter, err := o.registry.Build(provider, o.deps)
	if err != nil {
		logger.Error("Orchestrator:RunCredential:BuildAdapter:Error",
			"error", err, "provider", provider.Name)
		return nil, errors.NewAppError(errors.ErrInternalServer, "no adapter for provider", err)
	}

	if appErr := o.credSvc.ValidateAndRefresh(ctx, credential, provider); appErr != nil {
		logger.Warn("Orchestrator:RunCredential:CredentialInvalid",
			"user_id", credential.UserID, "provider", provider.Name)
		return nil, appErr
	}

	if credential.ProviderMemberID == nil || *credential.ProviderMemberID == "" {
		if _, appErr := o.credSvc.DiscoverMemberID(ctx, credential, provider); appErr != nil {
			logger.Warn("Orchestrator:RunCredential:DiscoverMemberID:Failed",
				"error", appErr, "user_id", credential.UserID, "provider", provider.Name)
			return nil, appErr
		}
	}

	switch mode {
	case ImportModeEvents:
		return o.events.Run(ctx, providerAdapter, credential, provider)
	default:
		return o.rsvps.Run(ctx, providerAdapter, credential, provider)
	}
}

// HandleWebhook processes one inbound push. Test pings are acknowledged and
// dropped; order.placed fetches the single RSVP the payload points at and
// runs it through the chain, skipping event pagination entirely.
func (o *Orchestrator) HandleWebhook(ctx context.Context, payload *dto.WebhookPayload) *errors.AppError {
	if payload.Action == dto.WebhookActionTest {
		logger.Info("Orchestrator:HandleWebhook:TestPing", "webhook_id", payload.WebhookID)
		return nil
	}
	if payload.Action != dto.WebhookActionOrderPlaced {
		logger.Warn("Orchestrator:HandleWebhook:UnknownAction", "action", payload.Action)
		return nil
	}
	if payload.WebhookID == "" || payload.APIURL == "" {
		return errors.NewAppError(errors.ErrInvalidRequestData, "webhook payload missing webhook_id or api_url", nil)
	}

	credential, err := o.credentials.GetByWebhookID(ctx, payload.WebhookID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to resolve webhook credential", err)
	}
	if credential == nil {
		return errors.NewAppError(errors.ErrNotFound, "no credential registered for this webhook", nil)
	}

	provider, err := o.providers.GetByID(ctx, credential.ProviderAccountID)
	if err != nil || provider == nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to resolve webhook provider", err)
	}

	providerAdapter, buildErr := o.registry.Build(provider, o.deps)
	if buildErr != nil {
		return errors.NewAppError(errors.ErrInternalServer, "no adapter for provider", buildErr)
	}

	source, ok := providerAdapter.(adapter.WebhookSource)
	if !ok {
		return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("provider %q does not push webhooks", provider.Name), nil)
	}

	raw, appErr := source.FetchWebhookRSVP(ctx, credential, payload.APIURL)
	if appErr != nil {
		return appErr
	}

	attendee, appErr := providerAdapter.MapRSVP(ctx, credential, nil, raw)
	if appErr != nil {
		logger.Warn("Orchestrator:HandleWebhook:RSVPDropped",
			"error", appErr, "user_id", credential.UserID, "webhook_id", payload.WebhookID)
		return appErr
	}

	if chainErr := o.rsvps.chain.ProcessAttendee(ctx, attendee); chainErr != nil {
		return chainErr
	}

	logger.Info("Orchestrator:HandleWebhook:Processed",
		"user_id", credential.UserID, "provider", provider.Name, "webhook_id", payload.WebhookID)
	return nil
}
