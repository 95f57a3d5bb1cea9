package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"recruitsync/core/errors"
	"recruitsync/core/logger"
	credentialEntity "recruitsync/modules/credential/entity"
	credentialService "recruitsync/modules/credential/service"
	eventEntity "recruitsync/modules/event/entity"
	eventRepository "recruitsync/modules/event/repository"
	"recruitsync/modules/importer/adapter"
	providerRepository "recruitsync/modules/provider/repository"

	"github.com/google/uuid"
)

// PublishService pushes locally drafted events out to providers that accept
// event creation, and tears them down again.
type PublishService struct {
	events    eventRepository.EventRepositoryInterface
	providers providerRepository.ProviderRepositoryInterface
	credSvc   credentialService.CredentialService
	registry  *adapter.Registry
	deps      adapter.Deps
}

func NewPublishService(
	events eventRepository.EventRepositoryInterface,
	providers providerRepository.ProviderRepositoryInterface,
	credSvc credentialService.CredentialService,
	registry *adapter.Registry,
	deps adapter.Deps,
) *PublishService {
	return &PublishService{
		events:    events,
		providers: providers,
		credSvc:   credSvc,
		registry:  registry,
		deps:      deps,
	}
}

// PublishEvent runs the provider's publish flow for a locally drafted event
// and records the provider-native id it hands back.
func (s *PublishService) PublishEvent(ctx context.Context, userID uuid.UUID, eventID uuid.UUID) (*eventEntity.Event, *errors.AppError) {
	event, publisher, credential, appErr := s.resolve(ctx, userID, eventID)
	if appErr != nil {
		return nil, appErr
	}

	var venue *eventEntity.Venue
	if event.VenueID != nil {
		var err error
		venue, err = s.events.GetVenueByID(ctx, *event.VenueID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event venue", err)
		}
	}

	providerEventID, err := publisher.PublishEvent(ctx, credential, event, venue)
	if err != nil {
		var stepErr *adapter.PublishStepError
		if stderrors.As(err, &stepErr) {
			logger.Error("PublishService:PublishEvent:StepFailed",
				"error", err, "step", stepErr.Step, "event_id", event.ID)
		}
		return nil, errors.NewAppError(errors.ErrProviderUnavailable, "publish flow failed", err)
	}

	if err := s.events.UpdatePublishState(ctx, event.ID, providerEventID, eventEntity.EventStatusLive); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "event published but local state update failed", err)
	}

	event.ProviderEventID = providerEventID
	event.Status = eventEntity.EventStatusLive

	logger.Info("PublishService:PublishEvent:Published",
		"event_id", event.ID, "provider_event_id", providerEventID)
	return event, nil
}

// UnpublishEvent removes the event provider-side and marks it cancelled.
func (s *PublishService) UnpublishEvent(ctx context.Context, userID uuid.UUID, eventID uuid.UUID) *errors.AppError {
	event, publisher, credential, appErr := s.resolve(ctx, userID, eventID)
	if appErr != nil {
		return appErr
	}

	if err := publisher.UnpublishEvent(ctx, credential, event); err != nil {
		return errors.NewAppError(errors.ErrProviderUnavailable, "unpublish failed", err)
	}

	if err := s.events.UpdateStatus(ctx, event.ID, eventEntity.EventStatusCancelled); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "event removed but local state update failed", err)
	}

	logger.Info("PublishService:UnpublishEvent:Removed", "event_id", event.ID)
	return nil
}

func (s *PublishService) resolve(ctx context.Context, userID uuid.UUID, eventID uuid.UUID) (*eventEntity.Event, adapter.EventPublisher, *credentialEntity.UserCredential, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if event == nil || event.UserID != userID {
		return nil, nil, nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	provider, err := s.providers.GetByID(ctx, event.ProviderAccountID)
	if err != nil || provider == nil {
		return nil, nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve event provider", err)
	}
	if !provider.SupportsPublish() {
		return nil, nil, nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("provider %q does not support publishing", provider.Name), nil)
	}

	credential, appErr := s.credSvc.ResolveCredential(ctx, userID, provider.ID)
	if appErr != nil {
		return nil, nil, nil, appErr
	}
	if appErr := s.credSvc.ValidateAndRefresh(ctx, credential, provider); appErr != nil {
		return nil, nil, nil, appErr
	}

	providerAdapter, buildErr := s.registry.Build(provider, s.deps)
	if buildErr != nil {
		return nil, nil, nil, errors.NewAppError(errors.ErrInternalServer, "no adapter for provider", buildErr)
	}

	publisher, ok := providerAdapter.(adapter.EventPublisher)
	if !ok {
		return nil, nil, nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("provider %q has no publish flow", provider.Name), nil)
	}

	return event, publisher, credential, nil
}
