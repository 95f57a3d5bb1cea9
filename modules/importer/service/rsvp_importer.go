package service

import (
	"context"
	stderrors "errors"
	"time"

	"recruitsync/core/errors"
	"recruitsync/core/logger"
	candidateService "recruitsync/modules/candidate/service"
	credentialEntity "recruitsync/modules/credential/entity"
	eventRepository "recruitsync/modules/event/repository"
	"recruitsync/modules/importer/adapter"
	providerEntity "recruitsync/modules/provider/entity"
)

// RSVPImporter walks the credential's stored events inside the provider's
// look-back window and pushes every RSVP through the candidate chain. A bad
// RSVP is dropped and counted; a rejected token abandons the remaining events
// for this credential since every further call would fail the same way.
type RSVPImporter struct {
	events eventRepository.EventRepositoryInterface
	chain  candidateService.ChainService
}

func NewRSVPImporter(events eventRepository.EventRepositoryInterface, chain candidateService.ChainService) *RSVPImporter {
	return &RSVPImporter{events: events, chain: chain}
}

func (i *RSVPImporter) Run(ctx context.Context, providerAdapter adapter.ProviderAdapter, credential *credentialEntity.UserCredential, provider *providerEntity.ProviderAccount) (*ImportStats, *errors.AppError) {
	stats := &ImportStats{Provider: provider.Name}
	windowStart := time.Now().UTC().AddDate(0, 0, -provider.RSVPLookbackDays)

	events, err := i.events.ListForImport(ctx, credential.UserID, credential.ProviderAccountID, windowStart)
	if err != nil {
		return stats, errors.NewAppError(errors.ErrInternalServer, "failed to list events for rsvp import", err)
	}

	for idx := range events {
		event := &events[idx]

		pager := providerAdapter.FetchRSVPs(ctx, credential, event)
		for {
			raw, pageErr := pager.Next(ctx)
			if pageErr != nil {
				if stderrors.Is(pageErr, adapter.ErrNoMorePages) {
					break
				}
				if stderrors.Is(pageErr, adapter.ErrTokenRejected) {
					logger.Warn("RSVPImporter:Run:TokenRejected",
						"user_id", credential.UserID, "provider", provider.Name,
						"events_remaining", len(events)-idx)
					return stats, errors.NewAppError(errors.ErrCredentialInvalid, "provider rejected the token mid-import", pageErr)
				}
				logger.Error("RSVPImporter:Run:PageFetchFailed",
					"error", pageErr, "user_id", credential.UserID,
					"provider_event_id", event.ProviderEventID)
				break
			}

			attendee, mapErr := providerAdapter.MapRSVP(ctx, credential, event, raw)
			if mapErr != nil {
				stats.ItemsDropped++
				logger.Warn("RSVPImporter:Run:RSVPDropped",
					"error", mapErr, "user_id", credential.UserID,
					"provider_event_id", event.ProviderEventID)
				continue
			}

			if chainErr := i.chain.ProcessAttendee(ctx, attendee); chainErr != nil {
				stats.ItemsDropped++
				continue
			}
			stats.RSVPsProcessed++
		}
	}

	logger.Info("RSVPImporter:Run:Done",
		"user_id", credential.UserID, "provider", provider.Name,
		"events", len(events), "processed", stats.RSVPsProcessed, "dropped", stats.ItemsDropped)
	return stats, nil
}
