package service

import (
	"context"
	stderrors "errors"
	"time"

	"recruitsync/core/constants"
	"recruitsync/core/errors"
	"recruitsync/core/logger"
	credentialEntity "recruitsync/modules/credential/entity"
	eventRepository "recruitsync/modules/event/repository"
	"recruitsync/modules/importer/adapter"
	providerEntity "recruitsync/modules/provider/entity"
)

// ImportStats summarizes one credential's import run.
type ImportStats struct {
	Provider       string `json:"provider"`
	EventsUpserted int    `json:"events_upserted"`
	RSVPsProcessed int    `json:"rsvps_processed"`
	ItemsDropped   int    `json:"items_dropped"`
}

// EventImporter drains a credential's event pages into the events table.
// One malformed or unpersistable item is dropped and counted, never fatal;
// a failed page fetch ends the run with what was gathered so far, and only
// a rejected token fails the credential.
type EventImporter struct {
	events eventRepository.EventRepositoryInterface
}

func NewEventImporter(events eventRepository.EventRepositoryInterface) *EventImporter {
	return &EventImporter{events: events}
}

func (i *EventImporter) Run(ctx context.Context, providerAdapter adapter.ProviderAdapter, credential *credentialEntity.UserCredential, provider *providerEntity.ProviderAccount) (*ImportStats, *errors.AppError) {
	stats := &ImportStats{Provider: provider.Name}
	since := time.Now().UTC().AddDate(0, 0, -constants.DefaultEventLookbackDays)

	pager := providerAdapter.FetchEvents(ctx, credential, since)
	for {
		raw, err := pager.Next(ctx)
		if err != nil {
			if stderrors.Is(err, adapter.ErrNoMorePages) {
				break
			}
			if stderrors.Is(err, adapter.ErrTokenRejected) {
				logger.Warn("EventImporter:Run:TokenRejected",
					"user_id", credential.UserID, "provider", provider.Name)
				return stats, errors.NewAppError(errors.ErrCredentialInvalid, "provider rejected the token mid-import", err)
			}
			// The cursor is gone with the failed page; keep what was
			// gathered instead of failing the whole credential.
			logger.Error("EventImporter:Run:PageFetchFailed",
				"error", err, "user_id", credential.UserID, "provider", provider.Name,
				"events_so_far", stats.EventsUpserted)
			break
		}

		event, mapErr := providerAdapter.MapEvent(ctx, credential, raw)
		if mapErr != nil {
			stats.ItemsDropped++
			logger.Warn("EventImporter:Run:EventDropped",
				"error", mapErr, "user_id", credential.UserID, "provider", provider.Name)
			continue
		}

		if _, err := i.events.Upsert(ctx, event); err != nil {
			stats.ItemsDropped++
			logger.Error("EventImporter:Run:UpsertFailed",
				"error", err, "user_id", credential.UserID,
				"provider_event_id", event.ProviderEventID)
			continue
		}
		stats.EventsUpserted++
	}

	logger.Info("EventImporter:Run:Done",
		"user_id", credential.UserID, "provider", provider.Name,
		"upserted", stats.EventsUpserted, "dropped", stats.ItemsDropped)
	return stats, nil
}
