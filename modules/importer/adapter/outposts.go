package adapter

import (
	"context"
	"fmt"
	"strings"

	"recruitsync/core/constants"
	"recruitsync/core/logger"
	eventEntity "recruitsync/modules/event/entity"

	"github.com/google/uuid"
)

// upsertVenueCached resolves a venue outpost by natural key, memoizing the
// local id in redis so repeated events at one venue cost one upsert. Returns
// nil on failure; mapping proceeds with empty venue fields.
func upsertVenueCached(ctx context.Context, deps Deps, venue *eventEntity.Venue) *uuid.UUID {
	cacheKey := fmt.Sprintf("venue:%s:%s", venue.ProviderAccountID, venue.ProviderVenueID)
	if deps.Cache != nil {
		if cached, err := deps.Cache.Get(ctx, cacheKey); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				return &id
			}
		}
	}

	upserted, err := deps.Events.UpsertVenue(ctx, venue)
	if err != nil {
		logger.Error("Adapter:UpsertVenueCached:Error",
			"error", err, "provider_venue_id", venue.ProviderVenueID)
		return nil
	}

	if deps.Cache != nil {
		if err := deps.Cache.Set(ctx, cacheKey, upserted.ID.String(), constants.NaturalKeyCacheTTL); err != nil {
			logger.Warn("Adapter:UpsertVenueCached:CacheSet:Error", "error", err)
		}
	}
	return &upserted.ID
}

// upsertOrganizerCached mirrors upsertVenueCached for organizer outposts.
func upsertOrganizerCached(ctx context.Context, deps Deps, organizer *eventEntity.Organizer) *uuid.UUID {
	cacheKey := fmt.Sprintf("organizer:%s:%s", organizer.ProviderAccountID, organizer.ProviderOrganizerID)
	if deps.Cache != nil {
		if cached, err := deps.Cache.Get(ctx, cacheKey); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				return &id
			}
		}
	}

	upserted, err := deps.Events.UpsertOrganizer(ctx, organizer)
	if err != nil {
		logger.Error("Adapter:UpsertOrganizerCached:Error",
			"error", err, "provider_organizer_id", organizer.ProviderOrganizerID)
		return nil
	}

	if deps.Cache != nil {
		if err := deps.Cache.Set(ctx, cacheKey, upserted.ID.String(), constants.NaturalKeyCacheTTL); err != nil {
			logger.Warn("Adapter:UpsertOrganizerCached:CacheSet:Error", "error", err)
		}
	}
	return &upserted.ID
}

// splitName divides a display name into first and last parts.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
