package repository

import (
	"context"
	"database/sql"

	"recruitsync/core/logger"
	"recruitsync/modules/event/entity"

	"github.com/google/uuid"
)

func (r *EventRepository) GetVenueByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error) {
	var venue entity.Venue
	query := `SELECT * FROM venues WHERE id = $1`

	err := r.DB.GetContext(ctx, &venue, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetVenueByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &venue, nil
}

func (r *EventRepository) GetVenueByProviderKey(ctx context.Context, providerAccountID uuid.UUID, providerVenueID string) (*entity.Venue, error) {
	var venue entity.Venue
	query := `
		SELECT * FROM venues
		WHERE provider_account_id = $1 AND provider_venue_id = $2
	`
	err := r.DB.GetContext(ctx, &venue, query, providerAccountID, providerVenueID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetVenueByProviderKey:Error",
			"error", err, "provider_venue_id", providerVenueID)
		return nil, err
	}
	return &venue, nil
}

func (r *EventRepository) UpsertVenue(ctx context.Context, venue *entity.Venue) (*entity.Venue, error) {
	query := `
		INSERT INTO venues (
			provider_account_id, provider_venue_id, name, address, city, country,
			latitude, longitude, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (provider_account_id, provider_venue_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = NOW()
		RETURNING id, provider_account_id, provider_venue_id, name, address, city, country,
		          latitude, longitude, created_at, updated_at
	`

	var upserted entity.Venue
	err := r.DB.GetContext(ctx, &upserted, query,
		venue.ProviderAccountID, venue.ProviderVenueID, venue.Name, venue.Address,
		venue.City, venue.Country, venue.Latitude, venue.Longitude)
	if err != nil {
		logger.Error("EventRepository:UpsertVenue:Error",
			"error", err, "provider_venue_id", venue.ProviderVenueID)
		return nil, err
	}
	return &upserted, nil
}
