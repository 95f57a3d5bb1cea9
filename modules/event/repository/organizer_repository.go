package repository

import (
	"context"
	"database/sql"

	"recruitsync/core/logger"
	"recruitsync/modules/event/entity"

	"github.com/google/uuid"
)

func (r *EventRepository) GetOrganizerByProviderKey(ctx context.Context, providerAccountID uuid.UUID, providerOrganizerID string) (*entity.Organizer, error) {
	var organizer entity.Organizer
	query := `
		SELECT * FROM organizers
		WHERE provider_account_id = $1 AND provider_organizer_id = $2
	`
	err := r.DB.GetContext(ctx, &organizer, query, providerAccountID, providerOrganizerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetOrganizerByProviderKey:Error",
			"error", err, "provider_organizer_id", providerOrganizerID)
		return nil, err
	}
	return &organizer, nil
}

func (r *EventRepository) UpsertOrganizer(ctx context.Context, organizer *entity.Organizer) (*entity.Organizer, error) {
	query := `
		INSERT INTO organizers (
			provider_account_id, provider_organizer_id, name, url, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (provider_account_id, provider_organizer_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			updated_at = NOW()
		RETURNING id, provider_account_id, provider_organizer_id, name, url, created_at, updated_at
	`

	var upserted entity.Organizer
	err := r.DB.GetContext(ctx, &upserted, query,
		organizer.ProviderAccountID, organizer.ProviderOrganizerID, organizer.Name, organizer.URL)
	if err != nil {
		logger.Error("EventRepository:UpsertOrganizer:Error",
			"error", err, "provider_organizer_id", organizer.ProviderOrganizerID)
		return nil, err
	}
	return &upserted, nil
}
