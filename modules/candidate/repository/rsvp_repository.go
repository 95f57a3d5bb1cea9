package repository

import (
	"context"

	"recruitsync/core/logger"
	"recruitsync/modules/candidate/entity"
)

func (r *CandidateRepository) UpsertRSVP(ctx context.Context, rsvp *entity.RSVP) (*entity.RSVP, error) {
	query := `
		INSERT INTO rsvps (
			provider_rsvp_id, candidate_id, provider_account_id, event_id,
			status, responded_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (provider_rsvp_id, candidate_id, provider_account_id, event_id)
		DO UPDATE SET
			status = EXCLUDED.status,
			responded_at = EXCLUDED.responded_at,
			updated_at = NOW()
		RETURNING id, provider_rsvp_id, candidate_id, provider_account_id, event_id,
		          status, responded_at, created_at, updated_at
	`

	var upserted entity.RSVP
	err := r.DB.GetContext(ctx, &upserted, query,
		rsvp.ProviderRSVPID, rsvp.CandidateID, rsvp.ProviderAccountID, rsvp.EventID,
		rsvp.Status, rsvp.RespondedAt)
	if err != nil {
		logger.Error("CandidateRepository:UpsertRSVP:Error",
			"error", err, "provider_rsvp_id", rsvp.ProviderRSVPID, "event_id", rsvp.EventID)
		return nil, wrapPersistenceError(err, "rsvp upsert failed")
	}
	return &upserted, nil
}
