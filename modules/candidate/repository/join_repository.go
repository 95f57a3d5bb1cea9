package repository

import (
	"context"

	"recruitsync/core/logger"
	"recruitsync/modules/candidate/entity"
)

func (r *CandidateRepository) UpsertJoin(ctx context.Context, join *entity.CandidateEventRSVP) (*entity.CandidateEventRSVP, error) {
	query := `
		INSERT INTO candidate_event_rsvps (candidate_id, event_id, rsvp_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (candidate_id, event_id, rsvp_id)
		DO UPDATE SET updated_at = NOW()
		RETURNING id, candidate_id, event_id, rsvp_id, created_at, updated_at
	`

	var upserted entity.CandidateEventRSVP
	err := r.DB.GetContext(ctx, &upserted, query,
		join.CandidateID, join.EventID, join.RSVPID)
	if err != nil {
		logger.Error("CandidateRepository:UpsertJoin:Error",
			"error", err, "candidate_id", join.CandidateID, "event_id", join.EventID)
		return nil, wrapPersistenceError(err, "join record upsert failed")
	}
	return &upserted, nil
}
