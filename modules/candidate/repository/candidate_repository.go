package repository

import (
	"context"

	"recruitsync/core/logger"
	"recruitsync/modules/candidate/entity"
)

// UpsertCandidate refreshes added_time and contact fields when the same
// natural key recurs, so a re-import updates the person instead of
// duplicating them.
func (r *CandidateRepository) UpsertCandidate(ctx context.Context, candidate *entity.Candidate) (*entity.Candidate, error) {
	query := `
		INSERT INTO candidates (
			first_name, last_name, email, phone, owner_user_id,
			source_id, source_product_id, status, added_time, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW(), NOW())
		ON CONFLICT (first_name, last_name, owner_user_id, source_id, source_product_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			status = EXCLUDED.status,
			added_time = NOW(),
			updated_at = NOW()
		RETURNING id, first_name, last_name, email, phone, owner_user_id,
		          source_id, source_product_id, status, added_time, created_at, updated_at
	`

	var upserted entity.Candidate
	err := r.DB.GetContext(ctx, &upserted, query,
		candidate.FirstName, candidate.LastName, candidate.Email, candidate.Phone,
		candidate.OwnerUserID, candidate.SourceID, candidate.SourceProductID, candidate.Status)
	if err != nil {
		logger.Error("CandidateRepository:UpsertCandidate:Error",
			"error", err, "owner_user_id", candidate.OwnerUserID,
			"name", candidate.FirstName+" "+candidate.LastName)
		return nil, wrapPersistenceError(err, "candidate upsert failed")
	}
	return &upserted, nil
}
