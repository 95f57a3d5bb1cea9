package repository

import (
	"context"

	"recruitsync/core/logger"
	"recruitsync/modules/candidate/entity"
)

func (r *CandidateRepository) UpsertSource(ctx context.Context, source *entity.CandidateSource) (*entity.CandidateSource, error) {
	query := `
		INSERT INTO candidate_sources (title, description_prefix, domain_key, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (domain_key, description_prefix)
		DO UPDATE SET
			title = EXCLUDED.title,
			updated_at = NOW()
		RETURNING id, title, description_prefix, domain_key, created_at, updated_at
	`

	var upserted entity.CandidateSource
	err := r.DB.GetContext(ctx, &upserted, query,
		source.Title, source.DescriptionPrefix, source.DomainKey)
	if err != nil {
		logger.Error("CandidateRepository:UpsertSource:Error", "error", err, "domain_key", source.DomainKey)
		return nil, wrapPersistenceError(err, "candidate source upsert failed")
	}
	return &upserted, nil
}
