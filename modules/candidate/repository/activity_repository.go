package repository

import (
	"context"

	"recruitsync/core/logger"
	"recruitsync/modules/candidate/entity"
)

func (r *CandidateRepository) UpsertActivity(ctx context.Context, activity *entity.ActivityEntry) (*entity.ActivityEntry, error) {
	query := `
		INSERT INTO activity_entries (user_id, params, activity_type, source_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, params, activity_type, source_id)
		DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, params, activity_type, source_id, created_at, updated_at
	`

	var upserted entity.ActivityEntry
	err := r.DB.GetContext(ctx, &upserted, query,
		activity.UserID, activity.Params, activity.ActivityType, activity.SourceID)
	if err != nil {
		logger.Error("CandidateRepository:UpsertActivity:Error",
			"error", err, "user_id", activity.UserID, "source_id", activity.SourceID)
		return nil, wrapPersistenceError(err, "activity entry upsert failed")
	}
	return &upserted, nil
}
