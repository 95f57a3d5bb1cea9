package repository

import (
	"context"

	"recruitsync/core/database"
	"recruitsync/core/errors"
	"recruitsync/modules/candidate/entity"

	"github.com/lib/pq"
)

// CandidateRepository handles all candidate-chain database operations
type CandidateRepository struct {
	DB database.IDatabase
}

func NewCandidateRepository(db database.IDatabase) *CandidateRepository {
	return &CandidateRepository{DB: db}
}

// CandidateRepositoryInterface defines the contract for the upsert chain's
// five stores. Every upsert is keyed on the entity's documented natural key
// and returns the stored row.
type CandidateRepositoryInterface interface {
	UpsertSource(ctx context.Context, source *entity.CandidateSource) (*entity.CandidateSource, error)
	UpsertCandidate(ctx context.Context, candidate *entity.Candidate) (*entity.Candidate, error)
	UpsertRSVP(ctx context.Context, rsvp *entity.RSVP) (*entity.RSVP, error)
	UpsertJoin(ctx context.Context, join *entity.CandidateEventRSVP) (*entity.CandidateEventRSVP, error)
	UpsertActivity(ctx context.Context, activity *entity.ActivityEntry) (*entity.ActivityEntry, error)
}

// wrapPersistenceError maps transaction races to ErrPersistenceConflict so
// the chain can retry the stage once before skipping the attendee.
func wrapPersistenceError(err error, message string) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// 23505 unique_violation, 40001 serialization_failure, 40P01 deadlock_detected
		switch pqErr.Code {
		case "23505", "40001", "40P01":
			return errors.NewAppError(errors.ErrPersistenceConflict, message, err)
		}
	}
	return err
}
