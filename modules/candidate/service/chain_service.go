package service

import (
	"context"
	"encoding/json"

	"recruitsync/core/constants"
	"recruitsync/core/errors"
	"recruitsync/core/logger"
	"recruitsync/modules/candidate/entity"
	"recruitsync/modules/candidate/repository"

	"github.com/gosimple/slug"
)

// ChainService turns one Attendee into a candidate record set: source →
// candidate → rsvp → join record → activity entry. Every stage is idempotent
// on its natural key, so re-processing the same RSVP touches existing rows
// instead of duplicating them.
type ChainService interface {
	ProcessAttendee(ctx context.Context, attendee *entity.Attendee) *errors.AppError
}

type chainService struct {
	repo repository.CandidateRepositoryInterface
}

func NewChainService(repo repository.CandidateRepositoryInterface) ChainService {
	return &chainService{repo: repo}
}

// ProcessAttendee runs the five stages in order. A stage failure is logged
// with the attendee's identity and returned; callers log-and-continue so one
// bad attendee never aborts a batch.
func (s *chainService) ProcessAttendee(ctx context.Context, attendee *entity.Attendee) *errors.AppError {
	stages := []struct {
		name string
		run  func(context.Context, *entity.Attendee) error
	}{
		{"source", s.upsertSource},
		{"candidate", s.upsertCandidate},
		{"rsvp", s.upsertRSVP},
		{"join", s.upsertJoin},
		{"activity", s.upsertActivity},
	}

	for _, stage := range stages {
		if err := s.runStage(ctx, stage.name, stage.run, attendee); err != nil {
			args := append([]any{"error", err, "stage", stage.name}, attendee.Identity()...)
			logger.Error("ChainService:ProcessAttendee:StageFailed", args...)
			if ae, ok := err.(*errors.AppError); ok {
				return ae
			}
			return errors.NewAppError(errors.ErrInternalServer, "chain stage "+stage.name+" failed", err)
		}
	}

	return nil
}

// runStage retries once when the store reports a natural-key race; any other
// failure surfaces immediately.
func (s *chainService) runStage(ctx context.Context, name string, run func(context.Context, *entity.Attendee) error, attendee *entity.Attendee) error {
	var err error
	for attempt := 0; attempt <= constants.UpsertConflictRetries; attempt++ {
		err = run(ctx, attendee)
		if err == nil {
			return nil
		}
		if !errors.IsCode(err, errors.ErrPersistenceConflict) {
			return err
		}
		logger.Warn("ChainService:RunStage:ConflictRetry", "stage", name, "attempt", attempt+1)
	}
	return err
}

func (s *chainService) upsertSource(ctx context.Context, attendee *entity.Attendee) error {
	prefix := attendee.EventDescription
	if len(prefix) > entity.DescriptionPrefixLen {
		prefix = prefix[:entity.DescriptionPrefixLen]
	}

	source, err := s.repo.UpsertSource(ctx, &entity.CandidateSource{
		Title:             attendee.EventTitle,
		DescriptionPrefix: prefix,
		DomainKey:         slug.Make(attendee.EventTitle),
	})
	if err != nil {
		return err
	}

	attendee.SourceID = source.ID
	return nil
}

func (s *chainService) upsertCandidate(ctx context.Context, attendee *entity.Attendee) error {
	candidate, err := s.repo.UpsertCandidate(ctx, &entity.Candidate{
		FirstName:       attendee.FirstName,
		LastName:        attendee.LastName,
		Email:           attendee.Email,
		Phone:           attendee.Phone,
		OwnerUserID:     attendee.OwnerUserID,
		SourceID:        attendee.SourceID,
		SourceProductID: attendee.SourceProductID,
		Status:          entity.CandidateStatusNew,
	})
	if err != nil {
		return err
	}

	attendee.CandidateID = candidate.ID
	return nil
}

func (s *chainService) upsertRSVP(ctx context.Context, attendee *entity.Attendee) error {
	rsvp, err := s.repo.UpsertRSVP(ctx, &entity.RSVP{
		ProviderRSVPID:    attendee.ProviderRSVPID,
		CandidateID:       attendee.CandidateID,
		ProviderAccountID: attendee.ProviderAccountID,
		EventID:           attendee.EventID,
		Status:            attendee.RSVPStatus,
		RespondedAt:       attendee.RespondedAt,
	})
	if err != nil {
		return err
	}

	attendee.RSVPID = rsvp.ID
	return nil
}

func (s *chainService) upsertJoin(ctx context.Context, attendee *entity.Attendee) error {
	join, err := s.repo.UpsertJoin(ctx, &entity.CandidateEventRSVP{
		CandidateID: attendee.CandidateID,
		EventID:     attendee.EventID,
		RSVPID:      attendee.RSVPID,
	})
	if err != nil {
		return err
	}

	attendee.JoinID = join.ID
	return nil
}

func (s *chainService) upsertActivity(ctx context.Context, attendee *entity.Attendee) error {
	params, err := json.Marshal(map[string]string{
		"candidate_name": attendee.FirstName + " " + attendee.LastName,
		"event_title":    attendee.EventTitle,
		"rsvp_status":    attendee.RSVPStatus,
	})
	if err != nil {
		return err
	}

	_, err = s.repo.UpsertActivity(ctx, &entity.ActivityEntry{
		UserID:       attendee.OwnerUserID,
		Params:       string(params),
		ActivityType: constants.ActivityTypeEventRSVP,
		SourceID:     attendee.JoinID,
	})
	return err
}
