package service

import (
	"context"
	"testing"

	"recruitsync/core/errors"
	"recruitsync/modules/candidate/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryChainRepo is an in-memory stand-in for the five chain stores,
// upserting on the same natural keys the SQL layer declares.
type memoryChainRepo struct {
	sources    map[string]*entity.CandidateSource
	candidates map[string]*entity.Candidate
	rsvps      map[string]*entity.RSVP
	joins      map[string]*entity.CandidateEventRSVP
	activities map[string]*entity.ActivityEntry

	failStage     string
	failWith      error
	failRemaining int
}

func newMemoryChainRepo() *memoryChainRepo {
	return &memoryChainRepo{
		sources:    make(map[string]*entity.CandidateSource),
		candidates: make(map[string]*entity.Candidate),
		rsvps:      make(map[string]*entity.RSVP),
		joins:      make(map[string]*entity.CandidateEventRSVP),
		activities: make(map[string]*entity.ActivityEntry),
	}
}

func (m *memoryChainRepo) maybeFail(stage string) error {
	if m.failStage == stage && m.failRemaining != 0 {
		m.failRemaining--
		return m.failWith
	}
	return nil
}

func (m *memoryChainRepo) UpsertSource(_ context.Context, s *entity.CandidateSource) (*entity.CandidateSource, error) {
	if err := m.maybeFail("source"); err != nil {
		return nil, err
	}
	key := s.DomainKey + "|" + s.DescriptionPrefix
	if existing, ok := m.sources[key]; ok {
		existing.Title = s.Title
		return existing, nil
	}
	stored := *s
	stored.ID = uuid.New()
	m.sources[key] = &stored
	return &stored, nil
}

func (m *memoryChainRepo) UpsertCandidate(_ context.Context, c *entity.Candidate) (*entity.Candidate, error) {
	if err := m.maybeFail("candidate"); err != nil {
		return nil, err
	}
	key := c.FirstName + "|" + c.LastName + "|" + c.OwnerUserID.String() + "|" + c.SourceID.String() + "|" + c.SourceProductID
	if existing, ok := m.candidates[key]; ok {
		existing.Email = c.Email
		return existing, nil
	}
	stored := *c
	stored.ID = uuid.New()
	m.candidates[key] = &stored
	return &stored, nil
}

func (m *memoryChainRepo) UpsertRSVP(_ context.Context, r *entity.RSVP) (*entity.RSVP, error) {
	if err := m.maybeFail("rsvp"); err != nil {
		return nil, err
	}
	key := r.ProviderRSVPID + "|" + r.CandidateID.String() + "|" + r.ProviderAccountID.String() + "|" + r.EventID.String()
	if existing, ok := m.rsvps[key]; ok {
		existing.Status = r.Status
		return existing, nil
	}
	stored := *r
	stored.ID = uuid.New()
	m.rsvps[key] = &stored
	return &stored, nil
}

func (m *memoryChainRepo) UpsertJoin(_ context.Context, j *entity.CandidateEventRSVP) (*entity.CandidateEventRSVP, error) {
	if err := m.maybeFail("join"); err != nil {
		return nil, err
	}
	key := j.CandidateID.String() + "|" + j.EventID.String() + "|" + j.RSVPID.String()
	if existing, ok := m.joins[key]; ok {
		return existing, nil
	}
	stored := *j
	stored.ID = uuid.New()
	m.joins[key] = &stored
	return &stored, nil
}

func (m *memoryChainRepo) UpsertActivity(_ context.Context, a *entity.ActivityEntry) (*entity.ActivityEntry, error) {
	if err := m.maybeFail("activity"); err != nil {
		return nil, err
	}
	key := a.UserID.String() + "|" + a.Params + "|" + a.ActivityType + "|" + a.SourceID.String()
	if existing, ok := m.activities[key]; ok {
		return existing, nil
	}
	stored := *a
	stored.ID = uuid.New()
	m.activities[key] = &stored
	return &stored, nil
}

func testAttendee() *entity.Attendee {
	return &entity.Attendee{
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Email:             "ada@example.com",
		RSVPStatus:        "yes",
		ProviderRSVPID:    "rsvp-1",
		OwnerUserID:       uuid.New(),
		ProviderAccountID: uuid.New(),
		SourceProductID:   "meetup",
		EventID:           uuid.New(),
		EventTitle:        "Go Night Berlin",
		EventDescription:  "Monthly Go meetup with talks and pizza",
	}
}

func TestProcessAttendeeCreatesFullChain(t *testing.T) {
	repo := newMemoryChainRepo()
	svc := NewChainService(repo)

	attendee := testAttendee()
	require.Nil(t, svc.ProcessAttendee(context.Background(), attendee))

	assert.Len(t, repo.sources, 1)
	assert.Len(t, repo.candidates, 1)
	assert.Len(t, repo.rsvps, 1)
	assert.Len(t, repo.joins, 1)
	assert.Len(t, repo.activities, 1)

	assert.NotEqual(t, uuid.Nil, attendee.SourceID)
	assert.NotEqual(t, uuid.Nil, attendee.CandidateID)
	assert.NotEqual(t, uuid.Nil, attendee.RSVPID)
	assert.NotEqual(t, uuid.Nil, attendee.JoinID)
}

func TestProcessAttendeeIsIdempotent(t *testing.T) {
	repo := newMemoryChainRepo()
	svc := NewChainService(repo)

	first := testAttendee()
	require.Nil(t, svc.ProcessAttendee(context.Background(), first))

	// Same provider record again, as a re-import would deliver it.
	second := testAttendee()
	second.OwnerUserID = first.OwnerUserID
	second.ProviderAccountID = first.ProviderAccountID
	second.EventID = first.EventID
	require.Nil(t, svc.ProcessAttendee(context.Background(), second))

	assert.Len(t, repo.sources, 1)
	assert.Len(t, repo.candidates, 1)
	assert.Len(t, repo.rsvps, 1)
	assert.Len(t, repo.joins, 1)
	assert.Len(t, repo.activities, 1)
	assert.Equal(t, first.CandidateID, second.CandidateID)
}

func TestProcessAttendeeDisambiguatesSameTitleDifferentDescription(t *testing.T) {
	repo := newMemoryChainRepo()
	svc := NewChainService(repo)

	first := testAttendee()
	require.Nil(t, svc.ProcessAttendee(context.Background(), first))

	// Same title, different content: a different source row.
	second := testAttendee()
	second.OwnerUserID = first.OwnerUserID
	second.ProviderAccountID = first.ProviderAccountID
	second.EventDescription = "A completely different edition of the event"
	require.Nil(t, svc.ProcessAttendee(context.Background(), second))

	assert.Len(t, repo.sources, 2)
	assert.NotEqual(t, first.SourceID, second.SourceID)
}

func TestProcessAttendeeDisambiguatesSameNameDifferentOwner(t *testing.T) {
	repo := newMemoryChainRepo()
	svc := NewChainService(repo)

	first := testAttendee()
	require.Nil(t, svc.ProcessAttendee(context.Background(), first))

	// The same person imported by another user stays that user's own row.
	second := testAttendee()
	second.ProviderAccountID = first.ProviderAccountID
	second.EventID = first.EventID
	require.NotEqual(t, first.OwnerUserID, second.OwnerUserID)
	require.Nil(t, svc.ProcessAttendee(context.Background(), second))

	assert.Len(t, repo.candidates, 2)
	assert.NotEqual(t, first.CandidateID, second.CandidateID)
}

func TestProcessAttendeeStageFailureStopsChain(t *testing.T) {
	repo := newMemoryChainRepo()
	repo.failStage = "rsvp"
	repo.failWith = errors.NewAppError(errors.ErrInternalServer, "store down", nil)
	repo.failRemaining = -1 // always
	svc := NewChainService(repo)

	attendee := testAttendee()
	appErr := svc.ProcessAttendee(context.Background(), attendee)
	require.NotNil(t, appErr)

	// Earlier stages persisted, later ones never ran.
	assert.Len(t, repo.sources, 1)
	assert.Len(t, repo.candidates, 1)
	assert.Len(t, repo.rsvps, 0)
	assert.Len(t, repo.joins, 0)
	assert.Len(t, repo.activities, 0)
}

func TestProcessAttendeeRetriesConflictOnce(t *testing.T) {
	repo := newMemoryChainRepo()
	repo.failStage = "candidate"
	repo.failWith = errors.NewAppError(errors.ErrPersistenceConflict, "duplicate key", nil)
	repo.failRemaining = 1 // first attempt conflicts, retry succeeds
	svc := NewChainService(repo)

	attendee := testAttendee()
	require.Nil(t, svc.ProcessAttendee(context.Background(), attendee))
	assert.Len(t, repo.candidates, 1)
	assert.Len(t, repo.activities, 1)
}

func TestProcessAttendeePersistentConflictFails(t *testing.T) {
	repo := newMemoryChainRepo()
	repo.failStage = "source"
	repo.failWith = errors.NewAppError(errors.ErrPersistenceConflict, "duplicate key", nil)
	repo.failRemaining = -1
	svc := NewChainService(repo)

	appErr := svc.ProcessAttendee(context.Background(), testAttendee())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrPersistenceConflict, appErr.Code)
}
