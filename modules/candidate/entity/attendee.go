package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attendee is the transient, normalized form of one raw RSVP. It lives only
// while the upsert chain processes it and is never persisted itself; each
// chain stage fills in the foreign key the next stage consumes.
type Attendee struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	RSVPStatus       string
	ProviderRSVPID   string
	RespondedAt      *time.Time

	OwnerUserID       uuid.UUID
	ProviderAccountID uuid.UUID
	SourceProductID   string

	EventID          uuid.UUID
	EventTitle       string
	EventDescription string

	// Populated by the chain, stage by stage
	SourceID    uuid.UUID
	CandidateID uuid.UUID
	RSVPID      uuid.UUID
	JoinID      uuid.UUID
}

// Identity is attached to every chain log line so a failure can be traced
// back to a provider record.
func (a *Attendee) Identity() []any {
	return []any{
		"owner_user_id", a.OwnerUserID,
		"provider_account_id", a.ProviderAccountID,
		"provider_rsvp_id", a.ProviderRSVPID,
		"name", a.FirstName + " " + a.LastName,
	}
}
