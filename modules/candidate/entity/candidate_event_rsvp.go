package entity

import (
	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// CandidateEventRSVP links a candidate, an event and an RSVP.
// Natural key: (candidate_id, event_id, rsvp_id); keeps re-imports from
// producing duplicate join rows.
type CandidateEventRSVP struct {
	entity.BaseEntity
	CandidateID uuid.UUID `db:"candidate_id" json:"candidate_id"`
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	RSVPID      uuid.UUID `db:"rsvp_id" json:"rsvp_id"`
}

func (CandidateEventRSVP) TableName() string {
	return "candidate_event_rsvps"
}
