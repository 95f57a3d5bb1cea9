package entity

import (
	"time"

	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// RSVP is one attendance record.
// Natural key: (provider_rsvp_id, candidate_id, provider_account_id, event_id).
type RSVP struct {
	entity.BaseEntity
	ProviderRSVPID    string     `db:"provider_rsvp_id" json:"provider_rsvp_id"`
	CandidateID       uuid.UUID  `db:"candidate_id" json:"candidate_id"`
	ProviderAccountID uuid.UUID  `db:"provider_account_id" json:"provider_account_id"`
	EventID           uuid.UUID  `db:"event_id" json:"event_id"`
	Status            string     `db:"status" json:"status"`
	RespondedAt       *time.Time `db:"responded_at" json:"responded_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}
