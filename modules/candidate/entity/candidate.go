package entity

import (
	"time"

	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// Candidate statuses
const (
	CandidateStatusNew       = "new"
	CandidateStatusContacted = "contacted"
)

// Candidate is a person sourced from event attendance.
// Natural key: (first_name, last_name, owner_user_id, source_id, source_product_id).
type Candidate struct {
	entity.BaseEntity
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Email           string    `db:"email" json:"email"`
	Phone           string    `db:"phone" json:"phone"`
	OwnerUserID     uuid.UUID `db:"owner_user_id" json:"owner_user_id"`
	SourceID        uuid.UUID `db:"source_id" json:"source_id"`
	SourceProductID string    `db:"source_product_id" json:"source_product_id"`
	Status          string    `db:"status" json:"status"`
	AddedTime       time.Time `db:"added_time" json:"added_time"`
}

func (Candidate) TableName() string {
	return "candidates"
}
