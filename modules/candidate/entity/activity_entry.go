package entity

import (
	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// ActivityEntry is a denormalized feed row derived from one RSVP.
// Natural key: (user_id, params, activity_type, source_id), where source_id
// is the join record the entry was derived from.
type ActivityEntry struct {
	entity.BaseEntity
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Params       string    `db:"params" json:"params"`
	ActivityType string    `db:"activity_type" json:"activity_type"`
	SourceID     uuid.UUID `db:"source_id" json:"source_id"`
}

func (ActivityEntry) TableName() string {
	return "activity_entries"
}
