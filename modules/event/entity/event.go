package entity

import (
	"time"

	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// Event statuses
const (
	EventStatusLive      = "live"
	EventStatusDraft     = "draft"
	EventStatusCancelled = "cancelled"
)

// Event is one provider event imported for one user.
// (user_id, provider_account_id, provider_event_id) is the idempotence key.
type Event struct {
	entity.BaseEntity
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	ProviderAccountID uuid.UUID  `db:"provider_account_id" json:"provider_account_id"`
	ProviderEventID   string     `db:"provider_event_id" json:"provider_event_id"`
	Title             string     `db:"title" json:"title"`
	Description       string     `db:"description" json:"description"`
	StartTime         *time.Time `db:"start_time" json:"start_time"`
	EndTime           *time.Time `db:"end_time" json:"end_time"`
	Timezone          string     `db:"timezone" json:"timezone"`
	VenueID           *uuid.UUID `db:"venue_id" json:"venue_id"`
	OrganizerID       *uuid.UUID `db:"organizer_id" json:"organizer_id"`
	Capacity          *int       `db:"capacity" json:"capacity"`
	URL               string     `db:"url" json:"url"`
	Status            string     `db:"status" json:"status"`
}

func (Event) TableName() string {
	return "events"
}
