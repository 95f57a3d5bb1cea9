package entity

import (
	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// Organizer is the provider-side group or account hosting an event.
type Organizer struct {
	entity.BaseEntity
	ProviderAccountID   uuid.UUID `db:"provider_account_id" json:"provider_account_id"`
	ProviderOrganizerID string    `db:"provider_organizer_id" json:"provider_organizer_id"`
	Name                string    `db:"name" json:"name"`
	URL                 string    `db:"url" json:"url"`
}

func (Organizer) TableName() string {
	return "organizers"
}
