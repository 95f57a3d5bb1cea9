package entity

import (
	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// Venue is provider venue data, shared across events of one provider.
type Venue struct {
	entity.BaseEntity
	ProviderAccountID uuid.UUID `db:"provider_account_id" json:"provider_account_id"`
	ProviderVenueID   string    `db:"provider_venue_id" json:"provider_venue_id"`
	Name              string    `db:"name" json:"name"`
	Address           string    `db:"address" json:"address"`
	City              string    `db:"city" json:"city"`
	Country           string    `db:"country" json:"country"`
	Latitude          *float64  `db:"latitude" json:"latitude"`
	Longitude         *float64  `db:"longitude" json:"longitude"`
}

func (Venue) TableName() string {
	return "venues"
}
