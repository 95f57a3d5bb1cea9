package entity

import (
	"recruitsync/core/entity"
)

// Supported provider names
const (
	ProviderMeetup     = "meetup"
	ProviderEventbrite = "eventbrite"
	ProviderFacebook   = "facebook"
)

// ProviderAccount is immutable reference data for one event platform,
// seeded from configuration and never written by the import pipeline.
type ProviderAccount struct {
	entity.BaseEntity
	Name             string `db:"name" json:"name"`
	DisplayName      string `db:"display_name" json:"display_name"`
	APIBaseURL       string `db:"api_base_url" json:"api_base_url"`
	AuthURL          string `db:"auth_url" json:"-"`
	TokenURL         string `db:"token_url" json:"-"`
	ClientID         string `db:"client_id" json:"-"`
	ClientSecret     string `db:"client_secret" json:"-"`
	RSVPLookbackDays int    `db:"rsvp_lookback_days" json:"rsvp_lookback_days"`
	IsActive         bool   `db:"is_active" json:"is_active"`
}

func (ProviderAccount) TableName() string {
	return "provider_accounts"
}

// SupportsRefresh reports whether the provider issues refresh tokens.
// Facebook long-lived tokens cannot be refreshed server-side; the user
// must re-authorize once the token dies.
func (p *ProviderAccount) SupportsRefresh() bool {
	return p.Name != ProviderFacebook
}

// SupportsPublish reports whether events can be created/deleted provider-side.
func (p *ProviderAccount) SupportsPublish() bool {
	return p.Name == ProviderMeetup || p.Name == ProviderEventbrite
}
