package entity

import (
	"time"

	"recruitsync/core/entity"

	"github.com/google/uuid"
)

// UserCredential stores one user's authorization for one provider.
// At most one row exists per (user_id, provider_account_id).
type UserCredential struct {
	entity.BaseEntity
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	ProviderAccountID uuid.UUID  `db:"provider_account_id" json:"provider_account_id"`
	AccessToken       string     `db:"access_token" json:"-"`
	RefreshToken      *string    `db:"refresh_token" json:"-"`
	TokenExpiresAt    *time.Time `db:"token_expires_at" json:"token_expires_at"`
	ProviderMemberID  *string    `db:"provider_member_id" json:"provider_member_id"`
	WebhookID         *string    `db:"webhook_id" json:"webhook_id"`
	IsActive          bool       `db:"is_active" json:"is_active"`
}

func (UserCredential) TableName() string {
	return "user_credentials"
}
