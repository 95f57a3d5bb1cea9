package repository

import (
	"context"
	"database/sql"
	"time"

	"recruitsync/core/database"
	"recruitsync/core/logger"
	"recruitsync/modules/credential/entity"

	"github.com/google/uuid"
)

// CredentialRepository handles user credential database operations
type CredentialRepository struct {
	DB database.IDatabase
}

func NewCredentialRepository(db database.IDatabase) *CredentialRepository {
	return &CredentialRepository{DB: db}
}

// CredentialRepositoryInterface defines the contract for credential persistence
type CredentialRepositoryInterface interface {
	GetByUserAndProvider(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID) (*entity.UserCredential, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.UserCredential, error)
	GetByWebhookID(ctx context.Context, webhookID string) (*entity.UserCredential, error)
	List(ctx context.Context, providerAccountID *uuid.UUID) ([]entity.UserCredential, error)
	SaveOrUpdate(ctx context.Context, credential *entity.UserCredential) error
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, refreshToken *string, expiresAt *time.Time) error
	UpdateMemberID(ctx context.Context, id uuid.UUID, memberID string) error
}

func (r *CredentialRepository) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID) (*entity.UserCredential, error) {
	var credential entity.UserCredential
	query := `
		SELECT * FROM user_credentials
		WHERE user_id = $1 AND provider_account_id = $2 AND is_active = true
	`
	err := r.DB.GetContext(ctx, &credential, query, userID, providerAccountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CredentialRepository:GetByUserAndProvider:Error", "error", err, "user_id", userID, "provider_account_id", providerAccountID)
		return nil, err
	}
	return &credential, nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.UserCredential, error) {
	var credential entity.UserCredential
	query := `SELECT * FROM user_credentials WHERE id = $1`

	err := r.DB.GetContext(ctx, &credential, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CredentialRepository:GetByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &credential, nil
}

func (r *CredentialRepository) GetByWebhookID(ctx context.Context, webhookID string) (*entity.UserCredential, error) {
	var credential entity.UserCredential
	query := `
		SELECT * FROM user_credentials
		WHERE webhook_id = $1 AND is_active = true
	`
	err := r.DB.GetContext(ctx, &credential, query, webhookID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CredentialRepository:GetByWebhookID:Error", "error", err, "webhook_id", webhookID)
		return nil, err
	}
	return &credential, nil
}

func (r *CredentialRepository) List(ctx context.Context, providerAccountID *uuid.UUID) ([]entity.UserCredential, error) {
	var credentials []entity.UserCredential

	if providerAccountID != nil {
		query := `
			SELECT * FROM user_credentials
			WHERE is_active = true AND provider_account_id = $1
			ORDER BY created_at
		`
		if err := r.DB.SelectContext(ctx, &credentials, query, *providerAccountID); err != nil {
			logger.Error("CredentialRepository:List:Error", "error", err, "provider_account_id", *providerAccountID)
			return nil, err
		}
		return credentials, nil
	}

	query := `SELECT * FROM user_credentials WHERE is_active = true ORDER BY created_at`
	if err := r.DB.SelectContext(ctx, &credentials, query); err != nil {
		logger.Error("CredentialRepository:List:Error", "error", err)
		return nil, err
	}
	return credentials, nil
}

func (r *CredentialRepository) SaveOrUpdate(ctx context.Context, credential *entity.UserCredential) error {
	query := `
		INSERT INTO user_credentials (
			user_id, provider_account_id, access_token, refresh_token,
			token_expires_at, provider_member_id, webhook_id, is_active, created_at, updated_at
		)
		VALUES (
			:user_id, :provider_account_id, :access_token, :refresh_token,
			:token_expires_at, :provider_member_id, :webhook_id, :is_active, NOW(), NOW()
		)
		ON CONFLICT (user_id, provider_account_id)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			provider_member_id = EXCLUDED.provider_member_id,
			webhook_id = EXCLUDED.webhook_id,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`
	_, err := r.DB.NamedExecContext(ctx, query, credential)
	if err != nil {
		logger.Error("CredentialRepository:SaveOrUpdate:Error", "error", err, "user_id", credential.UserID)
		return err
	}
	return nil
}

func (r *CredentialRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	query := `
		UPDATE user_credentials
		SET access_token = $2, refresh_token = COALESCE($3, refresh_token),
		    token_expires_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	if err := r.DB.ExecContext(ctx, query, id, accessToken, refreshToken, expiresAt); err != nil {
		logger.Error("CredentialRepository:UpdateTokens:Error", "error", err, "id", id)
		return err
	}
	return nil
}

func (r *CredentialRepository) UpdateMemberID(ctx context.Context, id uuid.UUID, memberID string) error {
	query := `
		UPDATE user_credentials
		SET provider_member_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	if err := r.DB.ExecContext(ctx, query, id, memberID); err != nil {
		logger.Error("CredentialRepository:UpdateMemberID:Error", "error", err, "id", id)
		return err
	}
	return nil
}
