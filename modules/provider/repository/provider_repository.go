package repository

import (
	"context"
	"database/sql"

	"recruitsync/core/database"
	"recruitsync/core/logger"
	"recruitsync/modules/provider/entity"

	"github.com/google/uuid"
)

// ProviderRepository handles provider account reference data
type ProviderRepository struct {
	DB database.IDatabase
}

func NewProviderRepository(db database.IDatabase) *ProviderRepository {
	return &ProviderRepository{DB: db}
}

// ProviderRepositoryInterface defines the contract for provider account lookups
type ProviderRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProviderAccount, error)
	GetByName(ctx context.Context, name string) (*entity.ProviderAccount, error)
	List(ctx context.Context) ([]entity.ProviderAccount, error)
	Seed(ctx context.Context, account *entity.ProviderAccount) error
}

func (r *ProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProviderAccount, error) {
	var account entity.ProviderAccount
	query := `SELECT * FROM provider_accounts WHERE id = $1`

	err := r.DB.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ProviderRepository:GetByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &account, nil
}

func (r *ProviderRepository) GetByName(ctx context.Context, name string) (*entity.ProviderAccount, error) {
	var account entity.ProviderAccount
	query := `SELECT * FROM provider_accounts WHERE name = $1 AND is_active = true`

	err := r.DB.GetContext(ctx, &account, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ProviderRepository:GetByName:Error", "error", err, "name", name)
		return nil, err
	}
	return &account, nil
}

func (r *ProviderRepository) List(ctx context.Context) ([]entity.ProviderAccount, error) {
	var accounts []entity.ProviderAccount
	query := `SELECT * FROM provider_accounts WHERE is_active = true ORDER BY name`

	err := r.DB.SelectContext(ctx, &accounts, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.ProviderAccount{}, nil
		}
		logger.Error("ProviderRepository:List:Error", "error", err)
		return nil, err
	}
	return accounts, nil
}

// Seed inserts or refreshes one provider account from configuration.
func (r *ProviderRepository) Seed(ctx context.Context, account *entity.ProviderAccount) error {
	query := `
		INSERT INTO provider_accounts (
			name, display_name, api_base_url, auth_url, token_url,
			client_id, client_secret, rsvp_lookback_days, is_active, created_at, updated_at
		)
		VALUES (
			:name, :display_name, :api_base_url, :auth_url, :token_url,
			:client_id, :client_secret, :rsvp_lookback_days, :is_active, NOW(), NOW()
		)
		ON CONFLICT (name)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			api_base_url = EXCLUDED.api_base_url,
			auth_url = EXCLUDED.auth_url,
			token_url = EXCLUDED.token_url,
			client_id = EXCLUDED.client_id,
			client_secret = EXCLUDED.client_secret,
			rsvp_lookback_days = EXCLUDED.rsvp_lookback_days,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`
	_, err := r.DB.NamedExecContext(ctx, query, account)
	if err != nil {
		logger.Error("ProviderRepository:Seed:Error", "error", err, "name", account.Name)
		return err
	}
	return nil
}
