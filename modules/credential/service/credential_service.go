package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"recruitsync/core/cache"
	"recruitsync/core/constants"
	"recruitsync/core/errors"
	"recruitsync/core/logger"
	"recruitsync/modules/credential/entity"
	"recruitsync/modules/credential/repository"
	providerEntity "recruitsync/modules/provider/entity"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ErrRefreshUnsupported marks providers that never issue refresh tokens.
// The credential stays dead until the user re-authorizes.
var ErrRefreshUnsupported = stderrors.New("provider does not support token refresh")

// whoamiPaths are the lightweight authenticated endpoints used to validate a
// token and to discover the provider-side member id.
var whoamiPaths = map[string]string{
	providerEntity.ProviderMeetup:     "/members/self",
	providerEntity.ProviderEventbrite: "/users/me/",
	providerEntity.ProviderFacebook:   "/me",
}

// RefreshedToken is the outcome of a refresh-token exchange.
type RefreshedToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type CredentialService interface {
	ResolveCredential(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID) (*entity.UserCredential, *errors.AppError)
	Validate(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) bool
	Refresh(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) (*RefreshedToken, error)
	ValidateAndRefresh(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) *errors.AppError
	DiscoverMemberID(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) (string, *errors.AppError)
}

type credentialService struct {
	repo       repository.CredentialRepositoryInterface
	cache      cache.Cache
	httpClient *http.Client
}

func NewCredentialService(repo repository.CredentialRepositoryInterface, c cache.Cache) CredentialService {
	return &credentialService{
		repo:       repo,
		cache:      c,
		httpClient: &http.Client{Timeout: constants.HTTPClientTimeout},
	}
}

func (s *credentialService) ResolveCredential(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID) (*entity.UserCredential, *errors.AppError) {
	credential, err := s.repo.GetByUserAndProvider(ctx, userID, providerAccountID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to resolve credential", err)
	}
	if credential == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no credential for this user and provider", nil)
	}
	return credential, nil
}

// Validate issues an authenticated whoami request; any non-2xx or transport
// failure counts as invalid.
func (s *credentialService) Validate(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) bool {
	if _, err := s.whoami(ctx, credential, provider); err != nil {
		logger.Warn("CredentialService:Validate:Failed",
			"error", err, "user_id", credential.UserID, "provider", provider.Name)
		return false
	}
	return true
}

func (s *credentialService) Refresh(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) (*RefreshedToken, error) {
	if !provider.SupportsRefresh() {
		return nil, ErrRefreshUnsupported
	}
	if credential.RefreshToken == nil || *credential.RefreshToken == "" {
		return nil, fmt.Errorf("credential has no refresh token")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     provider.ClientID,
		ClientSecret: provider.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  provider.AuthURL,
			TokenURL: provider.TokenURL,
		},
	}

	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: *credential.RefreshToken,
	})

	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, err
	}

	return &RefreshedToken{
		AccessToken:  newToken.AccessToken,
		RefreshToken: newToken.RefreshToken,
		ExpiresAt:    newToken.Expiry,
	}, nil
}

// ValidateAndRefresh checks the token and swaps in a fresh one when possible.
//
// A refreshable-but-failed exchange degrades to a no-op: the import proceeds
// with the possibly-stale token and a later provider call surfaces the
// problem. Only a provider that cannot refresh at all yields
// ErrCredentialInvalid, which tells the caller to abandon this credential
// until the user re-authorizes.
func (s *credentialService) ValidateAndRefresh(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) *errors.AppError {
	if s.Validate(ctx, credential, provider) {
		return nil
	}

	refreshed, err := s.Refresh(ctx, credential, provider)
	if err != nil {
		if stderrors.Is(err, ErrRefreshUnsupported) {
			logger.Warn("CredentialService:ValidateAndRefresh:CredentialInvalid",
				"user_id", credential.UserID, "provider", provider.Name)
			return errors.NewAppError(errors.ErrCredentialInvalid, "token invalid and provider does not support refresh", err)
		}
		logger.Warn("CredentialService:ValidateAndRefresh:RefreshFailed",
			"error", err, "user_id", credential.UserID, "provider", provider.Name)
		return nil
	}

	var refreshToken *string
	if refreshed.RefreshToken != "" {
		refreshToken = &refreshed.RefreshToken
	}
	var expiresAt *time.Time
	if !refreshed.ExpiresAt.IsZero() {
		expiresAt = &refreshed.ExpiresAt
	}

	if err := s.repo.UpdateTokens(ctx, credential.ID, refreshed.AccessToken, refreshToken, expiresAt); err != nil {
		logger.Error("CredentialService:ValidateAndRefresh:UpdateTokens:Error",
			"error", err, "user_id", credential.UserID, "provider", provider.Name)
		return nil
	}

	credential.AccessToken = refreshed.AccessToken
	if refreshToken != nil {
		credential.RefreshToken = refreshToken
	}
	credential.TokenExpiresAt = expiresAt

	logger.Info("CredentialService:ValidateAndRefresh:Refreshed",
		"user_id", credential.UserID, "provider", provider.Name)
	return nil
}

// DiscoverMemberID resolves the provider-side member id for the credential,
// memoized in redis and persisted on first discovery.
func (s *credentialService) DiscoverMemberID(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) (string, *errors.AppError) {
	if credential.ProviderMemberID != nil && *credential.ProviderMemberID != "" {
		return *credential.ProviderMemberID, nil
	}

	cacheKey := fmt.Sprintf("member_id:%s:%s", provider.Name, credential.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			// Hydrate the credential too, so the DB row and in-memory copy
			// cannot drift from the cached value.
			if err := s.repo.UpdateMemberID(ctx, credential.ID, cached); err != nil {
				return "", errors.NewAppError(errors.ErrInternalServer, "failed to persist member id", err)
			}
			credential.ProviderMemberID = &cached
			return cached, nil
		}
	}

	body, err := s.whoami(ctx, credential, provider)
	if err != nil {
		return "", errors.NewAppError(errors.ErrProviderUnavailable, "whoami request failed", err)
	}

	memberID, err := extractMemberID(body)
	if err != nil {
		return "", errors.NewAppError(errors.ErrMappingIncomplete, "whoami response has no member id", err)
	}

	if err := s.repo.UpdateMemberID(ctx, credential.ID, memberID); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to persist member id", err)
	}
	credential.ProviderMemberID = &memberID

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, memberID, constants.MemberIDCacheTTL); err != nil {
			logger.Warn("CredentialService:DiscoverMemberID:CacheSet:Error", "error", err)
		}
	}

	logger.Info("CredentialService:DiscoverMemberID:Discovered",
		"user_id", credential.UserID, "provider", provider.Name, "member_id", memberID)
	return memberID, nil
}

func (s *credentialService) whoami(ctx context.Context, credential *entity.UserCredential, provider *providerEntity.ProviderAccount) ([]byte, error) {
	path, ok := whoamiPaths[provider.Name]
	if !ok {
		return nil, fmt.Errorf("no whoami endpoint for provider %q", provider.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.APIBaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+credential.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whoami returned %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// extractMemberID reads the top-level "id" field, which providers return
// either as a JSON string or a number.
func extractMemberID(body []byte) (string, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	switch id := payload["id"].(type) {
	case string:
		if id == "" {
			return "", fmt.Errorf("empty id field")
		}
		return id, nil
	case float64:
		return fmt.Sprintf("%.0f", id), nil
	default:
		return "", fmt.Errorf("missing id field")
	}
}
