package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recruitsync/core/cache"
	"recruitsync/core/errors"
	"recruitsync/modules/credential/entity"
	providerEntity "recruitsync/modules/provider/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCredentialRepo captures token and member-id writes.
type recordingCredentialRepo struct {
	updatedMemberID string
	updatedToken    string
}

func (r *recordingCredentialRepo) GetByUserAndProvider(context.Context, uuid.UUID, uuid.UUID) (*entity.UserCredential, error) {
	return nil, nil
}

func (r *recordingCredentialRepo) GetByID(context.Context, uuid.UUID) (*entity.UserCredential, error) {
	return nil, nil
}

func (r *recordingCredentialRepo) GetByWebhookID(context.Context, string) (*entity.UserCredential, error) {
	return nil, nil
}

func (r *recordingCredentialRepo) List(context.Context, *uuid.UUID) ([]entity.UserCredential, error) {
	return nil, nil
}

func (r *recordingCredentialRepo) SaveOrUpdate(context.Context, *entity.UserCredential) error {
	return nil
}

func (r *recordingCredentialRepo) UpdateTokens(_ context.Context, _ uuid.UUID, accessToken string, _ *string, _ *time.Time) error {
	r.updatedToken = accessToken
	return nil
}

func (r *recordingCredentialRepo) UpdateMemberID(_ context.Context, _ uuid.UUID, memberID string) error {
	r.updatedMemberID = memberID
	return nil
}

// memoryCache is a map-backed cache.Cache for tests.
type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", cache.ErrCacheMiss
}

func (m *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest any) error {
	v, ok := m.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal([]byte(v), dest)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = string(data)
	return nil
}

func credentialFor(token string) *entity.UserCredential {
	cred := &entity.UserCredential{
		UserID:      uuid.New(),
		AccessToken: token,
		IsActive:    true,
	}
	cred.ID = uuid.New()
	return cred
}

func providerFor(name string, baseURL string) *providerEntity.ProviderAccount {
	p := &providerEntity.ProviderAccount{
		Name:       name,
		APIBaseURL: baseURL,
	}
	p.ID = uuid.New()
	return p
}

func whoamiServer(t *testing.T, wantToken string, body map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestValidateAcceptsLiveToken(t *testing.T) {
	server := whoamiServer(t, "good", map[string]any{"id": "m-1"})
	defer server.Close()

	svc := NewCredentialService(&recordingCredentialRepo{}, nil)
	ok := svc.Validate(context.Background(), credentialFor("good"), providerFor(providerEntity.ProviderMeetup, server.URL))
	assert.True(t, ok)
}

func TestValidateRejectsDeadToken(t *testing.T) {
	server := whoamiServer(t, "good", map[string]any{"id": "m-1"})
	defer server.Close()

	svc := NewCredentialService(&recordingCredentialRepo{}, nil)
	ok := svc.Validate(context.Background(), credentialFor("stale"), providerFor(providerEntity.ProviderMeetup, server.URL))
	assert.False(t, ok)
}

func TestValidateAndRefreshUnsupportedProviderTerminatesCredential(t *testing.T) {
	server := whoamiServer(t, "good", map[string]any{"id": "m-1"})
	defer server.Close()

	svc := NewCredentialService(&recordingCredentialRepo{}, nil)

	// Facebook cannot refresh; a dead token must surface ErrCredentialInvalid.
	appErr := svc.ValidateAndRefresh(context.Background(),
		credentialFor("stale"), providerFor(providerEntity.ProviderFacebook, server.URL))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCredentialInvalid, appErr.Code)
}

func TestValidateAndRefreshFailedExchangeDegradesToNoOp(t *testing.T) {
	server := whoamiServer(t, "good", map[string]any{"id": "m-1"})
	defer server.Close()

	svc := NewCredentialService(&recordingCredentialRepo{}, nil)

	// Meetup supports refresh but this credential has no refresh token, so the
	// exchange fails; the run proceeds with the stale token rather than dying.
	appErr := svc.ValidateAndRefresh(context.Background(),
		credentialFor("stale"), providerFor(providerEntity.ProviderMeetup, server.URL))
	assert.Nil(t, appErr)
}

func TestValidateAndRefreshValidTokenIsNoOp(t *testing.T) {
	server := whoamiServer(t, "good", map[string]any{"id": "m-1"})
	defer server.Close()

	repo := &recordingCredentialRepo{}
	svc := NewCredentialService(repo, nil)

	appErr := svc.ValidateAndRefresh(context.Background(),
		credentialFor("good"), providerFor(providerEntity.ProviderMeetup, server.URL))
	assert.Nil(t, appErr)
	assert.Empty(t, repo.updatedToken)
}

func TestDiscoverMemberIDPersistsStringID(t *testing.T) {
	server := whoamiServer(t, "good", map[string]any{"id": "member-77"})
	defer server.Close()

	repo := &recordingCredentialRepo{}
	svc := NewCredentialService(repo, nil)
	cred := credentialFor("good")

	memberID, appErr := svc.DiscoverMemberID(context.Background(), cred, providerFor(providerEntity.ProviderEventbrite, server.URL))
	require.Nil(t, appErr)
	assert.Equal(t, "member-77", memberID)
	assert.Equal(t, "member-77", repo.updatedMemberID)
	require.NotNil(t, cred.ProviderMemberID)
	assert.Equal(t, "member-77", *cred.ProviderMemberID)
}

func TestDiscoverMemberIDHandlesNumericID(t *testing.T) {
	server := whoamiServer(t, "good", map[string]any{"id": 1234567890})
	defer server.Close()

	svc := NewCredentialService(&recordingCredentialRepo{}, nil)

	memberID, appErr := svc.DiscoverMemberID(context.Background(), credentialFor("good"), providerFor(providerEntity.ProviderMeetup, server.URL))
	require.Nil(t, appErr)
	assert.Equal(t, "1234567890", memberID)
}

func TestDiscoverMemberIDCacheHitHydratesCredential(t *testing.T) {
	repo := &recordingCredentialRepo{}
	c := newMemoryCache()
	svc := NewCredentialService(repo, c)

	cred := credentialFor("good")
	provider := providerFor(providerEntity.ProviderFacebook, "http://127.0.0.1:1")
	c.values[fmt.Sprintf("member_id:%s:%s", provider.Name, cred.ID)] = "member-cached"

	// No server: a cache hit must not reach for the network, and it must
	// leave the credential carrying the member id like a fresh discovery.
	memberID, appErr := svc.DiscoverMemberID(context.Background(), cred, provider)
	require.Nil(t, appErr)
	assert.Equal(t, "member-cached", memberID)
	assert.Equal(t, "member-cached", repo.updatedMemberID)
	require.NotNil(t, cred.ProviderMemberID)
	assert.Equal(t, "member-cached", *cred.ProviderMemberID)
}

func TestDiscoverMemberIDShortCircuitsWhenAlreadyKnown(t *testing.T) {
	svc := NewCredentialService(&recordingCredentialRepo{}, nil)

	cred := credentialFor("irrelevant")
	known := "member-1"
	cred.ProviderMemberID = &known

	// No server: a network call would fail the test.
	memberID, appErr := svc.DiscoverMemberID(context.Background(), cred, providerFor(providerEntity.ProviderMeetup, "http://127.0.0.1:1"))
	require.Nil(t, appErr)
	assert.Equal(t, "member-1", memberID)
}
