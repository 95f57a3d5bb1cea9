package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"recruitsync/core/errors"
	credentialEntity "recruitsync/modules/credential/entity"
	providerEntity "recruitsync/modules/provider/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facebookAccountFor(baseURL string) *providerEntity.ProviderAccount {
	return &providerEntity.ProviderAccount{
		Name:       providerEntity.ProviderFacebook,
		APIBaseURL: baseURL,
	}
}

func facebookCredential(memberID string) *credentialEntity.UserCredential {
	cred := testCredential()
	if memberID != "" {
		cred.ProviderMemberID = &memberID
	}
	return cred
}

func TestFacebookFetchEventsFiltersToAdministeredEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "fb-1", "name": "Mine", "owner": map[string]string{"id": "member-1"}},
				{"id": "fb-2", "name": "Attending only", "owner": map[string]string{"id": "someone-else"}},
				{"id": "fb-3", "name": "Also mine", "owner": map[string]string{"id": "member-1"}},
				{"id": "fb-4", "name": "No owner"},
			},
		})
	}))
	defer server.Close()

	a := NewFacebookAdapter(facebookAccountFor(server.URL), Deps{Events: newFakeEventRepo()})
	items := drainPager(t, a.FetchEvents(context.Background(), facebookCredential("member-1"), timeZero()))

	require.Len(t, items, 2)
	for _, raw := range items {
		var event struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Contains(t, []string{"fb-1", "fb-3"}, event.ID)
	}
}

func TestFacebookFetchEventsRequiresMemberID(t *testing.T) {
	a := NewFacebookAdapter(facebookAccountFor("http://unused"), Deps{Events: newFakeEventRepo()})
	pager := a.FetchEvents(context.Background(), facebookCredential(""), timeZero())

	_, err := pager.Next(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCredentialInvalid))
}

func TestFacebookMapEventParsesOffsetTimestampAndStatus(t *testing.T) {
	a := NewFacebookAdapter(facebookAccountFor("http://unused"), Deps{Events: newFakeEventRepo()})

	raw := []byte(`{
		"id": "fb-9",
		"name": "Tech Mixer",
		"start_time": "2026-03-10T19:00:00-0500",
		"is_canceled": true
	}`)

	event, appErr := a.MapEvent(context.Background(), testCredential(), raw)
	require.Nil(t, appErr)
	require.NotNil(t, event.StartTime)
	assert.Equal(t, 0, event.StartTime.UTC().Hour()) // 19:00-0500 == 00:00Z next day
	assert.Equal(t, "cancelled", event.Status)
}

func TestFacebookMapRSVPNeedsEventContext(t *testing.T) {
	a := NewFacebookAdapter(facebookAccountFor("http://unused"), Deps{Events: newFakeEventRepo()})

	raw := []byte(`{"id": "u-5", "name": "Alan Turing", "rsvp_status": "attending"}`)
	_, appErr := a.MapRSVP(context.Background(), testCredential(), nil, raw)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrMappingIncomplete, appErr.Code)
}

func TestFacebookAdapterIsReadOnly(t *testing.T) {
	a := NewFacebookAdapter(facebookAccountFor("http://unused"), Deps{Events: newFakeEventRepo()})

	_, publishes := a.(EventPublisher)
	assert.False(t, publishes)
	_, pushes := a.(WebhookSource)
	assert.False(t, pushes)
}
