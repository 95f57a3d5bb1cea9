package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"recruitsync/core/errors"
	providerEntity "recruitsync/modules/provider/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventbriteAccountFor(baseURL string) *providerEntity.ProviderAccount {
	return &providerEntity.ProviderAccount{
		Name:       providerEntity.ProviderEventbrite,
		APIBaseURL: baseURL,
	}
}

func TestEventbriteFetchEventsWalksPageCount(t *testing.T) {
	const pages, perPage = 4, 50
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		require.GreaterOrEqual(t, page, 1)

		events := make([]map[string]any, 0, perPage)
		for i := 0; i < perPage; i++ {
			events = append(events, map[string]any{
				"id":   fmt.Sprintf("eb-%d-%d", page, i),
				"name": map[string]string{"text": "Event"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pagination": map[string]any{"page_number": page, "page_count": pages},
			"events":     events,
		})
	}))
	defer server.Close()

	a := NewEventbriteAdapter(eventbriteAccountFor(server.URL), Deps{Events: newFakeEventRepo()})
	items := drainPager(t, a.FetchEvents(context.Background(), testCredential(), timeZero()))

	assert.Len(t, items, pages*perPage)
	assert.Equal(t, pages, requests)
}

func TestEventbriteMapEventResolvesVenueDetail(t *testing.T) {
	var venueRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		venueRequests++
		assert.Equal(t, "/venues/v-77/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":   "v-77",
			"name": "Convention Center",
			"address": map[string]any{
				"address_1": "1 Main St",
				"city":      "Lisbon",
				"country":   "PT",
				"latitude":  "38.72",
				"longitude": "-9.14",
			},
		})
	}))
	defer server.Close()

	repo := newFakeEventRepo()
	a := NewEventbriteAdapter(eventbriteAccountFor(server.URL), Deps{Events: repo})

	raw := []byte(`{
		"id": "eb-1",
		"name": {"text": "GopherCon EU"},
		"description": {"text": "The European Go conference"},
		"start": {"timezone": "Europe/Lisbon", "utc": "2026-06-15T09:00:00Z"},
		"end": {"timezone": "Europe/Lisbon", "utc": "2026-06-15T18:00:00Z"},
		"venue_id": "v-77",
		"status": "live"
	}`)

	event, appErr := a.MapEvent(context.Background(), testCredential(), raw)
	require.Nil(t, appErr)
	assert.Equal(t, "GopherCon EU", event.Title)
	assert.Equal(t, 1, venueRequests)
	require.NotNil(t, event.VenueID)
	require.Len(t, repo.venues, 1)
	require.NotNil(t, repo.venues[0].Latitude)
	assert.InDelta(t, 38.72, *repo.venues[0].Latitude, 0.001)
}

func TestEventbriteMapEventToleratesVenueLookupFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	a := NewEventbriteAdapter(eventbriteAccountFor(server.URL), Deps{Events: newFakeEventRepo()})

	raw := []byte(`{
		"id": "eb-2",
		"name": {"text": "No Venue"},
		"venue_id": "v-gone"
	}`)

	event, appErr := a.MapEvent(context.Background(), testCredential(), raw)
	require.Nil(t, appErr, "venue lookup failure must not fail the mapping")
	assert.Nil(t, event.VenueID)
}

func TestEventbriteMapRSVPRequiresProfileName(t *testing.T) {
	a := NewEventbriteAdapter(eventbriteAccountFor("http://unused"), Deps{Events: newFakeEventRepo()})

	raw := []byte(`{"id": "att-1", "event_id": "eb-1", "profile": {"email": "x@example.com"}}`)
	_, appErr := a.MapRSVP(context.Background(), testCredential(), nil, raw)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrMappingIncomplete, appErr.Code)
}

func TestEventbriteFetchWebhookRSVPHitsGivenURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/900/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "att-900",
			"status":  "Attending",
			"profile": map[string]string{"first_name": "Tim", "last_name": "Berners-Lee"},
		})
	}))
	defer server.Close()

	a := NewEventbriteAdapter(eventbriteAccountFor(server.URL), Deps{Events: newFakeEventRepo()})
	source, ok := a.(WebhookSource)
	require.True(t, ok, "eventbrite adapter must accept webhook pushes")

	raw, appErr := source.FetchWebhookRSVP(context.Background(), testCredential(), server.URL+"/orders/900/")
	require.Nil(t, appErr)
	assert.Contains(t, string(raw), "att-900")
}

func TestEventbritePublishStepErrorIdentifiesStep(t *testing.T) {
	// Draft succeeds, ticket class creation fails.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events/":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "eb-new"})
		case "/events/eb-new/ticket_classes/":
			w.WriteHeader(http.StatusBadRequest)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}
	}))
	defer server.Close()

	a := NewEventbriteAdapter(eventbriteAccountFor(server.URL), Deps{Events: newFakeEventRepo()})
	publisher, ok := a.(EventPublisher)
	require.True(t, ok)

	_, err := publisher.PublishEvent(context.Background(), testCredential(), testDraftEvent(), nil)
	require.Error(t, err)

	var stepErr *PublishStepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, PublishStepTicketClass, stepErr.Step)
}
