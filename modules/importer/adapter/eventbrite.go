package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"recruitsync/core/errors"
	"recruitsync/core/logger"
	candidateEntity "recruitsync/modules/candidate/entity"
	credentialEntity "recruitsync/modules/credential/entity"
	eventEntity "recruitsync/modules/event/entity"
	"recruitsync/modules/importer/dto"
	providerEntity "recruitsync/modules/provider/entity"

	"github.com/google/uuid"
)

// eventbriteAdapter talks to the Eventbrite REST API. Listings paginate by
// page number; the pagination block's page_count bounds the iteration.
type eventbriteAdapter struct {
	account *providerEntity.ProviderAccount
	deps    Deps
	client  *apiClient
}

func NewEventbriteAdapter(account *providerEntity.ProviderAccount, deps Deps) ProviderAdapter {
	return &eventbriteAdapter{
		account: account,
		deps:    deps,
		client:  newAPIClient(account.Name, deps.Archive),
	}
}

func (a *eventbriteAdapter) Name() string {
	return providerEntity.ProviderEventbrite
}

func (a *eventbriteAdapter) FetchEvents(ctx context.Context, credential *credentialEntity.UserCredential, since time.Time) Pager {
	base := a.account.APIBaseURL + "/users/me/owned_events/"
	params := url.Values{}
	params.Set("order_by", "start_desc")
	params.Set("changed_since", since.UTC().Format("2006-01-02T15:04:05Z"))

	page := 0
	return newStreamPager(func(ctx context.Context) ([]json.RawMessage, bool, error) {
		page++
		params.Set("page", strconv.Itoa(page))

		var resp struct {
			Pagination dto.EventbritePagination `json:"pagination"`
			Events     []json.RawMessage        `json:"events"`
		}
		if err := a.client.getJSON(ctx, base+"?"+params.Encode(), credential.AccessToken, credential.UserID.String(), "events", &resp); err != nil {
			return nil, false, err
		}
		return resp.Events, page >= resp.Pagination.PageCount, nil
	})
}

func (a *eventbriteAdapter) FetchRSVPs(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event) Pager {
	base := a.account.APIBaseURL + "/events/" + event.ProviderEventID + "/attendees/"

	page := 0
	return newStreamPager(func(ctx context.Context) ([]json.RawMessage, bool, error) {
		page++

		var resp struct {
			Pagination dto.EventbritePagination `json:"pagination"`
			Attendees  []json.RawMessage        `json:"attendees"`
		}
		if err := a.client.getJSON(ctx, base+"?page="+strconv.Itoa(page), credential.AccessToken, credential.UserID.String(), "rsvps", &resp); err != nil {
			return nil, false, err
		}
		return resp.Attendees, page >= resp.Pagination.PageCount, nil
	})
}

func (a *eventbriteAdapter) MapEvent(ctx context.Context, credential *credentialEntity.UserCredential, raw json.RawMessage) (*eventEntity.Event, *errors.AppError) {
	var src dto.EventbriteEvent
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable eventbrite event", err)
	}
	if src.ID == "" || src.Name.Text == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "eventbrite event missing id or name", nil)
	}

	event := &eventEntity.Event{
		UserID:            credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		ProviderEventID:   src.ID,
		Title:             src.Name.Text,
		Description:       src.Description.Text,
		Timezone:          src.Start.Timezone,
		Capacity:          src.Capacity,
		URL:               src.URL,
		Status:            src.Status,
	}

	if start, err := time.Parse(time.RFC3339, src.Start.UTC); err == nil {
		event.StartTime = &start
	}
	if end, err := time.Parse(time.RFC3339, src.End.UTC); err == nil {
		event.EndTime = &end
	}

	if src.VenueID != nil && *src.VenueID != "" {
		event.VenueID = a.resolveVenue(ctx, credential, *src.VenueID)
	}
	if src.OrganizerID != "" {
		event.OrganizerID = a.resolveOrganizer(ctx, credential, src.OrganizerID)
	}

	return event, nil
}

// resolveVenue fetches the venue outpost (one extra GET, skipped on cache
// hit) and upserts it by natural key. Lookup failure leaves venue empty.
func (a *eventbriteAdapter) resolveVenue(ctx context.Context, credential *credentialEntity.UserCredential, venueID string) *uuid.UUID {
	cacheKey := fmt.Sprintf("venue:%s:%s", credential.ProviderAccountID, venueID)
	if a.deps.Cache != nil {
		if cached, err := a.deps.Cache.Get(ctx, cacheKey); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				return &id
			}
		}
	}

	var src dto.EventbriteVenue
	if err := a.client.getJSON(ctx, a.account.APIBaseURL+"/venues/"+venueID+"/", credential.AccessToken, "", "", &src); err != nil {
		logger.Warn("EventbriteAdapter:ResolveVenue:FetchFailed", "error", err, "venue_id", venueID)
		return nil
	}

	venue := &eventEntity.Venue{
		ProviderAccountID: credential.ProviderAccountID,
		ProviderVenueID:   src.ID,
		Name:              src.Name,
		Address:           src.Address.Address1,
		City:              src.Address.City,
		Country:           src.Address.Country,
	}
	if lat, err := strconv.ParseFloat(src.Address.Latitude, 64); err == nil {
		venue.Latitude = &lat
	}
	if lon, err := strconv.ParseFloat(src.Address.Longitude, 64); err == nil {
		venue.Longitude = &lon
	}

	return upsertVenueCached(ctx, a.deps, venue)
}

func (a *eventbriteAdapter) resolveOrganizer(ctx context.Context, credential *credentialEntity.UserCredential, organizerID string) *uuid.UUID {
	cacheKey := fmt.Sprintf("organizer:%s:%s", credential.ProviderAccountID, organizerID)
	if a.deps.Cache != nil {
		if cached, err := a.deps.Cache.Get(ctx, cacheKey); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				return &id
			}
		}
	}

	var src dto.EventbriteOrganizer
	if err := a.client.getJSON(ctx, a.account.APIBaseURL+"/organizers/"+organizerID+"/", credential.AccessToken, "", "", &src); err != nil {
		logger.Warn("EventbriteAdapter:ResolveOrganizer:FetchFailed", "error", err, "organizer_id", organizerID)
		return nil
	}

	return upsertOrganizerCached(ctx, a.deps, &eventEntity.Organizer{
		ProviderAccountID:   credential.ProviderAccountID,
		ProviderOrganizerID: src.ID,
		Name:                src.Name,
		URL:                 src.URL,
	})
}

func (a *eventbriteAdapter) MapRSVP(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, raw json.RawMessage) (*candidateEntity.Attendee, *errors.AppError) {
	var src dto.EventbriteAttendee
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable eventbrite attendee", err)
	}
	if src.Profile.FirstName == "" && src.Profile.LastName == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "eventbrite attendee has no name", nil)
	}

	if event == nil {
		var err error
		event, err = a.deps.Events.GetByProviderKey(ctx, credential.UserID, credential.ProviderAccountID, src.EventID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "event lookup failed", err)
		}
		if event == nil {
			logger.Warn("EventbriteAdapter:MapRSVP:EventNotStored",
				"user_id", credential.UserID, "provider_event_id", src.EventID, "provider_rsvp_id", src.ID)
			return nil, errors.NewAppError(errors.ErrMappingIncomplete, "rsvp references an event not stored locally", nil)
		}
	}

	attendee := &candidateEntity.Attendee{
		FirstName:         src.Profile.FirstName,
		LastName:          src.Profile.LastName,
		Email:             src.Profile.Email,
		Phone:             src.Profile.CellPhone,
		RSVPStatus:        src.Status,
		ProviderRSVPID:    src.ID,
		OwnerUserID:       credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		SourceProductID:   providerEntity.ProviderEventbrite,
		EventID:           event.ID,
		EventTitle:        event.Title,
		EventDescription:  event.Description,
	}
	if responded, err := time.Parse(time.RFC3339, src.Created); err == nil {
		attendee.RespondedAt = &responded
	}

	return attendee, nil
}

// FetchWebhookRSVP retrieves the single attendee an order.placed webhook
// points at, bypassing attendee pagination entirely.
func (a *eventbriteAdapter) FetchWebhookRSVP(ctx context.Context, credential *credentialEntity.UserCredential, apiURL string) (json.RawMessage, *errors.AppError) {
	var raw json.RawMessage
	if err := a.client.getJSON(ctx, apiURL, credential.AccessToken, credential.UserID.String(), "webhook", &raw); err != nil {
		return nil, errors.NewAppError(errors.ErrProviderUnavailable, "failed to fetch webhook order", err)
	}
	return raw, nil
}

// PublishEvent runs the Eventbrite four-step publish flow: draft event,
// venue attachment, ticket class, then publish.
func (a *eventbriteAdapter) PublishEvent(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, venue *eventEntity.Venue) (string, error) {
	draft := map[string]any{
		"event": map[string]any{
			"name":        map[string]string{"html": event.Title},
			"description": map[string]string{"html": event.Description},
			"currency":    "USD",
		},
	}
	if event.StartTime != nil {
		draft["event"].(map[string]any)["start"] = map[string]string{
			"timezone": event.Timezone,
			"utc":      event.StartTime.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}
	if event.EndTime != nil {
		draft["event"].(map[string]any)["end"] = map[string]string{
			"timezone": event.Timezone,
			"utc":      event.EndTime.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	var created dto.EventbriteEvent
	if err := a.client.sendJSON(ctx, "POST", a.account.APIBaseURL+"/events/", credential.AccessToken, draft, &created); err != nil {
		return "", &PublishStepError{Step: PublishStepDraft, Err: err}
	}

	if venue != nil {
		var ebVenue dto.EventbriteVenue
		venuePayload := map[string]any{
			"venue": map[string]any{
				"name": venue.Name,
				"address": map[string]string{
					"address_1": venue.Address,
					"city":      venue.City,
					"country":   venue.Country,
				},
			},
		}
		if err := a.client.sendJSON(ctx, "POST", a.account.APIBaseURL+"/venues/", credential.AccessToken, venuePayload, &ebVenue); err != nil {
			return "", &PublishStepError{Step: PublishStepVenue, Err: err}
		}
		update := map[string]any{"event": map[string]any{"venue_id": ebVenue.ID}}
		if err := a.client.sendJSON(ctx, "POST", a.account.APIBaseURL+"/events/"+created.ID+"/", credential.AccessToken, update, nil); err != nil {
			return "", &PublishStepError{Step: PublishStepVenue, Err: err}
		}
	}

	ticket := map[string]any{
		"ticket_class": dto.EventbriteTicketClass{
			Name:          "General Admission",
			Free:          true,
			QuantityTotal: event.Capacity,
		},
	}
	if err := a.client.sendJSON(ctx, "POST", a.account.APIBaseURL+"/events/"+created.ID+"/ticket_classes/", credential.AccessToken, ticket, nil); err != nil {
		return "", &PublishStepError{Step: PublishStepTicketClass, Err: err}
	}

	var result dto.EventbritePublishResult
	if err := a.client.sendJSON(ctx, "POST", a.account.APIBaseURL+"/events/"+created.ID+"/publish/", credential.AccessToken, nil, &result); err != nil {
		return "", &PublishStepError{Step: PublishStepPublish, Err: err}
	}
	if !result.Published {
		return "", &PublishStepError{Step: PublishStepPublish, Err: fmt.Errorf("provider reported published=false")}
	}

	return created.ID, nil
}

func (a *eventbriteAdapter) UnpublishEvent(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event) error {
	if event.ProviderEventID == "" {
		return &PublishStepError{Step: PublishStepUnpublish, Err: fmt.Errorf("event was never published")}
	}
	if err := a.client.sendJSON(ctx, "POST", a.account.APIBaseURL+"/events/"+event.ProviderEventID+"/unpublish/", credential.AccessToken, nil, nil); err != nil {
		return &PublishStepError{Step: PublishStepUnpublish, Err: err}
	}
	if err := a.client.sendJSON(ctx, "DELETE", a.account.APIBaseURL+"/events/"+event.ProviderEventID+"/", credential.AccessToken, nil, nil); err != nil {
		return &PublishStepError{Step: PublishStepUnpublish, Err: err}
	}
	return nil
}
