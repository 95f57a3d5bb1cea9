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
)

const meetupPageSize = 200

// meetupAdapter talks to the Meetup REST API. Listings paginate with an
// opaque next link followed until absent.
type meetupAdapter struct {
	account *providerEntity.ProviderAccount
	deps    Deps
	client  *apiClient
}

func NewMeetupAdapter(account *providerEntity.ProviderAccount, deps Deps) ProviderAdapter {
	return &meetupAdapter{
		account: account,
		deps:    deps,
		client:  newAPIClient(account.Name, deps.Archive),
	}
}

func (a *meetupAdapter) Name() string {
	return providerEntity.ProviderMeetup
}

func (a *meetupAdapter) FetchEvents(ctx context.Context, credential *credentialEntity.UserCredential, since time.Time) Pager {
	params := url.Values{}
	params.Set("status", "upcoming,past")
	params.Set("page", strconv.Itoa(meetupPageSize))
	params.Set("since", strconv.FormatInt(since.UnixMilli(), 10))
	next := a.account.APIBaseURL + "/self/events?" + params.Encode()

	return newStreamPager(a.cursorFetch(credential, next, "events"))
}

func (a *meetupAdapter) FetchRSVPs(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event) Pager {
	params := url.Values{}
	params.Set("event_id", event.ProviderEventID)
	params.Set("page", strconv.Itoa(meetupPageSize))
	next := a.account.APIBaseURL + "/2/rsvps?" + params.Encode()

	return newStreamPager(a.cursorFetch(credential, next, "rsvps"))
}

// cursorFetch follows the meta.next link until the provider stops returning one.
func (a *meetupAdapter) cursorFetch(credential *credentialEntity.UserCredential, first string, kind string) pageFetchFunc {
	next := first
	return func(ctx context.Context) ([]json.RawMessage, bool, error) {
		var page dto.MeetupPage[json.RawMessage]
		if err := a.client.getJSON(ctx, next, credential.AccessToken, credential.UserID.String(), kind, &page); err != nil {
			return nil, false, err
		}
		next = page.Meta.Next
		return page.Results, next == "", nil
	}
}

func (a *meetupAdapter) MapEvent(ctx context.Context, credential *credentialEntity.UserCredential, raw json.RawMessage) (*eventEntity.Event, *errors.AppError) {
	var src dto.MeetupEvent
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable meetup event", err)
	}
	if src.ID == "" || src.Name == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "meetup event missing id or name", nil)
	}

	event := &eventEntity.Event{
		UserID:            credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		ProviderEventID:   src.ID,
		Title:             src.Name,
		Description:       src.Description,
		Timezone:          src.Timezone,
		Capacity:          src.RSVPLimit,
		URL:               src.Link,
		Status:            src.Status,
	}

	if src.Time > 0 {
		start := time.UnixMilli(src.Time).UTC()
		event.StartTime = &start
		if src.Duration > 0 {
			end := start.Add(time.Duration(src.Duration) * time.Millisecond)
			event.EndTime = &end
		}
	}

	if src.Venue != nil {
		lat, lon := src.Venue.Lat, src.Venue.Lon
		event.VenueID = upsertVenueCached(ctx, a.deps, &eventEntity.Venue{
			ProviderAccountID: credential.ProviderAccountID,
			ProviderVenueID:   strconv.FormatInt(src.Venue.ID, 10),
			Name:              src.Venue.Name,
			Address:           src.Venue.Address1,
			City:              src.Venue.City,
			Country:           src.Venue.Country,
			Latitude:          &lat,
			Longitude:         &lon,
		})
	}

	if src.Group != nil {
		event.OrganizerID = upsertOrganizerCached(ctx, a.deps, &eventEntity.Organizer{
			ProviderAccountID:   credential.ProviderAccountID,
			ProviderOrganizerID: strconv.FormatInt(src.Group.ID, 10),
			Name:                src.Group.Name,
			URL:                 "https://www.meetup.com/" + src.Group.URLName,
		})
	}

	return event, nil
}

func (a *meetupAdapter) MapRSVP(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, raw json.RawMessage) (*candidateEntity.Attendee, *errors.AppError) {
	var src dto.MeetupRSVP
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable meetup rsvp", err)
	}
	if src.Member.Name == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "meetup rsvp has no member name", nil)
	}

	if event == nil {
		var err error
		event, err = a.deps.Events.GetByProviderKey(ctx, credential.UserID, credential.ProviderAccountID, src.EventRef.ID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "event lookup failed", err)
		}
		if event == nil {
			logger.Warn("MeetupAdapter:MapRSVP:EventNotStored",
				"user_id", credential.UserID, "provider_event_id", src.EventRef.ID, "provider_rsvp_id", src.RSVPID)
			return nil, errors.NewAppError(errors.ErrMappingIncomplete, "rsvp references an event not stored locally", nil)
		}
	}

	first, last := splitName(src.Member.Name)
	attendee := &candidateEntity.Attendee{
		FirstName:         first,
		LastName:          last,
		Email:             src.Member.Email,
		RSVPStatus:        src.Response,
		ProviderRSVPID:    strconv.FormatInt(src.RSVPID, 10),
		OwnerUserID:       credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		SourceProductID:   providerEntity.ProviderMeetup,
		EventID:           event.ID,
		EventTitle:        event.Title,
		EventDescription:  event.Description,
	}
	if src.Created > 0 {
		responded := time.UnixMilli(src.Created).UTC()
		attendee.RespondedAt = &responded
	}

	return attendee, nil
}

// PublishEvent creates and announces an event on Meetup: draft, venue
// attachment, then announce.
func (a *meetupAdapter) PublishEvent(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, venue *eventEntity.Venue) (string, error) {
	draft := map[string]any{
		"name":           event.Title,
		"description":    event.Description,
		"publish_status": "draft",
	}
	if event.StartTime != nil {
		draft["time"] = event.StartTime.UnixMilli()
	}

	var created dto.MeetupEvent
	if err := a.client.sendJSON(ctx, "POST", a.account.APIBaseURL+"/self/events", credential.AccessToken, draft, &created); err != nil {
		return "", &PublishStepError{Step: PublishStepDraft, Err: err}
	}

	if venue != nil {
		patch := map[string]any{"venue_id": venue.ProviderVenueID}
		if err := a.client.sendJSON(ctx, "PATCH", a.account.APIBaseURL+"/self/events/"+created.ID, credential.AccessToken, patch, nil); err != nil {
			return "", &PublishStepError{Step: PublishStepVenue, Err: err}
		}
	}

	announce := map[string]any{"announce": true, "publish_status": "published"}
	if err := a.client.sendJSON(ctx, "PATCH", a.account.APIBaseURL+"/self/events/"+created.ID, credential.AccessToken, announce, nil); err != nil {
		return "", &PublishStepError{Step: PublishStepPublish, Err: err}
	}

	return created.ID, nil
}

func (a *meetupAdapter) UnpublishEvent(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event) error {
	if event.ProviderEventID == "" {
		return &PublishStepError{Step: PublishStepUnpublish, Err: fmt.Errorf("event was never published")}
	}
	if err := a.client.sendJSON(ctx, "DELETE", a.account.APIBaseURL+"/self/events/"+event.ProviderEventID, credential.AccessToken, nil, nil); err != nil {
		return &PublishStepError{Step: PublishStepUnpublish, Err: err}
	}
	return nil
}
