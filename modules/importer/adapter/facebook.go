package adapter

import (
	"context"
	"encoding/json"
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

// facebookStartTimeLayout is the Graph API's offset format without a colon.
const facebookStartTimeLayout = "2006-01-02T15:04:05-0700"

// facebookAdapter talks to the Graph API. The events listing is not scoped to
// administered events server-side, so the page is filtered client-side on the
// event owner matching the credential's discovered member id.
type facebookAdapter struct {
	account *providerEntity.ProviderAccount
	deps    Deps
	client  *apiClient
}

func NewFacebookAdapter(account *providerEntity.ProviderAccount, deps Deps) ProviderAdapter {
	return &facebookAdapter{
		account: account,
		deps:    deps,
		client:  newAPIClient(account.Name, deps.Archive),
	}
}

func (a *facebookAdapter) Name() string {
	return providerEntity.ProviderFacebook
}

func (a *facebookAdapter) FetchEvents(ctx context.Context, credential *credentialEntity.UserCredential, since time.Time) Pager {
	if credential.ProviderMemberID == nil || *credential.ProviderMemberID == "" {
		return &errorPager{err: errors.NewAppError(errors.ErrCredentialInvalid,
			"facebook credential has no discovered member id", nil)}
	}
	memberID := *credential.ProviderMemberID

	params := url.Values{}
	params.Set("fields", "id,name,description,start_time,end_time,timezone,is_canceled,place,owner")
	params.Set("since", strconv.FormatInt(since.Unix(), 10))
	endpoint := a.account.APIBaseURL + "/me/events?" + params.Encode()

	fetched := false
	return newStreamPager(func(ctx context.Context) ([]json.RawMessage, bool, error) {
		if fetched {
			return nil, true, nil
		}
		fetched = true

		var page dto.FacebookEventsPage
		if err := a.client.getJSON(ctx, endpoint, credential.AccessToken, credential.UserID.String(), "events", &page); err != nil {
			return nil, false, err
		}

		// Keep only events this member administers.
		items := make([]json.RawMessage, 0, len(page.Data))
		for _, event := range page.Data {
			if event.Owner == nil || event.Owner.ID != memberID {
				continue
			}
			raw, err := json.Marshal(event)
			if err != nil {
				continue
			}
			items = append(items, raw)
		}
		return items, true, nil
	})
}

func (a *facebookAdapter) FetchRSVPs(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event) Pager {
	endpoint := a.account.APIBaseURL + "/" + event.ProviderEventID + "/attending"

	fetched := false
	return newStreamPager(func(ctx context.Context) ([]json.RawMessage, bool, error) {
		if fetched {
			return nil, true, nil
		}
		fetched = true

		var page struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := a.client.getJSON(ctx, endpoint, credential.AccessToken, credential.UserID.String(), "rsvps", &page); err != nil {
			return nil, false, err
		}
		return page.Data, true, nil
	})
}

func (a *facebookAdapter) MapEvent(ctx context.Context, credential *credentialEntity.UserCredential, raw json.RawMessage) (*eventEntity.Event, *errors.AppError) {
	var src dto.FacebookEvent
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable facebook event", err)
	}
	if src.ID == "" || src.Name == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "facebook event missing id or name", nil)
	}

	status := eventEntity.EventStatusLive
	if src.IsCanceled {
		status = eventEntity.EventStatusCancelled
	}

	event := &eventEntity.Event{
		UserID:            credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		ProviderEventID:   src.ID,
		Title:             src.Name,
		Description:       src.Description,
		Timezone:          src.Timezone,
		URL:               "https://www.facebook.com/events/" + src.ID,
		Status:            status,
	}

	if start, err := time.Parse(facebookStartTimeLayout, src.StartTime); err == nil {
		utc := start.UTC()
		event.StartTime = &utc
	}
	if end, err := time.Parse(facebookStartTimeLayout, src.EndTime); err == nil {
		utc := end.UTC()
		event.EndTime = &utc
	}

	if src.Place != nil && src.Place.ID != "" {
		venue := &eventEntity.Venue{
			ProviderAccountID: credential.ProviderAccountID,
			ProviderVenueID:   src.Place.ID,
			Name:              src.Place.Name,
		}
		if loc := src.Place.Location; loc != nil {
			venue.Address = loc.Street
			venue.City = loc.City
			venue.Country = loc.Country
			venue.Latitude = loc.Latitude
			venue.Longitude = loc.Longitude
		}
		event.VenueID = upsertVenueCached(ctx, a.deps, venue)
	}

	if src.Owner != nil && src.Owner.ID != "" {
		event.OrganizerID = upsertOrganizerCached(ctx, a.deps, &eventEntity.Organizer{
			ProviderAccountID:   credential.ProviderAccountID,
			ProviderOrganizerID: src.Owner.ID,
			Name:                src.Owner.Name,
			URL:                 "https://www.facebook.com/" + src.Owner.ID,
		})
	}

	return event, nil
}

func (a *facebookAdapter) MapRSVP(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, raw json.RawMessage) (*candidateEntity.Attendee, *errors.AppError) {
	var src dto.FacebookRSVP
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable facebook rsvp", err)
	}
	if src.Name == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "facebook rsvp has no attendee name", nil)
	}

	// Graph attendee payloads carry no event reference, so the caller must
	// supply the event they were listed under.
	if event == nil {
		logger.Warn("FacebookAdapter:MapRSVP:NoEventContext", "provider_rsvp_id", src.ID)
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "facebook rsvp has no event context", nil)
	}

	first, last := splitName(src.Name)
	return &candidateEntity.Attendee{
		FirstName:         first,
		LastName:          last,
		RSVPStatus:        src.RSVPStatus,
		ProviderRSVPID:    src.ID,
		OwnerUserID:       credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		SourceProductID:   providerEntity.ProviderFacebook,
		EventID:           event.ID,
		EventTitle:        event.Title,
		EventDescription:  event.Description,
	}, nil
}
