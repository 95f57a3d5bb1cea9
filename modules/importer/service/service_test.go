package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"recruitsync/core/errors"
	candidateEntity "recruitsync/modules/candidate/entity"
	credentialEntity "recruitsync/modules/credential/entity"
	credentialService "recruitsync/modules/credential/service"
	eventEntity "recruitsync/modules/event/entity"
	"recruitsync/modules/importer/adapter"
	providerEntity "recruitsync/modules/provider/entity"

	"github.com/google/uuid"
)

// slicePager serves a fixed item list, optionally ending in an error instead
// of the normal exhaustion.
type slicePager struct {
	items    []json.RawMessage
	finalErr error
}

func (p *slicePager) Next(context.Context) (json.RawMessage, error) {
	if len(p.items) == 0 {
		if p.finalErr != nil {
			return nil, p.finalErr
		}
		return nil, adapter.ErrNoMorePages
	}
	item := p.items[0]
	p.items = p.items[1:]
	return item, nil
}

// fakeAdapter scripts provider behavior. Raw items are {"id","name"} JSON;
// an item without a name fails mapping, mirroring real adapter validation.
type fakeAdapter struct {
	name           string
	eventItems     []json.RawMessage
	eventsFinalErr error
	rsvpItems      map[string][]json.RawMessage
	rsvpsFinalErr  error

	mu             sync.Mutex
	fetchRSVPCalls int
	webhookRaw     json.RawMessage
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) FetchEvents(context.Context, *credentialEntity.UserCredential, time.Time) adapter.Pager {
	return &slicePager{items: append([]json.RawMessage(nil), f.eventItems...), finalErr: f.eventsFinalErr}
}

func (f *fakeAdapter) FetchRSVPs(_ context.Context, _ *credentialEntity.UserCredential, event *eventEntity.Event) adapter.Pager {
	f.mu.Lock()
	f.fetchRSVPCalls++
	f.mu.Unlock()
	return &slicePager{items: append([]json.RawMessage(nil), f.rsvpItems[event.ProviderEventID]...), finalErr: f.rsvpsFinalErr}
}

func (f *fakeAdapter) MapEvent(_ context.Context, credential *credentialEntity.UserCredential, raw json.RawMessage) (*eventEntity.Event, *errors.AppError) {
	var src struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable event", err)
	}
	if src.ID == "" || src.Name == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "event missing id or name", nil)
	}
	return &eventEntity.Event{
		UserID:            credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		ProviderEventID:   src.ID,
		Title:             src.Name,
	}, nil
}

func (f *fakeAdapter) MapRSVP(_ context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, raw json.RawMessage) (*candidateEntity.Attendee, *errors.AppError) {
	var src struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "unparseable rsvp", err)
	}
	if src.Name == "" {
		return nil, errors.NewAppError(errors.ErrMappingIncomplete, "rsvp missing name", nil)
	}

	eventID := uuid.Nil
	title := ""
	if event != nil {
		eventID = event.ID
		title = event.Title
	}
	return &candidateEntity.Attendee{
		FirstName:         src.Name,
		RSVPStatus:        "yes",
		ProviderRSVPID:    src.ID,
		OwnerUserID:       credential.UserID,
		ProviderAccountID: credential.ProviderAccountID,
		SourceProductID:   f.name,
		EventID:           eventID,
		EventTitle:        title,
	}, nil
}

func (f *fakeAdapter) FetchWebhookRSVP(context.Context, *credentialEntity.UserCredential, string) (json.RawMessage, *errors.AppError) {
	return f.webhookRaw, nil
}

// fakeEventStore is the in-memory event repository used across service tests.
type fakeEventStore struct {
	mu          sync.Mutex
	eventsByKey map[string]*eventEntity.Event
	upserts     int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{eventsByKey: make(map[string]*eventEntity.Event)}
}

func storeKey(userID uuid.UUID, providerAccountID uuid.UUID, providerEventID string) string {
	return userID.String() + "|" + providerAccountID.String() + "|" + providerEventID
}

func (f *fakeEventStore) GetByID(context.Context, uuid.UUID) (*eventEntity.Event, error) {
	return nil, nil
}

func (f *fakeEventStore) GetByProviderKey(_ context.Context, userID uuid.UUID, providerAccountID uuid.UUID, providerEventID string) (*eventEntity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eventsByKey[storeKey(userID, providerAccountID, providerEventID)], nil
}

func (f *fakeEventStore) Upsert(_ context.Context, event *eventEntity.Event) (*eventEntity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	key := storeKey(event.UserID, event.ProviderAccountID, event.ProviderEventID)
	if existing, ok := f.eventsByKey[key]; ok {
		existing.Title = event.Title
		return existing, nil
	}
	stored := *event
	stored.ID = uuid.New()
	f.eventsByKey[key] = &stored
	return &stored, nil
}

func (f *fakeEventStore) ListForImport(_ context.Context, userID uuid.UUID, providerAccountID uuid.UUID, _ time.Time) ([]eventEntity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []eventEntity.Event
	for _, e := range f.eventsByKey {
		if e.UserID == userID && e.ProviderAccountID == providerAccountID {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (f *fakeEventStore) UpdateStatus(context.Context, uuid.UUID, string) error { return nil }

func (f *fakeEventStore) UpdatePublishState(context.Context, uuid.UUID, string, string) error {
	return nil
}

func (f *fakeEventStore) GetVenueByID(context.Context, uuid.UUID) (*eventEntity.Venue, error) {
	return nil, nil
}

func (f *fakeEventStore) GetVenueByProviderKey(context.Context, uuid.UUID, string) (*eventEntity.Venue, error) {
	return nil, nil
}

func (f *fakeEventStore) UpsertVenue(_ context.Context, venue *eventEntity.Venue) (*eventEntity.Venue, error) {
	stored := *venue
	stored.ID = uuid.New()
	return &stored, nil
}

func (f *fakeEventStore) GetOrganizerByProviderKey(context.Context, uuid.UUID, string) (*eventEntity.Organizer, error) {
	return nil, nil
}

func (f *fakeEventStore) UpsertOrganizer(_ context.Context, organizer *eventEntity.Organizer) (*eventEntity.Organizer, error) {
	stored := *organizer
	stored.ID = uuid.New()
	return &stored, nil
}

// fakeChain records attendees instead of persisting them.
type fakeChain struct {
	mu        sync.Mutex
	attendees []*candidateEntity.Attendee
	failAll   bool
}

func (f *fakeChain) ProcessAttendee(_ context.Context, attendee *candidateEntity.Attendee) *errors.AppError {
	if f.failAll {
		return errors.NewAppError(errors.ErrInternalServer, "chain down", nil)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendees = append(f.attendees, attendee)
	return nil
}

// fakeProviderRepo serves fixed provider accounts.
type fakeProviderRepo struct {
	accounts []providerEntity.ProviderAccount
}

func (f *fakeProviderRepo) GetByID(_ context.Context, id uuid.UUID) (*providerEntity.ProviderAccount, error) {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			return &f.accounts[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProviderRepo) GetByName(_ context.Context, name string) (*providerEntity.ProviderAccount, error) {
	for i := range f.accounts {
		if f.accounts[i].Name == name {
			return &f.accounts[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProviderRepo) List(context.Context) ([]providerEntity.ProviderAccount, error) {
	return f.accounts, nil
}

func (f *fakeProviderRepo) Seed(context.Context, *providerEntity.ProviderAccount) error { return nil }

// fakeCredentialRepo serves fixed credentials.
type fakeCredentialRepo struct {
	credentials []credentialEntity.UserCredential
}

func (f *fakeCredentialRepo) GetByUserAndProvider(_ context.Context, userID uuid.UUID, providerAccountID uuid.UUID) (*credentialEntity.UserCredential, error) {
	for i := range f.credentials {
		if f.credentials[i].UserID == userID && f.credentials[i].ProviderAccountID == providerAccountID {
			return &f.credentials[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCredentialRepo) GetByID(_ context.Context, id uuid.UUID) (*credentialEntity.UserCredential, error) {
	for i := range f.credentials {
		if f.credentials[i].ID == id {
			return &f.credentials[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCredentialRepo) GetByWebhookID(_ context.Context, webhookID string) (*credentialEntity.UserCredential, error) {
	for i := range f.credentials {
		if f.credentials[i].WebhookID != nil && *f.credentials[i].WebhookID == webhookID {
			return &f.credentials[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCredentialRepo) List(_ context.Context, providerAccountID *uuid.UUID) ([]credentialEntity.UserCredential, error) {
	if providerAccountID == nil {
		return f.credentials, nil
	}
	var matched []credentialEntity.UserCredential
	for _, c := range f.credentials {
		if c.ProviderAccountID == *providerAccountID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeCredentialRepo) SaveOrUpdate(context.Context, *credentialEntity.UserCredential) error {
	return nil
}

func (f *fakeCredentialRepo) UpdateTokens(context.Context, uuid.UUID, string, *string, *time.Time) error {
	return nil
}

func (f *fakeCredentialRepo) UpdateMemberID(context.Context, uuid.UUID, string) error { return nil }

// fakeCredentialService scripts token lifecycle outcomes per credential.
type fakeCredentialService struct {
	invalid map[uuid.UUID]bool

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
}

func (f *fakeCredentialService) ResolveCredential(context.Context, uuid.UUID, uuid.UUID) (*credentialEntity.UserCredential, *errors.AppError) {
	return nil, errors.NewAppError(errors.ErrNotFound, "not scripted", nil)
}

func (f *fakeCredentialService) Validate(context.Context, *credentialEntity.UserCredential, *providerEntity.ProviderAccount) bool {
	return true
}

func (f *fakeCredentialService) Refresh(context.Context, *credentialEntity.UserCredential, *providerEntity.ProviderAccount) (*credentialService.RefreshedToken, error) {
	return nil, nil
}

func (f *fakeCredentialService) ValidateAndRefresh(_ context.Context, credential *credentialEntity.UserCredential, _ *providerEntity.ProviderAccount) *errors.AppError {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.invalid[credential.ID] {
		return errors.NewAppError(errors.ErrCredentialInvalid, "token dead, refresh unsupported", nil)
	}
	return nil
}

func (f *fakeCredentialService) DiscoverMemberID(_ context.Context, credential *credentialEntity.UserCredential, _ *providerEntity.ProviderAccount) (string, *errors.AppError) {
	memberID := "member-" + credential.ID.String()[:8]
	credential.ProviderMemberID = &memberID
	return memberID, nil
}
