package adapter

import (
	"context"
	"time"

	eventEntity "recruitsync/modules/event/entity"

	"github.com/google/uuid"
)

// fakeEventRepo backs adapter tests without a database.
type fakeEventRepo struct {
	eventsByKey map[string]*eventEntity.Event
	venues      []*eventEntity.Venue
	organizers  []*eventEntity.Organizer
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{eventsByKey: make(map[string]*eventEntity.Event)}
}

func timeZero() time.Time {
	return time.Unix(0, 0).UTC()
}

func testDraftEvent() *eventEntity.Event {
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	return &eventEntity.Event{
		Title:       "Draft Event",
		Description: "to be published",
		Timezone:    "UTC",
		StartTime:   &start,
		EndTime:     &end,
		Status:      eventEntity.EventStatusDraft,
	}
}

func eventKey(userID uuid.UUID, providerAccountID uuid.UUID, providerEventID string) string {
	return userID.String() + "|" + providerAccountID.String() + "|" + providerEventID
}

func (f *fakeEventRepo) GetByID(context.Context, uuid.UUID) (*eventEntity.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) GetByProviderKey(_ context.Context, userID uuid.UUID, providerAccountID uuid.UUID, providerEventID string) (*eventEntity.Event, error) {
	return f.eventsByKey[eventKey(userID, providerAccountID, providerEventID)], nil
}

func (f *fakeEventRepo) Upsert(_ context.Context, event *eventEntity.Event) (*eventEntity.Event, error) {
	stored := *event
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	f.eventsByKey[eventKey(event.UserID, event.ProviderAccountID, event.ProviderEventID)] = &stored
	return &stored, nil
}

func (f *fakeEventRepo) ListForImport(context.Context, uuid.UUID, uuid.UUID, time.Time) ([]eventEntity.Event, error) {
	events := make([]eventEntity.Event, 0, len(f.eventsByKey))
	for _, e := range f.eventsByKey {
		events = append(events, *e)
	}
	return events, nil
}

func (f *fakeEventRepo) UpdateStatus(context.Context, uuid.UUID, string) error {
	return nil
}

func (f *fakeEventRepo) UpdatePublishState(context.Context, uuid.UUID, string, string) error {
	return nil
}

func (f *fakeEventRepo) GetVenueByID(context.Context, uuid.UUID) (*eventEntity.Venue, error) {
	return nil, nil
}

func (f *fakeEventRepo) GetVenueByProviderKey(context.Context, uuid.UUID, string) (*eventEntity.Venue, error) {
	return nil, nil
}

func (f *fakeEventRepo) UpsertVenue(_ context.Context, venue *eventEntity.Venue) (*eventEntity.Venue, error) {
	stored := *venue
	stored.ID = uuid.New()
	f.venues = append(f.venues, &stored)
	return &stored, nil
}

func (f *fakeEventRepo) GetOrganizerByProviderKey(context.Context, uuid.UUID, string) (*eventEntity.Organizer, error) {
	return nil, nil
}

func (f *fakeEventRepo) UpsertOrganizer(_ context.Context, organizer *eventEntity.Organizer) (*eventEntity.Organizer, error) {
	stored := *organizer
	stored.ID = uuid.New()
	f.organizers = append(f.organizers, &stored)
	return &stored, nil
}
