package repository

import (
	"context"
	"database/sql"
	"time"

	"recruitsync/core/database"
	"recruitsync/core/logger"
	"recruitsync/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles event, venue and organizer database operations
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the contract for event persistence
type EventRepositoryInterface interface {
	// Events
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetByProviderKey(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID, providerEventID string) (*entity.Event, error)
	Upsert(ctx context.Context, event *entity.Event) (*entity.Event, error)
	ListForImport(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID, startAfter time.Time) ([]entity.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdatePublishState(ctx context.Context, id uuid.UUID, providerEventID string, status string) error

	// Venues (natural key: provider_account_id + provider_venue_id)
	GetVenueByID(ctx context.Context, id uuid.UUID) (*entity.Venue, error)
	GetVenueByProviderKey(ctx context.Context, providerAccountID uuid.UUID, providerVenueID string) (*entity.Venue, error)
	UpsertVenue(ctx context.Context, venue *entity.Venue) (*entity.Venue, error)

	// Organizers (natural key: provider_account_id + provider_organizer_id)
	GetOrganizerByProviderKey(ctx context.Context, providerAccountID uuid.UUID, providerOrganizerID string) (*entity.Organizer, error)
	UpsertOrganizer(ctx context.Context, organizer *entity.Organizer) (*entity.Organizer, error)
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	query := `SELECT * FROM events WHERE id = $1`

	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID:Error", "error", err, "id", id)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByProviderKey(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID, providerEventID string) (*entity.Event, error) {
	var event entity.Event
	query := `
		SELECT * FROM events
		WHERE user_id = $1 AND provider_account_id = $2 AND provider_event_id = $3
	`
	err := r.DB.GetContext(ctx, &event, query, userID, providerAccountID, providerEventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByProviderKey:Error",
			"error", err, "user_id", userID, "provider_event_id", providerEventID)
		return nil, err
	}
	return &event, nil
}

// Upsert inserts or refreshes the event on its provider natural key. Mutable
// fields always take the incoming import's values.
func (r *EventRepository) Upsert(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (
			user_id, provider_account_id, provider_event_id, title, description,
			start_time, end_time, timezone, venue_id, organizer_id, capacity, url, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (user_id, provider_account_id, provider_event_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			timezone = EXCLUDED.timezone,
			venue_id = EXCLUDED.venue_id,
			organizer_id = EXCLUDED.organizer_id,
			capacity = EXCLUDED.capacity,
			url = EXCLUDED.url,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, user_id, provider_account_id, provider_event_id, title, description,
		          start_time, end_time, timezone, venue_id, organizer_id, capacity, url, status,
		          created_at, updated_at
	`

	var upserted entity.Event
	err := r.DB.GetContext(ctx, &upserted, query,
		event.UserID, event.ProviderAccountID, event.ProviderEventID, event.Title, event.Description,
		event.StartTime, event.EndTime, event.Timezone, event.VenueID, event.OrganizerID,
		event.Capacity, event.URL, event.Status)
	if err != nil {
		logger.Error("EventRepository:Upsert:Error",
			"error", err, "user_id", event.UserID, "provider_event_id", event.ProviderEventID)
		return nil, err
	}
	return &upserted, nil
}

func (r *EventRepository) ListForImport(ctx context.Context, userID uuid.UUID, providerAccountID uuid.UUID, startAfter time.Time) ([]entity.Event, error) {
	var events []entity.Event
	query := `
		SELECT * FROM events
		WHERE user_id = $1 AND provider_account_id = $2 AND start_time >= $3
		ORDER BY start_time
	`
	err := r.DB.SelectContext(ctx, &events, query, userID, providerAccountID, startAfter)
	if err != nil {
		if err == sql.ErrNoRows {
			return []entity.Event{}, nil
		}
		logger.Error("EventRepository:ListForImport:Error",
			"error", err, "user_id", userID, "provider_account_id", providerAccountID)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("EventRepository:UpdateStatus:Error", "error", err, "id", id)
		return err
	}
	return nil
}

// UpdatePublishState records the provider-native id handed back by a publish
// flow. Goes through UPDATE rather than Upsert because the row's natural key
// changes when the provider assigns the id.
func (r *EventRepository) UpdatePublishState(ctx context.Context, id uuid.UUID, providerEventID string, status string) error {
	query := `
		UPDATE events SET provider_event_id = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`
	if err := r.DB.ExecContext(ctx, query, id, providerEventID, status); err != nil {
		logger.Error("EventRepository:UpdatePublishState:Error", "error", err, "id", id)
		return err
	}
	return nil
}
