package adapter

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"recruitsync/core/cache"
	"recruitsync/core/errors"
	"recruitsync/core/storage"
	candidateEntity "recruitsync/modules/candidate/entity"
	credentialEntity "recruitsync/modules/credential/entity"
	eventEntity "recruitsync/modules/event/entity"
	eventRepository "recruitsync/modules/event/repository"
	providerEntity "recruitsync/modules/provider/entity"
)

// Pagination terminals. ErrTokenRejected means the provider refused the
// credential mid-pagination; the caller must abandon the rest of this
// credential's work, unlike ErrNoMorePages which is the normal end.
var (
	ErrNoMorePages   = stderrors.New("no more pages")
	ErrTokenRejected = stderrors.New("provider rejected the access token")
)

// Pager is a finite, non-restartable sequence of raw provider items.
// Consuming it exhausts the underlying HTTP pagination state.
type Pager interface {
	Next(ctx context.Context) (json.RawMessage, error)
}

// ProviderAdapter fetches and normalizes one platform's events and RSVPs.
type ProviderAdapter interface {
	Name() string

	// FetchEvents returns the credential's events changed since the given time.
	FetchEvents(ctx context.Context, credential *credentialEntity.UserCredential, since time.Time) Pager

	// MapEvent normalizes one raw event, upserting venue/organizer outposts
	// through cached natural-key lookups. A missing venue leaves the venue
	// fields empty rather than failing the mapping.
	MapEvent(ctx context.Context, credential *credentialEntity.UserCredential, raw json.RawMessage) (*eventEntity.Event, *errors.AppError)

	// FetchRSVPs pages through one event's RSVPs.
	FetchRSVPs(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event) Pager

	// MapRSVP normalizes one raw RSVP. event may be nil (webhook path), in
	// which case the adapter resolves the event locally from the raw payload;
	// an unresolvable event yields ErrMappingIncomplete and the item is
	// dropped, not retried.
	MapRSVP(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, raw json.RawMessage) (*candidateEntity.Attendee, *errors.AppError)
}

// EventPublisher is implemented by providers that allow creating and removing
// events provider-side.
type EventPublisher interface {
	// PublishEvent runs the provider's multi-step publish flow and returns the
	// provider-native event id. Failures carry the step that failed.
	PublishEvent(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event, venue *eventEntity.Venue) (string, error)
	UnpublishEvent(ctx context.Context, credential *credentialEntity.UserCredential, event *eventEntity.Event) error
}

// WebhookSource is implemented by providers that push single RSVPs.
type WebhookSource interface {
	FetchWebhookRSVP(ctx context.Context, credential *credentialEntity.UserCredential, apiURL string) (json.RawMessage, *errors.AppError)
}

// Publish flow steps
type PublishStep string

const (
	PublishStepDraft       PublishStep = "draft"
	PublishStepVenue       PublishStep = "venue"
	PublishStepTicketClass PublishStep = "ticket_class"
	PublishStepPublish     PublishStep = "publish"
	PublishStepUnpublish   PublishStep = "unpublish"
)

// PublishStepError identifies which step of a publish flow failed.
type PublishStepError struct {
	Step PublishStep
	Err  error
}

func (e *PublishStepError) Error() string {
	return fmt.Sprintf("publish step %q failed: %v", e.Step, e.Err)
}

func (e *PublishStepError) Unwrap() error {
	return e.Err
}

// Deps are the shared collaborators handed to every adapter.
type Deps struct {
	Events  eventRepository.EventRepositoryInterface
	Cache   cache.Cache
	Archive *storage.PayloadArchive
}

// Builder constructs an adapter for one provider account.
type Builder func(account *providerEntity.ProviderAccount, deps Deps) ProviderAdapter

// Registry resolves adapters by provider name.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry with all supported providers registered.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register(providerEntity.ProviderMeetup, NewMeetupAdapter)
	r.Register(providerEntity.ProviderEventbrite, NewEventbriteAdapter)
	r.Register(providerEntity.ProviderFacebook, NewFacebookAdapter)
	return r
}

func (r *Registry) Register(name string, builder Builder) {
	r.builders[name] = builder
}

func (r *Registry) Build(account *providerEntity.ProviderAccount, deps Deps) (ProviderAdapter, error) {
	builder, ok := r.builders[account.Name]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for provider %q", account.Name)
	}
	return builder(account, deps), nil
}
