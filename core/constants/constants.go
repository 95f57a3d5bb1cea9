package constants

import "time"

// Request handling
const (
	DefaultTimeout    = 30 * time.Second
	HTTPClientTimeout = 10 * time.Second
)

// Database pool tuning
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Import pipeline
const (
	// ImportWorkerPoolSize bounds concurrent per-credential import jobs, which in
	// turn bounds simultaneous outbound connections to provider APIs.
	ImportWorkerPoolSize = 5

	// UpsertConflictRetries is how many extra attempts a chain stage gets after a
	// natural-key conflict before the attendee is skipped.
	UpsertConflictRetries = 1

	// Per-provider RSVP look-back windows, matching provider data retention.
	MeetupRSVPLookbackDays     = 90
	EventbriteRSVPLookbackDays = 60
	FacebookRSVPLookbackDays   = 3000

	// DefaultEventLookbackDays is how far back event imports reach when the
	// credential has never been imported before.
	DefaultEventLookbackDays = 365
)

// Activity feed
const (
	ActivityTypeEventRSVP = "event_rsvp"
)

// Cache TTLs
const (
	MemberIDCacheTTL   = 24 * time.Hour
	NaturalKeyCacheTTL = 12 * time.Hour
)
