package dto

// Eventbrite paginates by page number; the pagination block carries the page
// count used to iterate.
type EventbritePagination struct {
	ObjectCount int `json:"object_count"`
	PageNumber  int `json:"page_number"`
	PageSize    int `json:"page_size"`
	PageCount   int `json:"page_count"`
}

type EventbriteEventsPage struct {
	Pagination EventbritePagination `json:"pagination"`
	Events     []EventbriteEvent    `json:"events"`
}

type EventbriteAttendeesPage struct {
	Pagination EventbritePagination `json:"pagination"`
	Attendees  []EventbriteAttendee `json:"attendees"`
}

type EventbriteEvent struct {
	ID          string              `json:"id"`
	Name        EventbriteText      `json:"name"`
	Description EventbriteText      `json:"description"`
	Start       EventbriteDatetime  `json:"start"`
	End         EventbriteDatetime  `json:"end"`
	Capacity    *int                `json:"capacity"`
	URL         string              `json:"url"`
	Status      string              `json:"status"`
	VenueID     *string             `json:"venue_id"`
	OrganizerID string              `json:"organizer_id"`
}

type EventbriteText struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

type EventbriteDatetime struct {
	Timezone string `json:"timezone"`
	UTC      string `json:"utc"` // RFC3339
}

type EventbriteVenue struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Address EventbriteAddress  `json:"address"`
}

type EventbriteAddress struct {
	Address1  string `json:"address_1"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type EventbriteOrganizer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type EventbriteAttendee struct {
	ID      string            `json:"id"`
	Created string            `json:"created"` // RFC3339
	Status  string            `json:"status"`  // "Attending" | "Not Attending" | ...
	EventID string            `json:"event_id"`
	Profile EventbriteProfile `json:"profile"`
}

type EventbriteProfile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	CellPhone string `json:"cell_phone"`
}

// Publish flow payloads

type EventbriteEventEnvelope struct {
	Event EventbriteEvent `json:"event"`
}

type EventbriteTicketClass struct {
	Name           string `json:"name"`
	Free           bool   `json:"free"`
	QuantityTotal  *int   `json:"quantity_total,omitempty"`
}

type EventbritePublishResult struct {
	Published bool `json:"published"`
}
