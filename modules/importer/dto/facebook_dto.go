package dto

// Facebook event listings come back in one data block; the pipeline filters
// client-side for events the credential's member administers.
type FacebookEventsPage struct {
	Data []FacebookEvent `json:"data"`
}

type FacebookAttendeesPage struct {
	Data []FacebookRSVP `json:"data"`
}

type FacebookEvent struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartTime   string         `json:"start_time"` // 2006-01-02T15:04:05-0700
	EndTime     string         `json:"end_time"`
	Timezone    string         `json:"timezone"`
	IsCanceled  bool           `json:"is_canceled"`
	Place       *FacebookPlace `json:"place"`
	Owner       *FacebookOwner `json:"owner"`
}

type FacebookPlace struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Location *FacebookLocation `json:"location"`
}

type FacebookLocation struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type FacebookOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FacebookRSVP struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RSVPStatus string `json:"rsvp_status"` // "attending" | "declined" | "unsure"
}
