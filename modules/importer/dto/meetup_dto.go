package dto

// Meetup wraps list payloads in results plus a meta block whose "next" link
// is the opaque pagination cursor.
type MeetupPage[T any] struct {
	Results []T        `json:"results"`
	Meta    MeetupMeta `json:"meta"`
}

type MeetupMeta struct {
	Next       string `json:"next"`
	TotalCount int    `json:"total_count"`
}

type MeetupEvent struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Time        int64        `json:"time"`     // ms since epoch
	Duration    int64        `json:"duration"` // ms
	Timezone    string       `json:"timezone"`
	RSVPLimit   *int         `json:"rsvp_limit"`
	Link        string       `json:"link"`
	Status      string       `json:"status"`
	Venue       *MeetupVenue `json:"venue"`
	Group       *MeetupGroup `json:"group"`
}

type MeetupVenue struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Address1 string  `json:"address_1"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

type MeetupGroup struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	URLName string `json:"urlname"`
}

type MeetupRSVP struct {
	RSVPID   int64        `json:"rsvp_id"`
	Response string       `json:"response"` // "yes" | "no" | "waitlist"
	Created  int64        `json:"created"`  // ms since epoch
	Member   MeetupMember `json:"member"`
	EventRef MeetupEventRef `json:"event"`
}

type MeetupMember struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type MeetupEventRef struct {
	ID string `json:"id"`
}
