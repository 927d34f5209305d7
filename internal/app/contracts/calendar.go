package contracts

import (
	"context"
	"time"
)

// CalendarEvent is the provider-independent representation of one external
// calendar event.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
	Updated     time.Time `json:"updated"`
	MeetingLink string    `json:"meetingLink,omitempty"`
	Cancelled   bool      `json:"cancelled,omitempty"`
}

type CreateEventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
	// WithConference requests a video-conference link on the created event.
	WithConference bool
}

// CalendarClient is a ready-to-use handle onto the external calendar
// service, already bound to one owner's access credential.
type CalendarClient interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]CalendarEvent, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*CalendarEvent, error)
	UpdateEvent(ctx context.Context, eventID string, input CreateEventInput) (*CalendarEvent, error)
}

// TokenClient exchanges a long-lived refresh credential for a short-lived
// access credential at the provider's token endpoint.
type TokenClient interface {
	Exchange(ctx context.Context, refreshToken string) (accessToken string, expiresIn time.Duration, err error)
}
