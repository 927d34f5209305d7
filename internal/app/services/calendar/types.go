package calendar

// Wire types for the external calendar provider API.

type wireTime struct {
	DateTime string `json:"dateTime"`
}

type wireAttendee struct {
	Email string `json:"email"`
}

type wireConference struct {
	JoinUrl string `json:"joinUrl,omitempty"`
}

type wireEvent struct {
	ID          string          `json:"id,omitempty"`
	Summary     string          `json:"summary,omitempty"`
	Description string          `json:"description,omitempty"`
	Start       wireTime        `json:"start"`
	End         wireTime        `json:"end"`
	Attendees   []wireAttendee  `json:"attendees,omitempty"`
	Updated     string          `json:"updated,omitempty"`
	Status      string          `json:"status,omitempty"`
	Conference  *wireConference `json:"conference,omitempty"`
	// CreateConference asks the provider to attach a video conference to
	// the event. Request-only.
	CreateConference bool `json:"createConference,omitempty"`
}

type wireEventList struct {
	Items []wireEvent `json:"items"`
}

type wireTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in"`
}

const eventStatusCancelled = "cancelled"
