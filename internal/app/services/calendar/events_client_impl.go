package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

type eventsClient struct {
	BaseUrl     string
	AccessToken string
	HTTPClient  *http.Client
	Limiter     *rate.Limiter
}

// NewEventsClientFactory returns a factory that binds one access token to a
// ready calendar client. The HTTP client and the provider rate limiter are
// shared across every handle the factory produces.
func NewEventsClientFactory(calendarConfig config.Calendar) func(accessToken string) contracts.CalendarClient {
	httpClient := &http.Client{
		Timeout: time.Duration(calendarConfig.RequestTimeoutInSeconds) * time.Second,
	}
	rps := calendarConfig.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), rps)
	return func(accessToken string) contracts.CalendarClient {
		return &eventsClient{
			BaseUrl:     calendarConfig.BaseUrl,
			AccessToken: accessToken,
			HTTPClient:  httpClient,
			Limiter:     limiter,
		}
	}
}

func (c *eventsClient) ListEvents(ctx context.Context, from, to time.Time) ([]contracts.CalendarEvent, error) {
	query := url.Values{}
	query.Set("timeMin", from.Format(time.RFC3339))
	query.Set("timeMax", to.Format(time.RFC3339))
	endpoint := fmt.Sprintf("%s/events?%s", c.BaseUrl, query.Encode())

	body, err := c.do(ctx, constvars.MethodGet, endpoint, nil, constvars.StatusOK)
	if err != nil {
		return nil, err
	}

	var list wireEventList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, exceptions.ErrCalendarDecode(err)
	}

	events := make([]contracts.CalendarEvent, 0, len(list.Items))
	for _, item := range list.Items {
		event, err := eventFromWire(item)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, nil
}

func (c *eventsClient) CreateEvent(ctx context.Context, input contracts.CreateEventInput) (*contracts.CalendarEvent, error) {
	payload, err := json.Marshal(eventToWire(input))
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	body, err := c.do(ctx, constvars.MethodPost, c.BaseUrl+"/events", payload, constvars.StatusCreated)
	if err != nil {
		return nil, err
	}

	var created wireEvent
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, exceptions.ErrCalendarDecode(err)
	}
	return eventFromWire(created)
}

func (c *eventsClient) UpdateEvent(ctx context.Context, eventID string, input contracts.CreateEventInput) (*contracts.CalendarEvent, error) {
	payload, err := json.Marshal(eventToWire(input))
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	endpoint := fmt.Sprintf("%s/events/%s", c.BaseUrl, url.PathEscape(eventID))
	body, err := c.do(ctx, constvars.MethodPut, endpoint, payload, constvars.StatusOK)
	if err != nil {
		return nil, err
	}

	var updated wireEvent
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, exceptions.ErrCalendarDecode(err)
	}
	return eventFromWire(updated)
}

func (c *eventsClient) do(ctx context.Context, method, endpoint string, payload []byte, expectedStatus int) ([]byte, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrCalendarRequest(err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewBuffer(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, exceptions.ErrCalendarRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrCalendarRequest(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrCalendarRequest(err)
	}

	if resp.StatusCode == constvars.StatusUnauthorized || resp.StatusCode == constvars.StatusForbidden {
		return nil, exceptions.ErrCredentialExchange(fmt.Errorf("provider rejected access token: %s", resp.Status))
	}
	if resp.StatusCode != expectedStatus {
		return nil, exceptions.ErrCalendarRequest(fmt.Errorf("provider returned %s: %s", resp.Status, string(body)))
	}
	return body, nil
}

func eventToWire(input contracts.CreateEventInput) wireEvent {
	attendees := make([]wireAttendee, 0, len(input.Attendees))
	for _, email := range input.Attendees {
		attendees = append(attendees, wireAttendee{Email: email})
	}
	return wireEvent{
		Summary:          input.Summary,
		Description:      input.Description,
		Start:            wireTime{DateTime: input.Start.Format(time.RFC3339)},
		End:              wireTime{DateTime: input.End.Format(time.RFC3339)},
		Attendees:        attendees,
		CreateConference: input.WithConference,
	}
}

func eventFromWire(item wireEvent) (*contracts.CalendarEvent, error) {
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return nil, exceptions.ErrCalendarDecode(fmt.Errorf("event %s has malformed start: %w", item.ID, err))
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return nil, exceptions.ErrCalendarDecode(fmt.Errorf("event %s has malformed end: %w", item.ID, err))
	}
	event := &contracts.CalendarEvent{
		ID:          item.ID,
		Summary:     item.Summary,
		Description: item.Description,
		Start:       start,
		End:         end,
		Cancelled:   item.Status == eventStatusCancelled,
	}
	if item.Updated != "" {
		if updated, parseErr := time.Parse(time.RFC3339, item.Updated); parseErr == nil {
			event.Updated = updated
		}
	}
	for _, attendee := range item.Attendees {
		event.Attendees = append(event.Attendees, attendee.Email)
	}
	if item.Conference != nil {
		event.MeetingLink = item.Conference.JoinUrl
	}
	return event, nil
}
