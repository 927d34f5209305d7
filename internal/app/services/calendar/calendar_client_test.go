package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func testCalendarConfig(baseUrl, tokenUrl string) config.Calendar {
	return config.Calendar{
		BaseUrl:                 baseUrl,
		TokenUrl:                tokenUrl,
		ClientID:                "client-id",
		ClientSecret:            "client-secret",
		RequestTimeoutInSeconds: 5,
		RequestsPerSecond:       100,
	}
}

func TestEventsClientListEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes Event List And Query Range", func(t *testing.T) {
		var gotPath, gotAuth, gotTimeMin string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			gotTimeMin = r.URL.Query().Get("timeMin")
			json.NewEncoder(w).Encode(wireEventList{Items: []wireEvent{
				{
					ID:      "evt-1",
					Summary: "Busy",
					Start:   wireTime{DateTime: "2025-01-06T09:00:00Z"},
					End:     wireTime{DateTime: "2025-01-06T09:30:00Z"},
					Attendees: []wireAttendee{
						{Email: "patient@example.com"},
					},
					Updated: "2025-01-05T12:00:00Z",
				},
				{
					ID:     "evt-2",
					Start:  wireTime{DateTime: "2025-01-06T10:00:00Z"},
					End:    wireTime{DateTime: "2025-01-06T10:30:00Z"},
					Status: "cancelled",
				},
			}})
		}))
		defer server.Close()

		factory := NewEventsClientFactory(testCalendarConfig(server.URL, ""))
		client := factory("access-token")

		from, _ := time.Parse(time.RFC3339, "2025-01-06T00:00:00Z")
		to, _ := time.Parse(time.RFC3339, "2025-01-06T23:59:00Z")
		events, err := client.ListEvents(ctx, from, to)
		assert.NoError(t, err)
		assert.Equal(t, "/events", gotPath)
		assert.Equal(t, "Bearer access-token", gotAuth)
		assert.Equal(t, "2025-01-06T00:00:00Z", gotTimeMin)

		assert.Len(t, events, 2)
		assert.Equal(t, "evt-1", events[0].ID)
		assert.Equal(t, []string{"patient@example.com"}, events[0].Attendees)
		assert.False(t, events[0].Cancelled)
		assert.True(t, events[1].Cancelled)
	})

	t.Run("Rejected Token Maps To Credential Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewEventsClientFactory(testCalendarConfig(server.URL, ""))("stale-token")
		_, err := client.ListEvents(ctx, time.Now(), time.Now().Add(time.Hour))
		assert.Error(t, err)
		assert.True(t, exceptions.IsCredential(err))
	})

	t.Run("Provider Error Maps To External Service Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewEventsClientFactory(testCalendarConfig(server.URL, ""))("access-token")
		_, err := client.ListEvents(ctx, time.Now(), time.Now().Add(time.Hour))
		assert.Error(t, err)
		assert.True(t, exceptions.IsExternalService(err))
	})

	t.Run("Malformed Body Maps To Decode Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer server.Close()

		client := NewEventsClientFactory(testCalendarConfig(server.URL, ""))("access-token")
		_, err := client.ListEvents(ctx, time.Now(), time.Now().Add(time.Hour))
		assert.Error(t, err)
		assert.True(t, exceptions.IsExternalService(err))
	})
}

func TestEventsClientCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Posts Event And Decodes Created Response", func(t *testing.T) {
		var received wireEvent
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(wireEvent{
				ID:         "evt-new",
				Summary:    received.Summary,
				Start:      received.Start,
				End:        received.End,
				Conference: &wireConference{JoinUrl: "https://meet.example.com/xyz"},
			})
		}))
		defer server.Close()

		client := NewEventsClientFactory(testCalendarConfig(server.URL, ""))("access-token")
		start, _ := time.Parse(time.RFC3339, "2025-01-06T09:00:00Z")
		event, err := client.CreateEvent(ctx, contracts.CreateEventInput{
			Summary:        "Virtual consultation",
			Start:          start,
			End:            start.Add(30 * time.Minute),
			Attendees:      []string{"pat@example.com"},
			WithConference: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, "evt-new", event.ID)
		assert.Equal(t, "https://meet.example.com/xyz", event.MeetingLink)

		assert.True(t, received.CreateConference)
		assert.Equal(t, "2025-01-06T09:00:00Z", received.Start.DateTime)
		assert.Equal(t, []wireAttendee{{Email: "pat@example.com"}}, received.Attendees)
	})
}

func TestEventsClientUpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Puts Event By ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/events/evt-7", r.URL.Path)
			json.NewEncoder(w).Encode(wireEvent{
				ID:    "evt-7",
				Start: wireTime{DateTime: "2025-01-06T11:00:00Z"},
				End:   wireTime{DateTime: "2025-01-06T11:30:00Z"},
			})
		}))
		defer server.Close()

		client := NewEventsClientFactory(testCalendarConfig(server.URL, ""))("access-token")
		start, _ := time.Parse(time.RFC3339, "2025-01-06T11:00:00Z")
		event, err := client.UpdateEvent(ctx, "evt-7", contracts.CreateEventInput{
			Summary: "Moved",
			Start:   start,
			End:     start.Add(30 * time.Minute),
		})
		assert.NoError(t, err)
		assert.Equal(t, "evt-7", event.ID)
	})
}

func TestTokenClientExchange(t *testing.T) {
	ctx := context.Background()

	t.Run("Exchanges Refresh Token For Access Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "my-refresh-token", r.PostForm.Get("refresh_token"))
			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			json.NewEncoder(w).Encode(wireTokenResponse{AccessToken: "fresh-access", ExpiresIn: 3600})
		}))
		defer server.Close()

		client := NewTokenClient(testCalendarConfig("", server.URL))
		accessToken, expiresIn, err := client.Exchange(ctx, "my-refresh-token")
		assert.NoError(t, err)
		assert.Equal(t, "fresh-access", accessToken)
		assert.Equal(t, time.Hour, expiresIn)
	})

	t.Run("Rejected Refresh Token Maps To Credential Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer server.Close()

		client := NewTokenClient(testCalendarConfig("", server.URL))
		_, _, err := client.Exchange(ctx, "revoked-token")
		assert.Error(t, err)
		assert.True(t, exceptions.IsCredential(err))
	})

	t.Run("Provider Outage Maps To External Service Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewTokenClient(testCalendarConfig("", server.URL))
		_, _, err := client.Exchange(ctx, "any-token")
		assert.Error(t, err)
		assert.True(t, exceptions.IsExternalService(err))
	})

	t.Run("Empty Access Token Is Rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(wireTokenResponse{})
		}))
		defer server.Close()

		client := NewTokenClient(testCalendarConfig("", server.URL))
		_, _, err := client.Exchange(ctx, "any-token")
		assert.Error(t, err)
		assert.True(t, exceptions.IsCredential(err))
	})
}
