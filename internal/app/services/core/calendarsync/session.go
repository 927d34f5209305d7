package calendarsync

import (
	"context"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// calendarSession holds the calendar client for one sync run. Provider
// failures are retried once on a freshly exchanged credential; a second
// failure bubbles up to the caller.
type calendarSession struct {
	usecase  *syncUsecase
	doctorID string
	client   contracts.CalendarClient
	retried  bool
}

func (s *calendarSession) connect(ctx context.Context) error {
	client, err := s.usecase.CredentialService.GetAccessHandle(ctx, s.doctorID)
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *calendarSession) refresh(ctx context.Context) bool {
	if s.retried {
		return false
	}
	s.retried = true
	s.usecase.Log.Warn("calendarSession.refresh re-exchanging credential",
		zap.String(constvars.LoggingDoctorIDKey, s.doctorID),
	)
	if err := s.connect(ctx); err != nil {
		return false
	}
	return true
}

func (s *calendarSession) listEvents(ctx context.Context, from, to time.Time) ([]contracts.CalendarEvent, error) {
	events, err := s.client.ListEvents(ctx, from, to)
	if err != nil && exceptions.IsExternalService(err) && s.refresh(ctx) {
		events, err = s.client.ListEvents(ctx, from, to)
	}
	return events, err
}

func (s *calendarSession) createEvent(ctx context.Context, input contracts.CreateEventInput) (*contracts.CalendarEvent, error) {
	event, err := s.client.CreateEvent(ctx, input)
	if err != nil && exceptions.IsExternalService(err) && s.refresh(ctx) {
		event, err = s.client.CreateEvent(ctx, input)
	}
	return event, err
}
