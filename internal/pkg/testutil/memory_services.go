package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinicore-service/internal/app/contracts"
)

// Locker is an in-memory contracts.LockerService. Lock TTLs are ignored;
// locks are held until Unlock.
type Locker struct {
	mu    sync.Mutex
	locks map[string]string
	next  int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]string)}
}

func (l *Locker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.locks[key]; held {
		return false, "", nil
	}
	l.next++
	token := fmt.Sprintf("token-%d", l.next)
	l.locks[key] = token
	return true, token, nil
}

func (l *Locker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks[key] == lockValue {
		delete(l.locks, key)
	}
	return nil
}

func (l *Locker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

// Held reports whether any lock is currently held for key.
func (l *Locker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, held := l.locks[key]
	return held
}

// Publisher records published notification events.
type Publisher struct {
	mu     sync.Mutex
	Events []contracts.NotificationEvent
	// Err, when set, is returned by every Publish call.
	Err error
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, event contracts.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *Publisher) EventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.Events))
	for _, event := range p.Events {
		types = append(types, event.Type)
	}
	return types
}

// ReportStorage records archived sync reports in memory.
type ReportStorage struct {
	mu      sync.Mutex
	Reports map[string][]byte
	// Err, when set, fails every archive call.
	Err error
}

func NewReportStorage() *ReportStorage {
	return &ReportStorage{Reports: make(map[string][]byte)}
}

func (s *ReportStorage) ArchiveSyncReport(ctx context.Context, doctorID string, report []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	objectName := fmt.Sprintf("sync-reports/%s/%d.json", doctorID, len(s.Reports))
	s.Reports[objectName] = report
	return objectName, nil
}

// Calendar is a scriptable contracts.CalendarClient.
type Calendar struct {
	mu     sync.Mutex
	events map[string]*contracts.CalendarEvent
	next   int

	// ListErr / CreateErr / UpdateErr fail the next matching call, then
	// clear themselves; FailAlways keeps them set.
	ListErr    error
	CreateErr  error
	UpdateErr  error
	FailAlways bool

	// MeetingLink is attached to created events when conference is requested.
	MeetingLink string

	CreatedInputs []contracts.CreateEventInput
	UpdatedIDs    []string
}

func NewCalendar() *Calendar {
	return &Calendar{events: make(map[string]*contracts.CalendarEvent), MeetingLink: "https://meet.example.com/abc"}
}

func (c *Calendar) Seed(event contracts.CalendarEvent) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event.ID == "" {
		c.next++
		event.ID = fmt.Sprintf("evt-%d", c.next)
	}
	c.events[event.ID] = &event
	return event.ID
}

func (c *Calendar) Get(eventID string) *contracts.CalendarEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event, ok := c.events[eventID]; ok {
		copied := *event
		return &copied
	}
	return nil
}

func (c *Calendar) ListEvents(ctx context.Context, from, to time.Time) ([]contracts.CalendarEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ListErr != nil {
		err := c.ListErr
		if !c.FailAlways {
			c.ListErr = nil
		}
		return nil, err
	}
	var out []contracts.CalendarEvent
	for _, event := range c.events {
		if event.Start.Before(to) && event.End.After(from) {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (c *Calendar) CreateEvent(ctx context.Context, input contracts.CreateEventInput) (*contracts.CalendarEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CreateErr != nil {
		err := c.CreateErr
		if !c.FailAlways {
			c.CreateErr = nil
		}
		return nil, err
	}
	c.next++
	event := &contracts.CalendarEvent{
		ID:          fmt.Sprintf("evt-%d", c.next),
		Summary:     input.Summary,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Attendees:   input.Attendees,
		Updated:     time.Now(),
	}
	if input.WithConference {
		event.MeetingLink = c.MeetingLink
	}
	c.events[event.ID] = event
	c.CreatedInputs = append(c.CreatedInputs, input)
	copied := *event
	return &copied, nil
}

func (c *Calendar) UpdateEvent(ctx context.Context, eventID string, input contracts.CreateEventInput) (*contracts.CalendarEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.UpdateErr != nil {
		err := c.UpdateErr
		if !c.FailAlways {
			c.UpdateErr = nil
		}
		return nil, err
	}
	event, ok := c.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	event.Summary = input.Summary
	event.Description = input.Description
	event.Start = input.Start
	event.End = input.End
	event.Attendees = input.Attendees
	event.Updated = time.Now()
	c.UpdatedIDs = append(c.UpdatedIDs, eventID)
	copied := *event
	return &copied, nil
}

// CredentialService hands out a fixed Calendar for every owner.
type CredentialService struct {
	CalendarClient *Calendar
	// HandleErr, when set, is returned by GetAccessHandle.
	HandleErr error
	// Stored collects StoreCredential calls by owner id.
	Stored map[string]string
	mu     sync.Mutex
}

func NewCredentialService(calendar *Calendar) *CredentialService {
	return &CredentialService{CalendarClient: calendar, Stored: make(map[string]string)}
}

func (s *CredentialService) StoreCredential(ctx context.Context, ownerID, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stored[ownerID] = refreshToken
	return nil
}

func (s *CredentialService) GetAccessHandle(ctx context.Context, ownerID string) (contracts.CalendarClient, error) {
	if s.HandleErr != nil {
		return nil, s.HandleErr
	}
	return s.CalendarClient, nil
}

func (s *CredentialService) Disconnect(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Stored, ownerID)
	return nil
}
