package contracts

import "context"

// SyncFailure records one skipped event or slot inside an otherwise
// successful sync run.
type SyncFailure struct {
	EventID string `json:"eventId,omitempty"`
	SlotID  string `json:"slotId,omitempty"`
	Stage   string `json:"stage"`
	Reason  string `json:"reason"`
}

// SyncSummary is the ephemeral result of one sync run; it is returned for
// observability and never persisted.
type SyncSummary struct {
	Imported  int           `json:"imported"`
	Exported  int           `json:"exported"`
	Conflicts int           `json:"conflicts"`
	Failures  []SyncFailure `json:"failures,omitempty"`
}

type SyncUsecase interface {
	ImportFromExternal(ctx context.Context, doctorIdentifier, startDate, endDate string) (*SyncSummary, error)
	ExportToExternal(ctx context.Context, doctorIdentifier, startDate, endDate string) (*SyncSummary, error)
	Sync(ctx context.Context, doctorIdentifier, startDate, endDate string) (*SyncSummary, error)
}

// MeetingLinkResult is the outcome of provisioning a conference link.
type MeetingLinkResult struct {
	Link    string `json:"link"`
	EventID string `json:"eventId"`
}

type MeetingUsecase interface {
	EnsureMeetingLink(ctx context.Context, appointmentID string) (*MeetingLinkResult, error)
}
