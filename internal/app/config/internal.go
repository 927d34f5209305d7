package config

type InternalConfig struct {
	App      App
	JWT      JWT
	Calendar Calendar
	Sync     Sync
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	ShutdownTimeout            int
	MaxRequests                int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	// SlotWindowDays controls the rolling window the top-up worker maintains
	// from stored templates.
	SlotWindowDays int
	// SlotWorkerCronSpec defines the cron expression for the slot worker
	// schedule. Invalid or empty specs fall back to @daily.
	SlotWorkerCronSpec string
}

type JWT struct {
	Secret string
}

// Calendar holds the external calendar provider endpoints and credentials.
// Only one provider is modeled; endpoints come from config, not a provider
// SDK.
type Calendar struct {
	BaseUrl                 string
	TokenUrl                string
	ClientID                string
	ClientSecret            string
	RequestTimeoutInSeconds int
	RequestsPerSecond       int
	// EncryptionKey is the 32-byte hex key for refresh-token encryption at
	// rest.
	EncryptionKey string
}

type Sync struct {
	// LockTTLInSeconds bounds one doctor's sync run; import and export for
	// the same doctor are serialized under this lock.
	LockTTLInSeconds int
	// ImportBookedWhenAttendees marks imported events that carry
	// attendees as booked instead of blocked.
	ImportBookedWhenAttendees bool
}
