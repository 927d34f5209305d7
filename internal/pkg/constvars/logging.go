package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingDoctorIDKey      = "doctor_id"
	LoggingPatientIDKey     = "patient_id"
	LoggingSlotIDKey        = "slot_id"
	LoggingAppointmentIDKey = "appointment_id"
	LoggingEventIDKey       = "event_id"
	LoggingOwnerIDKey       = "owner_id"
	LoggingRedisKey         = "redis_key"
	LoggingLockValueKey     = "lock_value"
	LoggingLockStoredValueKey   = "lock_stored_value"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingRangeStartKey    = "range_start"
	LoggingRangeEndKey      = "range_end"
	LoggingImportedKey      = "imported"
	LoggingExportedKey      = "exported"
	LoggingConflictsKey     = "conflicts"
	LoggingFailuresKey      = "failures"
	LoggingResponseCountKey = "response_count"
)
