package constvars

// Client-facing messages. Never leak internals here.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process the request, please check your input"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "You are not logged in, please log in first"
	ErrClientDoctorNotFound                = "Doctor not found"
	ErrClientPatientNotFound               = "Patient not found"
	ErrClientSlotNotFound                  = "Time slot not found"
	ErrClientAppointmentNotFound           = "Appointment not found"
	ErrClientSlotNoLongerAvailable         = "The selected time slot is no longer available, please pick a different slot"
	ErrClientSlotNotDeletable              = "The time slot cannot be deleted in its current state"
	ErrClientInvalidAppointmentStatus      = "Invalid appointment status"
	ErrClientCalendarReconnectRequired     = "Calendar connection expired, please reconnect your calendar"
	ErrClientCalendarUnavailable           = "The calendar service is currently unavailable, please try again later"
	ErrClientSyncAlreadyRunning            = "A calendar sync for this doctor is already running"
	ErrClientMeetingLinkNotApplicable      = "Meeting links are only available for virtual appointments"
	ErrClientServerLongRespond             = "Server takes too long to respond, please try again later"
)

// Developer-facing messages, surfaced in non-production responses and logs.
const (
	ErrDevInvalidRequestPayload   = "Invalid request payload"
	ErrDevValidationFailed        = "Request validation failed"
	ErrDevCannotParseJSON         = "Cannot parse JSON payload"
	ErrDevCannotParseDate         = "Cannot parse date value"
	ErrDevMissingRequestID        = "Request ID not found in request context"
	ErrDevMissingSession          = "Session data not found in request context"
	ErrDevDoctorNotFound          = "Doctor not found by id or license number"
	ErrDevPatientNotFound         = "Patient not found"
	ErrDevSlotNotFound            = "TimeSlot document not found"
	ErrDevAppointmentNotFound     = "Appointment document not found"
	ErrDevSlotStatusRace          = "Conditional TimeSlot status update matched zero documents"
	ErrDevSlotDoctorMismatch      = "TimeSlot does not belong to the requested doctor"
	ErrDevSlotNotDeletable        = "TimeSlot is booked or externally linked and cannot be deleted"
	ErrDevInvalidSlotTemplate     = "Invalid weekly availability template"
	ErrDevInvalidDateRange        = "Invalid date range: start is after end"
	ErrDevInvalidAppointmentStatus = "Appointment status outside the defined enum"
	ErrDevMeetingNotVirtual       = "Appointment type is not virtual"
	ErrDevCredentialNotStored     = "No calendar credential stored for owner"
	ErrDevCredentialDecrypt       = "Failed to decrypt stored refresh credential"
	ErrDevCredentialExchange      = "Refresh credential exchange rejected by provider"
	ErrDevCalendarRequest         = "Calendar provider request failed"
	ErrDevCalendarDecode          = "Failed to decode calendar provider response"
	ErrDevDBFailedToFindDocument    = "Database failed to find document"
	ErrDevDBFailedToInsertDocument  = "Database failed to insert document"
	ErrDevDBFailedToUpdateDocument  = "Database failed to update document"
	ErrDevDBFailedToDeleteDocument  = "Database failed to delete document"
	ErrDevDBFailedToIterateDocuments = "Database failed to iterate documents"
	ErrDevDBStringNotObjectID       = "Provided string is not a valid ObjectID"
	ErrDevRedisLockNotAcquired    = "Redis lock could not be acquired"
	ErrDevRedisUnlock             = "Failed to release redis lock"
	ErrDevRedisSet                = "Redis failed to set key"
	ErrDevRedisGet                = "Redis failed to get key"
	ErrDevRedisDelete             = "Redis failed to delete key"
	ErrDevRedisExpire             = "Redis failed to set key expiration"
	ErrDevCannotMarshalJSON       = "Cannot marshal value to JSON"
	ErrDevRabbitPublish           = "Failed to publish message to queue"
	ErrDevMinioFailedToCreateObject = "Minio failed to create object in bucket %s"
)
