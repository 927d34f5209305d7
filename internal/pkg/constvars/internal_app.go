package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "is_client_request_id"
	CONTEXT_SESSION_UID_KEY          contextKey = "session_uid"
	CONTEXT_SESSION_ROLE_KEY         contextKey = "session_role"
)

const (
	RoleDoctor      = "Doctor"
	RolePatient     = "Patient"
	RoleClinicAdmin = "Clinic Admin"
)

const (
	ResponseUnknown = "unknown"
)

// Mongo collection names.
const (
	MongoCollectionTimeSlots           = "time_slots"
	MongoCollectionAppointments        = "appointments"
	MongoCollectionDoctors             = "doctors"
	MongoCollectionPatients            = "patients"
	MongoCollectionCalendarCredentials = "calendar_credentials"
	MongoCollectionWeeklyTemplates     = "availability_templates"
)

// Rabbit queues.
const (
	QueueNotifications = "clinicore.notifications"
)

// Notification event types published to the notification queue.
const (
	NotificationAppointmentBooked    = "appointment.booked"
	NotificationAppointmentCancelled = "appointment.cancelled"
	NotificationSyncFailed           = "calendar.sync.failed"
)

// Layout for clinic-local slot fields. Dates are timezone-naive calendar days,
// times are clinic-local wall clock.
const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04"
)

// CreatedBy markers on TimeSlot rows.
const (
	SlotCreatedByGenerator = "generator"
	SlotCreatedBySync      = "calendar-sync"
	SlotCreatedByAdmin     = "admin"
)
