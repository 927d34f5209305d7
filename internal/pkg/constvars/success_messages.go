package constvars

const (
	GenerateSlotsSuccessMessage      = "Successfully generated time slots"
	GetSlotsSuccessMessage           = "Successfully retrieved time slots"
	BlockSlotSuccessMessage          = "Successfully blocked time slot"
	DeleteSlotSuccessMessage         = "Successfully deleted time slot"
	ReleaseSlotSuccessMessage        = "Successfully released time slot"
	CreateAppointmentSuccessMessage  = "Successfully created appointment"
	UpdateAppointmentSuccessMessage  = "Successfully updated appointment"
	CancelAppointmentSuccessMessage  = "Successfully cancelled appointment"
	DeleteAppointmentSuccessMessage  = "Successfully deleted appointment"
	GetAppointmentSuccessMessage     = "Successfully retrieved appointments"
	ConnectCalendarSuccessMessage    = "Successfully connected calendar"
	DisconnectCalendarSuccessMessage = "Successfully disconnected calendar"
	ImportCalendarSuccessMessage     = "Successfully imported calendar events"
	ExportCalendarSuccessMessage     = "Successfully exported time slots"
	SyncCalendarSuccessMessage       = "Successfully synchronized calendar"
	EnsureMeetingLinkSuccessMessage  = "Successfully provisioned meeting link"
)
