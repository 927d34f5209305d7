package responses

type SyncFailureResponse struct {
	EventID string `json:"event_id,omitempty"`
	SlotID  string `json:"slot_id,omitempty"`
	Stage   string `json:"stage"`
	Reason  string `json:"reason"`
}

type SyncSummaryResponse struct {
	DoctorID  string                `json:"doctor_id"`
	Imported  int                   `json:"imported"`
	Exported  int                   `json:"exported"`
	Conflicts int                   `json:"conflicts"`
	Failures  []SyncFailureResponse `json:"failures,omitempty"`
}

type MeetingLinkResponse struct {
	AppointmentID string `json:"appointment_id"`
	MeetingLink   string `json:"meeting_link"`
	EventID       string `json:"event_id"`
}
