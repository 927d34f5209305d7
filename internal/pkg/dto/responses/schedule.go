package responses

type TimeSlotResponse struct {
	ID              string `json:"id"`
	DoctorID        string `json:"doctor_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Status          string `json:"status"`
	ExternalEventID string `json:"external_event_id,omitempty"`
	CreatedBy       string `json:"created_by,omitempty"`
}

type GenerateSlotsResponse struct {
	DoctorID  string             `json:"doctor_id"`
	Generated int                `json:"generated"`
	Persisted bool               `json:"persisted"`
	Slots     []TimeSlotResponse `json:"slots"`
}
