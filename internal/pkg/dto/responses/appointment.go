package responses

type AppointmentResponse struct {
	ID             string `json:"id"`
	DoctorID       string `json:"doctor_id"`
	PatientID      string `json:"patient_id"`
	TimeSlotID     string `json:"time_slot_id"`
	Status         string `json:"status"`
	Type           string `json:"type"`
	ReasonForVisit string `json:"reason_for_visit,omitempty"`
	MeetingLink    string `json:"meeting_link,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
