package requests

type CreateAppointmentRequest struct {
	DoctorID       string `json:"doctor_id" validate:"required"`
	PatientID      string `json:"patient_id" validate:"required"`
	TimeSlotID     string `json:"time_slot_id" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=in-person virtual"`
	ReasonForVisit string `json:"reason_for_visit" validate:"max=2000"`
}

type UpdateAppointmentRequest struct {
	Status         string  `json:"status" validate:"omitempty,oneof=scheduled checked-in in-progress completed cancelled no-show"`
	ReasonForVisit *string `json:"reason_for_visit" validate:"omitempty,max=2000"`
}
