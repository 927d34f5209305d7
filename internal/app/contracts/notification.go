package contracts

import "context"

// NotificationEvent is a fire-and-forget message about a booking,
// cancellation or sync failure. Publish failures must never fail the core
// operation that produced the event.
type NotificationEvent struct {
	Type          string `json:"type"`
	DoctorID      string `json:"doctorId,omitempty"`
	PatientID     string `json:"patientId,omitempty"`
	AppointmentID string `json:"appointmentId,omitempty"`
	SlotID        string `json:"slotId,omitempty"`
	Detail        string `json:"detail,omitempty"`
}

type NotificationPublisher interface {
	Publish(ctx context.Context, event NotificationEvent) error
}
