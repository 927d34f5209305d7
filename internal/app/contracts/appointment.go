package contracts

import (
	"clinicore-service/internal/app/models"
	"context"
)

type CreateAppointmentInput struct {
	DoctorIdentifier string
	PatientID        string
	TimeSlotID       string
	Type             models.AppointmentType
	ReasonForVisit   string
}

type UpdateAppointmentInput struct {
	Status         models.AppointmentStatus
	ReasonForVisit *string
}

type AppointmentRepository interface {
	Insert(ctx context.Context, appointment *models.Appointment) (string, error)
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	// FindActiveBySlotID returns the one non-cancelled appointment holding
	// the slot, or nil.
	FindActiveBySlotID(ctx context.Context, slotID string) (*models.Appointment, error)
	FindByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID string, status models.AppointmentStatus) (*models.Appointment, error)
	UpdateReason(ctx context.Context, appointmentID, reason string) (*models.Appointment, error)
	// SetMeetingLink persists link and event id together; partial writes are
	// not possible.
	SetMeetingLink(ctx context.Context, appointmentID, link, eventID string) (*models.Appointment, error)
	Delete(ctx context.Context, appointmentID string) error
}

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, input CreateAppointmentInput) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, appointmentID string, input UpdateAppointmentInput) (*models.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	// DeleteAppointment removes the record without freeing the slot unless
	// releaseSlot is set; deletion is administrative, not a cancellation.
	DeleteAppointment(ctx context.Context, appointmentID string, releaseSlot bool) error
	FindByDoctor(ctx context.Context, doctorIdentifier string) ([]models.Appointment, error)
	FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
}
