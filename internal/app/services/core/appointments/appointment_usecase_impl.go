package appointments

import (
	"context"
	"fmt"
	"sync"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// allowedTransitions is the appointment state machine. Completed, cancelled
// and no-show are terminal.
var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.AppointmentStatusScheduled:  {models.AppointmentStatusCheckedIn, models.AppointmentStatusCancelled, models.AppointmentStatusNoShow},
	models.AppointmentStatusCheckedIn:  {models.AppointmentStatusInProgress, models.AppointmentStatusCancelled},
	models.AppointmentStatusInProgress: {models.AppointmentStatusCompleted},
}

func transitionAllowed(from, to models.AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type appointmentUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	SlotRepository        contracts.SlotRepository
	DoctorRepository      contracts.DoctorRepository
	PatientRepository     contracts.PatientRepository
	Publisher             contracts.NotificationPublisher
	Log                   *zap.Logger
}

var (
	appointmentUsecaseInstance contracts.AppointmentUsecase
	onceAppointmentUsecase     sync.Once
)

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	slotRepository contracts.SlotRepository,
	doctorRepository contracts.DoctorRepository,
	patientRepository contracts.PatientRepository,
	publisher contracts.NotificationPublisher,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	onceAppointmentUsecase.Do(func() {
		instance := &appointmentUsecase{
			AppointmentRepository: appointmentRepository,
			SlotRepository:        slotRepository,
			DoctorRepository:      doctorRepository,
			PatientRepository:     patientRepository,
			Publisher:             publisher,
			Log:                   logger,
		}
		appointmentUsecaseInstance = instance
	})
	return appointmentUsecaseInstance
}

func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, input contracts.CreateAppointmentInput) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, input.DoctorIdentifier),
		zap.String(constvars.LoggingPatientIDKey, input.PatientID),
		zap.String(constvars.LoggingSlotIDKey, input.TimeSlotID),
	)

	doctor, err := uc.DoctorRepository.Resolve(ctx, input.DoctorIdentifier)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	patient, err := uc.PatientRepository.FindByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotFound(nil)
	}

	slot, err := uc.SlotRepository.FindByID(ctx, input.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, exceptions.ErrSlotNotFound(nil)
	}
	if slot.DoctorID != doctor.ID.Hex() {
		return nil, exceptions.ErrSlotDoctorMismatch(fmt.Errorf("slot belongs to doctor %s", slot.DoctorID))
	}

	// atomically claim the slot before writing anything else
	claimed, err := uc.SlotRepository.UpdateStatusIf(ctx, input.TimeSlotID, models.SlotStatusAvailable, models.SlotStatusBooked)
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		return nil, exceptions.ErrSlotConflict(fmt.Errorf("slot %s is not available", input.TimeSlotID))
	}

	appointment := &models.Appointment{
		DoctorID:       doctor.ID.Hex(),
		PatientID:      input.PatientID,
		TimeSlotID:     input.TimeSlotID,
		Status:         models.AppointmentStatusScheduled,
		Type:           input.Type,
		ReasonForVisit: input.ReasonForVisit,
	}

	appointmentID, err := uc.AppointmentRepository.Insert(ctx, appointment)
	if err != nil {
		// free the slot again so the failed booking leaves no trace
		if _, rollbackErr := uc.SlotRepository.UpdateStatusIf(ctx, input.TimeSlotID, models.SlotStatusBooked, models.SlotStatusAvailable); rollbackErr != nil {
			uc.Log.Error("appointmentUsecase.CreateAppointment failed to roll back slot claim",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSlotIDKey, input.TimeSlotID),
				zap.Error(rollbackErr),
			)
		}
		return nil, err
	}

	created, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if publishErr := uc.Publisher.Publish(ctx, contracts.NotificationEvent{
		Type:          constvars.NotificationAppointmentBooked,
		DoctorID:      created.DoctorID,
		PatientID:     created.PatientID,
		AppointmentID: appointmentID,
		SlotID:        created.TimeSlotID,
	}); publishErr != nil {
		uc.Log.Warn("appointmentUsecase.CreateAppointment notification publish failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(publishErr),
		)
	}

	uc.Log.Info("appointmentUsecase.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return created, nil
}

func (uc *appointmentUsecase) UpdateAppointment(ctx context.Context, appointmentID string, input contracts.UpdateAppointmentInput) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.UpdateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}

	if input.Status != "" && input.Status != appointment.Status {
		if !input.Status.Valid() {
			return nil, exceptions.ErrInvalidAppointmentStatus(fmt.Errorf("unknown status %q", input.Status))
		}
		if input.Status == models.AppointmentStatusCancelled {
			return uc.CancelAppointment(ctx, appointmentID)
		}
		if !transitionAllowed(appointment.Status, input.Status) {
			return nil, exceptions.ErrInvalidAppointmentStatus(fmt.Errorf("cannot move from %s to %s", appointment.Status, input.Status))
		}
		appointment, err = uc.AppointmentRepository.UpdateStatus(ctx, appointmentID, input.Status)
		if err != nil {
			return nil, err
		}
		if appointment == nil {
			return nil, exceptions.ErrAppointmentNotFound(nil)
		}
	}

	if input.ReasonForVisit != nil {
		appointment, err = uc.AppointmentRepository.UpdateReason(ctx, appointmentID, *input.ReasonForVisit)
		if err != nil {
			return nil, err
		}
		if appointment == nil {
			return nil, exceptions.ErrAppointmentNotFound(nil)
		}
	}

	return appointment, nil
}

func (uc *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}
	if appointment.Status == models.AppointmentStatusCancelled {
		return appointment, nil
	}
	if !transitionAllowed(appointment.Status, models.AppointmentStatusCancelled) {
		return nil, exceptions.ErrInvalidAppointmentStatus(fmt.Errorf("cannot cancel a %s appointment", appointment.Status))
	}

	cancelled, err := uc.AppointmentRepository.UpdateStatus(ctx, appointmentID, models.AppointmentStatusCancelled)
	if err != nil {
		return nil, err
	}
	if cancelled == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}

	uc.releaseSlotAfterCancellation(ctx, requestID, appointment.TimeSlotID)

	if publishErr := uc.Publisher.Publish(ctx, contracts.NotificationEvent{
		Type:          constvars.NotificationAppointmentCancelled,
		DoctorID:      cancelled.DoctorID,
		PatientID:     cancelled.PatientID,
		AppointmentID: appointmentID,
		SlotID:        cancelled.TimeSlotID,
	}); publishErr != nil {
		uc.Log.Warn("appointmentUsecase.CancelAppointment notification publish failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(publishErr),
		)
	}

	return cancelled, nil
}

// releaseSlotAfterCancellation frees the booked slot. Slots that came from a
// calendar import stay blocked instead of available, because the clinic never
// offered that interval itself.
func (uc *appointmentUsecase) releaseSlotAfterCancellation(ctx context.Context, requestID, slotID string) {
	slot, err := uc.SlotRepository.FindByID(ctx, slotID)
	if err != nil || slot == nil {
		uc.Log.Warn("appointmentUsecase slot lookup failed after cancellation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotIDKey, slotID),
			zap.Error(err),
		)
		return
	}

	target := models.SlotStatusAvailable
	if slot.ExternallyLinked() {
		target = models.SlotStatusBlocked
	}

	released, err := uc.SlotRepository.UpdateStatusIf(ctx, slotID, models.SlotStatusBooked, target)
	if err != nil {
		uc.Log.Error("appointmentUsecase failed to release slot after cancellation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotIDKey, slotID),
			zap.Error(err),
		)
		return
	}
	if released == nil {
		uc.Log.Warn("appointmentUsecase slot was not booked when released",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotIDKey, slotID),
		)
	}
}

func (uc *appointmentUsecase) DeleteAppointment(ctx context.Context, appointmentID string, releaseSlot bool) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.DeleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Bool("release_slot", releaseSlot),
	)

	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return exceptions.ErrAppointmentNotFound(nil)
	}

	if releaseSlot && appointment.Status.Active() {
		uc.releaseSlotAfterCancellation(ctx, requestID, appointment.TimeSlotID)
	}

	return uc.AppointmentRepository.Delete(ctx, appointmentID)
}

func (uc *appointmentUsecase) FindByDoctor(ctx context.Context, doctorIdentifier string) ([]models.Appointment, error) {
	doctor, err := uc.DoctorRepository.Resolve(ctx, doctorIdentifier)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}
	return uc.AppointmentRepository.FindByDoctor(ctx, doctor.ID.Hex())
}

func (uc *appointmentUsecase) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	patient, err := uc.PatientRepository.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotFound(nil)
	}
	return uc.AppointmentRepository.FindByPatient(ctx, patientID)
}
