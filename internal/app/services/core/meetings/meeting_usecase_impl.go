package meetings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type meetingUsecase struct {
	AppointmentRepository contracts.AppointmentRepository
	SlotRepository        contracts.SlotRepository
	DoctorRepository      contracts.DoctorRepository
	PatientRepository     contracts.PatientRepository
	CredentialService     contracts.CredentialService
	Log                   *zap.Logger
}

var (
	meetingUsecaseInstance contracts.MeetingUsecase
	onceMeetingUsecase     sync.Once
)

func NewMeetingUsecase(
	appointmentRepository contracts.AppointmentRepository,
	slotRepository contracts.SlotRepository,
	doctorRepository contracts.DoctorRepository,
	patientRepository contracts.PatientRepository,
	credentialService contracts.CredentialService,
	logger *zap.Logger,
) contracts.MeetingUsecase {
	onceMeetingUsecase.Do(func() {
		instance := &meetingUsecase{
			AppointmentRepository: appointmentRepository,
			SlotRepository:        slotRepository,
			DoctorRepository:      doctorRepository,
			PatientRepository:     patientRepository,
			CredentialService:     credentialService,
			Log:                   logger,
		}
		meetingUsecaseInstance = instance
	})
	return meetingUsecaseInstance
}

func (u *meetingUsecase) EnsureMeetingLink(ctx context.Context, appointmentID string) (*contracts.MeetingLinkResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.Log.Info("meetingUsecase.EnsureMeetingLink called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := u.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s not found", appointmentID))
	}
	if appointment.Type != models.AppointmentTypeVirtual {
		return nil, exceptions.ErrMeetingNotVirtual(fmt.Errorf("appointment %s is %s", appointmentID, appointment.Type))
	}
	if appointment.MeetingLink != "" {
		u.Log.Info("meetingUsecase.EnsureMeetingLink link already provisioned",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		)
		return &contracts.MeetingLinkResult{Link: appointment.MeetingLink, EventID: appointment.MeetingEventID}, nil
	}

	slot, err := u.SlotRepository.FindByID(ctx, appointment.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, exceptions.ErrSlotNotFound(fmt.Errorf("slot %s not found for appointment %s", appointment.TimeSlotID, appointmentID))
	}

	doctor, err := u.DoctorRepository.FindByID(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(fmt.Errorf("doctor %s not found", appointment.DoctorID))
	}

	loc := time.UTC
	if doctor.Timezone != "" {
		if parsed, locErr := time.LoadLocation(doctor.Timezone); locErr == nil {
			loc = parsed
		}
	}
	start, err := utils.CombineDateAndClock(slot.Date, slot.StartTime, loc)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	end, err := utils.CombineDateAndClock(slot.Date, slot.EndTime, loc)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}

	attendees := []string{}
	if doctor.Email != "" {
		attendees = append(attendees, doctor.Email)
	}
	if patient, patientErr := u.PatientRepository.FindByID(ctx, appointment.PatientID); patientErr == nil && patient != nil && patient.Email != "" {
		attendees = append(attendees, patient.Email)
	}

	client, err := u.CredentialService.GetAccessHandle(ctx, appointment.DoctorID)
	if err != nil {
		return nil, err
	}
	event, err := client.CreateEvent(ctx, contracts.CreateEventInput{
		Summary:        fmt.Sprintf("Virtual consultation with %s", doctor.Name),
		Description:    appointment.ReasonForVisit,
		Start:          start,
		End:            end,
		Attendees:      attendees,
		WithConference: true,
	})
	if err != nil && exceptions.IsExternalService(err) {
		// one retry on a freshly exchanged credential
		if client, err = u.CredentialService.GetAccessHandle(ctx, appointment.DoctorID); err == nil {
			event, err = client.CreateEvent(ctx, contracts.CreateEventInput{
				Summary:        fmt.Sprintf("Virtual consultation with %s", doctor.Name),
				Description:    appointment.ReasonForVisit,
				Start:          start,
				End:            end,
				Attendees:      attendees,
				WithConference: true,
			})
		}
	}
	if err != nil {
		return nil, err
	}
	if event.MeetingLink == "" {
		return nil, exceptions.ErrCalendarDecode(errors.New("provider returned an event without a conference link"))
	}

	updated, err := u.AppointmentRepository.SetMeetingLink(ctx, appointmentID, event.MeetingLink, event.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s vanished during provisioning", appointmentID))
	}

	u.Log.Info("meetingUsecase.EnsureMeetingLink provisioned",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingEventIDKey, event.ID),
	)
	return &contracts.MeetingLinkResult{Link: event.MeetingLink, EventID: event.ID}, nil
}
