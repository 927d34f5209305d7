package meetings

import (
	"context"
	"errors"
	"testing"

	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type meetingFixture struct {
	appointmentRepo *testutil.AppointmentRepo
	slotRepo        *testutil.SlotRepo
	doctorRepo      *testutil.DoctorRepo
	patientRepo     *testutil.PatientRepo
	calendar        *testutil.Calendar
	credentials     *testutil.CredentialService
	usecase         *meetingUsecase
	doctorID        string
	patientID       string
	slotID          string
}

func newMeetingFixture() *meetingFixture {
	f := &meetingFixture{
		appointmentRepo: testutil.NewAppointmentRepo(),
		slotRepo:        testutil.NewSlotRepo(),
		doctorRepo:      testutil.NewDoctorRepo(),
		patientRepo:     testutil.NewPatientRepo(),
		calendar:        testutil.NewCalendar(),
	}
	f.credentials = testutil.NewCredentialService(f.calendar)
	f.doctorID = f.doctorRepo.Seed(models.Doctor{Name: "Dr. Meet", Email: "doctor@example.com", Timezone: "UTC"})
	f.patientID = f.patientRepo.Seed(models.Patient{Name: "Pat", Email: "pat@example.com"})
	f.slotID = f.slotRepo.Seed(models.TimeSlot{
		DoctorID: f.doctorID, Date: "2025-01-06", StartTime: "09:00", EndTime: "09:30",
		Status: models.SlotStatusBooked,
	})
	f.usecase = &meetingUsecase{
		AppointmentRepository: f.appointmentRepo,
		SlotRepository:        f.slotRepo,
		DoctorRepository:      f.doctorRepo,
		PatientRepository:     f.patientRepo,
		CredentialService:     f.credentials,
		Log:                   zap.NewNop(),
	}
	return f
}

func (f *meetingFixture) seedAppointment(appointmentType models.AppointmentType) string {
	return f.appointmentRepo.Seed(models.Appointment{
		DoctorID:   f.doctorID,
		PatientID:  f.patientID,
		TimeSlotID: f.slotID,
		Status:     models.AppointmentStatusScheduled,
		Type:       appointmentType,
	})
}

func TestEnsureMeetingLink(t *testing.T) {
	ctx := context.Background()

	t.Run("Provisions Link For Virtual Appointment", func(t *testing.T) {
		f := newMeetingFixture()
		appointmentID := f.seedAppointment(models.AppointmentTypeVirtual)

		result, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.NoError(t, err)
		assert.Equal(t, "https://meet.example.com/abc", result.Link)
		assert.NotEmpty(t, result.EventID)

		stored, _ := f.appointmentRepo.FindByID(ctx, appointmentID)
		assert.Equal(t, result.Link, stored.MeetingLink)
		assert.Equal(t, result.EventID, stored.MeetingEventID)
	})

	t.Run("Conference Event Carries Slot Bounds And Attendees", func(t *testing.T) {
		f := newMeetingFixture()
		appointmentID := f.seedAppointment(models.AppointmentTypeVirtual)

		_, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.NoError(t, err)
		assert.Len(t, f.calendar.CreatedInputs, 1)

		input := f.calendar.CreatedInputs[0]
		assert.True(t, input.WithConference)
		assert.Equal(t, "2025-01-06T09:00:00Z", input.Start.UTC().Format("2006-01-02T15:04:05Z"))
		assert.Equal(t, "2025-01-06T09:30:00Z", input.End.UTC().Format("2006-01-02T15:04:05Z"))
		assert.Contains(t, input.Attendees, "doctor@example.com")
		assert.Contains(t, input.Attendees, "pat@example.com")
	})

	t.Run("Second Call Returns The Existing Link", func(t *testing.T) {
		f := newMeetingFixture()
		appointmentID := f.seedAppointment(models.AppointmentTypeVirtual)

		first, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.NoError(t, err)
		second, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.NoError(t, err)

		assert.Equal(t, first.Link, second.Link)
		assert.Equal(t, first.EventID, second.EventID)
		assert.Len(t, f.calendar.CreatedInputs, 1, "no second provider event should be created")
	})

	t.Run("In Person Appointment Is Rejected", func(t *testing.T) {
		f := newMeetingFixture()
		appointmentID := f.seedAppointment(models.AppointmentTypeInPerson)

		_, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.Error(t, err)
		assert.Empty(t, f.calendar.CreatedInputs)
	})

	t.Run("Unknown Appointment Is Rejected", func(t *testing.T) {
		f := newMeetingFixture()
		_, err := f.usecase.EnsureMeetingLink(ctx, "64b0c8c6f1e8a40001000000")
		assert.Error(t, err)
		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("Missing Credential Propagates Reconnect Error", func(t *testing.T) {
		f := newMeetingFixture()
		appointmentID := f.seedAppointment(models.AppointmentTypeVirtual)
		f.credentials.HandleErr = exceptions.ErrCredentialNotStored(errors.New("no credential"))

		_, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.Error(t, err)
		assert.True(t, exceptions.IsCredential(err))
	})

	t.Run("Transient Provider Failure Is Retried Once", func(t *testing.T) {
		f := newMeetingFixture()
		appointmentID := f.seedAppointment(models.AppointmentTypeVirtual)
		f.calendar.CreateErr = exceptions.ErrCalendarRequest(errors.New("upstream 503"))

		result, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.NoError(t, err)
		assert.NotEmpty(t, result.Link)
	})

	t.Run("Persistent Provider Failure Propagates", func(t *testing.T) {
		f := newMeetingFixture()
		appointmentID := f.seedAppointment(models.AppointmentTypeVirtual)
		f.calendar.CreateErr = exceptions.ErrCalendarRequest(errors.New("upstream down"))
		f.calendar.FailAlways = true

		_, err := f.usecase.EnsureMeetingLink(ctx, appointmentID)
		assert.Error(t, err)
		assert.True(t, exceptions.IsExternalService(err))

		stored, _ := f.appointmentRepo.FindByID(ctx, appointmentID)
		assert.Empty(t, stored.MeetingLink)
	})
}
