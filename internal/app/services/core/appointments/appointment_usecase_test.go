package appointments

import (
	"context"
	"sync"
	"testing"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fixture struct {
	slotRepo        *testutil.SlotRepo
	appointmentRepo *testutil.AppointmentRepo
	doctorRepo      *testutil.DoctorRepo
	patientRepo     *testutil.PatientRepo
	publisher       *testutil.Publisher
	uc              *appointmentUsecase

	doctorID  string
	patientID string
}

func newFixture() *fixture {
	f := &fixture{
		slotRepo:        testutil.NewSlotRepo(),
		appointmentRepo: testutil.NewAppointmentRepo(),
		doctorRepo:      testutil.NewDoctorRepo(),
		patientRepo:     testutil.NewPatientRepo(),
		publisher:       testutil.NewPublisher(),
	}
	f.doctorID = f.doctorRepo.Seed(models.Doctor{LicenseNumber: "LIC-1", Name: "Dr. A"})
	f.patientID = f.patientRepo.Seed(models.Patient{Name: "Pat"})
	f.uc = &appointmentUsecase{
		AppointmentRepository: f.appointmentRepo,
		SlotRepository:        f.slotRepo,
		DoctorRepository:      f.doctorRepo,
		PatientRepository:     f.patientRepo,
		Publisher:             f.publisher,
		Log:                   zap.NewNop(),
	}
	return f
}

func (f *fixture) seedSlot(status models.SlotStatus) string {
	return f.slotRepo.Seed(models.TimeSlot{
		DoctorID: f.doctorID, Date: "2025-01-06",
		StartTime: "09:00", EndTime: "09:30",
		Status: status,
	})
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Books Available Slot", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)

		appointment, err := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusScheduled, appointment.Status)
		assert.Equal(t, models.SlotStatusBooked, f.slotRepo.Get(slotID).Status)
		assert.Equal(t, []string{constvars.NotificationAppointmentBooked}, f.publisher.EventTypes())
	})

	t.Run("Booked Slot Conflicts", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusBooked)

		_, err := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})
		assert.True(t, exceptions.IsConflict(err))
	})

	t.Run("Blocked Slot Conflicts", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusBlocked)

		_, err := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})
		assert.True(t, exceptions.IsConflict(err))
	})

	t.Run("Concurrent Bookings Single Winner", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)

		const racers = 8
		var wg sync.WaitGroup
		errs := make([]error, racers)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
					DoctorIdentifier: f.doctorID,
					PatientID:        f.patientID,
					TimeSlotID:       slotID,
					Type:             models.AppointmentTypeInPerson,
				})
			}(i)
		}
		wg.Wait()

		var winners, conflicts int
		for _, err := range errs {
			if err == nil {
				winners++
			} else if exceptions.IsConflict(err) {
				conflicts++
			}
		}
		assert.Equal(t, 1, winners, "exactly one booking should win the race")
		assert.Equal(t, racers-1, conflicts, "every loser should see a conflict")
		assert.Equal(t, models.SlotStatusBooked, f.slotRepo.Get(slotID).Status)
	})

	t.Run("Slot Of Other Doctor Rejected", func(t *testing.T) {
		f := newFixture()
		otherSlotID := f.slotRepo.Seed(models.TimeSlot{
			DoctorID: "someone-else", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusAvailable,
		})

		_, err := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       otherSlotID,
			Type:             models.AppointmentTypeInPerson,
		})
		assert.Error(t, err)
		assert.Equal(t, models.SlotStatusAvailable, f.slotRepo.Get(otherSlotID).Status, "a rejected booking must not claim the slot")
	})

	t.Run("Unknown Patient", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)

		_, err := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        "65b2c91e8f1b2c3d4e5f6071",
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})
		assert.True(t, exceptions.IsNotFound(err))
		assert.Equal(t, models.SlotStatusAvailable, f.slotRepo.Get(slotID).Status)
	})

	t.Run("Publish Failure Does Not Fail Booking", func(t *testing.T) {
		f := newFixture()
		f.publisher.Err = assert.AnError
		slotID := f.seedSlot(models.SlotStatusAvailable)

		appointment, err := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeVirtual,
		})
		assert.NoError(t, err, "notification failures are best-effort")
		assert.NotNil(t, appointment)
	})
}

func TestUpdateAppointment(t *testing.T) {
	ctx := context.Background()

	book := func(f *fixture) (string, string) {
		slotID := f.seedSlot(models.SlotStatusAvailable)
		appointment, _ := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})
		return appointment.ID.Hex(), slotID
	}

	t.Run("Linear Progression", func(t *testing.T) {
		f := newFixture()
		appointmentID, _ := book(f)

		for _, status := range []models.AppointmentStatus{
			models.AppointmentStatusCheckedIn,
			models.AppointmentStatusInProgress,
			models.AppointmentStatusCompleted,
		} {
			updated, err := f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: status})
			assert.NoError(t, err, "transition to %s should be allowed", status)
			assert.Equal(t, status, updated.Status)
		}
	})

	t.Run("Skipping States Rejected", func(t *testing.T) {
		f := newFixture()
		appointmentID, _ := book(f)

		_, err := f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{
			Status: models.AppointmentStatusCompleted,
		})
		assert.Error(t, err, "scheduled cannot jump straight to completed")
	})

	t.Run("Completed Slot Stays Booked", func(t *testing.T) {
		f := newFixture()
		appointmentID, slotID := book(f)

		f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: models.AppointmentStatusCheckedIn})
		f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: models.AppointmentStatusInProgress})
		_, err := f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: models.AppointmentStatusCompleted})
		assert.NoError(t, err)
		assert.Equal(t, models.SlotStatusBooked, f.slotRepo.Get(slotID).Status, "completion must not free the slot")
	})

	t.Run("No Show Keeps Slot Booked", func(t *testing.T) {
		f := newFixture()
		appointmentID, slotID := book(f)

		_, err := f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: models.AppointmentStatusNoShow})
		assert.NoError(t, err)
		assert.Equal(t, models.SlotStatusBooked, f.slotRepo.Get(slotID).Status)
	})

	t.Run("Update Reason Only", func(t *testing.T) {
		f := newFixture()
		appointmentID, _ := book(f)

		reason := "follow-up"
		updated, err := f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{ReasonForVisit: &reason})
		assert.NoError(t, err)
		assert.Equal(t, "follow-up", updated.ReasonForVisit)
		assert.Equal(t, models.AppointmentStatusScheduled, updated.Status)
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		f := newFixture()
		appointmentID, _ := book(f)

		_, err := f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: "resting"})
		assert.Error(t, err)
	})

	t.Run("Missing Appointment", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.UpdateAppointment(ctx, "65b2c91e8f1b2c3d4e5f6071", contracts.UpdateAppointmentInput{
			Status: models.AppointmentStatusCheckedIn,
		})
		assert.True(t, exceptions.IsNotFound(err))
	})
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancel Releases Slot", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)
		appointment, _ := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})

		cancelled, err := f.uc.CancelAppointment(ctx, appointment.ID.Hex())
		assert.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusCancelled, cancelled.Status)
		assert.Equal(t, models.SlotStatusAvailable, f.slotRepo.Get(slotID).Status, "cancellation should free the slot")
		assert.Contains(t, f.publisher.EventTypes(), constvars.NotificationAppointmentCancelled)
	})

	t.Run("Cancel On Imported Slot Blocks Instead", func(t *testing.T) {
		f := newFixture()
		slotID := f.slotRepo.Seed(models.TimeSlot{
			DoctorID: f.doctorID, Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status:          models.SlotStatusAvailable,
			ExternalEventID: "evt-9",
		})
		appointment, _ := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})

		_, err := f.uc.CancelAppointment(ctx, appointment.ID.Hex())
		assert.NoError(t, err)
		assert.Equal(t, models.SlotStatusBlocked, f.slotRepo.Get(slotID).Status,
			"a slot tied to an external event must not reopen for booking")
	})

	t.Run("Cancel Twice Is Idempotent", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)
		appointment, _ := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})

		_, err := f.uc.CancelAppointment(ctx, appointment.ID.Hex())
		assert.NoError(t, err)

		again, err := f.uc.CancelAppointment(ctx, appointment.ID.Hex())
		assert.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusCancelled, again.Status)
	})

	t.Run("Completed Appointment Cannot Be Cancelled", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)
		appointment, _ := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})
		appointmentID := appointment.ID.Hex()
		f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: models.AppointmentStatusCheckedIn})
		f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: models.AppointmentStatusInProgress})
		f.uc.UpdateAppointment(ctx, appointmentID, contracts.UpdateAppointmentInput{Status: models.AppointmentStatusCompleted})

		_, err := f.uc.CancelAppointment(ctx, appointmentID)
		assert.Error(t, err)
	})
}

func TestDeleteAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Delete Without Releasing Slot", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)
		appointment, _ := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})

		err := f.uc.DeleteAppointment(ctx, appointment.ID.Hex(), false)
		assert.NoError(t, err)
		assert.Equal(t, models.SlotStatusBooked, f.slotRepo.Get(slotID).Status)

		gone, _ := f.appointmentRepo.FindByID(ctx, appointment.ID.Hex())
		assert.Nil(t, gone)
	})

	t.Run("Delete With Slot Release", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)
		appointment, _ := f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: f.doctorID,
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})

		err := f.uc.DeleteAppointment(ctx, appointment.ID.Hex(), true)
		assert.NoError(t, err)
		assert.Equal(t, models.SlotStatusAvailable, f.slotRepo.Get(slotID).Status)
	})

	t.Run("Missing Appointment", func(t *testing.T) {
		f := newFixture()
		err := f.uc.DeleteAppointment(ctx, "65b2c91e8f1b2c3d4e5f6071", false)
		assert.True(t, exceptions.IsNotFound(err))
	})
}

func TestFindAppointments(t *testing.T) {
	ctx := context.Background()

	t.Run("By Doctor And Patient", func(t *testing.T) {
		f := newFixture()
		slotID := f.seedSlot(models.SlotStatusAvailable)
		f.uc.CreateAppointment(ctx, contracts.CreateAppointmentInput{
			DoctorIdentifier: "LIC-1",
			PatientID:        f.patientID,
			TimeSlotID:       slotID,
			Type:             models.AppointmentTypeInPerson,
		})

		byDoctor, err := f.uc.FindByDoctor(ctx, "LIC-1")
		assert.NoError(t, err)
		assert.Len(t, byDoctor, 1)

		byPatient, err := f.uc.FindByPatient(ctx, f.patientID)
		assert.NoError(t, err)
		assert.Len(t, byPatient, 1)
	})

	t.Run("Unknown Doctor", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.FindByDoctor(ctx, "nobody")
		assert.True(t, exceptions.IsNotFound(err))
	})
}
