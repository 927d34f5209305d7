package slots

import (
	"context"
	"testing"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestSlotUsecase(slotRepo *testutil.SlotRepo, templateRepo *testutil.TemplateRepo, doctorRepo *testutil.DoctorRepo) *slotUsecase {
	return &slotUsecase{
		SlotRepository:     slotRepo,
		TemplateRepository: templateRepo,
		DoctorRepository:   doctorRepo,
		InternalConfig:     &config.InternalConfig{App: config.App{SlotWindowDays: 14}},
		Log:                zap.NewNop(),
	}
}

func TestGenerateSlots(t *testing.T) {
	ctx := context.Background()
	// 2025-01-06 is a Monday
	template := []contracts.WeeklyTemplateWindow{
		{Weekday: 1, StartTime: "09:00", EndTime: "11:00", SlotDurationMinutes: 30},
	}

	t.Run("Generates Slots For Resolved Doctor", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		doctorRepo := testutil.NewDoctorRepo()
		doctorID := doctorRepo.Seed(models.Doctor{LicenseNumber: "LIC-100", Name: "Dr. A"})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), doctorRepo)

		created, err := uc.GenerateSlots(ctx, contracts.GenerateSlotsInput{
			DoctorIdentifier: doctorID,
			StartDate:        "2025-01-06",
			EndDate:          "2025-01-06",
			Template:         template,
		})
		assert.NoError(t, err)
		assert.Len(t, created, 4)
		for _, slot := range created {
			assert.False(t, slot.ID.IsZero(), "generated slots should carry their persisted id")
			assert.Equal(t, doctorID, slot.DoctorID)
		}
	})

	t.Run("Resolves Doctor By License Number", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		doctorRepo := testutil.NewDoctorRepo()
		doctorID := doctorRepo.Seed(models.Doctor{LicenseNumber: "LIC-200"})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), doctorRepo)

		created, err := uc.GenerateSlots(ctx, contracts.GenerateSlotsInput{
			DoctorIdentifier: "LIC-200",
			StartDate:        "2025-01-06",
			EndDate:          "2025-01-06",
			Template:         template,
		})
		assert.NoError(t, err)
		assert.Len(t, created, 4)
		assert.Equal(t, doctorID, created[0].DoctorID, "slots should be stored under the canonical doctor id")
	})

	t.Run("Unknown Doctor", func(t *testing.T) {
		uc := newTestSlotUsecase(testutil.NewSlotRepo(), testutil.NewTemplateRepo(), testutil.NewDoctorRepo())
		_, err := uc.GenerateSlots(ctx, contracts.GenerateSlotsInput{
			DoctorIdentifier: "nobody",
			StartDate:        "2025-01-06",
			EndDate:          "2025-01-06",
			Template:         template,
		})
		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("Skips Overlapping Existing Slots", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		doctorRepo := testutil.NewDoctorRepo()
		doctorID := doctorRepo.Seed(models.Doctor{LicenseNumber: "LIC-300"})
		slotRepo.Seed(models.TimeSlot{
			DoctorID: doctorID, Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusBooked,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), doctorRepo)

		created, err := uc.GenerateSlots(ctx, contracts.GenerateSlotsInput{
			DoctorIdentifier: doctorID,
			StartDate:        "2025-01-06",
			EndDate:          "2025-01-06",
			Template:         template,
		})
		assert.NoError(t, err)
		assert.Len(t, created, 3, "the window overlapping an existing slot should be skipped")
		for _, slot := range created {
			assert.NotEqual(t, "09:00", slot.StartTime)
		}
	})

	t.Run("Idempotent Rerun", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		doctorRepo := testutil.NewDoctorRepo()
		doctorID := doctorRepo.Seed(models.Doctor{LicenseNumber: "LIC-400"})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), doctorRepo)

		input := contracts.GenerateSlotsInput{
			DoctorIdentifier: doctorID,
			StartDate:        "2025-01-06",
			EndDate:          "2025-01-06",
			Template:         template,
		}
		first, err := uc.GenerateSlots(ctx, input)
		assert.NoError(t, err)
		assert.Len(t, first, 4)

		second, err := uc.GenerateSlots(ctx, input)
		assert.NoError(t, err)
		assert.Empty(t, second, "a second run over the same range should create nothing")
	})

	t.Run("Persist Stores Template", func(t *testing.T) {
		templateRepo := testutil.NewTemplateRepo()
		doctorRepo := testutil.NewDoctorRepo()
		doctorID := doctorRepo.Seed(models.Doctor{LicenseNumber: "LIC-500"})
		uc := newTestSlotUsecase(testutil.NewSlotRepo(), templateRepo, doctorRepo)

		_, err := uc.GenerateSlots(ctx, contracts.GenerateSlotsInput{
			DoctorIdentifier: doctorID,
			StartDate:        "2025-01-06",
			EndDate:          "2025-01-06",
			Template:         template,
			Persist:          true,
		})
		assert.NoError(t, err)

		stored, err := templateRepo.FindByDoctor(ctx, doctorID)
		assert.NoError(t, err)
		assert.Len(t, stored, 1)
		assert.Equal(t, "09:00", stored[0].StartTime)
	})

	t.Run("Invalid Template Rejected Before Writes", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		doctorRepo := testutil.NewDoctorRepo()
		doctorID := doctorRepo.Seed(models.Doctor{LicenseNumber: "LIC-600"})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), doctorRepo)

		_, err := uc.GenerateSlots(ctx, contracts.GenerateSlotsInput{
			DoctorIdentifier: doctorID,
			StartDate:        "2025-01-06",
			EndDate:          "2025-01-06",
			Template: []contracts.WeeklyTemplateWindow{
				{Weekday: 1, StartTime: "12:00", EndTime: "09:00", SlotDurationMinutes: 30},
			},
		})
		assert.Error(t, err)

		slots, _ := slotRepo.FindByDoctorAndRange(ctx, doctorID, "2025-01-01", "2025-12-31")
		assert.Empty(t, slots)
	})
}

func TestBlockAndReleaseSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("Block Available Slot", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusAvailable,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		blocked, err := uc.BlockSlot(ctx, slotID)
		assert.NoError(t, err)
		assert.Equal(t, models.SlotStatusBlocked, blocked.Status)
	})

	t.Run("Block Booked Slot Conflicts", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusBooked,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		_, err := uc.BlockSlot(ctx, slotID)
		assert.True(t, exceptions.IsConflict(err), "blocking a booked slot should be a conflict")
		assert.Equal(t, models.SlotStatusBooked, slotRepo.Get(slotID).Status, "the slot must keep its status")
	})

	t.Run("Block Missing Slot", func(t *testing.T) {
		uc := newTestSlotUsecase(testutil.NewSlotRepo(), testutil.NewTemplateRepo(), testutil.NewDoctorRepo())
		_, err := uc.BlockSlot(ctx, "65b2c91e8f1b2c3d4e5f6071")
		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("Release Blocked Slot", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusBlocked,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		released, err := uc.ReleaseSlot(ctx, slotID)
		assert.NoError(t, err)
		assert.Equal(t, models.SlotStatusAvailable, released.Status)
	})

	t.Run("Release Available Slot Conflicts", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusAvailable,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		_, err := uc.ReleaseSlot(ctx, slotID)
		assert.True(t, exceptions.IsConflict(err))
	})
}

func TestDeleteSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("Delete Available Slot", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusAvailable,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		err := uc.DeleteSlot(ctx, slotID, false)
		assert.NoError(t, err)
		assert.Nil(t, slotRepo.Get(slotID))
	})

	t.Run("Booked Slot Not Deletable", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusBooked,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		err := uc.DeleteSlot(ctx, slotID, false)
		assert.True(t, exceptions.IsConflict(err))
		assert.NotNil(t, slotRepo.Get(slotID))
	})

	t.Run("Booked Slot Not Deletable Even Forced", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status: models.SlotStatusBooked,
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		err := uc.DeleteSlot(ctx, slotID, true)
		assert.True(t, exceptions.IsConflict(err), "force applies to external links, never to bookings")
	})

	t.Run("Externally Linked Slot Requires Force", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		slotID := slotRepo.Seed(models.TimeSlot{
			DoctorID: "doc-1", Date: "2025-01-06",
			StartTime: "09:00", EndTime: "09:30",
			Status:          models.SlotStatusBlocked,
			ExternalEventID: "evt-1",
		})
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		err := uc.DeleteSlot(ctx, slotID, false)
		assert.True(t, exceptions.IsConflict(err))

		err = uc.DeleteSlot(ctx, slotID, true)
		assert.NoError(t, err)
		assert.Nil(t, slotRepo.Get(slotID))
	})

	t.Run("Missing Slot", func(t *testing.T) {
		uc := newTestSlotUsecase(testutil.NewSlotRepo(), testutil.NewTemplateRepo(), testutil.NewDoctorRepo())
		err := uc.DeleteSlot(ctx, "65b2c91e8f1b2c3d4e5f6071", false)
		assert.True(t, exceptions.IsNotFound(err))
	})
}

func TestHandleAutomatedSlotGeneration(t *testing.T) {
	ctx := context.Background()

	t.Run("Tops Up From Stored Template", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		templateRepo := testutil.NewTemplateRepo()
		templateRepo.ReplaceForDoctor(ctx, "doc-1", []models.AvailabilityTemplate{
			{DoctorID: "doc-1", Weekday: 1, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30},
		})
		uc := newTestSlotUsecase(slotRepo, templateRepo, testutil.NewDoctorRepo())

		err := uc.HandleAutomatedSlotGeneration(ctx, "doc-1")
		assert.NoError(t, err)

		slots, _ := slotRepo.FindByDoctorAndRange(ctx, "doc-1", "0000-01-01", "9999-12-31")
		assert.NotEmpty(t, slots, "a 14-day window containing a Monday should produce slots")
		for _, slot := range slots {
			assert.Equal(t, models.SlotStatusAvailable, slot.Status)
		}
	})

	t.Run("No Stored Template Is A NoOp", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		uc := newTestSlotUsecase(slotRepo, testutil.NewTemplateRepo(), testutil.NewDoctorRepo())

		err := uc.HandleAutomatedSlotGeneration(ctx, "doc-1")
		assert.NoError(t, err)

		slots, _ := slotRepo.FindByDoctorAndRange(ctx, "doc-1", "0000-01-01", "9999-12-31")
		assert.Empty(t, slots)
	})

	t.Run("Second Run Adds Nothing", func(t *testing.T) {
		slotRepo := testutil.NewSlotRepo()
		templateRepo := testutil.NewTemplateRepo()
		templateRepo.ReplaceForDoctor(ctx, "doc-1", []models.AvailabilityTemplate{
			{DoctorID: "doc-1", Weekday: 1, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30},
		})
		uc := newTestSlotUsecase(slotRepo, templateRepo, testutil.NewDoctorRepo())

		assert.NoError(t, uc.HandleAutomatedSlotGeneration(ctx, "doc-1"))
		first, _ := slotRepo.FindByDoctorAndRange(ctx, "doc-1", "0000-01-01", "9999-12-31")

		assert.NoError(t, uc.HandleAutomatedSlotGeneration(ctx, "doc-1"))
		second, _ := slotRepo.FindByDoctorAndRange(ctx, "doc-1", "0000-01-01", "9999-12-31")
		assert.Equal(t, len(first), len(second))
	})
}
