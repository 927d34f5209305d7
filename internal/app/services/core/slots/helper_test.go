package slots

import (
	"testing"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateTemplateWindows(t *testing.T) {
	t.Run("Valid Template", func(t *testing.T) {
		err := validateTemplateWindows([]contracts.WeeklyTemplateWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30},
			{Weekday: 1, StartTime: "13:00", EndTime: "17:00", SlotDurationMinutes: 30},
		})
		assert.NoError(t, err, "non-overlapping windows on the same weekday should be valid")
	})

	t.Run("Empty Template", func(t *testing.T) {
		err := validateTemplateWindows(nil)
		assert.Error(t, err, "a template with no windows should be rejected")
	})

	t.Run("Inverted Window", func(t *testing.T) {
		err := validateTemplateWindows([]contracts.WeeklyTemplateWindow{
			{Weekday: 1, StartTime: "12:00", EndTime: "09:00", SlotDurationMinutes: 30},
		})
		assert.Error(t, err, "a window ending before it starts should be rejected")
	})

	t.Run("Zero Length Window", func(t *testing.T) {
		err := validateTemplateWindows([]contracts.WeeklyTemplateWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "09:00", SlotDurationMinutes: 30},
		})
		assert.Error(t, err, "an empty window should be rejected")
	})

	t.Run("Weekday Out Of Range", func(t *testing.T) {
		err := validateTemplateWindows([]contracts.WeeklyTemplateWindow{
			{Weekday: 7, StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30},
		})
		assert.Error(t, err, "weekday 7 should be rejected")
	})

	t.Run("Non Positive Duration", func(t *testing.T) {
		err := validateTemplateWindows([]contracts.WeeklyTemplateWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 0},
		})
		assert.Error(t, err, "zero duration should be rejected")
	})

	t.Run("Overlapping Windows Same Weekday", func(t *testing.T) {
		err := validateTemplateWindows([]contracts.WeeklyTemplateWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30},
			{Weekday: 1, StartTime: "11:00", EndTime: "14:00", SlotDurationMinutes: 30},
		})
		assert.Error(t, err, "overlapping windows on the same weekday should be rejected")
	})

	t.Run("Same Times Different Weekday", func(t *testing.T) {
		err := validateTemplateWindows([]contracts.WeeklyTemplateWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30},
			{Weekday: 2, StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30},
		})
		assert.NoError(t, err, "identical windows on different weekdays should be valid")
	})
}

func TestExpandTemplateWindows(t *testing.T) {
	// 2025-01-06 is a Monday
	windows := []contracts.WeeklyTemplateWindow{
		{Weekday: 1, StartTime: "09:00", EndTime: "11:00", SlotDurationMinutes: 30},
	}

	t.Run("Single Monday", func(t *testing.T) {
		slots, err := expandTemplateWindows("doc-1", "2025-01-06", "2025-01-06", windows)
		assert.NoError(t, err)
		assert.Len(t, slots, 4, "a two-hour window should yield four 30-minute slots")
		assert.Equal(t, "09:00", slots[0].StartTime)
		assert.Equal(t, "09:30", slots[0].EndTime)
		assert.Equal(t, "10:30", slots[3].StartTime)
		assert.Equal(t, "11:00", slots[3].EndTime)
		for _, slot := range slots {
			assert.Equal(t, models.SlotStatusAvailable, slot.Status)
			assert.Equal(t, "2025-01-06", slot.Date)
			assert.Equal(t, "doc-1", slot.DoctorID)
		}
	})

	t.Run("Week Spanning Range", func(t *testing.T) {
		slots, err := expandTemplateWindows("doc-1", "2025-01-06", "2025-01-19", windows)
		assert.NoError(t, err)
		assert.Len(t, slots, 8, "two Mondays in range should yield eight slots")
		assert.Equal(t, "2025-01-06", slots[0].Date)
		assert.Equal(t, "2025-01-13", slots[4].Date)
	})

	t.Run("No Matching Weekday", func(t *testing.T) {
		// 2025-01-07 through 2025-01-12 contains no Monday
		slots, err := expandTemplateWindows("doc-1", "2025-01-07", "2025-01-12", windows)
		assert.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("Remainder Dropped", func(t *testing.T) {
		slots, err := expandTemplateWindows("doc-1", "2025-01-06", "2025-01-06", []contracts.WeeklyTemplateWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "10:15", SlotDurationMinutes: 30},
		})
		assert.NoError(t, err)
		assert.Len(t, slots, 2, "the trailing 15-minute remainder should be dropped")
		assert.Equal(t, "10:00", slots[1].EndTime)
	})

	t.Run("Inverted Date Range", func(t *testing.T) {
		_, err := expandTemplateWindows("doc-1", "2025-01-10", "2025-01-06", windows)
		assert.Error(t, err)
	})

	t.Run("Range Too Long", func(t *testing.T) {
		_, err := expandTemplateWindows("doc-1", "2025-01-06", "2027-01-06", windows)
		assert.Error(t, err)
	})
}

func TestOverlapsAny(t *testing.T) {
	existing := []models.TimeSlot{
		{Date: "2025-01-06", StartTime: "09:00", EndTime: "09:30"},
		{Date: "2025-01-07", StartTime: "09:00", EndTime: "09:30"},
	}

	t.Run("Exact Overlap", func(t *testing.T) {
		candidate := models.TimeSlot{Date: "2025-01-06", StartTime: "09:00", EndTime: "09:30"}
		assert.True(t, overlapsAny(&candidate, existing))
	})

	t.Run("Partial Overlap", func(t *testing.T) {
		candidate := models.TimeSlot{Date: "2025-01-06", StartTime: "09:15", EndTime: "09:45"}
		assert.True(t, overlapsAny(&candidate, existing))
	})

	t.Run("Adjacent Slot", func(t *testing.T) {
		candidate := models.TimeSlot{Date: "2025-01-06", StartTime: "09:30", EndTime: "10:00"}
		assert.False(t, overlapsAny(&candidate, existing), "back-to-back slots should not count as overlapping")
	})

	t.Run("Same Time Different Date", func(t *testing.T) {
		candidate := models.TimeSlot{Date: "2025-01-08", StartTime: "09:00", EndTime: "09:30"}
		assert.False(t, overlapsAny(&candidate, existing))
	})
}
