package slots

import (
	"fmt"
	"time"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/utils"
)

// maxGenerationRangeDays bounds one generation request so a bad date range
// cannot flood the collection.
const maxGenerationRangeDays = 366

func validateTemplateWindows(windows []contracts.WeeklyTemplateWindow) error {
	if len(windows) == 0 {
		return exceptions.ErrInvalidSlotTemplate(fmt.Errorf("template has no windows"))
	}

	for _, window := range windows {
		if window.Weekday < 0 || window.Weekday > 6 {
			return exceptions.ErrInvalidSlotTemplate(fmt.Errorf("weekday %d out of range", window.Weekday))
		}
		if window.SlotDurationMinutes <= 0 {
			return exceptions.ErrInvalidSlotTemplate(fmt.Errorf("non-positive slot duration %d", window.SlotDurationMinutes))
		}
		if _, err := utils.ParseSlotTime(window.StartTime); err != nil {
			return exceptions.ErrInvalidSlotTemplate(fmt.Errorf("malformed start time %q", window.StartTime))
		}
		if _, err := utils.ParseSlotTime(window.EndTime); err != nil {
			return exceptions.ErrInvalidSlotTemplate(fmt.Errorf("malformed end time %q", window.EndTime))
		}
		if window.StartTime >= window.EndTime {
			return exceptions.ErrInvalidSlotTemplate(fmt.Errorf("window %s-%s is empty or inverted", window.StartTime, window.EndTime))
		}
	}

	// windows on the same weekday must not overlap each other
	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			if windows[i].Weekday != windows[j].Weekday {
				continue
			}
			if windows[i].StartTime < windows[j].EndTime && windows[j].StartTime < windows[i].EndTime {
				return exceptions.ErrInvalidSlotTemplate(fmt.Errorf("overlapping windows on weekday %d", windows[i].Weekday))
			}
		}
	}
	return nil
}

// expandTemplateWindows walks every day of [startDate, endDate] and cuts the
// matching weekday windows into discrete slots. A trailing remainder shorter
// than the slot duration is dropped.
func expandTemplateWindows(doctorID, startDate, endDate string, windows []contracts.WeeklyTemplateWindow) ([]models.TimeSlot, error) {
	start, err := utils.ParseSlotDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseSlotDate(endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, exceptions.ErrInvalidDateRange(fmt.Errorf("start %s after end %s", startDate, endDate))
	}
	if end.Sub(start) > maxGenerationRangeDays*24*time.Hour {
		return nil, exceptions.ErrInvalidDateRange(fmt.Errorf("range longer than %d days", maxGenerationRangeDays))
	}

	var slots []models.TimeSlot
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(constvars.SlotDateLayout)
		for _, window := range windows {
			if int(day.Weekday()) != window.Weekday {
				continue
			}
			cursor := window.StartTime
			for {
				next, ok := utils.AddMinutesToClock(cursor, window.SlotDurationMinutes)
				if !ok || next > window.EndTime {
					break
				}
				slots = append(slots, models.TimeSlot{
					DoctorID:  doctorID,
					Date:      date,
					StartTime: cursor,
					EndTime:   next,
					Status:    models.SlotStatusAvailable,
					CreatedBy: constvars.SlotCreatedByGenerator,
				})
				cursor = next
			}
		}
	}
	return slots, nil
}

// overlapsAny reports whether candidate intersects any existing slot on the
// same date.
func overlapsAny(candidate *models.TimeSlot, existing []models.TimeSlot) bool {
	for i := range existing {
		if existing[i].Date != candidate.Date {
			continue
		}
		if existing[i].Overlaps(candidate.StartTime, candidate.EndTime) {
			return true
		}
	}
	return false
}

func windowsToTemplates(windows []contracts.WeeklyTemplateWindow) []models.AvailabilityTemplate {
	templates := make([]models.AvailabilityTemplate, 0, len(windows))
	for _, window := range windows {
		templates = append(templates, models.AvailabilityTemplate{
			Weekday:             time.Weekday(window.Weekday),
			StartTime:           window.StartTime,
			EndTime:             window.EndTime,
			SlotDurationMinutes: window.SlotDurationMinutes,
		})
	}
	return templates
}

func templatesToWindows(templates []models.AvailabilityTemplate) []contracts.WeeklyTemplateWindow {
	windows := make([]contracts.WeeklyTemplateWindow, 0, len(templates))
	for _, template := range templates {
		windows = append(windows, contracts.WeeklyTemplateWindow{
			Weekday:             int(template.Weekday),
			StartTime:           template.StartTime,
			EndTime:             template.EndTime,
			SlotDurationMinutes: template.SlotDurationMinutes,
		})
	}
	return windows
}
