package utils

import (
	"time"

	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"
)

func ParseSlotDate(date string) (time.Time, error) {
	parsed, err := time.Parse(constvars.SlotDateLayout, date)
	if err != nil {
		return time.Time{}, exceptions.ErrCannotParseDate(err)
	}
	return parsed, nil
}

func ParseSlotTime(clock string) (time.Time, error) {
	parsed, err := time.Parse(constvars.SlotTimeLayout, clock)
	if err != nil {
		return time.Time{}, exceptions.ErrCannotParseDate(err)
	}
	return parsed, nil
}

// AddMinutesToClock advances a wall-clock "15:04" value, capped at midnight.
// The second return is false when the result would cross into the next day.
func AddMinutesToClock(clock string, minutes int) (string, bool) {
	parsed, err := time.Parse(constvars.SlotTimeLayout, clock)
	if err != nil {
		return "", false
	}
	advanced := parsed.Add(time.Duration(minutes) * time.Minute)
	if advanced.Day() != parsed.Day() {
		return "", false
	}
	return advanced.Format(constvars.SlotTimeLayout), true
}

// CombineDateAndClock resolves a slot's date and wall-clock time into an
// absolute instant in the given location.
func CombineDateAndClock(date, clock string, loc *time.Location) (time.Time, error) {
	combined, err := time.ParseInLocation(constvars.SlotDateLayout+" "+constvars.SlotTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, exceptions.ErrCannotParseDate(err)
	}
	return combined, nil
}
