package utils

import (
	"net/http"
	"time"

	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
)

func ParseJSONBody(r *http.Request, maxBodyBytes int64, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

// ParseDateRangeQuery reads start_date and end_date query parameters,
// defaulting to today through today+defaultWindowDays when absent.
func ParseDateRangeQuery(r *http.Request, defaultWindowDays int) (startDate, endDate string, err error) {
	startDate = r.URL.Query().Get("start_date")
	endDate = r.URL.Query().Get("end_date")

	if startDate == "" && endDate == "" {
		now := time.Now()
		startDate = now.Format(constvars.SlotDateLayout)
		endDate = now.AddDate(0, 0, defaultWindowDays).Format(constvars.SlotDateLayout)
		return startDate, endDate, nil
	}

	if _, parseErr := time.Parse(constvars.SlotDateLayout, startDate); parseErr != nil {
		return "", "", exceptions.ErrInvalidDateRange(parseErr)
	}
	if _, parseErr := time.Parse(constvars.SlotDateLayout, endDate); parseErr != nil {
		return "", "", exceptions.ErrInvalidDateRange(parseErr)
	}
	if startDate > endDate {
		return "", "", exceptions.ErrInvalidDateRange(nil)
	}
	return startDate, endDate, nil
}
