package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.New().String()
}

func GenerateLockToken() string {
	return uuid.New().String()
}

// GenerateSyncReportObjectName builds the object-storage key for one sync
// run report, partitioned by doctor and day.
func GenerateSyncReportObjectName(doctorID string, runTime time.Time) string {
	return fmt.Sprintf("sync-reports/%s/%s/%s.json",
		doctorID,
		runTime.Format("2006-01-02"),
		runTime.Format("150405.000000000"),
	)
}
