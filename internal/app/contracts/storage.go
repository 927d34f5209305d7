package contracts

import "context"

// SyncReportStorage archives the JSON report of one sync run to object
// storage. Best-effort: callers log failures and move on.
type SyncReportStorage interface {
	ArchiveSyncReport(ctx context.Context, doctorID string, report []byte) (objectName string, err error)
}
