package contracts

import (
	"clinicore-service/internal/app/models"
	"context"
)

// WeeklyTemplateWindow is one recurring window of a doctor's weekly
// availability template.
type WeeklyTemplateWindow struct {
	Weekday             int    `json:"weekday"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
}

type GenerateSlotsInput struct {
	DoctorIdentifier string
	StartDate        string
	EndDate          string
	Template         []WeeklyTemplateWindow
	// Persist stores the template windows so the top-up worker can keep
	// generating beyond the requested range.
	Persist bool
}

// SlotRepository owns TimeSlot documents. All status transitions go through
// UpdateStatusIf, a predicate-conditioned update executed atomically by the
// storage engine; read-then-write transitions are forbidden.
type SlotRepository interface {
	Insert(ctx context.Context, slot *models.TimeSlot) (string, error)
	FindByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	FindByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.TimeSlot, error)
	FindByDoctorAndRange(ctx context.Context, doctorID, startDate, endDate string) ([]models.TimeSlot, error)
	FindByExternalEventID(ctx context.Context, doctorID, externalEventID string) (*models.TimeSlot, error)
	FindUnlinkedForExport(ctx context.Context, doctorID, startDate, endDate string) ([]models.TimeSlot, error)

	// UpdateStatusIf sets status to "to" only if the current status equals
	// "from". Returns the updated slot, or nil when the predicate did not
	// match (the caller lost the race).
	UpdateStatusIf(ctx context.Context, slotID string, from, to models.SlotStatus) (*models.TimeSlot, error)

	// UpdateFromExternal rewrites time bounds and status from an external
	// event, guarded on the expected prior status.
	UpdateFromExternal(ctx context.Context, slotID string, expected models.SlotStatus, patch SlotExternalPatch) (*models.TimeSlot, error)

	SetExternalEventID(ctx context.Context, slotID, externalEventID string) error
	Delete(ctx context.Context, slotID string) error
}

// SlotExternalPatch carries the fields calendar import may rewrite.
type SlotExternalPatch struct {
	Date      string
	StartTime string
	EndTime   string
	Status    models.SlotStatus
}

type SlotUsecase interface {
	GenerateSlots(ctx context.Context, input GenerateSlotsInput) ([]models.TimeSlot, error)
	ListSlots(ctx context.Context, doctorIdentifier, startDate, endDate string) ([]models.TimeSlot, error)
	BlockSlot(ctx context.Context, slotID string) (*models.TimeSlot, error)
	ReleaseSlot(ctx context.Context, slotID string) (*models.TimeSlot, error)
	DeleteSlot(ctx context.Context, slotID string, force bool) error

	// HandleAutomatedSlotGeneration tops up the rolling slot window for one
	// doctor from their stored weekly template. Called by the background
	// worker; doctors without a stored template are skipped.
	HandleAutomatedSlotGeneration(ctx context.Context, doctorID string) error
}
