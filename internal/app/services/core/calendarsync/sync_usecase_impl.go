package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	stageImport = "import"
	stageExport = "export"

	exportedEventSummary = "Clinic appointment"
)

type syncUsecase struct {
	SlotRepository        contracts.SlotRepository
	DoctorRepository      contracts.DoctorRepository
	CredentialService     contracts.CredentialService
	LockerService         contracts.LockerService
	ReportStorage         contracts.SyncReportStorage
	NotificationPublisher contracts.NotificationPublisher
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	syncUsecaseInstance contracts.SyncUsecase
	onceSyncUsecase     sync.Once
)

func NewSyncUsecase(
	slotRepository contracts.SlotRepository,
	doctorRepository contracts.DoctorRepository,
	credentialService contracts.CredentialService,
	lockerService contracts.LockerService,
	reportStorage contracts.SyncReportStorage,
	notificationPublisher contracts.NotificationPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SyncUsecase {
	onceSyncUsecase.Do(func() {
		instance := &syncUsecase{
			SlotRepository:        slotRepository,
			DoctorRepository:      doctorRepository,
			CredentialService:     credentialService,
			LockerService:         lockerService,
			ReportStorage:         reportStorage,
			NotificationPublisher: notificationPublisher,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
		syncUsecaseInstance = instance
	})
	return syncUsecaseInstance
}

func (u *syncUsecase) ImportFromExternal(ctx context.Context, doctorIdentifier, startDate, endDate string) (*contracts.SyncSummary, error) {
	return u.run(ctx, doctorIdentifier, startDate, endDate, true, false)
}

func (u *syncUsecase) ExportToExternal(ctx context.Context, doctorIdentifier, startDate, endDate string) (*contracts.SyncSummary, error) {
	return u.run(ctx, doctorIdentifier, startDate, endDate, false, true)
}

func (u *syncUsecase) Sync(ctx context.Context, doctorIdentifier, startDate, endDate string) (*contracts.SyncSummary, error) {
	return u.run(ctx, doctorIdentifier, startDate, endDate, true, true)
}

func (u *syncUsecase) run(ctx context.Context, doctorIdentifier, startDate, endDate string, doImport, doExport bool) (*contracts.SyncSummary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	u.Log.Info("syncUsecase.run called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorIdentifier),
		zap.String(constvars.LoggingRangeStartKey, startDate),
		zap.String(constvars.LoggingRangeEndKey, endDate),
	)

	doctor, err := u.DoctorRepository.Resolve(ctx, doctorIdentifier)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(fmt.Errorf("doctor %s not found", doctorIdentifier))
	}
	doctorID := doctor.ID.Hex()

	if _, err := utils.ParseSlotDate(startDate); err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	if _, err := utils.ParseSlotDate(endDate); err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	if endDate < startDate {
		return nil, exceptions.ErrInvalidDateRange(fmt.Errorf("end date %s precedes start date %s", endDate, startDate))
	}

	lockKey := fmt.Sprintf("calsync:doctor:%s", doctorID)
	lockTTL := time.Duration(u.InternalConfig.Sync.LockTTLInSeconds) * time.Second
	acquired, lockValue, err := u.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrSyncAlreadyRunning(errors.New("another sync run holds the doctor lock"))
	}
	defer func() {
		if unlockErr := u.LockerService.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			u.Log.Warn("syncUsecase.run failed to release lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(unlockErr),
			)
		}
	}()

	session := &calendarSession{usecase: u, doctorID: doctorID}
	if err := session.connect(ctx); err != nil {
		return nil, err
	}

	loc := doctorLocation(doctor)
	summary := &contracts.SyncSummary{}

	if doImport {
		if err := u.runImport(ctx, doctor, session, loc, startDate, endDate, summary); err != nil {
			return nil, err
		}
	}
	if doExport {
		if err := u.runExport(ctx, doctorID, session, loc, startDate, endDate, summary); err != nil {
			return nil, err
		}
	}

	u.archiveReport(ctx, doctorID, summary)
	u.notifyFailures(ctx, doctorID, summary)

	u.Log.Info("syncUsecase.run finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int(constvars.LoggingImportedKey, summary.Imported),
		zap.Int(constvars.LoggingExportedKey, summary.Exported),
		zap.Int(constvars.LoggingConflictsKey, summary.Conflicts),
		zap.Int(constvars.LoggingFailuresKey, len(summary.Failures)),
	)
	return summary, nil
}

func (u *syncUsecase) runImport(ctx context.Context, doctor *models.Doctor, session *calendarSession, loc *time.Location, startDate, endDate string, summary *contracts.SyncSummary) error {
	doctorID := doctor.ID.Hex()
	from, err := utils.CombineDateAndClock(startDate, "00:00", loc)
	if err != nil {
		return exceptions.ErrCannotParseDate(err)
	}
	to, err := utils.CombineDateAndClock(endDate, "23:59", loc)
	if err != nil {
		return exceptions.ErrCannotParseDate(err)
	}

	events, err := session.listEvents(ctx, from, to)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := u.applyExternalEvent(ctx, doctorID, event, loc, summary); err != nil {
			return err
		}
	}
	return nil
}

// applyExternalEvent reconciles one external event against local slot state.
// Only storage errors abort the run; everything event-shaped lands in the
// summary as a failure or a conflict.
func (u *syncUsecase) applyExternalEvent(ctx context.Context, doctorID string, event contracts.CalendarEvent, loc *time.Location, summary *contracts.SyncSummary) error {
	existing, err := u.SlotRepository.FindByExternalEventID(ctx, doctorID, event.ID)
	if err != nil {
		return err
	}

	if event.Cancelled {
		return u.applyCancelledEvent(ctx, event, existing, summary)
	}

	eventStart := event.Start.In(loc)
	eventEnd := event.End.In(loc)
	date := eventStart.Format(constvars.SlotDateLayout)
	if eventEnd.Format(constvars.SlotDateLayout) != date {
		summary.Failures = append(summary.Failures, contracts.SyncFailure{
			EventID: event.ID,
			Stage:   stageImport,
			Reason:  "event spans multiple days",
		})
		return nil
	}
	startClock := eventStart.Format(constvars.SlotTimeLayout)
	endClock := eventEnd.Format(constvars.SlotTimeLayout)
	if endClock <= startClock {
		summary.Failures = append(summary.Failures, contracts.SyncFailure{
			EventID: event.ID,
			Stage:   stageImport,
			Reason:  "event has a non-positive duration",
		})
		return nil
	}

	status := models.SlotStatusBlocked
	if u.InternalConfig.Sync.ImportBookedWhenAttendees && len(event.Attendees) > 0 {
		status = models.SlotStatusBooked
	}

	if existing == nil {
		return u.createImportedSlot(ctx, doctorID, event.ID, date, startClock, endClock, status, summary)
	}

	if existing.Date == date && existing.StartTime == startClock && existing.EndTime == endClock && existing.Status == status {
		return nil
	}
	if existing.Status == models.SlotStatusBooked && status != models.SlotStatusBooked {
		// a local booking always wins over an external edit
		summary.Conflicts++
		summary.Failures = append(summary.Failures, contracts.SyncFailure{
			EventID: event.ID,
			SlotID:  existing.ID.Hex(),
			Stage:   stageImport,
			Reason:  "slot is booked locally; external change not applied",
		})
		return nil
	}

	updated, err := u.SlotRepository.UpdateFromExternal(ctx, existing.ID.Hex(), existing.Status, contracts.SlotExternalPatch{
		Date:      date,
		StartTime: startClock,
		EndTime:   endClock,
		Status:    status,
	})
	if err != nil {
		return err
	}
	if updated == nil {
		summary.Conflicts++
		summary.Failures = append(summary.Failures, contracts.SyncFailure{
			EventID: event.ID,
			SlotID:  existing.ID.Hex(),
			Stage:   stageImport,
			Reason:  "slot changed concurrently; external change not applied",
		})
		return nil
	}
	summary.Imported++
	return nil
}

func (u *syncUsecase) applyCancelledEvent(ctx context.Context, event contracts.CalendarEvent, existing *models.TimeSlot, summary *contracts.SyncSummary) error {
	if existing == nil {
		return nil
	}
	if existing.Status == models.SlotStatusBooked {
		summary.Conflicts++
		summary.Failures = append(summary.Failures, contracts.SyncFailure{
			EventID: event.ID,
			SlotID:  existing.ID.Hex(),
			Stage:   stageImport,
			Reason:  "external event cancelled but slot is booked; manual resolution required",
		})
		return nil
	}
	if err := u.SlotRepository.Delete(ctx, existing.ID.Hex()); err != nil {
		return err
	}
	summary.Imported++
	return nil
}

func (u *syncUsecase) createImportedSlot(ctx context.Context, doctorID, eventID, date, startClock, endClock string, status models.SlotStatus, summary *contracts.SyncSummary) error {
	sameDay, err := u.SlotRepository.FindByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return err
	}
	for i := range sameDay {
		slot := &sameDay[i]
		if slot.ExternalEventID == eventID || !slot.Overlaps(startClock, endClock) {
			continue
		}
		if slot.Status == models.SlotStatusBooked {
			summary.Conflicts++
			summary.Failures = append(summary.Failures, contracts.SyncFailure{
				EventID: eventID,
				SlotID:  slot.ID.Hex(),
				Stage:   stageImport,
				Reason:  "event overlaps a booked slot",
			})
			return nil
		}
	}

	// the external event claims this time, so overlapping open slots close
	for i := range sameDay {
		slot := &sameDay[i]
		if slot.ExternalEventID == eventID || slot.Status != models.SlotStatusAvailable || !slot.Overlaps(startClock, endClock) {
			continue
		}
		updated, casErr := u.SlotRepository.UpdateStatusIf(ctx, slot.ID.Hex(), models.SlotStatusAvailable, models.SlotStatusBlocked)
		if casErr != nil {
			return casErr
		}
		if updated == nil {
			summary.Conflicts++
			summary.Failures = append(summary.Failures, contracts.SyncFailure{
				EventID: eventID,
				SlotID:  slot.ID.Hex(),
				Stage:   stageImport,
				Reason:  "slot changed concurrently while being blocked",
			})
		}
	}

	now := time.Now()
	_, err = u.SlotRepository.Insert(ctx, &models.TimeSlot{
		DoctorID:        doctorID,
		Date:            date,
		StartTime:       startClock,
		EndTime:         endClock,
		Status:          status,
		ExternalEventID: eventID,
		LastSyncedAt:    &now,
		CreatedBy:       constvars.SlotCreatedBySync,
	})
	if err != nil {
		return err
	}
	summary.Imported++
	return nil
}

func (u *syncUsecase) runExport(ctx context.Context, doctorID string, session *calendarSession, loc *time.Location, startDate, endDate string, summary *contracts.SyncSummary) error {
	slots, err := u.SlotRepository.FindUnlinkedForExport(ctx, doctorID, startDate, endDate)
	if err != nil {
		return err
	}

	for i := range slots {
		slot := &slots[i]
		start, startErr := utils.CombineDateAndClock(slot.Date, slot.StartTime, loc)
		end, endErr := utils.CombineDateAndClock(slot.Date, slot.EndTime, loc)
		if startErr != nil || endErr != nil {
			summary.Failures = append(summary.Failures, contracts.SyncFailure{
				SlotID: slot.ID.Hex(),
				Stage:  stageExport,
				Reason: "slot has malformed time bounds",
			})
			continue
		}

		event, err := session.createEvent(ctx, contracts.CreateEventInput{
			Summary:     exportedEventSummary,
			Description: fmt.Sprintf("Booked slot %s", slot.ID.Hex()),
			Start:       start,
			End:         end,
		})
		if err != nil {
			if exceptions.IsExternalService(err) || exceptions.IsCredential(err) {
				summary.Failures = append(summary.Failures, contracts.SyncFailure{
					SlotID: slot.ID.Hex(),
					Stage:  stageExport,
					Reason: err.Error(),
				})
				continue
			}
			return err
		}

		if err := u.SlotRepository.SetExternalEventID(ctx, slot.ID.Hex(), event.ID); err != nil {
			return err
		}
		summary.Exported++
	}
	return nil
}

func (u *syncUsecase) archiveReport(ctx context.Context, doctorID string, summary *contracts.SyncSummary) {
	report, err := json.Marshal(summary)
	if err != nil {
		u.Log.Warn("syncUsecase.archiveReport cannot marshal summary",
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return
	}
	objectName, err := u.ReportStorage.ArchiveSyncReport(ctx, doctorID, report)
	if err != nil {
		u.Log.Warn("syncUsecase.archiveReport failed",
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return
	}
	u.Log.Info("syncUsecase.archiveReport stored",
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.String("object_name", objectName),
	)
}

func (u *syncUsecase) notifyFailures(ctx context.Context, doctorID string, summary *contracts.SyncSummary) {
	if len(summary.Failures) == 0 {
		return
	}
	err := u.NotificationPublisher.Publish(ctx, contracts.NotificationEvent{
		Type:     constvars.NotificationSyncFailed,
		DoctorID: doctorID,
		Detail:   fmt.Sprintf("%d event(s) failed to synchronize", len(summary.Failures)),
	})
	if err != nil {
		u.Log.Warn("syncUsecase.notifyFailures publish failed",
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
	}
}

func doctorLocation(doctor *models.Doctor) *time.Location {
	if doctor.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(doctor.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
