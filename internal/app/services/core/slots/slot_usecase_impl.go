package slots

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type slotUsecase struct {
	SlotRepository     contracts.SlotRepository
	TemplateRepository contracts.TemplateRepository
	DoctorRepository   contracts.DoctorRepository
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
}

var (
	slotUsecaseInstance contracts.SlotUsecase
	onceSlotUsecase     sync.Once
)

func NewSlotUsecase(
	slotRepository contracts.SlotRepository,
	templateRepository contracts.TemplateRepository,
	doctorRepository contracts.DoctorRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SlotUsecase {
	onceSlotUsecase.Do(func() {
		instance := &slotUsecase{
			SlotRepository:     slotRepository,
			TemplateRepository: templateRepository,
			DoctorRepository:   doctorRepository,
			InternalConfig:     internalConfig,
			Log:                logger,
		}
		slotUsecaseInstance = instance
	})
	return slotUsecaseInstance
}

func (uc *slotUsecase) GenerateSlots(ctx context.Context, input contracts.GenerateSlotsInput) ([]models.TimeSlot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("slotUsecase.GenerateSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, input.DoctorIdentifier),
		zap.String(constvars.LoggingRangeStartKey, input.StartDate),
		zap.String(constvars.LoggingRangeEndKey, input.EndDate),
	)

	doctor, err := uc.DoctorRepository.Resolve(ctx, input.DoctorIdentifier)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	if err := validateTemplateWindows(input.Template); err != nil {
		return nil, err
	}

	candidates, err := expandTemplateWindows(doctor.ID.Hex(), input.StartDate, input.EndDate, input.Template)
	if err != nil {
		return nil, err
	}

	existing, err := uc.SlotRepository.FindByDoctorAndRange(ctx, doctor.ID.Hex(), input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	created := make([]models.TimeSlot, 0, len(candidates))
	for i := range candidates {
		if overlapsAny(&candidates[i], existing) {
			continue
		}
		slotID, err := uc.SlotRepository.Insert(ctx, &candidates[i])
		if err != nil {
			return nil, err
		}
		objectID, err := primitive.ObjectIDFromHex(slotID)
		if err != nil {
			return nil, exceptions.ErrMongoDBNotObjectID(err)
		}
		candidates[i].ID = objectID
		created = append(created, candidates[i])
	}

	if input.Persist {
		if err := uc.TemplateRepository.ReplaceForDoctor(ctx, doctor.ID.Hex(), windowsToTemplates(input.Template)); err != nil {
			return nil, err
		}
	}

	uc.Log.Info("slotUsecase.GenerateSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctor.ID.Hex()),
		zap.Int(constvars.LoggingResponseCountKey, len(created)),
	)
	return created, nil
}

func (uc *slotUsecase) ListSlots(ctx context.Context, doctorIdentifier, startDate, endDate string) ([]models.TimeSlot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("slotUsecase.ListSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorIdentifier),
		zap.String(constvars.LoggingRangeStartKey, startDate),
		zap.String(constvars.LoggingRangeEndKey, endDate),
	)

	doctor, err := uc.DoctorRepository.Resolve(ctx, doctorIdentifier)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(nil)
	}

	if startDate > endDate {
		return nil, exceptions.ErrInvalidDateRange(fmt.Errorf("start %s after end %s", startDate, endDate))
	}

	return uc.SlotRepository.FindByDoctorAndRange(ctx, doctor.ID.Hex(), startDate, endDate)
}

func (uc *slotUsecase) BlockSlot(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	return uc.transition(ctx, slotID, models.SlotStatusAvailable, models.SlotStatusBlocked)
}

func (uc *slotUsecase) ReleaseSlot(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	return uc.transition(ctx, slotID, models.SlotStatusBlocked, models.SlotStatusAvailable)
}

func (uc *slotUsecase) transition(ctx context.Context, slotID string, from, to models.SlotStatus) (*models.TimeSlot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("slotUsecase.transition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
		zap.String("from_status", string(from)),
		zap.String("to_status", string(to)),
	)

	updated, err := uc.SlotRepository.UpdateStatusIf(ctx, slotID, from, to)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		slot, err := uc.SlotRepository.FindByID(ctx, slotID)
		if err != nil {
			return nil, err
		}
		if slot == nil {
			return nil, exceptions.ErrSlotNotFound(nil)
		}
		return nil, exceptions.ErrSlotConflict(fmt.Errorf("slot is %s, expected %s", slot.Status, from))
	}
	return updated, nil
}

func (uc *slotUsecase) DeleteSlot(ctx context.Context, slotID string, force bool) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("slotUsecase.DeleteSlot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
		zap.Bool("force", force),
	)

	slot, err := uc.SlotRepository.FindByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return exceptions.ErrSlotNotFound(nil)
	}

	if slot.Status == models.SlotStatusBooked {
		return exceptions.ErrSlotNotDeletable(fmt.Errorf("slot %s is booked", slotID))
	}
	if slot.ExternallyLinked() && !force {
		return exceptions.ErrSlotNotDeletable(fmt.Errorf("slot %s is linked to external event %s", slotID, slot.ExternalEventID))
	}

	return uc.SlotRepository.Delete(ctx, slotID)
}

func (uc *slotUsecase) HandleAutomatedSlotGeneration(ctx context.Context, doctorID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	templates, err := uc.TemplateRepository.FindByDoctor(ctx, doctorID)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}

	windowDays := uc.InternalConfig.App.SlotWindowDays
	now := time.Now()
	startDate := now.Format(constvars.SlotDateLayout)
	endDate := now.AddDate(0, 0, windowDays).Format(constvars.SlotDateLayout)

	candidates, err := expandTemplateWindows(doctorID, startDate, endDate, templatesToWindows(templates))
	if err != nil {
		return err
	}

	existing, err := uc.SlotRepository.FindByDoctorAndRange(ctx, doctorID, startDate, endDate)
	if err != nil {
		return err
	}

	var created int
	for i := range candidates {
		if overlapsAny(&candidates[i], existing) {
			continue
		}
		if _, err := uc.SlotRepository.Insert(ctx, &candidates[i]); err != nil {
			return err
		}
		created++
	}

	uc.Log.Info("slotUsecase.HandleAutomatedSlotGeneration succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Int(constvars.LoggingResponseCountKey, created),
	)
	return nil
}
