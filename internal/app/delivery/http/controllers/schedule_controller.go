package controllers

import (
	"context"
	"net/http"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/app/models"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/dto/requests"
	"clinicore-service/internal/pkg/dto/responses"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ScheduleController struct {
	Log            *zap.Logger
	SlotUsecase    contracts.SlotUsecase
	InternalConfig *config.InternalConfig
}

func NewScheduleController(logger *zap.Logger, slotUsecase contracts.SlotUsecase, internalConfig *config.InternalConfig) *ScheduleController {
	return &ScheduleController{
		Log:            logger,
		SlotUsecase:    slotUsecase,
		InternalConfig: internalConfig,
	}
}

func (ctrl *ScheduleController) maxBodyBytes() int64 {
	return int64(ctrl.InternalConfig.App.RequestBodyLimitInMegabyte) << 20
}

func (ctrl *ScheduleController) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("ScheduleController.GenerateSlots requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	doctorIdentifier := chi.URLParam(r, "doctorID")
	ctrl.Log.Info("ScheduleController.GenerateSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorIdentifier))

	request := new(requests.GenerateSlotsRequest)
	if err := utils.ParseJSONBody(r, ctrl.maxBodyBytes(), request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	template := make([]contracts.WeeklyTemplateWindow, 0, len(request.Template))
	for _, window := range request.Template {
		template = append(template, contracts.WeeklyTemplateWindow{
			Weekday:             window.Weekday,
			StartTime:           window.StartTime,
			EndTime:             window.EndTime,
			SlotDurationMinutes: window.SlotDurationMinutes,
		})
	}

	slots, err := ctrl.SlotUsecase.GenerateSlots(ctx, contracts.GenerateSlotsInput{
		DoctorIdentifier: doctorIdentifier,
		StartDate:        request.StartDate,
		EndDate:          request.EndDate,
		Template:         template,
		Persist:          request.Persist,
	})
	if err != nil {
		ctrl.Log.Error("ScheduleController.GenerateSlots SlotUsecase.GenerateSlots error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.GenerateSlotsResponse{
		DoctorID:  doctorIdentifier,
		Generated: len(slots),
		Persisted: request.Persist,
		Slots:     utils.MapTimeSlotsToResponse(slots),
	}
	if len(slots) > 0 {
		response.DoctorID = slots[0].DoctorID
	}

	ctrl.Log.Info("ScheduleController.GenerateSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseCountKey, len(slots)))
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.GenerateSlotsSuccessMessage, response)
}

func (ctrl *ScheduleController) ListSlots(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("ScheduleController.ListSlots requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	doctorIdentifier := chi.URLParam(r, "doctorID")
	ctrl.Log.Info("ScheduleController.ListSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorIdentifier))

	startDate, endDate, err := utils.ParseDateRangeQuery(r, ctrl.InternalConfig.App.SlotWindowDays)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	slots, err := ctrl.SlotUsecase.ListSlots(ctx, doctorIdentifier, startDate, endDate)
	if err != nil {
		ctrl.Log.Error("ScheduleController.ListSlots SlotUsecase.ListSlots error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("ScheduleController.ListSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseCountKey, len(slots)))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetSlotsSuccessMessage, utils.MapTimeSlotsToResponse(slots))
}

func (ctrl *ScheduleController) BlockSlot(w http.ResponseWriter, r *http.Request) {
	ctrl.transitionSlot(w, r, "BlockSlot", constvars.BlockSlotSuccessMessage, ctrl.SlotUsecase.BlockSlot)
}

func (ctrl *ScheduleController) ReleaseSlot(w http.ResponseWriter, r *http.Request) {
	ctrl.transitionSlot(w, r, "ReleaseSlot", constvars.ReleaseSlotSuccessMessage, ctrl.SlotUsecase.ReleaseSlot)
}

func (ctrl *ScheduleController) transitionSlot(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	successMessage string,
	transition func(ctx context.Context, slotID string) (*models.TimeSlot, error),
) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("ScheduleController." + operation + " requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	slotID := chi.URLParam(r, "slotID")
	ctrl.Log.Info("ScheduleController."+operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	slot, err := transition(ctx, slotID)
	if err != nil {
		ctrl.Log.Error("ScheduleController."+operation+" error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("ScheduleController."+operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, successMessage, utils.MapTimeSlotToResponse(slot))
}

func (ctrl *ScheduleController) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("ScheduleController.DeleteSlot requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	slotID := chi.URLParam(r, "slotID")
	force := r.URL.Query().Get("force") == "true"
	ctrl.Log.Info("ScheduleController.DeleteSlot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID),
		zap.Bool("force", force))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.SlotUsecase.DeleteSlot(ctx, slotID, force); err != nil {
		ctrl.Log.Error("ScheduleController.DeleteSlot SlotUsecase.DeleteSlot error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("ScheduleController.DeleteSlot succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSlotIDKey, slotID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteSlotSuccessMessage, nil)
}
