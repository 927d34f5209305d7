package controllers

import (
	"context"
	"net/http"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/dto/requests"
	"clinicore-service/internal/pkg/dto/responses"
	"clinicore-service/internal/pkg/exceptions"
	"clinicore-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CalendarController struct {
	Log               *zap.Logger
	CredentialService contracts.CredentialService
	SyncUsecase       contracts.SyncUsecase
	DoctorRepository  contracts.DoctorRepository
	InternalConfig    *config.InternalConfig
}

func NewCalendarController(
	logger *zap.Logger,
	credentialService contracts.CredentialService,
	syncUsecase contracts.SyncUsecase,
	doctorRepository contracts.DoctorRepository,
	internalConfig *config.InternalConfig,
) *CalendarController {
	return &CalendarController{
		Log:               logger,
		CredentialService: credentialService,
		SyncUsecase:       syncUsecase,
		DoctorRepository:  doctorRepository,
		InternalConfig:    internalConfig,
	}
}

func (ctrl *CalendarController) maxBodyBytes() int64 {
	return int64(ctrl.InternalConfig.App.RequestBodyLimitInMegabyte) << 20
}

// resolveDoctorID turns the path identifier (canonical id or license number)
// into the canonical doctor id credentials are stored under.
func (ctrl *CalendarController) resolveDoctorID(ctx context.Context, identifier string) (string, error) {
	doctor, err := ctrl.DoctorRepository.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	if doctor == nil {
		return "", exceptions.ErrDoctorNotFound(nil)
	}
	return doctor.ID.Hex(), nil
}

func (ctrl *CalendarController) Connect(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("CalendarController.Connect requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	doctorIdentifier := chi.URLParam(r, "doctorID")
	ctrl.Log.Info("CalendarController.Connect called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorIdentifier))

	request := new(requests.ConnectCalendarRequest)
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

	doctorID, err := ctrl.resolveDoctorID(ctx, doctorIdentifier)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.CredentialService.StoreCredential(ctx, doctorID, request.RefreshToken); err != nil {
		ctrl.Log.Error("CalendarController.Connect CredentialService.StoreCredential error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("CalendarController.Connect succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ConnectCalendarSuccessMessage, nil)
}

func (ctrl *CalendarController) Disconnect(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("CalendarController.Disconnect requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	doctorIdentifier := chi.URLParam(r, "doctorID")
	ctrl.Log.Info("CalendarController.Disconnect called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorIdentifier))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doctorID, err := ctrl.resolveDoctorID(ctx, doctorIdentifier)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.CredentialService.Disconnect(ctx, doctorID); err != nil {
		ctrl.Log.Error("CalendarController.Disconnect CredentialService.Disconnect error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("CalendarController.Disconnect succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DisconnectCalendarSuccessMessage, nil)
}

func (ctrl *CalendarController) Import(w http.ResponseWriter, r *http.Request) {
	ctrl.runSync(w, r, "Import", constvars.ImportCalendarSuccessMessage, ctrl.SyncUsecase.ImportFromExternal)
}

func (ctrl *CalendarController) Export(w http.ResponseWriter, r *http.Request) {
	ctrl.runSync(w, r, "Export", constvars.ExportCalendarSuccessMessage, ctrl.SyncUsecase.ExportToExternal)
}

func (ctrl *CalendarController) Sync(w http.ResponseWriter, r *http.Request) {
	ctrl.runSync(w, r, "Sync", constvars.SyncCalendarSuccessMessage, ctrl.SyncUsecase.Sync)
}

func (ctrl *CalendarController) runSync(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	successMessage string,
	run func(ctx context.Context, doctorIdentifier, startDate, endDate string) (*contracts.SyncSummary, error),
) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("CalendarController." + operation + " requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	doctorIdentifier := chi.URLParam(r, "doctorID")
	ctrl.Log.Info("CalendarController."+operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorIdentifier))

	startDate, endDate, err := utils.ParseDateRangeQuery(r, ctrl.InternalConfig.App.SlotWindowDays)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	// sync runs talk to the provider for every event, give them more room
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	summary, err := run(ctx, doctorIdentifier, startDate, endDate)
	if err != nil {
		ctrl.Log.Error("CalendarController."+operation+" error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err))

		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := responses.SyncSummaryResponse{
		DoctorID:  doctorIdentifier,
		Imported:  summary.Imported,
		Exported:  summary.Exported,
		Conflicts: summary.Conflicts,
	}
	for _, failure := range summary.Failures {
		response.Failures = append(response.Failures, responses.SyncFailureResponse{
			EventID: failure.EventID,
			SlotID:  failure.SlotID,
			Stage:   failure.Stage,
			Reason:  failure.Reason,
		})
	}

	ctrl.Log.Info("CalendarController."+operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingImportedKey, summary.Imported),
		zap.Int(constvars.LoggingExportedKey, summary.Exported),
		zap.Int(constvars.LoggingConflictsKey, summary.Conflicts),
		zap.Int(constvars.LoggingFailuresKey, len(summary.Failures)))
	utils.BuildSuccessResponse(w, constvars.StatusOK, successMessage, response)
}
