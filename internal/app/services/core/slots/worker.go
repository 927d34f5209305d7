package slots

import (
	"context"
	"time"

	"clinicore-service/internal/app/config"
	"clinicore-service/internal/app/contracts"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// leaderLockKey is the fixed key used to ensure a single generator leader.
const leaderLockKey = "slotgen:leader"

// Worker periodically tops up every doctor's rolling slot window from their
// stored weekly templates.
type Worker struct {
	log         *zap.Logger
	cfg         *config.InternalConfig
	locker      contracts.LockerService
	templates   contracts.TemplateRepository
	slotUsecase contracts.SlotUsecase
	cron        *cron.Cron
	runCtx      context.Context
	cancel      context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, templateRepository contracts.TemplateRepository, slotUsecase contracts.SlotUsecase) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, templates: templateRepository, slotUsecase: slotUsecase}
}

// Start schedules the periodic run.
func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.App.SlotWorkerCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("slots.worker: failed to schedule with provided cron spec; falling back to @daily", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@daily", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels in-flight runs and waits for the cron scheduler to drain.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ttl := 2 * time.Minute
	acquired, token, err := w.locker.TryLock(ctx, leaderLockKey, ttl)
	if err != nil {
		w.log.Warn("slots.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("slots.worker: leader lock not acquired; another instance is running")
		return
	}
	defer w.locker.Unlock(ctx, leaderLockKey, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(ctx, leaderLockKey, token, ttl); err != nil {
					w.log.Warn("slots.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	doctorIDs, err := w.templates.DistinctDoctorIDs(ctx)
	if err != nil {
		w.log.Warn("slots.worker: listing doctors with templates failed", zap.Error(err))
		return
	}

	for _, doctorID := range doctorIDs {
		if ctx.Err() != nil {
			return
		}
		if err := w.slotUsecase.HandleAutomatedSlotGeneration(ctx, doctorID); err != nil {
			w.log.Warn("slots.worker: top-up failed for doctor",
				zap.String("doctor_id", doctorID),
				zap.Error(err),
			)
		}
	}
}
