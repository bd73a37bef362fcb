package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"adoption-center-backend/internal/config"
	"adoption-center-backend/internal/shared"
)

// Scheduler đăng ký các periodic task (cron-style) với asynq.
// Hiện tại chỉ có một sweep: xóa orphaned photos khỏi media store.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(cfg *config.Config) *Scheduler {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	return &Scheduler{
		scheduler: asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
			Location: time.UTC,
		}),
	}
}

// RegisterJobs đăng ký tất cả scheduled jobs
func (s *Scheduler) RegisterJobs(cfg *config.Config) error {
	// Fail fast nếu schedule sai cú pháp thay vì đợi đến lúc Run
	if _, err := cron.ParseStandard(cfg.Reconciler.Schedule); err != nil {
		return fmt.Errorf("invalid reconciler schedule %q: %w", cfg.Reconciler.Schedule, err)
	}

	payload, err := json.Marshal(shared.ReconcileOrphanPhotosPayload{
		GracePeriodMinutes: int(cfg.Reconciler.GracePeriod.Minutes()),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reconcile payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeReconcileOrphanPhotos, payload)

	// Mặc định chạy mỗi giờ - xem RECONCILER_SCHEDULE
	entryID, err := s.scheduler.Register(cfg.Reconciler.Schedule, task,
		asynq.Queue(shared.QueueCatalog),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("failed to register reconcile job: %w", err)
	}

	fmt.Printf("📅 Registered photo reconciliation sweep (entry=%s, schedule=%q)\n", entryID, cfg.Reconciler.Schedule)
	return nil
}

// Run blocks cho đến khi Shutdown được gọi
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
