package background

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"trainerdesk/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DashboardRefreshJob = "dashboard-stats-refresh"

	defaultPageSize    = 200
	defaultConcurrency = 5
)

// TrainerLister pages through every trainer id
type TrainerLister interface {
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
}

// JobScheduler runs the periodic background jobs of one replica
type JobScheduler struct {
	scheduler    gocron.Scheduler
	dashboardSvc services.DashboardService
	trainers     TrainerLister
	interval     time.Duration
	pageSize     int
	concurrency  int
	logger       *zap.Logger
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. Nothing runs
// until Start.
func NewJobScheduler(dashboardSvc services.DashboardService, trainers TrainerLister, interval time.Duration, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		dashboardSvc: dashboardSvc,
		trainers:     trainers,
		interval:     interval,
		pageSize:     defaultPageSize,
		concurrency:  defaultConcurrency,
		logger:       logger,
		jobs:         make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("Starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.refreshDashboardStats, context.Background()),
		gocron.WithName(DashboardRefreshJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create %s job: %w", DashboardRefreshJob, err)
	}

	js.mu.Lock()
	js.jobs[DashboardRefreshJob] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) refreshDashboardStats(ctx context.Context) {
	start := time.Now()
	refreshed, failed, err := js.RefreshDashboardStats(ctx)
	if err != nil {
		js.logger.Error("Dashboard stats refresh aborted", zap.Int("refreshed", refreshed), zap.Error(err))
		return
	}
	js.logger.Info("Dashboard stats refreshed",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)),
	)
}

// RefreshDashboardStats recomputes the cached stats of every trainer, a page of
// ids at a time. A failing trainer is logged and skipped; listing errors abort.
func (js *JobScheduler) RefreshDashboardStats(ctx context.Context) (refreshed, failed int, err error) {
	var ok, bad atomic.Int64

	for offset := 0; ; offset += js.pageSize {
		ids, err := js.trainers.ListIDs(ctx, js.pageSize, offset)
		if err != nil {
			return int(ok.Load()), int(bad.Load()), fmt.Errorf("list trainers at offset %d: %w", offset, err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(js.concurrency)
		for _, id := range ids {
			g.Go(func() error {
				if _, err := js.dashboardSvc.RefreshStats(gctx, id); err != nil {
					bad.Add(1)
					js.logger.Warn("Dashboard stats refresh failed", zap.String("trainer_id", id.String()), zap.Error(err))
					return nil
				}
				ok.Add(1)
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return int(ok.Load()), int(bad.Load()), err
		}
		if len(ids) < js.pageSize {
			return int(ok.Load()), int(bad.Load()), nil
		}
	}
}
