package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"trainerdesk/internal/caching"
	"trainerdesk/internal/models"
	"trainerdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const upcomingBookingsLimit = 5

type DashboardService interface {
	GetStats(ctx context.Context, trainerID uuid.UUID) (*models.DashboardStats, error)
	RefreshStats(ctx context.Context, trainerID uuid.UUID) (*models.DashboardStats, error)
	UpcomingBookings(ctx context.Context, trainerID uuid.UUID) ([]*models.UpcomingBooking, error)
}

type dashboardService struct {
	trainerRepo repositories.TrainerRepository
	bookingRepo repositories.BookingRepository
	clientRepo  repositories.ClientRepository
	cacheSvc    caching.CacheService
	statsTTL    time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewDashboardService(
	trainerRepo repositories.TrainerRepository,
	bookingRepo repositories.BookingRepository,
	clientRepo repositories.ClientRepository,
	cacheSvc caching.CacheService,
	statsTTL time.Duration,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		trainerRepo: trainerRepo,
		bookingRepo: bookingRepo,
		clientRepo:  clientRepo,
		cacheSvc:    cacheSvc,
		statsTTL:    statsTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// GetStats serves cached stats when present and computes them otherwise.
func (s *dashboardService) GetStats(ctx context.Context, trainerID uuid.UUID) (*models.DashboardStats, error) {
	cached, err := s.cacheSvc.GetDashboardStats(ctx, trainerID)
	if err != nil {
		s.logger.Warn("Dashboard stats cache read failed", zap.String("trainer_id", trainerID.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}
	return s.RefreshStats(ctx, trainerID)
}

// RefreshStats recomputes the stats and stores them in the cache.
func (s *dashboardService) RefreshStats(ctx context.Context, trainerID uuid.UUID) (*models.DashboardStats, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	stats, err := s.compute(ctx, trainerID, s.now().In(trainerLocation(trainer.Timezone)))
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetDashboardStats(ctx, trainerID, stats, s.statsTTL); err != nil {
		s.logger.Warn("Dashboard stats cache write failed", zap.String("trainer_id", trainerID.String()), zap.Error(err))
	}
	return stats, nil
}

func (s *dashboardService) UpcomingBookings(ctx context.Context, trainerID uuid.UUID) ([]*models.UpcomingBooking, error) {
	return s.bookingRepo.ListUpcoming(ctx, trainerID, s.now(), upcomingBookingsLimit)
}

func (s *dashboardService) compute(ctx context.Context, trainerID uuid.UUID, now time.Time) (*models.DashboardStats, error) {
	weekStart, weekEnd := weekRange(now)
	monthStart, monthEnd := monthRange(now)
	lastMonthStart, lastMonthEnd := monthRange(monthStart.AddDate(0, 0, -1))

	var (
		stats        models.DashboardStats
		weekMinutes  int
		g, gctx      = errgroup.WithContext(ctx)
		countBooking = func(dst *int, filter models.BookingFilter) {
			g.Go(func() error {
				n, err := s.bookingRepo.Count(gctx, trainerID, filter)
				*dst = n
				return err
			})
		}
	)

	countBooking(&stats.TotalBookings, models.BookingFilter{})
	countBooking(&stats.ConfirmedBookings, statusFilter(models.BookingConfirmed))
	countBooking(&stats.CompletedBookings, statusFilter(models.BookingCompleted))
	countBooking(&stats.CancelledBookings, statusFilter(models.BookingCancelled))
	countBooking(&stats.NoShowBookings, statusFilter(models.BookingNoShow))
	countBooking(&stats.BookingsThisWeek, rangeFilter(weekStart, weekEnd))
	countBooking(&stats.BookingsThisMonth, rangeFilter(monthStart, monthEnd))
	countBooking(&stats.BookingsLastMonth, rangeFilter(lastMonthStart, lastMonthEnd))

	g.Go(func() error {
		n, err := s.clientRepo.CountActive(gctx, trainerID)
		stats.ActiveClients = n
		return err
	})
	g.Go(func() error {
		n, err := s.clientRepo.Count(gctx, trainerID)
		stats.TotalClients = n
		return err
	})
	g.Go(func() error {
		n, err := s.bookingRepo.SumDuration(gctx, trainerID, weekStart, weekEnd)
		weekMinutes = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute dashboard stats: %w", err)
	}

	stats.BookingsChange = int(roundHalfUp(percentChange(stats.BookingsThisMonth, stats.BookingsLastMonth)))
	stats.HoursThisWeek = roundHalfUp(float64(weekMinutes)/60*10) / 10
	stats.CompletionRate = int(roundHalfUp(percentOf(stats.CompletedBookings, stats.TotalBookings)))
	stats.NoShowRate = int(roundHalfUp(percentOf(stats.NoShowBookings, stats.TotalBookings)))
	stats.Revenue = 0
	stats.GeneratedAt = now
	return &stats, nil
}

func statusFilter(status string) models.BookingFilter {
	return models.BookingFilter{Status: &status}
}

func rangeFilter(from, to time.Time) models.BookingFilter {
	return models.BookingFilter{From: &from, To: &to}
}

func trainerLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// weekRange spans Sunday 00:00 to the last instant of Saturday.
func weekRange(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 7).Add(-time.Millisecond)
}

// monthRange spans the calendar month containing now.
func monthRange(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Millisecond)
}

func percentChange(current, previous int) float64 {
	switch {
	case previous > 0:
		return float64(current-previous) / float64(previous) * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
