package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"trainerdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWeekRange(t *testing.T) {
	wednesday := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
	start, end := weekRange(wednesday)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 16, 23, 59, 59, 999_000_000, time.UTC), end)

	sunday := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	start, _ = weekRange(sunday)
	assert.Equal(t, sunday, start)
}

func TestWeekRange_TrainerTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Sunday 03:00 UTC is still Saturday evening in New York.
	now := time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC).In(ny)
	start, _ := weekRange(now)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, ny), start)
}

func TestMonthRange(t *testing.T) {
	start, end := monthRange(time.Date(2024, 2, 14, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC), end)

	start, end = monthRange(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 999_000_000, time.UTC), end)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 50.0, percentChange(9, 6))
	assert.Equal(t, -50.0, percentChange(3, 6))
	assert.Equal(t, 100.0, percentChange(4, 0))
	assert.Equal(t, 0.0, percentChange(0, 0))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, roundHalfUp(2.5))
	assert.Equal(t, -2.0, roundHalfUp(-2.5))
	assert.Equal(t, 33.0, roundHalfUp(33.333))
	assert.Equal(t, 67.0, roundHalfUp(66.666))
}

type dashboardFixture struct {
	trainerRepo *MockTrainerRepository
	bookingRepo *MockBookingRepository
	clientRepo  *MockClientRepository
	service     *dashboardService
	trainerID   uuid.UUID
	now         time.Time
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	_, cache := newTestCache(t)
	f := &dashboardFixture{
		trainerRepo: new(MockTrainerRepository),
		bookingRepo: new(MockBookingRepository),
		clientRepo:  new(MockClientRepository),
		trainerID:   uuid.New(),
		now:         time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC),
	}
	f.service = NewDashboardService(f.trainerRepo, f.bookingRepo, f.clientRepo, cache, time.Minute, newTestLogger()).(*dashboardService)
	f.service.now = func() time.Time { return f.now }
	return f
}

func statusIs(status string) interface{} {
	return mock.MatchedBy(func(f models.BookingFilter) bool {
		return f.Status != nil && *f.Status == status && f.From == nil
	})
}

func rangeStarts(from time.Time) interface{} {
	return mock.MatchedBy(func(f models.BookingFilter) bool {
		return f.Status == nil && f.From != nil && f.From.Equal(from)
	})
}

func instant(want time.Time) interface{} {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func unfiltered() interface{} {
	return mock.MatchedBy(func(f models.BookingFilter) bool {
		return f.Status == nil && f.From == nil && f.To == nil
	})
}

func (f *dashboardFixture) expectCounts() {
	id := f.trainerID
	f.trainerRepo.On("GetByID", mock.Anything, id).Return(&models.Trainer{ID: id, Timezone: "UTC"}, nil)

	f.bookingRepo.On("Count", mock.Anything, id, unfiltered()).Return(20, nil)
	f.bookingRepo.On("Count", mock.Anything, id, statusIs(models.BookingConfirmed)).Return(5, nil)
	f.bookingRepo.On("Count", mock.Anything, id, statusIs(models.BookingCompleted)).Return(10, nil)
	f.bookingRepo.On("Count", mock.Anything, id, statusIs(models.BookingCancelled)).Return(2, nil)
	f.bookingRepo.On("Count", mock.Anything, id, statusIs(models.BookingNoShow)).Return(3, nil)
	f.bookingRepo.On("Count", mock.Anything, id, rangeStarts(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))).Return(4, nil)
	f.bookingRepo.On("Count", mock.Anything, id, rangeStarts(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))).Return(9, nil)
	f.bookingRepo.On("Count", mock.Anything, id, rangeStarts(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))).Return(6, nil)
	f.bookingRepo.On("SumDuration", mock.Anything, id,
		instant(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
		instant(time.Date(2024, 3, 16, 23, 59, 59, 999_000_000, time.UTC)),
	).Return(185, nil)

	f.clientRepo.On("CountActive", mock.Anything, id).Return(7, nil)
	f.clientRepo.On("Count", mock.Anything, id).Return(12, nil)
}

func TestDashboardService_RefreshStats(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectCounts()

	stats, err := f.service.RefreshStats(context.Background(), f.trainerID)
	require.NoError(t, err)

	assert.Equal(t, 20, stats.TotalBookings)
	assert.Equal(t, 5, stats.ConfirmedBookings)
	assert.Equal(t, 10, stats.CompletedBookings)
	assert.Equal(t, 2, stats.CancelledBookings)
	assert.Equal(t, 3, stats.NoShowBookings)
	assert.Equal(t, 4, stats.BookingsThisWeek)
	assert.Equal(t, 9, stats.BookingsThisMonth)
	assert.Equal(t, 6, stats.BookingsLastMonth)
	assert.Equal(t, 50, stats.BookingsChange)
	assert.Equal(t, 7, stats.ActiveClients)
	assert.Equal(t, 12, stats.TotalClients)
	assert.Equal(t, 3.1, stats.HoursThisWeek)
	assert.Equal(t, 50, stats.CompletionRate)
	assert.Equal(t, 15, stats.NoShowRate)
	assert.Zero(t, stats.Revenue)

	f.bookingRepo.AssertExpectations(t)
	f.clientRepo.AssertExpectations(t)
}

func TestDashboardService_GetStatsUsesCache(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectCounts()
	ctx := context.Background()

	first, err := f.service.GetStats(ctx, f.trainerID)
	require.NoError(t, err)

	second, err := f.service.GetStats(ctx, f.trainerID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalBookings, second.TotalBookings)
	assert.Equal(t, first.HoursThisWeek, second.HoursThisWeek)

	f.trainerRepo.AssertNumberOfCalls(t, "GetByID", 1)
	f.bookingRepo.AssertNumberOfCalls(t, "SumDuration", 1)
}

func TestDashboardService_EmptyTrainer(t *testing.T) {
	f := newDashboardFixture(t)
	id := f.trainerID
	f.trainerRepo.On("GetByID", mock.Anything, id).Return(&models.Trainer{ID: id}, nil)
	f.bookingRepo.On("Count", mock.Anything, id, mock.Anything).Return(0, nil)
	f.bookingRepo.On("SumDuration", mock.Anything, id, mock.Anything, mock.Anything).Return(0, nil)
	f.clientRepo.On("CountActive", mock.Anything, id).Return(0, nil)
	f.clientRepo.On("Count", mock.Anything, id).Return(0, nil)

	stats, err := f.service.RefreshStats(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, stats.BookingsChange)
	assert.Zero(t, stats.CompletionRate)
	assert.Zero(t, stats.NoShowRate)
	assert.Zero(t, stats.HoursThisWeek)
}

func TestDashboardService_QueryFailure(t *testing.T) {
	f := newDashboardFixture(t)
	id := f.trainerID
	dbErr := errors.New("statement timeout")
	f.trainerRepo.On("GetByID", mock.Anything, id).Return(&models.Trainer{ID: id, Timezone: "UTC"}, nil)
	f.bookingRepo.On("Count", mock.Anything, id, mock.Anything).Return(0, nil)
	f.bookingRepo.On("SumDuration", mock.Anything, id, mock.Anything, mock.Anything).Return(0, dbErr)
	f.clientRepo.On("CountActive", mock.Anything, id).Return(0, nil)
	f.clientRepo.On("Count", mock.Anything, id).Return(0, nil)

	_, err := f.service.RefreshStats(context.Background(), id)
	assert.ErrorIs(t, err, dbErr)
}

func TestDashboardService_UpcomingBookings(t *testing.T) {
	f := newDashboardFixture(t)
	upcoming := []*models.UpcomingBooking{{ID: uuid.New(), Status: models.BookingConfirmed}}
	f.bookingRepo.On("ListUpcoming", mock.Anything, f.trainerID, f.now, 5).Return(upcoming, nil)

	got, err := f.service.UpcomingBookings(context.Background(), f.trainerID)
	require.NoError(t, err)
	assert.Equal(t, upcoming, got)
}
