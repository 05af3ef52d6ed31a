package services

import (
	"context"
	"io"
	"testing"
	"time"

	"trainerdesk/internal/caching"
	"trainerdesk/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockTrainerRepository struct {
	mock.Mock
}

func (m *MockTrainerRepository) CreateWithPrimaryUser(ctx context.Context, trainer *models.Trainer, user *models.User) error {
	args := m.Called(ctx, trainer, user)
	return args.Error(0)
}

func (m *MockTrainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.Trainer, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	args := m.Called(ctx, subdomain)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrainerRepository) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Trainer, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetPrimaryByTrainerID(ctx context.Context, trainerID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Count(ctx context.Context, trainerID uuid.UUID, filter models.BookingFilter) (int, error) {
	args := m.Called(ctx, trainerID, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) SumDuration(ctx context.Context, trainerID uuid.UUID, from, to time.Time) (int, error) {
	args := m.Called(ctx, trainerID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) ListUpcoming(ctx context.Context, trainerID uuid.UUID, now time.Time, limit int) ([]*models.UpcomingBooking, error) {
	args := m.Called(ctx, trainerID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UpcomingBooking), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Count(ctx context.Context, trainerID uuid.UUID) (int, error) {
	args := m.Called(ctx, trainerID)
	return args.Int(0), args.Error(1)
}

func (m *MockClientRepository) CountActive(ctx context.Context, trainerID uuid.UUID) (int, error) {
	args := m.Called(ctx, trainerID)
	return args.Int(0), args.Error(1)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadObject(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) ObjectURL(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}

func (m *MockMinioService) DeleteObject(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMinioService) BucketExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// newTestCache returns a cache backed by an in-process redis.
func newTestCache(t *testing.T) (*miniredis.Miniredis, caching.CacheService) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, caching.NewRedisCacheService(client)
}

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}
