package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/parasjain182005/Travel-Website/internal/domain"
)

// =============================================================================
// Mock TourRepository
// =============================================================================

type mockTourRepo struct {
	mock.Mock
}

func (m *mockTourRepo) Create(ctx context.Context, tour *domain.Tour) error {
	return m.Called(ctx, tour).Error(0)
}

func (m *mockTourRepo) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tour), args.Error(1)
}

func (m *mockTourRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTourRepo) Update(ctx context.Context, tour *domain.Tour) error {
	return m.Called(ctx, tour).Error(0)
}

func (m *mockTourRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTourRepo) List(ctx context.Context, page, perPage int) ([]domain.Tour, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Tour), args.Int(1), args.Error(2)
}

func (m *mockTourRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Tour, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Tour), args.Error(1)
}

func (m *mockTourRepo) ListFeatured(ctx context.Context, limit int) ([]domain.Tour, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Tour), args.Error(1)
}

func (m *mockTourRepo) Search(ctx context.Context, filter domain.TourFilter) ([]domain.Tour, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Tour), args.Int(1), args.Error(2)
}

func (m *mockTourRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockTourRepo) RefreshRating(ctx context.Context, id string) (domain.RatingSummary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.RatingSummary), args.Error(1)
}

// =============================================================================
// Mock ReviewRepository
// =============================================================================

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepo) ListByTour(ctx context.Context, tourID string) ([]domain.Review, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Summary(ctx context.Context, tourID string) (domain.RatingSummary, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).(domain.RatingSummary), args.Error(1)
}

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) SetStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, status string, page, perPage int) ([]domain.User, int, error) {
	args := m.Called(ctx, status, page, perPage)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

// =============================================================================
// Mock BookingRepository
// =============================================================================

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, page, perPage int) ([]domain.Booking, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Booking), args.Int(1), args.Error(2)
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Booking, int, error) {
	args := m.Called(ctx, userID, page, perPage)
	return args.Get(0).([]domain.Booking), args.Int(1), args.Error(2)
}

func (m *mockBookingRepo) ListByEmail(ctx context.Context, email string, page, perPage int) ([]domain.Booking, int, error) {
	args := m.Called(ctx, email, page, perPage)
	return args.Get(0).([]domain.Booking), args.Int(1), args.Error(2)
}
