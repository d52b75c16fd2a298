package aircraft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAircraftRepository struct {
	mock.Mock
}

func (m *MockAircraftRepository) List(ctx context.Context) ([]domain.Aircraft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Aircraft), args.Error(1)
}

func (m *MockAircraftRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Aircraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Aircraft), args.Error(1)
}

type MockFleetCache struct {
	mock.Mock
}

func (m *MockFleetCache) GetAircraft(ctx context.Context) ([]domain.Aircraft, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Aircraft), args.Error(1)
}

func (m *MockFleetCache) SetAircraft(ctx context.Context, fleet []domain.Aircraft) error {
	args := m.Called(ctx, fleet)
	return args.Error(0)
}

func testFleet() []domain.Aircraft {
	now := time.Now()
	return []domain.Aircraft{
		{ID: uuid.New(), Registration: "ZK-ABC", Type: "C172", Model: "Skyhawk", OnLine: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Registration: "ZK-XYZ", Type: "PA28", Model: "Warrior", OnLine: false, CreatedAt: now, UpdatedAt: now},
	}
}

func TestAircraftService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockAircraftRepository{}
	mockCache := &MockFleetCache{}
	service := NewAircraftService(mockRepo, mockCache)

	ctx := context.Background()
	fleet := testFleet()

	mockCache.On("GetAircraft", ctx).Return(([]domain.Aircraft)(nil), nil).Once()
	mockRepo.On("List", ctx).Return(fleet, nil).Once()
	mockCache.On("SetAircraft", ctx, fleet).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, fleet, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestAircraftService_List_CacheHit(t *testing.T) {
	mockRepo := &MockAircraftRepository{}
	mockCache := &MockFleetCache{}
	service := NewAircraftService(mockRepo, mockCache)

	ctx := context.Background()
	fleet := testFleet()

	mockCache.On("GetAircraft", ctx).Return(fleet, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, fleet, result)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestAircraftService_List_CacheWriteFailure(t *testing.T) {
	mockRepo := &MockAircraftRepository{}
	mockCache := &MockFleetCache{}
	service := NewAircraftService(mockRepo, mockCache)

	ctx := context.Background()
	fleet := testFleet()

	mockCache.On("GetAircraft", ctx).Return(([]domain.Aircraft)(nil), errors.New("redis down")).Once()
	mockRepo.On("List", ctx).Return(fleet, nil).Once()
	mockCache.On("SetAircraft", ctx, fleet).Return(errors.New("redis down")).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestAircraftService_List_RepoError(t *testing.T) {
	mockRepo := &MockAircraftRepository{}
	service := NewAircraftService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("List", ctx).Return(nil, &domain.PersistenceError{Op: "list aircraft", Err: errors.New("timeout")}).Once()

	result, err := service.List(ctx)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestAircraftService_GetByID(t *testing.T) {
	mockRepo := &MockAircraftRepository{}
	service := NewAircraftService(mockRepo, nil)

	ctx := context.Background()
	a := testFleet()[0]
	missing := uuid.New()

	mockRepo.On("GetByID", ctx, a.ID).Return(&a, nil).Once()
	mockRepo.On("GetByID", ctx, missing).Return(nil, domain.ErrAircraftMissing).Once()

	got, err := service.GetByID(ctx, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, "ZK-ABC", got.Registration)

	_, err = service.GetByID(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrAircraftMissing)
}
