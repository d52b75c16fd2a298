package aircraft

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AircraftUseCase interface {
	List(ctx context.Context) ([]domain.Aircraft, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Aircraft, error)
}

type FleetCache interface {
	GetAircraft(ctx context.Context) ([]domain.Aircraft, error)
	SetAircraft(ctx context.Context, fleet []domain.Aircraft) error
}

type AircraftService struct {
	repo  repository.AircraftRepository
	cache FleetCache
}

// NewAircraftService builds the fleet lookup. cache may be nil.
func NewAircraftService(repo repository.AircraftRepository, cache FleetCache) *AircraftService {
	return &AircraftService{repo: repo, cache: cache}
}

func (s *AircraftService) List(ctx context.Context) ([]domain.Aircraft, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAircraft(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	fleet, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetAircraft(ctx, fleet); err != nil {
			logrus.WithError(err).Warn("aircraft cache write failed")
		}
	}
	return fleet, nil
}

func (s *AircraftService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Aircraft, error) {
	return s.repo.GetByID(ctx, id)
}

var _ AircraftUseCase = (*AircraftService)(nil)
