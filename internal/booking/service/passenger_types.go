package service

import (
	"context"
	"time"

	"github.com/charmheroku/railway-station/internal/booking/model"

	"github.com/patrickmn/go-cache"
)

const passengerTypesCacheKey = "passenger_types:active"

type PassengerTypeRepository interface {
	ListActive(ctx context.Context) ([]model.PassengerType, error)
	GetPassengerType(ctx context.Context, id int64) (*model.PassengerType, error)
}

// PassengerTypeService caches the active list; the set changes rarely
// and every booking page requests it.
type PassengerTypeService struct {
	repo  PassengerTypeRepository
	cache *cache.Cache
}

func NewPassengerTypeService(repo PassengerTypeRepository) *PassengerTypeService {
	return &PassengerTypeService{
		repo:  repo,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *PassengerTypeService) ListActive(ctx context.Context) ([]model.PassengerType, error) {
	if cached, ok := s.cache.Get(passengerTypesCacheKey); ok {
		return cached.([]model.PassengerType), nil
	}

	types, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(passengerTypesCacheKey, types)
	return types, nil
}

// GetPassengerType bypasses the cache: pricing takes the stored row.
func (s *PassengerTypeService) GetPassengerType(ctx context.Context, id int64) (*model.PassengerType, error) {
	return s.repo.GetPassengerType(ctx, id)
}
