package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"

	"github.com/patrickmn/go-cache"
)

type CatalogRepository interface {
	ListStations(ctx context.Context) ([]model.Station, error)
	GetStation(ctx context.Context, id int64) (*model.Station, error)
	CreateStation(ctx context.Context, s model.Station) (*model.Station, error)
	SearchStations(ctx context.Context, query string, limit int) ([]model.Station, error)
	ListRoutes(ctx context.Context) ([]model.Route, error)
	GetRoute(ctx context.Context, id int64) (*model.Route, error)
	CreateRoute(ctx context.Context, route model.Route) (*model.Route, error)
	ListTrains(ctx context.Context) ([]model.Train, error)
	GetTrain(ctx context.Context, id int64) (*model.Train, error)
	CreateTrain(ctx context.Context, t model.Train) (*model.Train, error)
	ListWagonTypes(ctx context.Context) ([]model.WagonType, error)
	CreateWagonType(ctx context.Context, wt model.WagonType) (*model.WagonType, error)
	ListWagonAmenities(ctx context.Context) ([]model.WagonAmenity, error)
	CreateWagonAmenity(ctx context.Context, a model.WagonAmenity) (*model.WagonAmenity, error)
	ListWagons(ctx context.Context, trainID int64) ([]model.Wagon, error)
	GetWagon(ctx context.Context, id int64) (*model.Wagon, error)
	CreateWagon(ctx context.Context, w model.Wagon, amenityIDs []int64) (*model.Wagon, error)
}

const (
	autocompleteCacheTTL     = 5 * time.Minute
	autocompleteCacheCleanup = 10 * time.Minute
	autocompleteLimit        = 10
)

// CatalogService serves the static reference data. Station autocomplete
// is cached in-process, the data changes rarely.
type CatalogService struct {
	repo              CatalogRepository
	autocompleteCache *cache.Cache
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{
		repo:              repo,
		autocompleteCache: cache.New(autocompleteCacheTTL, autocompleteCacheCleanup),
	}
}

func (s *CatalogService) ListStations(ctx context.Context) ([]model.Station, error) {
	return s.repo.ListStations(ctx)
}

func (s *CatalogService) GetStation(ctx context.Context, id int64) (*model.Station, error) {
	return s.repo.GetStation(ctx, id)
}

func (s *CatalogService) CreateStation(ctx context.Context, station model.Station) (*model.Station, error) {
	if station.Name == "" || station.City == "" {
		return nil, apperr.New(apperr.KindValidation, "station name and city are required")
	}
	return s.repo.CreateStation(ctx, station)
}

// AutocompleteStations returns up to 10 stations matching the query.
// Queries shorter than 2 characters return nothing.
func (s *CatalogService) AutocompleteStations(ctx context.Context, query string) ([]model.Station, error) {
	if len(query) < 2 {
		return []model.Station{}, nil
	}

	cacheKey := fmt.Sprintf("autocomplete:%s", query)
	if cached, found := s.autocompleteCache.Get(cacheKey); found {
		return cached.([]model.Station), nil
	}

	stations, err := s.repo.SearchStations(ctx, query, autocompleteLimit)
	if err != nil {
		return nil, err
	}
	if stations == nil {
		stations = []model.Station{}
	}

	s.autocompleteCache.Set(cacheKey, stations, cache.DefaultExpiration)
	return stations, nil
}

func (s *CatalogService) ListRoutes(ctx context.Context) ([]model.Route, error) {
	return s.repo.ListRoutes(ctx)
}

func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*model.Route, error) {
	return s.repo.GetRoute(ctx, id)
}

func (s *CatalogService) CreateRoute(ctx context.Context, route model.Route) (*model.Route, error) {
	if route.OriginStationID == route.DestinationStationID {
		return nil, apperr.New(apperr.KindValidation, "invalid route").
			WithField("destination_station", "station of departure cannot be the same as station of arrival")
	}
	if route.DistanceKm <= 0 {
		return nil, apperr.New(apperr.KindValidation, "invalid route").
			WithField("distance_km", "distance must be positive")
	}

	if _, err := s.repo.GetStation(ctx, route.OriginStationID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStation(ctx, route.DestinationStationID); err != nil {
		return nil, err
	}

	return s.repo.CreateRoute(ctx, route)
}

func (s *CatalogService) ListTrains(ctx context.Context) ([]model.Train, error) {
	return s.repo.ListTrains(ctx)
}

func (s *CatalogService) GetTrain(ctx context.Context, id int64) (*model.Train, error) {
	return s.repo.GetTrain(ctx, id)
}

func (s *CatalogService) CreateTrain(ctx context.Context, train model.Train) (*model.Train, error) {
	if train.Number == "" {
		return nil, apperr.New(apperr.KindValidation, "invalid train").
			WithField("number", "train number is required")
	}
	if train.Type == "" {
		train.Type = model.TrainPassenger
	}
	if !train.Type.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "invalid train").
			WithField("train_type", fmt.Sprintf("unknown train type %q", train.Type))
	}
	return s.repo.CreateTrain(ctx, train)
}

func (s *CatalogService) ListWagonTypes(ctx context.Context) ([]model.WagonType, error) {
	return s.repo.ListWagonTypes(ctx)
}

func (s *CatalogService) CreateWagonType(ctx context.Context, wt model.WagonType) (*model.WagonType, error) {
	if !wt.FareMultiplier.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "invalid wagon type").
			WithField("fare_multiplier", "fare multiplier must be positive")
	}
	return s.repo.CreateWagonType(ctx, wt)
}

func (s *CatalogService) ListWagonAmenities(ctx context.Context) ([]model.WagonAmenity, error) {
	return s.repo.ListWagonAmenities(ctx)
}

func (s *CatalogService) CreateWagonAmenity(ctx context.Context, a model.WagonAmenity) (*model.WagonAmenity, error) {
	if a.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "amenity name is required")
	}
	return s.repo.CreateWagonAmenity(ctx, a)
}

func (s *CatalogService) ListWagons(ctx context.Context, trainID int64) ([]model.Wagon, error) {
	return s.repo.ListWagons(ctx, trainID)
}

func (s *CatalogService) GetWagon(ctx context.Context, id int64) (*model.Wagon, error) {
	return s.repo.GetWagon(ctx, id)
}

func (s *CatalogService) CreateWagon(ctx context.Context, wagon model.Wagon, amenityIDs []int64) (*model.Wagon, error) {
	if wagon.Seats <= 0 {
		return nil, apperr.New(apperr.KindValidation, "invalid wagon").
			WithField("seats", "seat count must be positive")
	}
	if wagon.Number <= 0 {
		return nil, apperr.New(apperr.KindValidation, "invalid wagon").
			WithField("number", "wagon number must be positive")
	}
	if _, err := s.repo.GetTrain(ctx, wagon.TrainID); err != nil {
		return nil, err
	}
	return s.repo.CreateWagon(ctx, wagon, amenityIDs)
}
