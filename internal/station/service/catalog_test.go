package service

import (
	"context"
	"strings"
	"testing"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"
)

// fakeCatalogRepo serves stations from a slice and counts search hits so
// the cache behavior is observable. The remaining catalog methods store
// whatever they are given.
type fakeCatalogRepo struct {
	stations    []model.Station
	searchCalls int
	searchLimit int
}

func (f *fakeCatalogRepo) ListStations(_ context.Context) ([]model.Station, error) {
	return f.stations, nil
}

func (f *fakeCatalogRepo) GetStation(_ context.Context, id int64) (*model.Station, error) {
	for i := range f.stations {
		if f.stations[i].ID == id {
			return &f.stations[i], nil
		}
	}
	return nil, apperr.Newf(apperr.KindNotFound, "station %d not found", id)
}

func (f *fakeCatalogRepo) CreateStation(_ context.Context, s model.Station) (*model.Station, error) {
	s.ID = int64(len(f.stations) + 1)
	f.stations = append(f.stations, s)
	return &s, nil
}

func (f *fakeCatalogRepo) SearchStations(_ context.Context, query string, limit int) ([]model.Station, error) {
	f.searchCalls++
	f.searchLimit = limit

	var matches []model.Station
	for _, s := range f.stations {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(s.City), strings.ToLower(query)) {
			matches = append(matches, s)
		}
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (f *fakeCatalogRepo) ListRoutes(_ context.Context) ([]model.Route, error) { return nil, nil }

func (f *fakeCatalogRepo) GetRoute(_ context.Context, id int64) (*model.Route, error) {
	return nil, apperr.Newf(apperr.KindNotFound, "route %d not found", id)
}

func (f *fakeCatalogRepo) CreateRoute(_ context.Context, route model.Route) (*model.Route, error) {
	route.ID = 1
	return &route, nil
}

func (f *fakeCatalogRepo) ListTrains(_ context.Context) ([]model.Train, error) { return nil, nil }

func (f *fakeCatalogRepo) GetTrain(_ context.Context, id int64) (*model.Train, error) {
	return nil, apperr.Newf(apperr.KindNotFound, "train %d not found", id)
}

func (f *fakeCatalogRepo) CreateTrain(_ context.Context, t model.Train) (*model.Train, error) {
	t.ID = 1
	return &t, nil
}

func (f *fakeCatalogRepo) ListWagonTypes(_ context.Context) ([]model.WagonType, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) CreateWagonType(_ context.Context, wt model.WagonType) (*model.WagonType, error) {
	wt.ID = 1
	return &wt, nil
}

func (f *fakeCatalogRepo) ListWagonAmenities(_ context.Context) ([]model.WagonAmenity, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) CreateWagonAmenity(_ context.Context, a model.WagonAmenity) (*model.WagonAmenity, error) {
	a.ID = 1
	return &a, nil
}

func (f *fakeCatalogRepo) ListWagons(_ context.Context, _ int64) ([]model.Wagon, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) GetWagon(_ context.Context, id int64) (*model.Wagon, error) {
	return nil, apperr.Newf(apperr.KindNotFound, "wagon %d not found", id)
}

func (f *fakeCatalogRepo) CreateWagon(_ context.Context, w model.Wagon, _ []int64) (*model.Wagon, error) {
	w.ID = 1
	return &w, nil
}

func seedStations(repo *fakeCatalogRepo, count int) {
	for i := 1; i <= count; i++ {
		repo.stations = append(repo.stations, model.Station{
			ID:   int64(i),
			Name: "Moscow Terminal",
			City: "Moscow",
		})
	}
}

func TestAutocompleteRequiresTwoCharacters(t *testing.T) {
	repo := &fakeCatalogRepo{}
	seedStations(repo, 3)
	svc := NewCatalogService(repo)

	for _, query := range []string{"", "m"} {
		stations, err := svc.AutocompleteStations(context.Background(), query)
		if err != nil {
			t.Fatalf("AutocompleteStations(%q): %v", query, err)
		}
		if len(stations) != 0 {
			t.Errorf("query %q returned %d stations, want 0", query, len(stations))
		}
	}
	if repo.searchCalls != 0 {
		t.Errorf("short queries hit the repository %d times, want 0", repo.searchCalls)
	}
}

func TestAutocompleteCapsResultsAtTen(t *testing.T) {
	repo := &fakeCatalogRepo{}
	seedStations(repo, 25)
	svc := NewCatalogService(repo)

	stations, err := svc.AutocompleteStations(context.Background(), "mos")
	if err != nil {
		t.Fatalf("AutocompleteStations: %v", err)
	}
	if len(stations) != 10 {
		t.Errorf("got %d stations, want 10", len(stations))
	}
	if repo.searchLimit != 10 {
		t.Errorf("repository asked for limit %d, want 10", repo.searchLimit)
	}
}

func TestAutocompleteCachesRepeatedQueries(t *testing.T) {
	repo := &fakeCatalogRepo{}
	seedStations(repo, 3)
	svc := NewCatalogService(repo)

	for i := 0; i < 3; i++ {
		if _, err := svc.AutocompleteStations(context.Background(), "moscow"); err != nil {
			t.Fatalf("AutocompleteStations: %v", err)
		}
	}
	if repo.searchCalls != 1 {
		t.Errorf("repository hit %d times for the same query, want 1 (cached)", repo.searchCalls)
	}

	// A different query is its own cache entry.
	if _, err := svc.AutocompleteStations(context.Background(), "terminal"); err != nil {
		t.Fatalf("AutocompleteStations: %v", err)
	}
	if repo.searchCalls != 2 {
		t.Errorf("repository hit %d times after a new query, want 2", repo.searchCalls)
	}
}

func TestCreateRouteValidation(t *testing.T) {
	repo := &fakeCatalogRepo{}
	seedStations(repo, 2)
	svc := NewCatalogService(repo)
	ctx := context.Background()

	cases := []struct {
		name  string
		route model.Route
		field string
	}{
		{"same origin and destination", model.Route{OriginStationID: 1, DestinationStationID: 1, DistanceKm: 100}, "destination_station"},
		{"non-positive distance", model.Route{OriginStationID: 1, DestinationStationID: 2, DistanceKm: 0}, "distance_km"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRoute(ctx, tc.route)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
			if _, ok := apperr.As(err).Fields[tc.field]; !ok {
				t.Errorf("error fields %v missing %q", apperr.As(err).Fields, tc.field)
			}
		})
	}

	// Unknown stations are rejected even when the shape is valid.
	_, err := svc.CreateRoute(ctx, model.Route{OriginStationID: 1, DestinationStationID: 99, DistanceKm: 100})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not_found for unknown station", err)
	}
}

func TestCreateTrainDefaultsAndValidatesType(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogRepo{})
	ctx := context.Background()

	train, err := svc.CreateTrain(ctx, model.Train{Name: "Sapsan", Number: "752A"})
	if err != nil {
		t.Fatalf("CreateTrain: %v", err)
	}
	if train.Type != model.TrainPassenger {
		t.Errorf("type = %s, want default passenger", train.Type)
	}

	if _, err := svc.CreateTrain(ctx, model.Train{Name: "X", Number: "1", Type: "maglev"}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("unknown type: err = %v, want validation", err)
	}
	if _, err := svc.CreateTrain(ctx, model.Train{Name: "X"}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("missing number: err = %v, want validation", err)
	}
}
