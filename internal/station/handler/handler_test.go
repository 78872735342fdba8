package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/common/auth"
	"github.com/charmheroku/railway-station/internal/station/model"
	"github.com/charmheroku/railway-station/internal/station/service"

	"github.com/go-chi/chi/v5"
)

// stationStore is a catalog repository that only knows stations; the
// handler tests here never reach the other catalog entities.
type stationStore struct {
	stations []model.Station
}

func (s *stationStore) ListStations(_ context.Context) ([]model.Station, error) {
	return s.stations, nil
}

func (s *stationStore) GetStation(_ context.Context, id int64) (*model.Station, error) {
	for i := range s.stations {
		if s.stations[i].ID == id {
			return &s.stations[i], nil
		}
	}
	return nil, apperr.Newf(apperr.KindNotFound, "station %d not found", id)
}

func (s *stationStore) CreateStation(_ context.Context, station model.Station) (*model.Station, error) {
	station.ID = int64(len(s.stations) + 1)
	s.stations = append(s.stations, station)
	return &station, nil
}

func (s *stationStore) SearchStations(_ context.Context, _ string, _ int) ([]model.Station, error) {
	return nil, nil
}

func (s *stationStore) ListRoutes(_ context.Context) ([]model.Route, error) { return nil, nil }

func (s *stationStore) GetRoute(_ context.Context, id int64) (*model.Route, error) {
	return nil, apperr.Newf(apperr.KindNotFound, "route %d not found", id)
}

func (s *stationStore) CreateRoute(_ context.Context, route model.Route) (*model.Route, error) {
	return &route, nil
}

func (s *stationStore) ListTrains(_ context.Context) ([]model.Train, error) { return nil, nil }

func (s *stationStore) GetTrain(_ context.Context, id int64) (*model.Train, error) {
	return nil, apperr.Newf(apperr.KindNotFound, "train %d not found", id)
}

func (s *stationStore) CreateTrain(_ context.Context, t model.Train) (*model.Train, error) {
	return &t, nil
}

func (s *stationStore) ListWagonTypes(_ context.Context) ([]model.WagonType, error) {
	return nil, nil
}

func (s *stationStore) CreateWagonType(_ context.Context, wt model.WagonType) (*model.WagonType, error) {
	return &wt, nil
}

func (s *stationStore) ListWagonAmenities(_ context.Context) ([]model.WagonAmenity, error) {
	return nil, nil
}

func (s *stationStore) CreateWagonAmenity(_ context.Context, a model.WagonAmenity) (*model.WagonAmenity, error) {
	return &a, nil
}

func (s *stationStore) ListWagons(_ context.Context, _ int64) ([]model.Wagon, error) {
	return nil, nil
}

func (s *stationStore) GetWagon(_ context.Context, id int64) (*model.Wagon, error) {
	return nil, apperr.Newf(apperr.KindNotFound, "wagon %d not found", id)
}

func (s *stationStore) CreateWagon(_ context.Context, w model.Wagon, _ []int64) (*model.Wagon, error) {
	return &w, nil
}

type errorBody struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

func newTestServer(store *stationStore) (*httptest.Server, *auth.Manager) {
	manager := auth.NewManager("test-secret", time.Hour)
	h := NewStationHandler(service.NewCatalogService(store), nil)

	router := chi.NewRouter()
	h.Register(router, manager)
	return httptest.NewServer(router), manager
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	defer resp.Body.Close()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestCreateStationStaffGate(t *testing.T) {
	store := &stationStore{}
	server, manager := newTestServer(store)
	defer server.Close()

	staffToken, err := manager.GenerateToken("staff-1", auth.RoleStaff)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	passengerToken, err := manager.GenerateToken("user-1", "passenger")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	payload := `{"name": "Kazansky", "city": "Moscow"}`

	resp := doJSON(t, http.MethodPost, server.URL+"/stations", "", payload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/stations", passengerToken, payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("passenger token: status = %d, want 403", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Kind != "forbidden" {
		t.Errorf("passenger token: kind = %q, want forbidden", body.Kind)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/stations", staffToken, payload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("staff token: status = %d, want 201", resp.StatusCode)
	}
	var created model.Station
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode station: %v", err)
	}
	if created.ID == 0 || created.Name != "Kazansky" {
		t.Errorf("created = %+v, want persisted Kazansky", created)
	}
}

func TestErrorRendering(t *testing.T) {
	store := &stationStore{stations: []model.Station{{ID: 1, Name: "Kazansky", City: "Moscow"}}}
	server, manager := newTestServer(store)
	defer server.Close()

	staffToken, err := manager.GenerateToken("staff-1", auth.RoleStaff)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/stations/99", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown station: status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Kind != "not_found" || body.Error == "" {
		t.Errorf("unknown station: body = %+v, want not_found with a message", body)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/stations", staffToken, `{"city": "Moscow"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name: status = %d, want 400", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Kind != "validation" {
		t.Errorf("missing name: kind = %q, want validation", body.Kind)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/stations", staffToken, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad JSON: status = %d, want 400", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Kind != "validation" {
		t.Errorf("bad JSON: kind = %q, want validation", body.Kind)
	}
}
