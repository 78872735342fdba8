package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/common/auth"
	"github.com/charmheroku/railway-station/internal/common/logger"
	"github.com/charmheroku/railway-station/internal/common/web"
	"github.com/charmheroku/railway-station/internal/station/handler/dto"
	"github.com/charmheroku/railway-station/internal/station/model"
	"github.com/charmheroku/railway-station/internal/station/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type StationHandler struct {
	Catalog *service.CatalogService
	Trips   *service.TripService
}

func NewStationHandler(catalog *service.CatalogService, trips *service.TripService) *StationHandler {
	return &StationHandler{Catalog: catalog, Trips: trips}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindValidation, "invalid %s", name)
	}
	return id, nil
}

// parseDateParam validates the optional date query parameter. The value
// is advisory: trip identity is the seat key, the date only scopes
// search results.
func parseDateParam(r *http.Request) (time.Time, bool, error) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return time.Time{}, false, nil
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, false, apperr.New(apperr.KindValidation, "invalid date format, use YYYY-MM-DD")
	}
	return date, true, nil
}

func parsePassengersCount(r *http.Request) int {
	count, err := strconv.Atoi(r.URL.Query().Get("passengers_count"))
	if err != nil || count < 1 {
		return 1
	}
	return count
}

func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	claims := auth.FromContext(r)
	if claims == nil || !claims.IsStaff() {
		web.WriteError(w, apperr.New(apperr.KindForbidden, "staff access required"))
		return false
	}
	return true
}

func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Catalog.ListStations(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, stations)
}

func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	station, err := h.Catalog.GetStation(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, station)
}

func (h *StationHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	const action = "CreateStation"
	requestID := web.RequestIDFrom(r)

	if !requireStaff(w, r) {
		return
	}

	var req dto.CreateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(action, "invalid JSON in request body", requestID, "", err.Error())
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	station, err := h.Catalog.CreateStation(r.Context(), model.Station{
		Name:    req.Name,
		City:    req.City,
		Address: req.Address,
	})
	if err != nil {
		logger.Error(action, "failed to create station", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}

	logger.Info(action, "station created", requestID, strconv.FormatInt(station.ID, 10))
	web.WriteJSON(w, http.StatusCreated, station)
}

func (h *StationHandler) AutocompleteStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Catalog.AutocompleteStations(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, stations)
}

func (h *StationHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Catalog.ListRoutes(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}

	resp := make([]dto.RouteDetailResponse, 0, len(routes))
	for i := range routes {
		resp = append(resp, dto.MapRouteDetail(&routes[i]))
	}
	web.WriteJSON(w, http.StatusOK, resp)
}

func (h *StationHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	route, err := h.Catalog.GetRoute(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, dto.MapRouteDetail(route))
}

func (h *StationHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	const action = "CreateRoute"
	requestID := web.RequestIDFrom(r)

	if !requireStaff(w, r) {
		return
	}

	var req dto.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	route, err := h.Catalog.CreateRoute(r.Context(), model.Route{
		OriginStationID:      req.OriginStation,
		DestinationStationID: req.DestinationStation,
		DistanceKm:           req.DistanceKm,
	})
	if err != nil {
		logger.Error(action, "failed to create route", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}

	logger.Info(action, "route created", requestID, strconv.FormatInt(route.ID, 10))
	web.WriteJSON(w, http.StatusCreated, route)
}

func (h *StationHandler) ListTrains(w http.ResponseWriter, r *http.Request) {
	trains, err := h.Catalog.ListTrains(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, trains)
}

func (h *StationHandler) GetTrain(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	train, err := h.Catalog.GetTrain(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, train)
}

func (h *StationHandler) CreateTrain(w http.ResponseWriter, r *http.Request) {
	const action = "CreateTrain"
	requestID := web.RequestIDFrom(r)

	if !requireStaff(w, r) {
		return
	}

	var req dto.CreateTrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	train, err := h.Catalog.CreateTrain(r.Context(), model.Train{
		Name:   req.Name,
		Number: req.Number,
		Type:   model.TrainType(req.Type),
	})
	if err != nil {
		logger.Error(action, "failed to create train", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}

	logger.Info(action, "train created", requestID, strconv.FormatInt(train.ID, 10))
	web.WriteJSON(w, http.StatusCreated, train)
}

func (h *StationHandler) ListWagonTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Catalog.ListWagonTypes(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, types)
}

func (h *StationHandler) CreateWagonType(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	var req dto.CreateWagonTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	multiplier, err := decimal.NewFromString(req.FareMultiplier)
	if err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid wagon type").
			WithField("fare_multiplier", "must be a decimal number"))
		return
	}

	wagonType, err := h.Catalog.CreateWagonType(r.Context(), model.WagonType{
		Name:           req.Name,
		FareMultiplier: multiplier,
	})
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, wagonType)
}

func (h *StationHandler) ListWagonAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.Catalog.ListWagonAmenities(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, amenities)
}

func (h *StationHandler) CreateWagonAmenity(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	var req dto.CreateWagonAmenityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	amenity, err := h.Catalog.CreateWagonAmenity(r.Context(), model.WagonAmenity{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, amenity)
}

func (h *StationHandler) ListWagons(w http.ResponseWriter, r *http.Request) {
	var trainID int64
	if v := r.URL.Query().Get("train"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			web.WriteError(w, apperr.New(apperr.KindValidation, "invalid train filter"))
			return
		}
		trainID = id
	}

	wagons, err := h.Catalog.ListWagons(r.Context(), trainID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, wagons)
}

func (h *StationHandler) GetWagon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	wagon, err := h.Catalog.GetWagon(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, dto.MapWagonDetail(wagon))
}

func (h *StationHandler) CreateWagon(w http.ResponseWriter, r *http.Request) {
	const action = "CreateWagon"
	requestID := web.RequestIDFrom(r)

	if !requireStaff(w, r) {
		return
	}

	var req dto.CreateWagonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	wagon, err := h.Catalog.CreateWagon(r.Context(), model.Wagon{
		TrainID: req.Train,
		Number:  req.Number,
		TypeID:  req.Type,
		Seats:   req.Seats,
	}, req.Amenities)
	if err != nil {
		logger.Error(action, "failed to create wagon", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}

	logger.Info(action, "wagon created", requestID, strconv.FormatInt(wagon.ID, 10))
	web.WriteJSON(w, http.StatusCreated, wagon)
}

func (h *StationHandler) SearchTrips(w http.ResponseWriter, r *http.Request) {
	const action = "SearchTrips"
	requestID := web.RequestIDFrom(r)

	date, ok, err := parseDateParam(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if !ok {
		date = time.Now()
	}

	trips, err := h.Trips.Search(
		r.Context(),
		r.URL.Query().Get("origin"),
		r.URL.Query().Get("destination"),
		date,
		parsePassengersCount(r),
	)
	if err != nil {
		logger.Error(action, "trip search failed", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}

	resp := make([]dto.TripSearchResponse, 0, len(trips))
	for i := range trips {
		resp = append(resp, dto.MapTripSearch(&trips[i]))
	}
	web.WriteJSON(w, http.StatusOK, resp)
}

func (h *StationHandler) TripAvailability(w http.ResponseWriter, r *http.Request) {
	const action = "TripAvailability"
	requestID := web.RequestIDFrom(r)

	tripID, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if _, _, err := parseDateParam(r); err != nil {
		web.WriteError(w, err)
		return
	}

	report, err := h.Trips.Availability(r.Context(), tripID, parsePassengersCount(r))
	if err != nil {
		logger.Error(action, "availability report failed", requestID, strconv.FormatInt(tripID, 10), err.Error())
		web.WriteError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.MapTripAvailability(report))
}

func (h *StationHandler) SeatMap(w http.ResponseWriter, r *http.Request) {
	const action = "SeatMap"
	requestID := web.RequestIDFrom(r)

	tripID, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	wagonID, err := pathID(r, "wagonId")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if _, _, err := parseDateParam(r); err != nil {
		web.WriteError(w, err)
		return
	}

	seats, err := h.Trips.SeatMap(r.Context(), tripID, wagonID)
	if err != nil {
		logger.Error(action, "seat map failed", requestID, strconv.FormatInt(tripID, 10), err.Error())
		web.WriteError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.SeatMapResponse{
		TripID:  tripID,
		WagonID: wagonID,
		Seats:   seats,
	})
}

func (h *StationHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	trip, err := h.Trips.GetTrip(r.Context(), tripID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, dto.MapTripSearch(trip))
}

func (h *StationHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	const action = "CreateTrip"
	requestID := web.RequestIDFrom(r)

	if !requireStaff(w, r) {
		return
	}

	var req dto.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	trip, err := req.ToModel()
	if err != nil {
		web.WriteError(w, err)
		return
	}

	created, err := h.Trips.CreateTrip(r.Context(), trip)
	if err != nil {
		logger.Error(action, "failed to create trip", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}

	logger.Info(action, "trip created", requestID, strconv.FormatInt(created.ID, 10))
	web.WriteJSON(w, http.StatusCreated, created)
}

func (h *StationHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	const action = "UpdateTrip"
	requestID := web.RequestIDFrom(r)

	if !requireStaff(w, r) {
		return
	}

	tripID, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	var req dto.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	trip, err := req.ToModel()
	if err != nil {
		web.WriteError(w, err)
		return
	}
	trip.ID = tripID

	updated, err := h.Trips.UpdateTrip(r.Context(), trip)
	if err != nil {
		logger.Error(action, "failed to update trip", requestID, strconv.FormatInt(tripID, 10), err.Error())
		web.WriteError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, updated)
}
