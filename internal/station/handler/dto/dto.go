package dto

import (
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"
	"github.com/charmheroku/railway-station/internal/station/service"

	"github.com/shopspring/decimal"
)

type CreateStationRequest struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type CreateRouteRequest struct {
	OriginStation      int64 `json:"origin_station"`
	DestinationStation int64 `json:"destination_station"`
	DistanceKm         int   `json:"distance_km"`
}

type RouteDetailResponse struct {
	ID                 int64  `json:"id"`
	OriginStation      string `json:"origin_station"`
	DestinationStation string `json:"destination_station"`
	DistanceKm         int    `json:"distance_km"`
}

func MapRouteDetail(route *model.Route) RouteDetailResponse {
	return RouteDetailResponse{
		ID:                 route.ID,
		OriginStation:      route.Origin.Name,
		DestinationStation: route.Destination.Name,
		DistanceKm:         route.DistanceKm,
	}
}

type CreateTrainRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Type   string `json:"train_type"`
}

type CreateWagonTypeRequest struct {
	Name           string `json:"name"`
	FareMultiplier string `json:"fare_multiplier"`
}

type CreateWagonAmenityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateWagonRequest struct {
	Train     int64   `json:"train"`
	Number    int     `json:"number"`
	Type      int64   `json:"type"`
	Seats     int     `json:"seats"`
	Amenities []int64 `json:"amenities"`
}

type AmenityRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type WagonDetailResponse struct {
	ID                  int64        `json:"id"`
	Number              int          `json:"number"`
	Seats               int          `json:"seats"`
	WagonType           string       `json:"wagon_type"`
	WagonFareMultiplier string       `json:"wagon_fare_multiplier"`
	Amenities           []AmenityRef `json:"amenities"`
	Train               *model.Train `json:"train,omitempty"`
}

func MapWagonDetail(wagon *model.Wagon) WagonDetailResponse {
	amenities := make([]AmenityRef, 0, len(wagon.Amenities))
	for _, a := range wagon.Amenities {
		amenities = append(amenities, AmenityRef{ID: a.ID, Name: a.Name})
	}
	return WagonDetailResponse{
		ID:                  wagon.ID,
		Number:              wagon.Number,
		Seats:               wagon.Seats,
		WagonType:           wagon.Type.Name,
		WagonFareMultiplier: wagon.Type.FareMultiplier.StringFixed(2),
		Amenities:           amenities,
		Train:               wagon.Train,
	}
}

type CreateTripRequest struct {
	Route         int64  `json:"route"`
	Train         int64  `json:"train"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	BasePrice     string `json:"base_price"`
}

func (r CreateTripRequest) ToModel() (model.Trip, error) {
	departure, err := time.Parse(time.RFC3339, r.DepartureTime)
	if err != nil {
		return model.Trip{}, apperr.New(apperr.KindValidation, "invalid trip").
			WithField("departure_time", "must be RFC3339")
	}
	arrival, err := time.Parse(time.RFC3339, r.ArrivalTime)
	if err != nil {
		return model.Trip{}, apperr.New(apperr.KindValidation, "invalid trip").
			WithField("arrival_time", "must be RFC3339")
	}
	basePrice, err := decimal.NewFromString(r.BasePrice)
	if err != nil {
		return model.Trip{}, apperr.New(apperr.KindValidation, "invalid trip").
			WithField("base_price", "must be a decimal number")
	}

	return model.Trip{
		RouteID:       r.Route,
		TrainID:       r.Train,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		BasePrice:     basePrice,
	}, nil
}

type TripSearchResponse struct {
	ID                 int64  `json:"id"`
	TrainName          string `json:"train_name"`
	TrainNumber        string `json:"train_number"`
	OriginStation      string `json:"origin_station"`
	DestinationStation string `json:"destination_station"`
	DepartureTime      string `json:"departure_time"`
	ArrivalTime        string `json:"arrival_time"`
	DurationMinutes    int    `json:"duration_minutes"`
	BasePrice          string `json:"base_price"`
}

func MapTripSearch(trip *model.Trip) TripSearchResponse {
	return TripSearchResponse{
		ID:                 trip.ID,
		TrainName:          trip.Train.Name,
		TrainNumber:        trip.Train.Number,
		OriginStation:      trip.Route.Origin.Name,
		DestinationStation: trip.Route.Destination.Name,
		DepartureTime:      trip.DepartureTime.Format(time.RFC3339),
		ArrivalTime:        trip.ArrivalTime.Format(time.RFC3339),
		DurationMinutes:    trip.DurationMinutes(),
		BasePrice:          trip.BasePrice.StringFixed(2),
	}
}

type TripAvailabilityResponse struct {
	TripSearchResponse
	Classes           map[string]*model.ClassAvailability `json:"classes"`
	DatesAvailability []service.DateOption                `json:"dates_availability"`
}

func MapTripAvailability(report *service.TripAvailability) TripAvailabilityResponse {
	return TripAvailabilityResponse{
		TripSearchResponse: MapTripSearch(report.Trip),
		Classes:            report.Classes,
		DatesAvailability:  report.Alternatives,
	}
}

type SeatMapResponse struct {
	TripID  int64        `json:"trip_id"`
	WagonID int64        `json:"wagon_id"`
	Seats   []model.Seat `json:"seats"`
}
