package service

import (
	"context"
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/common/logger"
	"github.com/charmheroku/railway-station/internal/station/model"

	"github.com/shopspring/decimal"
)

type TripRepository interface {
	InventoryRepository
	CreateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error)
	UpdateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error)
	HasOverlappingTrip(ctx context.Context, trainID int64, departure, arrival time.Time, excludeTripID int64) (bool, error)
	SearchTrips(ctx context.Context, origin, destination string, date time.Time) ([]model.Trip, error)
	ListAlternativeTrips(ctx context.Context, routeID, trainID int64, from time.Time, limit int) ([]model.Trip, error)
}

type TripService struct {
	repo      TripRepository
	inventory *InventoryService
}

func NewTripService(repo TripRepository, inventory *InventoryService) *TripService {
	return &TripService{repo: repo, inventory: inventory}
}

func (s *TripService) GetTrip(ctx context.Context, id int64) (*model.Trip, error) {
	return s.repo.GetTrip(ctx, id)
}

func (s *TripService) CreateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error) {
	if trip.BasePrice.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "invalid trip").
			WithField("base_price", "base price cannot be negative")
	}
	if err := s.validateSchedule(ctx, trip, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateTrip(ctx, trip)
	if err != nil {
		return nil, err
	}

	logger.Info("trip_created", "trip created", "", "")
	return created, nil
}

func (s *TripService) UpdateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error) {
	if trip.BasePrice.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "invalid trip").
			WithField("base_price", "base price cannot be negative")
	}
	if err := s.validateSchedule(ctx, trip, trip.ID); err != nil {
		return nil, err
	}
	return s.repo.UpdateTrip(ctx, trip)
}

// Search finds trips for the day matching origin/destination and keeps
// only those that can seat passengersCount in at least one class.
func (s *TripService) Search(ctx context.Context, origin, destination string, date time.Time, passengersCount int) ([]model.Trip, error) {
	if origin == "" || destination == "" {
		return nil, apperr.New(apperr.KindValidation, "origin and destination are required")
	}
	if passengersCount < 1 {
		passengersCount = 1
	}

	trips, err := s.repo.SearchTrips(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Trip, 0, len(trips))
	for _, trip := range trips {
		available, err := s.inventory.IsAvailableForBooking(ctx, trip.ID, passengersCount, "")
		if err != nil {
			return nil, err
		}
		if available {
			filtered = append(filtered, trip)
		}
	}
	return filtered, nil
}

// ClassOption extends the class report with booking context for a
// particular passenger count.
type ClassOption struct {
	TotalSeats         int             `json:"total_seats"`
	BookedSeats        int             `json:"booked_seats"`
	AvailableSeats     int             `json:"available_seats"`
	FareMultiplier     decimal.Decimal `json:"fare_multiplier"`
	PriceForPassengers decimal.Decimal `json:"price_for_passengers"`
	HasEnoughSeats     bool            `json:"has_enough_seats"`
}

// DateOption is one bookable alternative shown on the availability
// screen: this trip or a later run on the same route and train.
type DateOption struct {
	TripID        int64                   `json:"trip_id"`
	DepartureTime time.Time               `json:"departure_time"`
	ArrivalTime   time.Time               `json:"arrival_time"`
	IsAvailable   bool                    `json:"is_available"`
	Classes       map[string]*ClassOption `json:"classes"`
}

type TripAvailability struct {
	Trip         *model.Trip
	Classes      map[string]*model.ClassAvailability
	Alternatives []DateOption
}

const maxAlternativeTrips = 5

// Availability reports the per-class breakdown for the trip, plus up to
// five alternatives (including the trip itself) on the same route+train.
func (s *TripService) Availability(ctx context.Context, tripID int64, passengersCount int) (*TripAvailability, error) {
	if passengersCount < 1 {
		passengersCount = 1
	}

	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	classes, err := s.inventory.AvailabilityByClass(ctx, tripID)
	if err != nil {
		return nil, err
	}

	alternatives, err := s.repo.ListAlternativeTrips(ctx, trip.RouteID, trip.TrainID, trip.DepartureTime, maxAlternativeTrips)
	if err != nil {
		return nil, err
	}

	options := make([]DateOption, 0, len(alternatives))
	for _, alt := range alternatives {
		altClasses, err := s.inventory.AvailabilityByClass(ctx, alt.ID)
		if err != nil {
			return nil, err
		}

		option := DateOption{
			TripID:        alt.ID,
			DepartureTime: alt.DepartureTime,
			ArrivalTime:   alt.ArrivalTime,
			Classes:       make(map[string]*ClassOption, len(altClasses)),
		}

		for name, info := range altClasses {
			price := alt.BasePrice.
				Mul(info.FareMultiplier).
				Mul(decimal.NewFromInt(int64(passengersCount))).
				Round(2)

			option.Classes[name] = &ClassOption{
				TotalSeats:         info.TotalSeats,
				BookedSeats:        info.BookedSeats,
				AvailableSeats:     info.AvailableSeats,
				FareMultiplier:     info.FareMultiplier,
				PriceForPassengers: price,
				HasEnoughSeats:     info.AvailableSeats >= passengersCount,
			}
			if info.AvailableSeats >= passengersCount {
				option.IsAvailable = true
			}
		}

		options = append(options, option)
	}

	return &TripAvailability{
		Trip:         trip,
		Classes:      classes,
		Alternatives: options,
	}, nil
}

func (s *TripService) SeatMap(ctx context.Context, tripID, wagonID int64) ([]model.Seat, error) {
	return s.inventory.SeatMap(ctx, tripID, wagonID)
}
