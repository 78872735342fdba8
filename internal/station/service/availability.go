package service

import (
	"context"
	"sort"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"
)

// InventoryRepository is the slice of storage the seat engine reads.
type InventoryRepository interface {
	GetTrip(ctx context.Context, id int64) (*model.Trip, error)
	ListTripWagons(ctx context.Context, tripID int64) ([]model.Wagon, error)
	ListBookedSeats(ctx context.Context, tripID int64) ([]model.BookedSeat, error)
	WagonExists(ctx context.Context, id int64) (bool, error)
}

// InventoryService computes seat availability for trips. All reads are
// advisory: the unique constraint on (trip, wagon, seat) decides the
// actual booking outcome at write time.
type InventoryService struct {
	repo InventoryRepository
}

func NewInventoryService(repo InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

// AvailabilityByClass reports total/booked/available seats per wagon
// class of the trip's train.
func (s *InventoryService) AvailabilityByClass(ctx context.Context, tripID int64) (map[string]*model.ClassAvailability, error) {
	wagons, err := s.repo.ListTripWagons(ctx, tripID)
	if err != nil {
		return nil, err
	}

	classes := make(map[string]*model.ClassAvailability)
	wagonClass := make(map[int64]string, len(wagons))

	for _, wagon := range wagons {
		className := wagon.Type.Name
		wagonClass[wagon.ID] = className

		info, ok := classes[className]
		if !ok {
			info = &model.ClassAvailability{FareMultiplier: wagon.Type.FareMultiplier}
			classes[className] = info
		}
		info.TotalSeats += wagon.Seats
	}

	booked, err := s.repo.ListBookedSeats(ctx, tripID)
	if err != nil {
		return nil, err
	}

	for _, seat := range booked {
		if className, ok := wagonClass[seat.WagonID]; ok {
			classes[className].BookedSeats++
		}
	}

	for _, info := range classes {
		info.AvailableSeats = info.TotalSeats - info.BookedSeats
	}

	return classes, nil
}

// IsAvailableForBooking reports whether the given class (or any class,
// when wagonClass is empty) can seat passengersCount more passengers.
func (s *InventoryService) IsAvailableForBooking(ctx context.Context, tripID int64, passengersCount int, wagonClass string) (bool, error) {
	classes, err := s.AvailabilityByClass(ctx, tripID)
	if err != nil {
		return false, err
	}

	if wagonClass != "" {
		info, ok := classes[wagonClass]
		if !ok {
			return false, nil
		}
		return info.AvailableSeats >= passengersCount, nil
	}

	for _, info := range classes {
		if info.AvailableSeats >= passengersCount {
			return true, nil
		}
	}
	return false, nil
}

// SeatMap lists every seat of the wagon in order with availability and
// the seat price for this trip.
func (s *InventoryService) SeatMap(ctx context.Context, tripID, wagonID int64) ([]model.Seat, error) {
	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	wagons, err := s.repo.ListTripWagons(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var wagon *model.Wagon
	for i := range wagons {
		if wagons[i].ID == wagonID {
			wagon = &wagons[i]
			break
		}
	}
	if wagon == nil {
		exists, err := s.repo.WagonExists(ctx, wagonID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.Newf(apperr.KindNotFound, "wagon %d not found", wagonID)
		}
		return nil, apperr.New(apperr.KindWagonTripMismatch, "wagon does not belong to the train of this trip")
	}

	booked, err := s.repo.ListBookedSeats(ctx, tripID)
	if err != nil {
		return nil, err
	}

	taken := make(map[int]bool)
	for _, seat := range booked {
		if seat.WagonID == wagonID {
			taken[seat.SeatNumber] = true
		}
	}

	price := trip.BasePrice.Mul(wagon.Type.FareMultiplier).Round(2)

	seats := make([]model.Seat, 0, wagon.Seats)
	for number := 1; number <= wagon.Seats; number++ {
		seats = append(seats, model.Seat{
			SeatNumber:  number,
			IsAvailable: !taken[number],
			Price:       price,
		})
	}
	return seats, nil
}

// ClassNames returns the class names of the map in stable order, for
// response payloads that list classes.
func ClassNames(classes map[string]*model.ClassAvailability) []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
