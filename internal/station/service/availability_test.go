package service

import (
	"context"
	"testing"
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"

	"github.com/shopspring/decimal"
)

// fakeTripRepo serves canned catalog data and records nothing.
// otherWagons holds wagons that exist but sit on trains without trips.
type fakeTripRepo struct {
	trips       map[int64]*model.Trip
	wagons      map[int64][]model.Wagon
	booked      map[int64][]model.BookedSeat
	otherWagons []int64
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{
		trips:  make(map[int64]*model.Trip),
		wagons: make(map[int64][]model.Wagon),
		booked: make(map[int64][]model.BookedSeat),
	}
}

func (f *fakeTripRepo) GetTrip(_ context.Context, id int64) (*model.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "trip %d not found", id)
	}
	return trip, nil
}

func (f *fakeTripRepo) ListTripWagons(_ context.Context, tripID int64) ([]model.Wagon, error) {
	return f.wagons[tripID], nil
}

func (f *fakeTripRepo) ListBookedSeats(_ context.Context, tripID int64) ([]model.BookedSeat, error) {
	return f.booked[tripID], nil
}

func (f *fakeTripRepo) WagonExists(_ context.Context, id int64) (bool, error) {
	for _, wagons := range f.wagons {
		for _, w := range wagons {
			if w.ID == id {
				return true, nil
			}
		}
	}
	for _, otherID := range f.otherWagons {
		if otherID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTripRepo) CreateTrip(_ context.Context, trip model.Trip) (*model.Trip, error) {
	trip.ID = int64(len(f.trips) + 1)
	f.trips[trip.ID] = &trip
	return &trip, nil
}

func (f *fakeTripRepo) UpdateTrip(_ context.Context, trip model.Trip) (*model.Trip, error) {
	f.trips[trip.ID] = &trip
	return &trip, nil
}

func (f *fakeTripRepo) HasOverlappingTrip(_ context.Context, trainID int64, departure, arrival time.Time, excludeTripID int64) (bool, error) {
	for _, trip := range f.trips {
		if trip.TrainID != trainID || trip.ID == excludeTripID {
			continue
		}
		if trip.DepartureTime.Before(arrival) && trip.ArrivalTime.After(departure) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTripRepo) SearchTrips(_ context.Context, _, _ string, _ time.Time) ([]model.Trip, error) {
	var trips []model.Trip
	for _, trip := range f.trips {
		trips = append(trips, *trip)
	}
	return trips, nil
}

func (f *fakeTripRepo) ListAlternativeTrips(_ context.Context, routeID, trainID int64, from time.Time, limit int) ([]model.Trip, error) {
	var trips []model.Trip
	for _, trip := range f.trips {
		if trip.RouteID == routeID && trip.TrainID == trainID && !trip.DepartureTime.Before(from) {
			trips = append(trips, *trip)
		}
	}
	if len(trips) > limit {
		trips = trips[:limit]
	}
	return trips, nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func coupeType() *model.WagonType {
	return &model.WagonType{ID: 1, Name: "coupe", FareMultiplier: dec("2.00")}
}

func economyType() *model.WagonType {
	return &model.WagonType{ID: 2, Name: "economy", FareMultiplier: dec("1.00")}
}

func seedTrip(repo *fakeTripRepo) *model.Trip {
	trip := &model.Trip{
		ID:            1,
		RouteID:       1,
		TrainID:       1,
		DepartureTime: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		BasePrice:     dec("100.00"),
	}
	repo.trips[1] = trip
	repo.wagons[1] = []model.Wagon{
		{ID: 10, TrainID: 1, Number: 1, Seats: 4, Type: coupeType()},
		{ID: 11, TrainID: 1, Number: 2, Seats: 6, Type: economyType()},
		{ID: 12, TrainID: 1, Number: 3, Seats: 6, Type: economyType()},
	}
	return trip
}

func TestAvailabilityByClass(t *testing.T) {
	repo := newFakeTripRepo()
	seedTrip(repo)
	repo.booked[1] = []model.BookedSeat{
		{WagonID: 10, SeatNumber: 1},
		{WagonID: 11, SeatNumber: 3},
		{WagonID: 12, SeatNumber: 2},
	}

	svc := NewInventoryService(repo)
	classes, err := svc.AvailabilityByClass(context.Background(), 1)
	if err != nil {
		t.Fatalf("AvailabilityByClass: %v", err)
	}

	coupe := classes["coupe"]
	if coupe == nil {
		t.Fatal("missing coupe class")
	}
	if coupe.TotalSeats != 4 || coupe.BookedSeats != 1 || coupe.AvailableSeats != 3 {
		t.Errorf("coupe = %+v, want total 4 booked 1 available 3", coupe)
	}

	economy := classes["economy"]
	if economy == nil {
		t.Fatal("missing economy class")
	}
	if economy.TotalSeats != 12 || economy.BookedSeats != 2 || economy.AvailableSeats != 10 {
		t.Errorf("economy = %+v, want total 12 booked 2 available 10", economy)
	}

	// available + booked == total in every class
	for name, info := range classes {
		if info.AvailableSeats+info.BookedSeats != info.TotalSeats {
			t.Errorf("%s: available %d + booked %d != total %d",
				name, info.AvailableSeats, info.BookedSeats, info.TotalSeats)
		}
	}
}

func TestIsAvailableForBooking(t *testing.T) {
	repo := newFakeTripRepo()
	seedTrip(repo)
	// coupe full, economy has seats left
	repo.booked[1] = []model.BookedSeat{
		{WagonID: 10, SeatNumber: 1},
		{WagonID: 10, SeatNumber: 2},
		{WagonID: 10, SeatNumber: 3},
		{WagonID: 10, SeatNumber: 4},
	}

	svc := NewInventoryService(repo)
	ctx := context.Background()

	cases := []struct {
		name       string
		passengers int
		class      string
		want       bool
	}{
		{"any class with space", 2, "", true},
		{"full class", 1, "coupe", false},
		{"class with space", 2, "economy", true},
		{"more passengers than seats", 13, "economy", false},
		{"unknown class", 1, "sleeping", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.IsAvailableForBooking(ctx, 1, tc.passengers, tc.class)
			if err != nil {
				t.Fatalf("IsAvailableForBooking: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSeatMap(t *testing.T) {
	repo := newFakeTripRepo()
	seedTrip(repo)
	repo.booked[1] = []model.BookedSeat{
		{WagonID: 10, SeatNumber: 2},
		{WagonID: 11, SeatNumber: 1}, // different wagon, must not affect wagon 10
	}

	svc := NewInventoryService(repo)
	seats, err := svc.SeatMap(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("SeatMap: %v", err)
	}

	if len(seats) != 4 {
		t.Fatalf("seats = %d, want 4", len(seats))
	}

	for i, seat := range seats {
		if seat.SeatNumber != i+1 {
			t.Errorf("seat %d has number %d", i, seat.SeatNumber)
		}
		wantAvailable := seat.SeatNumber != 2
		if seat.IsAvailable != wantAvailable {
			t.Errorf("seat %d availability = %v, want %v", seat.SeatNumber, seat.IsAvailable, wantAvailable)
		}
		// 100.00 base x 2.00 coupe multiplier
		if !seat.Price.Equal(dec("200.00")) {
			t.Errorf("seat %d price = %s, want 200.00", seat.SeatNumber, seat.Price)
		}
	}
}

func TestSeatMapWagonNotOnTrip(t *testing.T) {
	repo := newFakeTripRepo()
	seedTrip(repo)
	// wagon 20 exists on another train
	repo.otherWagons = []int64{20}

	svc := NewInventoryService(repo)
	_, err := svc.SeatMap(context.Background(), 1, 20)
	if !apperr.IsKind(err, apperr.KindWagonTripMismatch) {
		t.Fatalf("err = %v, want wagon_trip_mismatch", err)
	}
}

func TestSeatMapUnknownWagonNotFound(t *testing.T) {
	repo := newFakeTripRepo()
	seedTrip(repo)

	svc := NewInventoryService(repo)
	_, err := svc.SeatMap(context.Background(), 1, 999)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}
