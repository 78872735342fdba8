package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trip is one scheduled run of a train over a route.
type Trip struct {
	ID            int64           `json:"id"`
	RouteID       int64           `json:"route"`
	TrainID       int64           `json:"train"`
	DepartureTime time.Time       `json:"departure_time"`
	ArrivalTime   time.Time       `json:"arrival_time"`
	BasePrice     decimal.Decimal `json:"base_price"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`

	Route *Route `json:"-"`
	Train *Train `json:"-"`
}

func (t *Trip) DurationMinutes() int {
	return int(t.ArrivalTime.Sub(t.DepartureTime).Minutes())
}

// ClassAvailability is the per-wagon-class seat report for one trip.
type ClassAvailability struct {
	TotalSeats     int             `json:"total_seats"`
	BookedSeats    int             `json:"booked_seats"`
	AvailableSeats int             `json:"available_seats"`
	FareMultiplier decimal.Decimal `json:"fare_multiplier"`
}

// Seat is one row of a wagon seat map.
type Seat struct {
	SeatNumber  int             `json:"seat_number"`
	IsAvailable bool            `json:"is_available"`
	Price       decimal.Decimal `json:"price"`
}

// BookedSeat locates a sold seat inside a trip.
type BookedSeat struct {
	WagonID    int64
	SeatNumber int
}
