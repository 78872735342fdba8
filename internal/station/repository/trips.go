package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TripRepository struct {
	DB *pgxpool.Pool
}

func NewTripRepository(database *pgxpool.Pool) *TripRepository {
	return &TripRepository{DB: database}
}

const tripSelect = `
	SELECT tr.id, tr.route_id, tr.train_id, tr.departure_time, tr.arrival_time,
	       tr.base_price, tr.created_at, tr.updated_at,
	       t.id, t.name, t.number, t.train_type,
	       r.id, r.origin_station_id, r.destination_station_id, r.distance_km,
	       o.id, o.name, o.city, o.address,
	       d.id, d.name, d.city, d.address
	FROM trips tr
	JOIN trains t ON t.id = tr.train_id
	JOIN routes r ON r.id = tr.route_id
	JOIN stations o ON o.id = r.origin_station_id
	JOIN stations d ON d.id = r.destination_station_id
`

func scanTripDetail(row rowScanner) (*model.Trip, error) {
	var trip model.Trip
	var train model.Train
	var route model.Route
	var origin, dest model.Station

	err := row.Scan(
		&trip.ID, &trip.RouteID, &trip.TrainID, &trip.DepartureTime, &trip.ArrivalTime,
		&trip.BasePrice, &trip.CreatedAt, &trip.UpdatedAt,
		&train.ID, &train.Name, &train.Number, &train.Type,
		&route.ID, &route.OriginStationID, &route.DestinationStationID, &route.DistanceKm,
		&origin.ID, &origin.Name, &origin.City, &origin.Address,
		&dest.ID, &dest.Name, &dest.City, &dest.Address,
	)
	if err != nil {
		return nil, err
	}

	route.Origin = &origin
	route.Destination = &dest
	trip.Train = &train
	trip.Route = &route
	return &trip, nil
}

func (r *TripRepository) GetTrip(ctx context.Context, id int64) (*model.Trip, error) {
	trip, err := scanTripDetail(r.DB.QueryRow(ctx, tripSelect+" WHERE tr.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "trip %d not found", id)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

func (r *TripRepository) CreateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error) {
	query := `
		INSERT INTO trips (route_id, train_id, departure_time, arrival_time, base_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		trip.RouteID, trip.TrainID, trip.DepartureTime, trip.ArrivalTime, trip.BasePrice,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}
	return &trip, nil
}

func (r *TripRepository) UpdateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error) {
	query := `
		UPDATE trips
		SET route_id = $1, train_id = $2, departure_time = $3,
		    arrival_time = $4, base_price = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		trip.RouteID, trip.TrainID, trip.DepartureTime, trip.ArrivalTime, trip.BasePrice, trip.ID,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "trip %d not found", trip.ID)
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return &trip, nil
}

// HasOverlappingTrip reports whether another trip of the same train
// intersects the [departure, arrival) window.
func (r *TripRepository) HasOverlappingTrip(ctx context.Context, trainID int64, departure, arrival time.Time, excludeTripID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM trips
			WHERE train_id = $1
			  AND departure_time < $3
			  AND arrival_time > $2
			  AND id <> $4
		)
	`

	var exists bool
	err := r.DB.QueryRow(ctx, query, trainID, departure, arrival, excludeTripID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check trip overlap: %w", err)
	}
	return exists, nil
}

// SearchTrips matches origin/destination against station name or city
// and keeps trips departing on the given day.
func (r *TripRepository) SearchTrips(ctx context.Context, origin, destination string, date time.Time) ([]model.Trip, error) {
	query := tripSelect + `
		WHERE (o.name ILIKE '%' || $1 || '%' OR o.city ILIKE '%' || $1 || '%')
		  AND (d.name ILIKE '%' || $2 || '%' OR d.city ILIKE '%' || $2 || '%')
		  AND tr.departure_time >= $3
		  AND tr.departure_time < $4
		ORDER BY tr.departure_time
	`

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.DB.Query(ctx, query, origin, destination, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}
	defer rows.Close()

	var trips []model.Trip
	for rows.Next() {
		trip, err := scanTripDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	return trips, rows.Err()
}

// ListAlternativeTrips returns trips on the same route and train
// departing at or after the given time, earliest first.
func (r *TripRepository) ListAlternativeTrips(ctx context.Context, routeID, trainID int64, from time.Time, limit int) ([]model.Trip, error) {
	query := tripSelect + `
		WHERE tr.route_id = $1
		  AND tr.train_id = $2
		  AND tr.departure_time >= $3
		ORDER BY tr.departure_time
		LIMIT $4
	`

	rows, err := r.DB.Query(ctx, query, routeID, trainID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alternative trips: %w", err)
	}
	defer rows.Close()

	var trips []model.Trip
	for rows.Next() {
		trip, err := scanTripDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	return trips, rows.Err()
}

// ListTripWagons returns the wagons of the trip's train with their types.
func (r *TripRepository) ListTripWagons(ctx context.Context, tripID int64) ([]model.Wagon, error) {
	query := `
		SELECT w.id, w.train_id, w.number, w.type_id, w.seats,
		       wt.id, wt.name, wt.fare_multiplier
		FROM wagons w
		JOIN wagon_types wt ON wt.id = w.type_id
		JOIN trips tr ON tr.train_id = w.train_id
		WHERE tr.id = $1
		ORDER BY w.number
	`

	rows, err := r.DB.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip wagons: %w", err)
	}
	defer rows.Close()

	var wagons []model.Wagon
	for rows.Next() {
		var w model.Wagon
		var wt model.WagonType
		err := rows.Scan(
			&w.ID, &w.TrainID, &w.Number, &w.TypeID, &w.Seats,
			&wt.ID, &wt.Name, &wt.FareMultiplier,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wagon: %w", err)
		}
		w.Type = &wt
		wagons = append(wagons, w)
	}
	return wagons, rows.Err()
}

func (r *TripRepository) WagonExists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM wagons WHERE id = $1)`

	var exists bool
	if err := r.DB.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check wagon existence: %w", err)
	}
	return exists, nil
}

// ListBookedSeats returns every sold (wagon, seat) pair of the trip.
// Cancelled orders keep their tickets, so those seats stay booked.
func (r *TripRepository) ListBookedSeats(ctx context.Context, tripID int64) ([]model.BookedSeat, error) {
	query := `
		SELECT wagon_id, seat_number
		FROM tickets
		WHERE trip_id = $1
	`

	rows, err := r.DB.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked seats: %w", err)
	}
	defer rows.Close()

	var seats []model.BookedSeat
	for rows.Next() {
		var s model.BookedSeat
		if err := rows.Scan(&s.WagonID, &s.SeatNumber); err != nil {
			return nil, fmt.Errorf("failed to scan booked seat: %w", err)
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
