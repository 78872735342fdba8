package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/station/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type CatalogRepository struct {
	DB *pgxpool.Pool
}

func NewCatalogRepository(database *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{DB: database}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *CatalogRepository) ListStations(ctx context.Context) ([]model.Station, error) {
	query := `
		SELECT id, name, city, address, created_at, updated_at
		FROM stations
		ORDER BY name
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	defer rows.Close()

	var stations []model.Station
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func (r *CatalogRepository) GetStation(ctx context.Context, id int64) (*model.Station, error) {
	query := `
		SELECT id, name, city, address, created_at, updated_at
		FROM stations
		WHERE id = $1
	`

	var s model.Station
	err := r.DB.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.City, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "station %d not found", id)
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &s, nil
}

func (r *CatalogRepository) CreateStation(ctx context.Context, s model.Station) (*model.Station, error) {
	query := `
		INSERT INTO stations (name, city, address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query, s.Name, s.City, s.Address).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert station: %w", err)
	}
	return &s, nil
}

// SearchStations matches name prefix/substring, capped for autocomplete.
func (r *CatalogRepository) SearchStations(ctx context.Context, query string, limit int) ([]model.Station, error) {
	sql := `
		SELECT id, name, city, address, created_at, updated_at
		FROM stations
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`

	rows, err := r.DB.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search stations: %w", err)
	}
	defer rows.Close()

	var stations []model.Station
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func (r *CatalogRepository) ListRoutes(ctx context.Context) ([]model.Route, error) {
	query := `
		SELECT r.id, r.origin_station_id, r.destination_station_id, r.distance_km,
		       o.id, o.name, o.city, o.address,
		       d.id, d.name, d.city, d.address
		FROM routes r
		JOIN stations o ON o.id = r.origin_station_id
		JOIN stations d ON d.id = r.destination_station_id
		ORDER BY r.id
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	var routes []model.Route
	for rows.Next() {
		route, err := scanRouteDetail(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *route)
	}
	return routes, rows.Err()
}

func (r *CatalogRepository) GetRoute(ctx context.Context, id int64) (*model.Route, error) {
	query := `
		SELECT r.id, r.origin_station_id, r.destination_station_id, r.distance_km,
		       o.id, o.name, o.city, o.address,
		       d.id, d.name, d.city, d.address
		FROM routes r
		JOIN stations o ON o.id = r.origin_station_id
		JOIN stations d ON d.id = r.destination_station_id
		WHERE r.id = $1
	`

	route, err := scanRouteDetail(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "route %d not found", id)
		}
		return nil, err
	}
	return route, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRouteDetail(row rowScanner) (*model.Route, error) {
	var route model.Route
	var origin, dest model.Station
	err := row.Scan(
		&route.ID, &route.OriginStationID, &route.DestinationStationID, &route.DistanceKm,
		&origin.ID, &origin.Name, &origin.City, &origin.Address,
		&dest.ID, &dest.Name, &dest.City, &dest.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan route: %w", err)
	}
	route.Origin = &origin
	route.Destination = &dest
	return &route, nil
}

func (r *CatalogRepository) CreateRoute(ctx context.Context, route model.Route) (*model.Route, error) {
	query := `
		INSERT INTO routes (origin_station_id, destination_station_id, distance_km)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		route.OriginStationID, route.DestinationStationID, route.DistanceKm,
	).Scan(&route.ID, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.KindValidation, "route for this station pair already exists")
		}
		return nil, fmt.Errorf("failed to insert route: %w", err)
	}
	return &route, nil
}

func (r *CatalogRepository) ListTrains(ctx context.Context) ([]model.Train, error) {
	query := `
		SELECT id, name, number, train_type, created_at, updated_at
		FROM trains
		ORDER BY id
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trains: %w", err)
	}
	defer rows.Close()

	var trains []model.Train
	for rows.Next() {
		var t model.Train
		if err := rows.Scan(&t.ID, &t.Name, &t.Number, &t.Type, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan train: %w", err)
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

func (r *CatalogRepository) GetTrain(ctx context.Context, id int64) (*model.Train, error) {
	query := `
		SELECT id, name, number, train_type, created_at, updated_at
		FROM trains
		WHERE id = $1
	`

	var t model.Train
	err := r.DB.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Number, &t.Type, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "train %d not found", id)
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}
	return &t, nil
}

func (r *CatalogRepository) CreateTrain(ctx context.Context, t model.Train) (*model.Train, error) {
	query := `
		INSERT INTO trains (name, number, train_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query, t.Name, t.Number, t.Type).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Newf(apperr.KindValidation, "train number %q already exists", t.Number)
		}
		return nil, fmt.Errorf("failed to insert train: %w", err)
	}
	return &t, nil
}

func (r *CatalogRepository) ListWagonTypes(ctx context.Context) ([]model.WagonType, error) {
	query := `SELECT id, name, fare_multiplier FROM wagon_types ORDER BY id`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagon types: %w", err)
	}
	defer rows.Close()

	var types []model.WagonType
	for rows.Next() {
		var wt model.WagonType
		if err := rows.Scan(&wt.ID, &wt.Name, &wt.FareMultiplier); err != nil {
			return nil, fmt.Errorf("failed to scan wagon type: %w", err)
		}
		types = append(types, wt)
	}
	return types, rows.Err()
}

func (r *CatalogRepository) CreateWagonType(ctx context.Context, wt model.WagonType) (*model.WagonType, error) {
	query := `
		INSERT INTO wagon_types (name, fare_multiplier)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := r.DB.QueryRow(ctx, query, wt.Name, wt.FareMultiplier).Scan(&wt.ID); err != nil {
		return nil, fmt.Errorf("failed to insert wagon type: %w", err)
	}
	return &wt, nil
}

func (r *CatalogRepository) ListWagonAmenities(ctx context.Context) ([]model.WagonAmenity, error) {
	query := `SELECT id, name, description FROM wagon_amenities ORDER BY id`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagon amenities: %w", err)
	}
	defer rows.Close()

	var amenities []model.WagonAmenity
	for rows.Next() {
		var a model.WagonAmenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("failed to scan wagon amenity: %w", err)
		}
		amenities = append(amenities, a)
	}
	return amenities, rows.Err()
}

func (r *CatalogRepository) CreateWagonAmenity(ctx context.Context, a model.WagonAmenity) (*model.WagonAmenity, error) {
	query := `
		INSERT INTO wagon_amenities (name, description)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := r.DB.QueryRow(ctx, query, a.Name, a.Description).Scan(&a.ID); err != nil {
		return nil, fmt.Errorf("failed to insert wagon amenity: %w", err)
	}
	return &a, nil
}

func (r *CatalogRepository) ListWagons(ctx context.Context, trainID int64) ([]model.Wagon, error) {
	query := `
		SELECT w.id, w.train_id, w.number, w.type_id, w.seats,
		       wt.id, wt.name, wt.fare_multiplier
		FROM wagons w
		JOIN wagon_types wt ON wt.id = w.type_id
		WHERE ($1 = 0 OR w.train_id = $1)
		ORDER BY w.train_id, w.number
	`

	rows, err := r.DB.Query(ctx, query, trainID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagons: %w", err)
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

func (r *CatalogRepository) GetWagon(ctx context.Context, id int64) (*model.Wagon, error) {
	query := `
		SELECT w.id, w.train_id, w.number, w.type_id, w.seats,
		       wt.id, wt.name, wt.fare_multiplier,
		       t.id, t.name, t.number, t.train_type
		FROM wagons w
		JOIN wagon_types wt ON wt.id = w.type_id
		JOIN trains t ON t.id = w.train_id
		WHERE w.id = $1
	`

	var w model.Wagon
	var wt model.WagonType
	var t model.Train
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.TrainID, &w.Number, &w.TypeID, &w.Seats,
		&wt.ID, &wt.Name, &wt.FareMultiplier,
		&t.ID, &t.Name, &t.Number, &t.Type,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "wagon %d not found", id)
		}
		return nil, fmt.Errorf("failed to get wagon: %w", err)
	}
	w.Type = &wt
	w.Train = &t

	amenities, err := r.listWagonAmenities(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Amenities = amenities
	return &w, nil
}

func (r *CatalogRepository) listWagonAmenities(ctx context.Context, wagonID int64) ([]model.WagonAmenity, error) {
	query := `
		SELECT a.id, a.name, a.description
		FROM wagon_amenities a
		JOIN wagon_amenity_links l ON l.amenity_id = a.id
		WHERE l.wagon_id = $1
		ORDER BY a.id
	`

	rows, err := r.DB.Query(ctx, query, wagonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagon amenities: %w", err)
	}
	defer rows.Close()

	var amenities []model.WagonAmenity
	for rows.Next() {
		var a model.WagonAmenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, fmt.Errorf("failed to scan wagon amenity: %w", err)
		}
		amenities = append(amenities, a)
	}
	return amenities, rows.Err()
}

func (r *CatalogRepository) CreateWagon(ctx context.Context, w model.Wagon, amenityIDs []int64) (*model.Wagon, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO wagons (train_id, number, type_id, seats)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query, w.TrainID, w.Number, w.TypeID, w.Seats).Scan(&w.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Newf(apperr.KindValidation, "wagon %d already exists on this train", w.Number)
		}
		return nil, fmt.Errorf("failed to insert wagon: %w", err)
	}

	for _, amenityID := range amenityIDs {
		_, err := tx.Exec(ctx,
			"INSERT INTO wagon_amenity_links (wagon_id, amenity_id) VALUES ($1, $2)",
			w.ID, amenityID)
		if err != nil {
			return nil, fmt.Errorf("failed to link amenity %d: %w", amenityID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &w, nil
}
