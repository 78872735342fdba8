package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmheroku/railway-station/internal/booking/model"
	"github.com/charmheroku/railway-station/internal/common/apperr"
	stationmodel "github.com/charmheroku/railway-station/internal/station/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(database *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: database}
}

func (r *OrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *OrderRepository) InsertOrder(ctx context.Context, tx pgx.Tx, userID string) (*model.Order, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}

	query := `
		INSERT INTO orders (user_id, status)
		VALUES ($1, 'pending')
		RETURNING id, created_at, updated_at
	`

	order := model.Order{UserID: userID, Status: model.OrderPending}
	if err := tx.QueryRow(ctx, query, userID).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	return &order, nil
}

// InsertTicket writes one ticket inside the order transaction. A unique
// violation on the seat constraint means a concurrent booking won the
// seat; it surfaces as a SeatConflict and the caller rolls back.
func (r *OrderRepository) InsertTicket(ctx context.Context, tx pgx.Tx, ticket model.Ticket) (*model.Ticket, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}

	query := `
		INSERT INTO tickets (
			order_id, trip_id, wagon_id, seat_number,
			passenger_type_id, price, passenger_name, passenger_document
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		ticket.OrderID,
		ticket.TripID,
		ticket.WagonID,
		ticket.SeatNumber,
		ticket.PassengerTypeID,
		ticket.Price,
		ticket.PassengerName,
		ticket.PassengerDocument,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperr.New(apperr.KindSeatConflict, "this seat is already taken for this trip").
				WithField("seat_number", "seat is already taken")
		}
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return &ticket, nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.DB.QueryRow(ctx, query, id).
		Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", id)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	tickets, err := r.listTickets(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Tickets = tickets[order.ID]
	return &order, nil
}

// ListOrders returns orders newest first; userID filters unless all is set.
func (r *OrderRepository) ListOrders(ctx context.Context, userID string, all bool) ([]model.Order, error) {
	query := `
		SELECT id, user_id, status, created_at, updated_at
		FROM orders
		WHERE ($2 OR user_id = $1)
		ORDER BY created_at DESC
	`

	rows, err := r.DB.Query(ctx, query, userID, all)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []int64
	for rows.Next() {
		var order model.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	tickets, err := r.listTickets(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Tickets = tickets[orders[i].ID]
	}
	return orders, nil
}

// UpdateOrderStatus moves an order out of pending. The status guard in
// the WHERE clause makes the transition atomic: a concurrent writer that
// already moved the order wins, and this call reports InvalidState.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
		RETURNING id, user_id, status, created_at, updated_at
	`

	var order model.Order
	err := r.DB.QueryRow(ctx, query, status, id).
		Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindInvalidState, "order %d is not pending", id)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	tickets, err := r.listTickets(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Tickets = tickets[order.ID]
	return &order, nil
}

// listTickets loads the tickets of the given orders with the trip, wagon
// and passenger type detail the order responses render.
func (r *OrderRepository) listTickets(ctx context.Context, orderIDs []int64) (map[int64][]model.Ticket, error) {
	query := `
		SELECT tk.id, tk.order_id, tk.trip_id, tk.wagon_id, tk.seat_number,
		       tk.passenger_type_id, tk.price, tk.passenger_name, tk.passenger_document, tk.created_at,
		       pt.id, pt.code, pt.name, pt.discount_percent, pt.requires_document,
		       tr.id, tr.route_id, tr.train_id, tr.departure_time, tr.arrival_time, tr.base_price,
		       o.name, d.name,
		       t.id, t.name, t.number, t.train_type,
		       w.id, w.train_id, w.number, w.type_id, w.seats,
		       wt.id, wt.name, wt.fare_multiplier
		FROM tickets tk
		JOIN passenger_types pt ON pt.id = tk.passenger_type_id
		JOIN trips tr ON tr.id = tk.trip_id
		JOIN routes r ON r.id = tr.route_id
		JOIN stations o ON o.id = r.origin_station_id
		JOIN stations d ON d.id = r.destination_station_id
		JOIN trains t ON t.id = tr.train_id
		JOIN wagons w ON w.id = tk.wagon_id
		JOIN wagon_types wt ON wt.id = w.type_id
		WHERE tk.order_id = ANY($1)
		ORDER BY tk.id
	`

	rows, err := r.DB.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make(map[int64][]model.Ticket)
	for rows.Next() {
		var tk model.Ticket
		var pt model.PassengerType
		var trip stationmodel.Trip
		var route stationmodel.Route
		var origin, dest stationmodel.Station
		var train stationmodel.Train
		var wagon stationmodel.Wagon
		var wagonType stationmodel.WagonType

		err := rows.Scan(
			&tk.ID, &tk.OrderID, &tk.TripID, &tk.WagonID, &tk.SeatNumber,
			&tk.PassengerTypeID, &tk.Price, &tk.PassengerName, &tk.PassengerDocument, &tk.CreatedAt,
			&pt.ID, &pt.Code, &pt.Name, &pt.DiscountPercent, &pt.RequiresDocument,
			&trip.ID, &trip.RouteID, &trip.TrainID, &trip.DepartureTime, &trip.ArrivalTime, &trip.BasePrice,
			&origin.Name, &dest.Name,
			&train.ID, &train.Name, &train.Number, &train.Type,
			&wagon.ID, &wagon.TrainID, &wagon.Number, &wagon.TypeID, &wagon.Seats,
			&wagonType.ID, &wagonType.Name, &wagonType.FareMultiplier,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}

		route.ID = trip.RouteID
		route.Origin = &origin
		route.Destination = &dest
		trip.Route = &route
		trip.Train = &train
		wagon.Type = &wagonType
		tk.Trip = &trip
		tk.Wagon = &wagon
		tk.PassengerType = &pt

		tickets[tk.OrderID] = append(tickets[tk.OrderID], tk)
	}
	return tickets, rows.Err()
}
