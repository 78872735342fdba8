package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmheroku/railway-station/internal/booking/model"
	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/common/logger"
	"github.com/charmheroku/railway-station/internal/common/rmq"
	stationmodel "github.com/charmheroku/railway-station/internal/station/model"

	"github.com/jackc/pgx/v5"
)

// cancellationWindow is the pre-departure period during which an order
// can no longer be cancelled.
const cancellationWindow = 24 * time.Hour

type OrderRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	InsertOrder(ctx context.Context, tx pgx.Tx, userID string) (*model.Order, error)
	InsertTicket(ctx context.Context, tx pgx.Tx, ticket model.Ticket) (*model.Ticket, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, userID string, all bool) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
}

// CatalogReader resolves the trips and wagons a ticket references.
type CatalogReader interface {
	GetTrip(ctx context.Context, id int64) (*stationmodel.Trip, error)
	GetWagon(ctx context.Context, id int64) (*stationmodel.Wagon, error)
}

type PassengerTypeReader interface {
	GetPassengerType(ctx context.Context, id int64) (*model.PassengerType, error)
}

// EventPublisher pushes order lifecycle events; publishing is
// best-effort and never fails the request.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg rmq.OrderCreatedMessage) error
	PublishOrderCancelled(ctx context.Context, msg rmq.OrderCancelledMessage) error
}

// OrderService is stateless; everything lives in storage. The seat-lock
// invariant is ultimately enforced by the unique constraint on
// (trip, wagon, seat_number): all validation here runs first, but a
// concurrent writer losing the race still gets a clean SeatConflict.
type OrderService struct {
	repo      OrderRepository
	catalog   CatalogReader
	types     PassengerTypeReader
	publisher EventPublisher
	now       func() time.Time
}

func NewOrderService(repo OrderRepository, catalog CatalogReader, types PassengerTypeReader, publisher EventPublisher) *OrderService {
	return &OrderService{
		repo:      repo,
		catalog:   catalog,
		types:     types,
		publisher: publisher,
		now:       time.Now,
	}
}

type seatKey struct {
	tripID     int64
	wagonID    int64
	seatNumber int
}

// CreateOrder books every requested seat as one atomic unit. Any
// failure leaves no partial order behind.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, requests []model.TicketRequest) (*model.Order, error) {
	const action = "CreateOrder"

	if len(requests) == 0 {
		return nil, apperr.New(apperr.KindEmptyOrder, "at least one ticket is required")
	}

	tickets := make([]model.Ticket, 0, len(requests))
	seen := make(map[seatKey]bool, len(requests))

	for i, req := range requests {
		ticket, err := s.validateTicket(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", i+1, err)
		}

		key := seatKey{req.TripID, req.WagonID, req.SeatNumber}
		if seen[key] {
			return nil, apperr.New(apperr.KindSeatConflict, "this seat is already taken for this trip").
				WithField("seat_number", "duplicate seat in the same order")
		}
		seen[key] = true

		tickets = append(tickets, *ticket)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.Error(action, "failed to begin transaction", "", "", err.Error())
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	order, err := s.repo.InsertOrder(ctx, tx, userID)
	if err != nil {
		logger.Error(action, "failed to insert order", "", "", err.Error())
		return nil, err
	}

	for i := range tickets {
		tickets[i].OrderID = order.ID
		if _, err = s.repo.InsertTicket(ctx, tx, tickets[i]); err != nil {
			logger.Warn(action, "ticket insert failed, rolling back order", "",
				strconv.FormatInt(order.ID, 10), err.Error())
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error(action, "failed to commit order transaction", "", strconv.FormatInt(order.ID, 10), err.Error())
		return nil, err
	}

	created, err := s.repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, created)

	logger.Info(action, fmt.Sprintf("order created with %d tickets", len(created.Tickets)), "",
		strconv.FormatInt(created.ID, 10))
	return created, nil
}

// validateTicket runs every per-ticket check and prices the ticket.
func (s *OrderService) validateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error) {
	trip, err := s.catalog.GetTrip(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	wagon, err := s.catalog.GetWagon(ctx, req.WagonID)
	if err != nil {
		return nil, err
	}

	if wagon.TrainID != trip.TrainID {
		return nil, apperr.New(apperr.KindWagonTripMismatch, "the wagon does not belong to the train of this trip").
			WithField("wagon", "wagon does not belong to the train of this trip")
	}

	if req.SeatNumber < 1 || req.SeatNumber > wagon.Seats {
		return nil, apperr.Newf(apperr.KindInvalidSeat, "invalid seat number, the wagon has %d seats", wagon.Seats).
			WithField("seat_number", fmt.Sprintf("must be between 1 and %d", wagon.Seats))
	}

	passengerType, err := s.types.GetPassengerType(ctx, req.PassengerTypeID)
	if err != nil {
		return nil, err
	}

	if passengerType.RequiresDocument && req.PassengerDocument == "" {
		return nil, apperr.Newf(apperr.KindMissingDocument, "document is required for %s passengers", passengerType.Name).
			WithField("passenger_document", fmt.Sprintf("document is required for %s passengers", passengerType.Name))
	}

	return &model.Ticket{
		TripID:            req.TripID,
		WagonID:           req.WagonID,
		SeatNumber:        req.SeatNumber,
		PassengerTypeID:   req.PassengerTypeID,
		Price:             TicketPrice(trip.BasePrice, wagon.Type.FareMultiplier, passengerType.DiscountPercent),
		PassengerName:     req.PassengerName,
		PassengerDocument: req.PassengerDocument,
	}, nil
}

// CancelOrder flips a pending order to cancelled. Tickets are kept as a
// historical record and their seats stay booked.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64, userID string, isStaff bool) (*model.Order, error) {
	const action = "CancelOrder"

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isStaff && order.UserID != userID {
		return nil, apperr.New(apperr.KindForbidden, "cannot cancel someone else's order")
	}

	if order.Status != model.OrderPending {
		return nil, apperr.Newf(apperr.KindInvalidState, "only pending orders can be cancelled, order is %s", order.Status)
	}

	deadline := s.now().Add(cancellationWindow)
	for _, ticket := range order.Tickets {
		if !ticket.Trip.DepartureTime.After(deadline) {
			return nil, apperr.New(apperr.KindCancellationWindowClosed,
				"cannot cancel order less than 24h before departure")
		}
	}

	cancelled, err := s.repo.UpdateOrderStatus(ctx, orderID, model.OrderCancelled)
	if err != nil {
		logger.Error(action, "failed to update order status", "", strconv.FormatInt(orderID, 10), err.Error())
		return nil, err
	}

	s.publishCancelled(ctx, cancelled, userID)

	logger.Info(action, "order cancelled", "", strconv.FormatInt(orderID, 10))
	return cancelled, nil
}

// ListOrders returns the caller's orders, or every order for staff,
// newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string, isStaff bool) ([]model.Order, error) {
	return s.repo.ListOrders(ctx, userID, isStaff)
}

// GetOrder enforces the same visibility rule as ListOrders.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64, userID string, isStaff bool) (*model.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isStaff && order.UserID != userID {
		return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	return order, nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *model.Order) {
	if s.publisher == nil {
		return
	}

	msg := rmq.OrderCreatedMessage{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice().StringFixed(2),
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, ticket := range order.Tickets {
		msg.Tickets = append(msg.Tickets, rmq.OrderTicketInfo{
			TripID:     ticket.TripID,
			WagonID:    ticket.WagonID,
			SeatNumber: ticket.SeatNumber,
		})
	}

	if err := s.publisher.PublishOrderCreated(ctx, msg); err != nil {
		logger.Warn("publish_order_created", "failed to publish order.created", "",
			strconv.FormatInt(order.ID, 10), err.Error())
	}
}

func (s *OrderService) publishCancelled(ctx context.Context, order *model.Order, cancelledBy string) {
	if s.publisher == nil {
		return
	}

	msg := rmq.OrderCancelledMessage{
		OrderID:     order.ID,
		UserID:      order.UserID,
		CancelledBy: cancelledBy,
		CancelledAt: order.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if err := s.publisher.PublishOrderCancelled(ctx, msg); err != nil {
		logger.Warn("publish_order_cancelled", "failed to publish order.cancelled", "",
			strconv.FormatInt(order.ID, 10), err.Error())
	}
}
