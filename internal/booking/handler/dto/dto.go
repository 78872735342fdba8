package dto

import (
	"time"

	"github.com/charmheroku/railway-station/internal/booking/model"
	"github.com/charmheroku/railway-station/internal/booking/service"
)

type TicketRequest struct {
	TripID            int64  `json:"trip"`
	WagonID           int64  `json:"wagon"`
	SeatNumber        int    `json:"seat_number"`
	PassengerTypeID   int64  `json:"passenger_type"`
	PassengerName     string `json:"passenger_name"`
	PassengerDocument string `json:"passenger_document"`
}

type CreateOrderRequest struct {
	Tickets []TicketRequest `json:"tickets"`
}

func (r CreateOrderRequest) ToModel() []model.TicketRequest {
	requests := make([]model.TicketRequest, 0, len(r.Tickets))
	for _, t := range r.Tickets {
		requests = append(requests, model.TicketRequest{
			TripID:            t.TripID,
			WagonID:           t.WagonID,
			SeatNumber:        t.SeatNumber,
			PassengerTypeID:   t.PassengerTypeID,
			PassengerName:     t.PassengerName,
			PassengerDocument: t.PassengerDocument,
		})
	}
	return requests
}

type TicketTripInfo struct {
	ID            int64     `json:"id"`
	TrainName     string    `json:"train,omitempty"`
	Origin        string    `json:"origin,omitempty"`
	Destination   string    `json:"destination,omitempty"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

type TicketResponse struct {
	ID                int64                `json:"id"`
	Trip              TicketTripInfo       `json:"trip"`
	WagonID           int64                `json:"wagon"`
	WagonNumber       int                  `json:"wagon_number,omitempty"`
	WagonClass        string               `json:"wagon_class,omitempty"`
	SeatNumber        int                  `json:"seat_number"`
	Price             string               `json:"price"`
	PassengerName     string               `json:"passenger_name,omitempty"`
	PassengerDocument string               `json:"passenger_document,omitempty"`
	PassengerType     *model.PassengerType `json:"passenger_type,omitempty"`
}

type OrderResponse struct {
	ID         int64            `json:"id"`
	User       string           `json:"user"`
	Status     string           `json:"status"`
	TotalPrice string           `json:"total_price"`
	CreatedAt  time.Time        `json:"created_at"`
	Tickets    []TicketResponse `json:"tickets"`
}

func MapOrder(order *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:         order.ID,
		User:       order.UserID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice().StringFixed(2),
		CreatedAt:  order.CreatedAt,
		Tickets:    make([]TicketResponse, 0, len(order.Tickets)),
	}
	for _, ticket := range order.Tickets {
		resp.Tickets = append(resp.Tickets, mapTicket(ticket))
	}
	return resp
}

func MapOrders(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, MapOrder(&orders[i]))
	}
	return out
}

func mapTicket(ticket model.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:                ticket.ID,
		Trip:              TicketTripInfo{ID: ticket.TripID},
		WagonID:           ticket.WagonID,
		SeatNumber:        ticket.SeatNumber,
		Price:             ticket.Price.StringFixed(2),
		PassengerName:     ticket.PassengerName,
		PassengerDocument: ticket.PassengerDocument,
		PassengerType:     ticket.PassengerType,
	}

	if ticket.Trip != nil {
		resp.Trip.DepartureTime = ticket.Trip.DepartureTime
		resp.Trip.ArrivalTime = ticket.Trip.ArrivalTime
		if ticket.Trip.Train != nil {
			resp.Trip.TrainName = ticket.Trip.Train.Name
		}
		if ticket.Trip.Route != nil {
			if ticket.Trip.Route.Origin != nil {
				resp.Trip.Origin = ticket.Trip.Route.Origin.City
			}
			if ticket.Trip.Route.Destination != nil {
				resp.Trip.Destination = ticket.Trip.Route.Destination.City
			}
		}
	}
	if ticket.Wagon != nil {
		resp.WagonNumber = ticket.Wagon.Number
		if ticket.Wagon.Type != nil {
			resp.WagonClass = ticket.Wagon.Type.Name
		}
	}

	return resp
}

type SeatHoldRequest struct {
	Seats []service.SeatRef `json:"seats"`
}

type ReleaseSeatHoldRequest struct {
	Token string            `json:"token"`
	Seats []service.SeatRef `json:"seats"`
}
