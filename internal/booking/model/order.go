package model

import (
	"time"

	stationmodel "github.com/charmheroku/railway-station/internal/station/model"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"user"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Tickets   []Ticket    `json:"tickets"`
}

// TotalPrice is always derived from the tickets, never stored.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, ticket := range o.Tickets {
		total = total.Add(ticket.Price)
	}
	return total
}

type PassengerType struct {
	ID               int64  `json:"id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	DiscountPercent  int    `json:"discount_percent"`
	RequiresDocument bool   `json:"requires_document"`
	IsActive         bool   `json:"-"`
	DisplayOrder     int    `json:"-"`
}

type Ticket struct {
	ID                int64           `json:"id"`
	OrderID           int64           `json:"-"`
	TripID            int64           `json:"trip"`
	WagonID           int64           `json:"wagon"`
	SeatNumber        int             `json:"seat_number"`
	PassengerTypeID   int64           `json:"-"`
	Price             decimal.Decimal `json:"price"`
	PassengerName     string          `json:"passenger_name,omitempty"`
	PassengerDocument string          `json:"passenger_document,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`

	Trip          *stationmodel.Trip  `json:"-"`
	Wagon         *stationmodel.Wagon `json:"-"`
	PassengerType *PassengerType      `json:"passenger_type,omitempty"`
}

// TicketRequest is one requested seat inside an order. Price is absent
// on purpose: pricing is always server-computed.
type TicketRequest struct {
	TripID            int64
	WagonID           int64
	SeatNumber        int
	PassengerTypeID   int64
	PassengerName     string
	PassengerDocument string
}
