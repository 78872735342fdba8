package rmq

// Messages published to the order events exchange. Downstream consumers
// (notification sender, reporting) bind to order.created / order.cancelled.

type OrderTicketInfo struct {
	TripID     int64 `json:"trip_id"`
	WagonID    int64 `json:"wagon_id"`
	SeatNumber int   `json:"seat_number"`
}

type OrderCreatedMessage struct {
	OrderID    int64             `json:"order_id"`
	UserID     string            `json:"user_id"`
	Status     string            `json:"status"`
	TotalPrice string            `json:"total_price"`
	Tickets    []OrderTicketInfo `json:"tickets"`
	CreatedAt  string            `json:"created_at"`
}

type OrderCancelledMessage struct {
	OrderID     int64  `json:"order_id"`
	UserID      string `json:"user_id"`
	CancelledBy string `json:"cancelled_by"`
	CancelledAt string `json:"cancelled_at"`
}
