package handler

import (
	"github.com/charmheroku/railway-station/internal/common/auth"

	"github.com/go-chi/chi/v5"
)

// Register mounts the order and seat-hold endpoints. Passenger types
// are the only public read; everything else needs an authenticated user.
func (h *BookingHandler) Register(router chi.Router, authManager *auth.Manager) {
	router.Get("/passenger-types", h.ListPassengerTypes)

	router.Group(func(r chi.Router) {
		r.Use(authManager.Middleware)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Post("/orders/{id}/cancel", h.CancelOrder)
		r.Post("/seat-holds", h.AcquireSeatHold)
		r.Delete("/seat-holds", h.ReleaseSeatHold)
	})
}
