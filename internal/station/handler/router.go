package handler

import (
	"github.com/charmheroku/railway-station/internal/common/auth"

	"github.com/go-chi/chi/v5"
)

// Register mounts the catalog and trip endpoints. Reads are public, all
// writes sit behind the auth middleware and a staff check.
func (h *StationHandler) Register(router chi.Router, authManager *auth.Manager) {
	router.Get("/stations", h.ListStations)
	router.Get("/stations/autocomplete", h.AutocompleteStations)
	router.Get("/stations/{id}", h.GetStation)
	router.Get("/routes", h.ListRoutes)
	router.Get("/routes/{id}", h.GetRoute)
	router.Get("/trains", h.ListTrains)
	router.Get("/trains/{id}", h.GetTrain)
	router.Get("/wagon-types", h.ListWagonTypes)
	router.Get("/wagon-amenities", h.ListWagonAmenities)
	router.Get("/wagons", h.ListWagons)
	router.Get("/wagons/{id}", h.GetWagon)

	router.Get("/trips/search", h.SearchTrips)
	router.Get("/trips/{id}", h.GetTrip)
	router.Get("/trips/{id}/availability", h.TripAvailability)
	router.Get("/trips/{id}/wagons/{wagonId}/seats", h.SeatMap)

	router.Group(func(r chi.Router) {
		r.Use(authManager.Middleware)
		r.Post("/stations", h.CreateStation)
		r.Post("/routes", h.CreateRoute)
		r.Post("/trains", h.CreateTrain)
		r.Post("/wagon-types", h.CreateWagonType)
		r.Post("/wagon-amenities", h.CreateWagonAmenity)
		r.Post("/wagons", h.CreateWagon)
		r.Post("/trips", h.CreateTrip)
		r.Put("/trips/{id}", h.UpdateTrip)
	})
}
