package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmheroku/railway-station/internal/booking/handler/dto"
	"github.com/charmheroku/railway-station/internal/booking/service"
	"github.com/charmheroku/railway-station/internal/common/apperr"
	"github.com/charmheroku/railway-station/internal/common/auth"
	"github.com/charmheroku/railway-station/internal/common/logger"
	"github.com/charmheroku/railway-station/internal/common/web"

	"github.com/go-chi/chi/v5"
)

type BookingHandler struct {
	Orders         *service.OrderService
	PassengerTypes *service.PassengerTypeService
	SeatHolds      *service.SeatHoldService
}

func NewBookingHandler(orders *service.OrderService, types *service.PassengerTypeService, holds *service.SeatHoldService) *BookingHandler {
	return &BookingHandler{Orders: orders, PassengerTypes: types, SeatHolds: holds}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindValidation, "invalid %s", name)
	}
	return id, nil
}

func requireClaims(w http.ResponseWriter, r *http.Request) *auth.Claims {
	claims := auth.FromContext(r)
	if claims == nil {
		web.WriteError(w, apperr.New(apperr.KindForbidden, "authentication required"))
		return nil
	}
	return claims
}

func (h *BookingHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	const action = "CreateOrder"
	requestID := web.RequestIDFrom(r)

	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(action, "invalid JSON in request body", requestID, "", err.Error())
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	order, err := h.Orders.CreateOrder(r.Context(), claims.UserID, req.ToModel())
	if err != nil {
		logger.Warn(action, "order rejected", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}

	logger.Info(action, "order created", requestID, strconv.FormatInt(order.ID, 10))
	web.WriteJSON(w, http.StatusCreated, dto.MapOrder(order))
}

func (h *BookingHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	orders, err := h.Orders.ListOrders(r.Context(), claims.UserID, claims.IsStaff())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, dto.MapOrders(orders))
}

func (h *BookingHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), id, claims.UserID, claims.IsStaff())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, dto.MapOrder(order))
}

func (h *BookingHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	const action = "CancelOrder"
	requestID := web.RequestIDFrom(r)

	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	order, err := h.Orders.CancelOrder(r.Context(), id, claims.UserID, claims.IsStaff())
	if err != nil {
		logger.Warn(action, "cancellation rejected", requestID, strconv.FormatInt(id, 10), err.Error())
		web.WriteError(w, err)
		return
	}

	logger.Info(action, "order cancelled", requestID, strconv.FormatInt(id, 10))
	web.WriteJSON(w, http.StatusOK, dto.MapOrder(order))
}

func (h *BookingHandler) ListPassengerTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.PassengerTypes.ListActive(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, types)
}

func (h *BookingHandler) AcquireSeatHold(w http.ResponseWriter, r *http.Request) {
	const action = "AcquireSeatHold"
	requestID := web.RequestIDFrom(r)

	if requireClaims(w, r) == nil {
		return
	}

	var req dto.SeatHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	hold, err := h.SeatHolds.Acquire(r.Context(), req.Seats)
	if err != nil {
		logger.Warn(action, "seat hold rejected", requestID, "", err.Error())
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, hold)
}

func (h *BookingHandler) ReleaseSeatHold(w http.ResponseWriter, r *http.Request) {
	if requireClaims(w, r) == nil {
		return
	}

	var req dto.ReleaseSeatHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, apperr.New(apperr.KindValidation, "invalid JSON"))
		return
	}

	if err := h.SeatHolds.Release(r.Context(), req.Token, req.Seats); err != nil {
		web.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
