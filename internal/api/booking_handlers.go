package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"autorent/internal/apperrors"
	"autorent/internal/auth"
	"autorent/internal/entities"
	"autorent/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	booking, err := h.Service.CreateBooking(r.Context(), caller, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	bookings, err := h.Service.ListBookings(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// UpdateBookingStatus handles PATCH /bookings/{id} with an explicit action:
// "cancel" (customer) or "return" (admin).
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	bookingID := mux.Vars(r)["id"]

	var req UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		status *entities.BookingStatusResponse
		err    error
	)
	switch req.Action {
	case entities.ActionCancel:
		status, err = h.Service.CancelBooking(r.Context(), caller, bookingID)
	case entities.ActionReturn:
		status, err = h.Service.ReturnBooking(r.Context(), caller, bookingID)
	default:
		err = apperrors.InvalidRange("action must be cancel or return")
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
