package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autorent/internal/auth"
	"autorent/internal/db"
	"autorent/internal/entities"
	"autorent/internal/repository/memory"
	"autorent/internal/service"
)

var (
	adminCaller    = auth.Caller{ID: "adm-1", Role: db.RoleAdmin}
	customerCaller = auth.Caller{ID: "cus-1", Role: db.RoleCustomer}
	strangerCaller = auth.Caller{ID: "cus-2", Role: db.RoleCustomer}
)

// newBookingRouter wires the handler behind a router that injects the given
// caller, standing in for the JWT middleware.
func newBookingRouter(svc *service.BookingService, caller auth.Caller) *mux.Router {
	h := NewBookingHandler(svc)
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithCaller(req.Context(), caller)))
		})
	})
	r.HandleFunc("/api/v1/bookings", h.CreateBooking).Methods("POST")
	r.HandleFunc("/api/v1/bookings", h.ListBookings).Methods("GET")
	r.HandleFunc("/api/v1/bookings/{id}", h.UpdateBookingStatus).Methods("PATCH")
	return r
}

func newBookingService(store *memory.Store) *service.BookingService {
	store.AddVehicle(db.Vehicle{
		ID:                 "veh-1",
		VehicleName:        "Ford Transit",
		Type:               "van",
		RegistrationNumber: "VAN-001",
		DailyRentPrice:     80.00,
		AvailabilityStatus: db.VehicleAvailable,
	})
	return service.NewBookingService(store, nil, nil, time.Second)
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateBookingEndpoint(t *testing.T) {
	store := memory.New()
	svc := newBookingService(store)
	router := newBookingRouter(svc, customerCaller)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings", entities.CreateBookingRequest{
		VehicleID:     "veh-1",
		RentStartDate: "2030-07-01",
		RentEndDate:   "2030-07-04",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var booking entities.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&booking))
	assert.Equal(t, db.BookingActive, booking.Status)
	assert.Equal(t, 240.00, booking.TotalPrice)
	require.NotNil(t, booking.Vehicle)
	assert.Equal(t, "VAN-001", booking.Vehicle.RegistrationNumber)
}

func TestCreateBookingEndpointConflict(t *testing.T) {
	store := memory.New()
	svc := newBookingService(store)
	router := newBookingRouter(svc, customerCaller)

	first := doJSON(t, router, http.MethodPost, "/api/v1/bookings", entities.CreateBookingRequest{
		VehicleID:     "veh-1",
		RentStartDate: "2030-07-01",
		RentEndDate:   "2030-07-04",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, "/api/v1/bookings", entities.CreateBookingRequest{
		VehicleID:     "veh-1",
		RentStartDate: "2030-08-01",
		RentEndDate:   "2030-08-04",
	})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestCreateBookingEndpointBadRange(t *testing.T) {
	store := memory.New()
	svc := newBookingService(store)
	router := newBookingRouter(svc, customerCaller)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings", entities.CreateBookingRequest{
		VehicleID:     "veh-1",
		RentStartDate: "2030-07-01",
		RentEndDate:   "2030-07-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBookingStatusEndpoint(t *testing.T) {
	store := memory.New()
	svc := newBookingService(store)
	customerRouter := newBookingRouter(svc, customerCaller)
	strangerRouter := newBookingRouter(svc, strangerCaller)
	adminRouter := newBookingRouter(svc, adminCaller)

	rec := doJSON(t, customerRouter, http.MethodPost, "/api/v1/bookings", entities.CreateBookingRequest{
		VehicleID:     "veh-1",
		RentStartDate: "2030-07-01",
		RentEndDate:   "2030-07-04",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var booking entities.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&booking))

	t.Run("unknown action", func(t *testing.T) {
		rec := doJSON(t, customerRouter, http.MethodPatch, "/api/v1/bookings/"+booking.ID,
			UpdateBookingStatusRequest{Action: "finish"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("return by customer is forbidden", func(t *testing.T) {
		rec := doJSON(t, customerRouter, http.MethodPatch, "/api/v1/bookings/"+booking.ID,
			UpdateBookingStatusRequest{Action: entities.ActionReturn})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("cancel by non-owner is forbidden", func(t *testing.T) {
		rec := doJSON(t, strangerRouter, http.MethodPatch, "/api/v1/bookings/"+booking.ID,
			UpdateBookingStatusRequest{Action: entities.ActionCancel})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown booking", func(t *testing.T) {
		rec := doJSON(t, adminRouter, http.MethodPatch, "/api/v1/bookings/missing",
			UpdateBookingStatusRequest{Action: entities.ActionReturn})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("owner cancels", func(t *testing.T) {
		rec := doJSON(t, customerRouter, http.MethodPatch, "/api/v1/bookings/"+booking.ID,
			UpdateBookingStatusRequest{Action: entities.ActionCancel})
		require.Equal(t, http.StatusOK, rec.Code)

		var status entities.BookingStatusResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
		assert.Equal(t, db.BookingCancelled, status.Status)
	})

	t.Run("cancel again conflicts", func(t *testing.T) {
		rec := doJSON(t, customerRouter, http.MethodPatch, "/api/v1/bookings/"+booking.ID,
			UpdateBookingStatusRequest{Action: entities.ActionCancel})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestListBookingsEndpoint(t *testing.T) {
	store := memory.New()
	svc := newBookingService(store)
	store.AddBooking(db.Booking{ID: "bk-1", CustomerID: customerCaller.ID, VehicleID: "veh-1",
		Status: db.BookingActive, CreatedAt: time.Now()})
	store.AddBooking(db.Booking{ID: "bk-2", CustomerID: strangerCaller.ID, VehicleID: "veh-1",
		Status: db.BookingActive, CreatedAt: time.Now()})

	t.Run("customer sees own bookings only", func(t *testing.T) {
		rec := doJSON(t, newBookingRouter(svc, customerCaller), http.MethodGet, "/api/v1/bookings", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var bookings []entities.BookingResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&bookings))
		require.Len(t, bookings, 1)
		assert.Equal(t, "bk-1", bookings[0].ID)
	})

	t.Run("admin sees all bookings", func(t *testing.T) {
		rec := doJSON(t, newBookingRouter(svc, adminCaller), http.MethodGet, "/api/v1/bookings", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var bookings []entities.BookingResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&bookings))
		assert.Len(t, bookings, 2)
	})
}
