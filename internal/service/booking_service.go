package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"autorent/internal/apperrors"
	"autorent/internal/auth"
	"autorent/internal/db"
	"autorent/internal/entities"
)

// UserDirectory resolves customer contact details for notifications.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*db.User, error)
}

// BookingService owns the booking state machine. Every mutating operation
// follows the same transactional shape: lock the affected row(s), validate
// preconditions, apply the paired booking/vehicle updates, commit. Any
// failure after the lock rolls back with no partial effect. The service
// never retries; that is the caller's call.
type BookingService struct {
	store     db.BookingStore
	users     UserDirectory
	sender    *SenderService
	txTimeout time.Duration
	now       func() time.Time
}

func NewBookingService(store db.BookingStore, users UserDirectory, sender *SenderService, txTimeout time.Duration) *BookingService {
	if txTimeout <= 0 {
		txTimeout = 10 * time.Second
	}
	return &BookingService{
		store:     store,
		users:     users,
		sender:    sender,
		txTimeout: txTimeout,
		now:       time.Now,
	}
}

// resolveCustomer decides who the booking is for. Customers book for
// themselves only; admins must name the customer explicitly.
func (s *BookingService) resolveCustomer(caller auth.Caller, requested string) (string, error) {
	if caller.IsCustomer() {
		if requested != "" && requested != caller.ID {
			return "", apperrors.Forbidden("customers can only book for themselves")
		}
		return caller.ID, nil
	}
	if requested == "" {
		return "", apperrors.MissingField("customer_id is required")
	}
	return requested, nil
}

// CreateBooking reserves a vehicle for the given date range. The vehicle
// row is locked for the duration of the transaction, so two concurrent
// creates against the same vehicle serialize and the second one observes
// the flipped availability flag.
func (s *BookingService) CreateBooking(ctx context.Context, caller auth.Caller, req entities.CreateBookingRequest) (*entities.BookingResponse, error) {
	customerID, err := s.resolveCustomer(caller, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if req.VehicleID == "" {
		return nil, apperrors.MissingField("vehicle_id is required")
	}
	if req.RentStartDate == "" || req.RentEndDate == "" {
		return nil, apperrors.MissingField("rent_start_date and rent_end_date are required")
	}

	start, err := time.Parse(DateLayout, req.RentStartDate)
	if err != nil {
		return nil, apperrors.InvalidRange("invalid rent dates")
	}
	end, err := time.Parse(DateLayout, req.RentEndDate)
	if err != nil {
		return nil, apperrors.InvalidRange("invalid rent dates")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidRange("rent_end_date must be after rent_start_date")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "could not start transaction")
	}
	defer tx.Rollback()

	vehicle, err := tx.VehicleForUpdate(ctx, req.VehicleID)
	if err != nil {
		return nil, apperrors.Ensure(err, "could not load vehicle")
	}
	if vehicle.AvailabilityStatus != db.VehicleAvailable {
		return nil, apperrors.Conflict("vehicle is not available")
	}

	days := ComputeDays(start, end)
	total, err := ComputeTotal(vehicle.DailyRentPrice, days)
	if err != nil {
		return nil, err
	}

	booking := &db.Booking{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		VehicleID:     vehicle.ID,
		RentStartDate: start,
		RentEndDate:   end,
		TotalPrice:    total,
		Status:        db.BookingActive,
		CreatedAt:     s.now().UTC(),
	}
	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, apperrors.Ensure(err, "could not create booking")
	}
	if err := tx.UpdateVehicleAvailability(ctx, vehicle.ID, db.VehicleBooked); err != nil {
		return nil, apperrors.Ensure(err, "could not update vehicle availability")
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal(err, "could not commit booking")
	}

	resp := bookingResponse(booking)
	resp.Vehicle = &entities.VehicleSummary{
		ID:                 vehicle.ID,
		VehicleName:        vehicle.VehicleName,
		Type:               vehicle.Type,
		RegistrationNumber: vehicle.RegistrationNumber,
		DailyRentPrice:     vehicle.DailyRentPrice,
	}

	s.notifyStatusChange(booking, vehicle.VehicleName, vehicle.RegistrationNumber, "confirmed")
	return resp, nil
}

// ListBookings returns every booking for admins and only the caller's own
// bookings for customers, newest first. Each call re-executes the query.
func (s *BookingService) ListBookings(ctx context.Context, caller auth.Caller) ([]entities.BookingResponse, error) {
	var (
		bookings []db.Booking
		err      error
	)
	if caller.IsAdmin() {
		bookings, err = s.store.ListBookings(ctx)
	} else {
		bookings, err = s.store.ListBookingsByCustomer(ctx, caller.ID)
	}
	if err != nil {
		return nil, apperrors.Internal(err, "could not list bookings")
	}

	out := make([]entities.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *bookingResponse(&bookings[i]))
	}
	return out, nil
}

// CancelBooking lets the owning customer cancel an active booking strictly
// before its start date. The booking flips to cancelled and the vehicle
// back to available in the same transaction. Cancelling an already
// terminal booking fails with a conflict.
func (s *BookingService) CancelBooking(ctx context.Context, caller auth.Caller, bookingID string) (*entities.BookingStatusResponse, error) {
	if !caller.IsCustomer() {
		return nil, apperrors.Forbidden("only customers can cancel a booking")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "could not start transaction")
	}
	defer tx.Rollback()

	booking, err := tx.BookingForUpdate(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Ensure(err, "could not load booking")
	}
	if booking.CustomerID != caller.ID {
		return nil, apperrors.Forbidden("booking belongs to another customer")
	}
	if booking.Status != db.BookingActive {
		return nil, apperrors.Conflict("booking is already " + booking.Status)
	}
	if !s.now().UTC().Before(booking.RentStartDate) {
		return nil, apperrors.Conflict("cannot cancel on or after the rental start date")
	}

	if err := tx.UpdateBookingStatus(ctx, booking.ID, db.BookingCancelled); err != nil {
		return nil, apperrors.Ensure(err, "could not update booking status")
	}
	if err := tx.UpdateVehicleAvailability(ctx, booking.VehicleID, db.VehicleAvailable); err != nil {
		return nil, apperrors.Ensure(err, "could not update vehicle availability")
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal(err, "could not commit cancellation")
	}

	s.notifyStatusChange(booking, "", "", db.BookingCancelled)
	return &entities.BookingStatusResponse{ID: booking.ID, Status: db.BookingCancelled}, nil
}

// ReturnBooking marks an active booking as returned and frees the vehicle.
// Admin only, with no date-window restriction.
func (s *BookingService) ReturnBooking(ctx context.Context, caller auth.Caller, bookingID string) (*entities.BookingStatusResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can mark a booking as returned")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "could not start transaction")
	}
	defer tx.Rollback()

	booking, err := tx.BookingForUpdate(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Ensure(err, "could not load booking")
	}
	if booking.Status != db.BookingActive {
		return nil, apperrors.Conflict("booking is already " + booking.Status)
	}

	if err := tx.UpdateBookingStatus(ctx, booking.ID, db.BookingReturned); err != nil {
		return nil, apperrors.Ensure(err, "could not update booking status")
	}
	if err := tx.UpdateVehicleAvailability(ctx, booking.VehicleID, db.VehicleAvailable); err != nil {
		return nil, apperrors.Ensure(err, "could not update vehicle availability")
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal(err, "could not commit return")
	}

	s.notifyStatusChange(booking, "", "", db.BookingReturned)
	return &entities.BookingStatusResponse{ID: booking.ID, Status: db.BookingReturned}, nil
}

func (s *BookingService) notifyStatusChange(booking *db.Booking, vehicleName, registration, status string) {
	if s.sender == nil || s.users == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := s.users.GetByID(ctx, booking.CustomerID)
	if err != nil {
		logrus.Warnf("Could not load customer %s for booking %s notification: %v", booking.CustomerID, booking.ID, err)
		return
	}

	data := entities.BookingEmailData{
		UserName:     user.Name,
		BookingID:    booking.ID,
		VehicleName:  vehicleName,
		Registration: registration,
		StartDate:    booking.RentStartDate.Format(DateLayout),
		EndDate:      booking.RentEndDate.Format(DateLayout),
		TotalPrice:   booking.TotalPrice,
		Status:       status,
		CurrentYear:  s.now().UTC().Year(),
	}
	s.sender.SendBookingEmail(user, data)
	s.sender.SendBookingSMS(user, data)
}

func bookingResponse(b *db.Booking) *entities.BookingResponse {
	return &entities.BookingResponse{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		RentStartDate: b.RentStartDate.Format(DateLayout),
		RentEndDate:   b.RentEndDate.Format(DateLayout),
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
}
