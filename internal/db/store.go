package db

import "context"

// BookingTx is a single store transaction used by the booking lifecycle.
// The *ForUpdate reads take an exclusive row lock that is held until Commit
// or Rollback. Rollback after Commit is a no-op.
type BookingTx interface {
	VehicleForUpdate(ctx context.Context, id string) (*Vehicle, error)
	BookingForUpdate(ctx context.Context, id string) (*Booking, error)
	InsertBooking(ctx context.Context, booking *Booking) error
	UpdateBookingStatus(ctx context.Context, id, status string) error
	UpdateVehicleAvailability(ctx context.Context, id, status string) error
	Commit() error
	Rollback() error
}

// BookingStore is the persistence contract the booking lifecycle runs
// against. Listings are plain reads outside any transaction.
type BookingStore interface {
	Begin(ctx context.Context) (BookingTx, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	ListBookingsByCustomer(ctx context.Context, customerID string) ([]Booking, error)
}
