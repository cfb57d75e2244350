package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"autorent/internal/apperrors"
	"autorent/internal/db"
)

// Postgres error codes the repositories translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// BookingRepository implements db.BookingStore on Postgres. Row locks are
// taken with SELECT ... FOR UPDATE inside an explicit transaction.
type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

func (r *BookingRepository) Begin(ctx context.Context) (db.BookingTx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin booking transaction")
	}
	return &bookingTx{tx: tx}, nil
}

func (r *BookingRepository) ListBookings(ctx context.Context) ([]db.Booking, error) {
	query := `
		SELECT id, customer_id, vehicle_id, rent_start_date, rent_end_date, total_price, status, created_at
		FROM bookings
		ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query bookings")
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *BookingRepository) ListBookingsByCustomer(ctx context.Context, customerID string) ([]db.Booking, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return nil, nil
	}
	query := `
		SELECT id, customer_id, vehicle_id, rent_start_date, rent_end_date, total_price, status, created_at
		FROM bookings
		WHERE customer_id = $1
		ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "query customer bookings")
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]db.Booking, error) {
	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.VehicleID, &b.RentStartDate, &b.RentEndDate, &b.TotalPrice, &b.Status, &b.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan booking")
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate bookings")
	}
	return bookings, nil
}

type bookingTx struct {
	tx *sql.Tx
}

func (t *bookingTx) VehicleForUpdate(ctx context.Context, id string) (*db.Vehicle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("vehicle not found")
	}
	query := `
		SELECT id, vehicle_name, type, registration_number, daily_rent_price, availability_status, created_at
		FROM vehicles
		WHERE id = $1
		FOR UPDATE`
	var v db.Vehicle
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.VehicleName, &v.Type, &v.RegistrationNumber, &v.DailyRentPrice, &v.AvailabilityStatus, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("vehicle not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "query vehicle for update")
	}
	return &v, nil
}

func (t *bookingTx) BookingForUpdate(ctx context.Context, id string) (*db.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("booking not found")
	}
	query := `
		SELECT id, customer_id, vehicle_id, rent_start_date, rent_end_date, total_price, status, created_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`
	var b db.Booking
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.CustomerID, &b.VehicleID, &b.RentStartDate, &b.RentEndDate, &b.TotalPrice, &b.Status, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("booking not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "query booking for update")
	}
	return &b, nil
}

func (t *bookingTx) InsertBooking(ctx context.Context, booking *db.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, vehicle_id, rent_start_date, rent_end_date, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := t.tx.ExecContext(ctx, query,
		booking.ID, booking.CustomerID, booking.VehicleID,
		booking.RentStartDate, booking.RentEndDate,
		booking.TotalPrice, booking.Status, booking.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation {
		return apperrors.NotFound("customer not found")
	}
	if err != nil {
		return errors.Wrap(err, "insert booking")
	}
	return nil
}

func (t *bookingTx) UpdateBookingStatus(ctx context.Context, id, status string) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return errors.Wrap(err, "update booking status")
	}
	return nil
}

func (t *bookingTx) UpdateVehicleAvailability(ctx context.Context, id, status string) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE vehicles SET availability_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return errors.Wrap(err, "update vehicle availability")
	}
	return nil
}

func (t *bookingTx) Commit() error {
	return t.tx.Commit()
}

func (t *bookingTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
