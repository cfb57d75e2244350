package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// OverdueBooking is an active booking whose rental period has ended without
// the vehicle being marked returned.
type OverdueBooking struct {
	BookingID     string
	CustomerName  string
	CustomerEmail string
	VehicleName   string
	Registration  string
	RentEndDate   time.Time
}

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetOverdueActiveBookings returns active bookings whose end date has
// passed, with the contact details the sweep needs for notifications.
func (r *JobRepository) GetOverdueActiveBookings(ctx context.Context) ([]OverdueBooking, error) {
	query := `
		SELECT b.id, u.name, u.email, v.vehicle_name, v.registration_number, b.rent_end_date
		FROM bookings b
		JOIN users u ON b.customer_id = u.id
		JOIN vehicles v ON b.vehicle_id = v.id
		WHERE b.status = 'active' AND b.rent_end_date < NOW()
		ORDER BY b.rent_end_date`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query overdue bookings")
	}
	defer rows.Close()

	var overdue []OverdueBooking
	for rows.Next() {
		var o OverdueBooking
		if err := rows.Scan(&o.BookingID, &o.CustomerName, &o.CustomerEmail, &o.VehicleName, &o.Registration, &o.RentEndDate); err != nil {
			return nil, errors.Wrap(err, "scan overdue booking")
		}
		overdue = append(overdue, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate overdue bookings")
	}
	return overdue, nil
}
