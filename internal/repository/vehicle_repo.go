package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"autorent/internal/apperrors"
	"autorent/internal/db"
	"autorent/internal/entities"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

func (r *VehicleRepository) Create(ctx context.Context, v *db.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, vehicle_name, type, registration_number, daily_rent_price, availability_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query,
		v.ID, v.VehicleName, v.Type, v.RegistrationNumber, v.DailyRentPrice, v.AvailabilityStatus,
	).Scan(&v.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return apperrors.Conflict("registration number already exists")
	}
	if err != nil {
		return errors.Wrap(err, "insert vehicle")
	}
	return nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]db.Vehicle, error) {
	query := `
		SELECT id, vehicle_name, type, registration_number, daily_rent_price, availability_status, created_at
		FROM vehicles
		ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query vehicles")
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.VehicleName, &v.Type, &v.RegistrationNumber, &v.DailyRentPrice, &v.AvailabilityStatus, &v.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan vehicle")
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate vehicles")
	}
	return vehicles, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*db.Vehicle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("vehicle not found")
	}
	query := `
		SELECT id, vehicle_name, type, registration_number, daily_rent_price, availability_status, created_at
		FROM vehicles
		WHERE id = $1`
	var v db.Vehicle
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.VehicleName, &v.Type, &v.RegistrationNumber, &v.DailyRentPrice, &v.AvailabilityStatus, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("vehicle not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "query vehicle")
	}
	return &v, nil
}

// Update applies the non-nil fields of req and returns the updated row.
func (r *VehicleRepository) Update(ctx context.Context, id string, req entities.VehicleUpdateRequest) (*db.Vehicle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("vehicle not found")
	}

	var (
		fields []string
		values []interface{}
	)
	addField := func(column string, value interface{}) {
		values = append(values, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(values)))
	}
	if req.VehicleName != nil {
		addField("vehicle_name", *req.VehicleName)
	}
	if req.Type != nil {
		addField("type", *req.Type)
	}
	if req.RegistrationNumber != nil {
		addField("registration_number", *req.RegistrationNumber)
	}
	if req.DailyRentPrice != nil {
		addField("daily_rent_price", *req.DailyRentPrice)
	}
	if req.AvailabilityStatus != nil {
		addField("availability_status", *req.AvailabilityStatus)
	}
	if len(fields) == 0 {
		return nil, apperrors.MissingField("no fields to update")
	}

	values = append(values, id)
	query := fmt.Sprintf(`
		UPDATE vehicles SET %s WHERE id = $%d
		RETURNING id, vehicle_name, type, registration_number, daily_rent_price, availability_status, created_at`,
		strings.Join(fields, ", "), len(values))

	var v db.Vehicle
	err := r.DB.QueryRowContext(ctx, query, values...).Scan(
		&v.ID, &v.VehicleName, &v.Type, &v.RegistrationNumber, &v.DailyRentPrice, &v.AvailabilityStatus, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("vehicle not found")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return nil, apperrors.Conflict("registration number already exists")
	}
	if err != nil {
		return nil, errors.Wrap(err, "update vehicle")
	}
	return &v, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFound("vehicle not found")
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete vehicle")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete vehicle rows affected")
	}
	if affected == 0 {
		return apperrors.NotFound("vehicle not found")
	}
	return nil
}

// HasActiveBooking reports whether an active booking currently holds the
// vehicle.
func (r *VehicleRepository) HasActiveBooking(ctx context.Context, vehicleID string) (bool, error) {
	if _, err := uuid.Parse(vehicleID); err != nil {
		return false, nil
	}
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE vehicle_id = $1 AND status = 'active')`,
		vehicleID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check active bookings for vehicle")
	}
	return exists, nil
}
