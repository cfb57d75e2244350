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
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	query := `
		INSERT INTO users (id, name, email, password, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role,
	).Scan(&u.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return apperrors.Conflict("email already in use")
	}
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	return nil
}

// GetByEmail returns nil without error when no user matches, mirroring the
// auth flow that treats an unknown email the same as a bad password.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	query := `
		SELECT id, name, email, password, phone, role, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`
	var u db.User
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query user by email")
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*db.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("user not found")
	}
	query := `
		SELECT id, name, email, password, phone, role, created_at
		FROM users
		WHERE id = $1`
	var u db.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "query user")
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	query := `
		SELECT id, name, email, phone, role, created_at
		FROM users
		ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query users")
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var u db.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate users")
	}
	return users, nil
}

// Update applies the given column/value pairs and returns the updated row.
// The service layer decides which fields the caller may touch.
func (r *UserRepository) Update(ctx context.Context, id string, columns []string, values []interface{}) (*db.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("user not found")
	}
	if len(columns) == 0 {
		return nil, apperrors.MissingField("no fields to update")
	}

	setClauses := make([]string, len(columns))
	for i, column := range columns {
		setClauses[i] = fmt.Sprintf("%s = $%d", column, i+1)
	}
	args := append(values, id)
	query := fmt.Sprintf(`
		UPDATE users SET %s WHERE id = $%d
		RETURNING id, name, email, phone, role, created_at`,
		strings.Join(setClauses, ", "), len(args))

	var u db.User
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return nil, apperrors.Conflict("email already in use")
	}
	if err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	return &u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFound("user not found")
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete user rows affected")
	}
	if affected == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// HasActiveBooking reports whether the customer currently holds an active
// booking.
func (r *UserRepository) HasActiveBooking(ctx context.Context, customerID string) (bool, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return false, nil
	}
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE customer_id = $1 AND status = 'active')`,
		customerID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check active bookings for customer")
	}
	return exists, nil
}
