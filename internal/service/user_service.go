package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"autorent/internal/apperrors"
	"autorent/internal/auth"
	"autorent/internal/db"
	"autorent/internal/entities"
	"autorent/internal/repository"
)

type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context, caller auth.Caller) ([]entities.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can list users")
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "could not list users")
	}
	out := make([]entities.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *userResponse(&users[i]))
	}
	return out, nil
}

// Update lets a user change their own name, phone and password. Email and
// role changes, and updates to other accounts, are admin only.
func (s *UserService) Update(ctx context.Context, caller auth.Caller, id string, req entities.UserUpdateRequest) (*entities.UserResponse, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return nil, apperrors.Forbidden("cannot update another user")
	}
	if !caller.IsAdmin() && (req.Email != nil || req.Role != nil) {
		return nil, apperrors.Forbidden("only admins can change email or role")
	}

	var (
		columns []string
		values  []interface{}
	)
	if req.Name != nil {
		columns = append(columns, "name")
		values = append(values, *req.Name)
	}
	if req.Phone != nil {
		columns = append(columns, "phone")
		values = append(values, *req.Phone)
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, apperrors.InvalidRange("password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Internal(err, "could not hash password")
		}
		columns = append(columns, "password")
		values = append(values, string(hashed))
	}
	if req.Email != nil {
		columns = append(columns, "email")
		values = append(values, strings.ToLower(*req.Email))
	}
	if req.Role != nil {
		if *req.Role != db.RoleAdmin && *req.Role != db.RoleCustomer {
			return nil, apperrors.InvalidRange("role must be admin or customer")
		}
		columns = append(columns, "role")
		values = append(values, *req.Role)
	}
	if len(columns) == 0 {
		return nil, apperrors.MissingField("no fields to update")
	}

	user, err := s.repo.Update(ctx, id, columns, values)
	if err != nil {
		return nil, apperrors.Ensure(err, "could not update user")
	}
	return userResponse(user), nil
}

func (s *UserService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if !caller.IsAdmin() {
		return apperrors.Forbidden("only admins can delete users")
	}
	active, err := s.repo.HasActiveBooking(ctx, id)
	if err != nil {
		return apperrors.Internal(err, "could not check active bookings")
	}
	if active {
		return apperrors.Conflict("cannot delete user with active bookings")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Ensure(err, "could not delete user")
	}
	return nil
}
