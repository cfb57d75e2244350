package service

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"autorent/internal/apperrors"
	"autorent/internal/auth"
	"autorent/internal/db"
	"autorent/internal/entities"
	"autorent/internal/repository"
)

const minPasswordLength = 6

type AuthService struct {
	repo *repository.UserRepository
}

func NewAuthService(repo *repository.UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

func (s *AuthService) Signup(ctx context.Context, req entities.SignupRequest) (*entities.UserResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.Role == "" {
		return nil, apperrors.MissingField("name, email, password, phone and role are required")
	}
	if req.Role != db.RoleAdmin && req.Role != db.RoleCustomer {
		return nil, apperrors.InvalidRange("role must be admin or customer")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.InvalidRange("password must be at least 6 characters")
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal(err, "could not check email")
	}
	if existing != nil {
		return nil, apperrors.Conflict("email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err, "could not hash password")
	}

	user := &db.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Ensure(err, "could not create user")
	}
	return userResponse(user), nil
}

// Signin verifies the credentials and issues a signed token. Any failure
// surfaces as the same generic error so callers cannot probe for accounts.
func (s *AuthService) Signin(ctx context.Context, req entities.SigninRequest) (*entities.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	caller := auth.Caller{ID: user.ID, Email: user.Email, Role: user.Role}
	token, err := auth.GenerateToken(caller, os.Getenv("JWT_SECRET"), tokenTTL())
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{Token: token, User: *userResponse(user)}, nil
}

func tokenTTL() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("JWT_EXPIRATION_HOURS"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func userResponse(u *db.User) *entities.UserResponse {
	return &entities.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
