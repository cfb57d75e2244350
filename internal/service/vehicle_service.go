package service

import (
	"context"

	"github.com/google/uuid"

	"autorent/internal/apperrors"
	"autorent/internal/auth"
	"autorent/internal/db"
	"autorent/internal/entities"
	"autorent/internal/repository"
)

type VehicleService struct {
	repo *repository.VehicleRepository
}

func NewVehicleService(repo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{repo: repo}
}

func (s *VehicleService) Create(ctx context.Context, caller auth.Caller, req entities.VehicleRequest) (*entities.VehicleResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can manage vehicles")
	}
	if req.VehicleName == "" || req.Type == "" || req.RegistrationNumber == "" {
		return nil, apperrors.MissingField("vehicle_name, type and registration_number are required")
	}
	if req.DailyRentPrice <= 0 {
		return nil, apperrors.InvalidRange("daily_rent_price must be positive")
	}
	if req.AvailabilityStatus == "" {
		req.AvailabilityStatus = db.VehicleAvailable
	}
	if req.AvailabilityStatus != db.VehicleAvailable && req.AvailabilityStatus != db.VehicleBooked {
		return nil, apperrors.InvalidRange("availability_status must be available or booked")
	}

	vehicle := &db.Vehicle{
		ID:                 uuid.NewString(),
		VehicleName:        req.VehicleName,
		Type:               req.Type,
		RegistrationNumber: req.RegistrationNumber,
		DailyRentPrice:     req.DailyRentPrice,
		AvailabilityStatus: req.AvailabilityStatus,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, apperrors.Ensure(err, "could not create vehicle")
	}
	return vehicleResponse(vehicle), nil
}

func (s *VehicleService) List(ctx context.Context) ([]entities.VehicleResponse, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "could not list vehicles")
	}
	out := make([]entities.VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, *vehicleResponse(&vehicles[i]))
	}
	return out, nil
}

func (s *VehicleService) Get(ctx context.Context, id string) (*entities.VehicleResponse, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Ensure(err, "could not load vehicle")
	}
	return vehicleResponse(vehicle), nil
}

// Update applies a partial update. The availability flag belongs to the
// booking lifecycle while a booking is active, so changing it by hand is
// rejected until the booking is cancelled or returned.
func (s *VehicleService) Update(ctx context.Context, caller auth.Caller, id string, req entities.VehicleUpdateRequest) (*entities.VehicleResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can manage vehicles")
	}
	if req.DailyRentPrice != nil && *req.DailyRentPrice <= 0 {
		return nil, apperrors.InvalidRange("daily_rent_price must be positive")
	}
	if req.AvailabilityStatus != nil {
		if *req.AvailabilityStatus != db.VehicleAvailable && *req.AvailabilityStatus != db.VehicleBooked {
			return nil, apperrors.InvalidRange("availability_status must be available or booked")
		}
		active, err := s.repo.HasActiveBooking(ctx, id)
		if err != nil {
			return nil, apperrors.Internal(err, "could not check active bookings")
		}
		if active {
			return nil, apperrors.Conflict("cannot change availability while a booking is active")
		}
	}

	vehicle, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, apperrors.Ensure(err, "could not update vehicle")
	}
	return vehicleResponse(vehicle), nil
}

func (s *VehicleService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if !caller.IsAdmin() {
		return apperrors.Forbidden("only admins can manage vehicles")
	}
	active, err := s.repo.HasActiveBooking(ctx, id)
	if err != nil {
		return apperrors.Internal(err, "could not check active bookings")
	}
	if active {
		return apperrors.Conflict("cannot delete vehicle with active bookings")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Ensure(err, "could not delete vehicle")
	}
	return nil
}

func vehicleResponse(v *db.Vehicle) *entities.VehicleResponse {
	return &entities.VehicleResponse{
		ID:                 v.ID,
		VehicleName:        v.VehicleName,
		Type:               v.Type,
		RegistrationNumber: v.RegistrationNumber,
		DailyRentPrice:     v.DailyRentPrice,
		AvailabilityStatus: v.AvailabilityStatus,
		CreatedAt:          v.CreatedAt,
	}
}
