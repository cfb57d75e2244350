package entities

import "time"

type VehicleRequest struct {
	VehicleName        string  `json:"vehicle_name"`
	Type               string  `json:"type"`
	RegistrationNumber string  `json:"registration_number"`
	DailyRentPrice     float64 `json:"daily_rent_price"`
	AvailabilityStatus string  `json:"availability_status"`
}

// VehicleUpdateRequest carries a partial update; nil fields are left
// untouched.
type VehicleUpdateRequest struct {
	VehicleName        *string  `json:"vehicle_name"`
	Type               *string  `json:"type"`
	RegistrationNumber *string  `json:"registration_number"`
	DailyRentPrice     *float64 `json:"daily_rent_price"`
	AvailabilityStatus *string  `json:"availability_status"`
}

type VehicleResponse struct {
	ID                 string    `json:"id"`
	VehicleName        string    `json:"vehicle_name"`
	Type               string    `json:"type"`
	RegistrationNumber string    `json:"registration_number"`
	DailyRentPrice     float64   `json:"daily_rent_price"`
	AvailabilityStatus string    `json:"availability_status"`
	CreatedAt          time.Time `json:"created_at"`
}
