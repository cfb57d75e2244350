package entities

import "time"

// Booking status update actions accepted by the API.
const (
	ActionCancel = "cancel"
	ActionReturn = "return"
)

type CreateBookingRequest struct {
	CustomerID    string `json:"customer_id"`
	VehicleID     string `json:"vehicle_id"`
	RentStartDate string `json:"rent_start_date"`
	RentEndDate   string `json:"rent_end_date"`
}

// VehicleSummary is the denormalized vehicle snapshot returned with a
// freshly created booking.
type VehicleSummary struct {
	ID                 string  `json:"id"`
	VehicleName        string  `json:"vehicle_name"`
	Type               string  `json:"type"`
	RegistrationNumber string  `json:"registration_number"`
	DailyRentPrice     float64 `json:"daily_rent_price"`
}

type BookingResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	VehicleID     string          `json:"vehicle_id"`
	RentStartDate string          `json:"rent_start_date"`
	RentEndDate   string          `json:"rent_end_date"`
	TotalPrice    float64         `json:"total_price"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Vehicle       *VehicleSummary `json:"vehicle,omitempty"`
}

type BookingStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
