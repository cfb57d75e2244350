package db

import "time"

// Role values carried in the JWT and on user records.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Vehicle availability flag.
const (
	VehicleAvailable = "available"
	VehicleBooked    = "booked"
)

// Booking status values. Cancelled and returned are terminal.
const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
	BookingReturned  = "returned"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         string
	CreatedAt    time.Time
}

type Vehicle struct {
	ID                 string
	VehicleName        string
	Type               string
	RegistrationNumber string
	DailyRentPrice     float64
	AvailabilityStatus string
	CreatedAt          time.Time
}

type Booking struct {
	ID            string
	CustomerID    string
	VehicleID     string
	RentStartDate time.Time
	RentEndDate   time.Time
	TotalPrice    float64
	Status        string
	CreatedAt     time.Time
}
