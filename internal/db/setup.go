package db

import (
	"database/sql"
	"fmt"
)

// Setup creates the schema if it does not exist yet. Constraints mirror the
// business rules: positive prices, end date after start date, and the small
// status enums the services rely on.
func Setup(database *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL,
			role VARCHAR(20) NOT NULL CHECK (role IN ('admin','customer')),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id UUID PRIMARY KEY,
			vehicle_name VARCHAR(255) NOT NULL,
			type VARCHAR(20) NOT NULL CHECK (type IN ('car','bike','van','SUV')),
			registration_number VARCHAR(255) NOT NULL UNIQUE,
			daily_rent_price NUMERIC(10,2) NOT NULL CHECK (daily_rent_price > 0),
			availability_status VARCHAR(20) NOT NULL CHECK (availability_status IN ('available','booked')),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			customer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
			rent_start_date DATE NOT NULL,
			rent_end_date DATE NOT NULL,
			total_price NUMERIC(10,2) NOT NULL CHECK (total_price > 0),
			status VARCHAR(20) NOT NULL CHECK (status IN ('active','cancelled','returned')),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			CONSTRAINT rent_dates_check CHECK (rent_end_date > rent_start_date)
		)`,
	}

	for _, stmt := range statements {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("error setting up schema: %w", err)
		}
	}
	return nil
}
