package entities

// BookingEmailData feeds the notification templates sent after a booking
// changes state.
type BookingEmailData struct {
	UserName     string
	BookingID    string
	VehicleName  string
	Registration string
	StartDate    string
	EndDate      string
	TotalPrice   float64
	Status       string
	CurrentYear  int
}
