package api

// Booking status update
type UpdateBookingStatusRequest struct {
	Action string `json:"action"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
