package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"autorent/internal/db"
	"autorent/internal/entities"
)

// SenderService composes and dispatches booking notifications. Emails go
// out on a goroutine so a slow provider never holds up the request.
type SenderService struct {
}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) SendBookingEmail(user *db.User, data entities.BookingEmailData) {
	subject := fmt.Sprintf("Your AutoRent booking is %s - %s", data.Status, data.BookingID)

	vehicleLine := ""
	if data.VehicleName != "" {
		vehicleLine = fmt.Sprintf("Vehicle: %s (Registration: %s)\n", data.VehicleName, data.Registration)
	}
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour booking at AutoRent is %s.\n\n"+
			"Booking Details:\n"+
			"Booking ID: %s\n"+
			"%s"+
			"Start date: %s\n"+
			"End date: %s\n"+
			"Total price: %.2f\n\n"+
			"Thank you for choosing AutoRent.\n\n"+
			"AutoRent %d. All rights reserved.",
		data.UserName, data.Status, data.BookingID, vehicleLine,
		data.StartDate, data.EndDate, data.TotalPrice, data.CurrentYear,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your booking <strong>%s</strong> is <strong>%s</strong>.</p>"+
			"<p>%sStart date: %s<br>End date: %s<br>Total price: %.2f</p>"+
			"<p>Thank you for choosing AutoRent.</p>",
		data.UserName, data.BookingID, data.Status, vehicleLine,
		data.StartDate, data.EndDate, data.TotalPrice,
	)

	go func(toEmail, toName string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainTextBody, htmlBody); err != nil {
			logrus.Warnf("Async email for booking %s failed: %v", data.BookingID, err)
		}
	}(user.Email, user.Name)
}

func (s *SenderService) SendBookingSMS(user *db.User, data entities.BookingEmailData) {
	message := fmt.Sprintf("AutoRent: booking %s is %s. Start date: %s. Details in your email.",
		data.BookingID, data.Status, data.StartDate)

	if err := SendSMS(user.Phone, message); err != nil {
		logrus.Warnf("SMS for booking %s failed: %v", data.BookingID, err)
	}
}
