package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"autorent/internal/repository"
)

// JobService runs the scheduled maintenance sweeps. Returning a vehicle
// stays an explicit admin action, so the overdue sweep only reports.
type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// NotifyOverdueBookings finds active bookings past their end date and
// alerts the ops mailbox so staff can chase the return.
func (s *JobService) NotifyOverdueBookings(ctx context.Context) error {
	logrus.Info("Cron Job: checking for overdue bookings...")

	overdue, err := s.Repo.GetOverdueActiveBookings(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to get overdue bookings: %w", err)
	}
	if len(overdue) == 0 {
		logrus.Info("Cron Job: no overdue bookings found")
		return nil
	}

	var lines []string
	for _, o := range overdue {
		logrus.Warnf("Cron Job: booking %s (%s, %s) is overdue since %s",
			o.BookingID, o.VehicleName, o.Registration, o.RentEndDate.Format("2006-01-02"))
		lines = append(lines, fmt.Sprintf("%s - %s (%s), customer %s <%s>, due %s",
			o.BookingID, o.VehicleName, o.Registration, o.CustomerName, o.CustomerEmail,
			o.RentEndDate.Format("2006-01-02")))
	}

	opsEmail := os.Getenv("OPS_ALERT_EMAIL")
	if opsEmail == "" {
		logrus.Warnf("Cron Job: OPS_ALERT_EMAIL not set, %d overdue bookings only logged", len(overdue))
		return nil
	}

	subject := fmt.Sprintf("AutoRent: %d overdue bookings", len(overdue))
	body := "The following bookings are past their end date and not returned:\n\n" + strings.Join(lines, "\n")
	if err := SendEmailWithSendGrid(opsEmail, "Operations", subject, body, ""); err != nil {
		return fmt.Errorf("cron job: failed to send overdue report: %w", err)
	}

	logrus.Infof("Cron Job: reported %d overdue bookings to %s", len(overdue), opsEmail)
	return nil
}
