package email

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	TypeBookingConfirmation = "booking_confirmation"
	TypeBookingCancellation = "booking_cancellation"
	TypeServiceAlert        = "service_alert"

	whenLayout = "Mon, Jan 2, 2006 at 3:04 PM"
)

// BookingNotice describes a gym session for member-facing mail. Start and End
// should already be in the gym's time zone.
type BookingNotice struct {
	BookingID int
	Email     string
	Name      string
	GymName   string
	Start     time.Time
	End       time.Time
	Machines  []string
}

type ServiceAlert struct {
	TicketID      int
	MachineID     int
	MachineName   string
	GymName       string
	IntervalHours float64
	UsageHours    float64
}

func (s *Service) SendBookingConfirmation(ctx context.Context, n BookingNotice) error {
	subject := "Booking Confirmed - " + n.GymName
	body := fmt.Sprintf(`Hi %s,

Your gym session is confirmed!

Booking: #%d
Gym: %s
From: %s
Until: %s
Machines: %s

See you at the gym!

- Fittlr Team`, n.Name, n.BookingID, n.GymName, n.Start.Format(whenLayout), n.End.Format("3:04 PM"), machineList(n.Machines))

	return s.Send(ctx, TypeBookingConfirmation, n.Email, n.Name, subject, body)
}

func (s *Service) SendCancellation(ctx context.Context, n BookingNotice) error {
	subject := "Booking Cancelled - " + n.GymName
	body := fmt.Sprintf(`Hi %s,

Your gym session has been cancelled:

Booking: #%d
Gym: %s
Was: %s

- Fittlr Team`, n.Name, n.BookingID, n.GymName, n.Start.Format(whenLayout))

	return s.Send(ctx, TypeBookingCancellation, n.Email, n.Name, subject, body)
}

// SendServiceAlert tells the operations mailbox that a machine was taken out of rotation.
func (s *Service) SendServiceAlert(ctx context.Context, a ServiceAlert) error {
	if s.opsEmail == "" {
		return nil
	}

	subject := "Service Required: " + a.MachineName
	body := fmt.Sprintf(`Machine "%s" (#%d) at %s reached its service interval of %.0f hours.
Recorded usage: %.2f hours.

Ticket #%d has been opened and the machine is no longer bookable.`,
		a.MachineName, a.MachineID, a.GymName, a.IntervalHours, a.UsageHours, a.TicketID)

	return s.Send(ctx, TypeServiceAlert, s.opsEmail, "Operations", subject, body)
}

func machineList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
