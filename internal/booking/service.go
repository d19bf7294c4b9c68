package booking

import (
	"context"
	"time"

	"github.com/jinzhu/now"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/availability"
	"github.com/pankajbaid567/Fittlr-Backend/internal/email"
	"github.com/pankajbaid567/Fittlr-Backend/internal/gym"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
	"github.com/pankajbaid567/Fittlr-Backend/internal/maintenance"
	"github.com/pankajbaid567/Fittlr-Backend/internal/metrics"
	"github.com/pankajbaid567/Fittlr-Backend/internal/schedule"
	"github.com/pankajbaid567/Fittlr-Backend/internal/user"
)

const (
	summaryDateLayout = "Monday, January 2, 2006"
	summaryTimeLayout = "03:04 PM"
	analyticsLayout   = "2006-01-02"
)

// Notifier delivers member and operations mail. Implemented by *email.Service.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, n email.BookingNotice) error
	SendCancellation(ctx context.Context, n email.BookingNotice) error
	SendServiceAlert(ctx context.Context, a email.ServiceAlert) error
}

type Service interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResult, error)
	GetUserBookings(ctx context.Context, userID, status string) ([]BookingDetails, error)
	GetBookingDetails(ctx context.Context, bookingID int) (*BookingDetails, error)
	GetBookingSummary(ctx context.Context, bookingID int, userID string) (*Summary, error)
	CancelBooking(ctx context.Context, bookingID int, userID string) error
	CompleteBooking(ctx context.Context, bookingID int) (*CompletionResult, error)
	AddMachineToBooking(ctx context.Context, bookingID int, userID string, req AddMachineRequest) (*MachineBooking, error)
	RemoveMachineFromBooking(ctx context.Context, bookingID int, userID string, machineBookingID int) (*MachineBooking, error)
	CheckMachineAvailability(ctx context.Context, gymID int, start, end time.Time) ([]gym.Machine, error)
	GetBookingAnalytics(ctx context.Context, q AnalyticsQuery) (*AnalyticsReport, error)
}

type service struct {
	repo     Repository
	gyms     gym.Repository
	users    user.Repository
	windows  availability.Repository
	notifier Notifier
	loc      *time.Location
	clock    func() time.Time
}

func NewService(
	repo Repository,
	gyms gym.Repository,
	users user.Repository,
	windows availability.Repository,
	notifier Notifier,
	loc *time.Location,
	clock func() time.Time,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:     repo,
		gyms:     gyms,
		users:    users,
		windows:  windows,
		notifier: notifier,
		loc:      loc,
		clock:    clock,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResult, error) {
	if userID == "" || req.GymID <= 0 || req.StartTime.IsZero() || req.DurationMinutes == 0 {
		return nil, apperr.BadRequest("User ID, gym ID, start time, and duration are required")
	}

	g, err := s.gyms.GetGymByID(ctx, req.GymID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("No gym found with id %d", req.GymID)
	}

	if req.DurationMinutes < 0 {
		return nil, apperr.BadRequest("Duration must be a positive number of minutes")
	}
	start := req.StartTime.In(s.loc)
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
	// Durations large enough to overflow wrap end behind start.
	if !end.After(start) {
		return nil, apperr.BadRequest("End time must be after start time")
	}

	if g.AtCapacity() {
		return nil, apperr.BadRequest("Gym is at maximum capacity for this time slot")
	}

	if err := s.checkOpen(ctx, g.ID, start, end); err != nil {
		return nil, err
	}

	overlap, err := s.repo.HasOverlappingBooking(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperr.BadRequest("You already have a booking during this time")
	}

	machineIDs := make([]int, 0, len(req.Machines))
	for _, m := range req.Machines {
		machineIDs = append(machineIDs, m.ID)
	}

	details, err := s.repo.Create(ctx, NewBooking{
		UserID:          userID,
		GymID:           g.ID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: req.DurationMinutes,
		MachineIDs:      machineIDs,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(StatusConfirmed)
	logger.Info("booking created",
		"booking_id", details.ID,
		"gym_id", details.GymID,
		"machines", len(details.Machines),
	)

	s.notifyBooking(ctx, details, email.TypeBookingConfirmation)

	return &CreateBookingResult{
		Booking:           details,
		Duration:          req.DurationMinutes,
		CalculatedEndTime: end,
	}, nil
}

// checkOpen requires an opening-hours row for the start's weekday and the
// whole window to fall inside it.
func (s *service) checkOpen(ctx context.Context, gymID int, start, end time.Time) error {
	oh, err := s.gyms.GetOpeningHoursForDay(ctx, gymID, start.Weekday())
	if err != nil {
		return err
	}
	if oh == nil {
		return apperr.BadRequest("Gym is closed on this day")
	}

	openClock, err := schedule.ParseClock(oh.OpenTime)
	if err != nil {
		return err
	}
	closeClock, err := schedule.ParseClock(oh.CloseTime)
	if err != nil {
		return err
	}
	if start.Before(openClock.At(start, s.loc)) || end.After(closeClock.At(start, s.loc)) {
		return apperr.BadRequest("Gym is only open from %s to %s on this day", oh.OpenTime, oh.CloseTime)
	}
	return nil
}

func (s *service) GetUserBookings(ctx context.Context, userID, status string) ([]BookingDetails, error) {
	if status != "" && !validStatus(status) {
		return nil, apperr.BadRequest("Invalid status %q", status)
	}
	return s.repo.ListByUser(ctx, userID, status)
}

func (s *service) GetBookingDetails(ctx context.Context, bookingID int) (*BookingDetails, error) {
	d, err := s.repo.GetDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("No booking found with id %d", bookingID)
	}
	return d, nil
}

func (s *service) GetBookingSummary(ctx context.Context, bookingID int, userID string) (*Summary, error) {
	d, err := s.GetBookingDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, apperr.Unauthenticated("You do not have permission to view this booking")
	}

	start, end := d.StartTime.In(s.loc), d.EndTime.In(s.loc)
	minutes := d.DurationMinutes()
	current := s.clock()

	summary := &Summary{
		ID:              d.ID,
		Status:          d.Status,
		Date:            start.Format(summaryDateLayout),
		StartTime:       start.Format(summaryTimeLayout),
		EndTime:         end.Format(summaryTimeLayout),
		Duration:        schedule.LongLabel(minutes),
		DurationMinutes: minutes,
		CreatedAt:       d.CreatedAt,
		Gym:             d.Gym,
		User:            d.User,
		Machines:        make([]SummaryMachine, 0, len(d.Machines)),
		CanCancel:       d.Status == StatusConfirmed && start.After(current),
		CanCheckIn: d.Status == StatusConfirmed &&
			!current.Before(start.Add(-checkInLead)) && !current.After(end),
	}
	for _, mb := range d.Machines {
		summary.Machines = append(summary.Machines, SummaryMachine{
			ID:                mb.MachineID,
			Name:              mb.MachineName,
			Description:       mb.Description,
			ImageURL:          mb.ImageURL,
			Duration:          mb.DurationMinutes,
			DurationFormatted: schedule.LongLabel(mb.DurationMinutes),
		})
	}
	return summary, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID int, userID string) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return apperr.NotFound("No booking found with id %d", bookingID)
	}
	if b.UserID != userID {
		return apperr.Unauthenticated("You are not authorized to cancel this booking")
	}
	switch b.Status {
	case StatusCompleted:
		return apperr.BadRequest("Cannot cancel a completed booking")
	case StatusCancelled:
		return apperr.BadRequest("Booking is already cancelled")
	}

	// Loaded before the write so the mail still lists the machines.
	details, detailsErr := s.repo.GetDetails(ctx, bookingID)

	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		return err
	}
	metrics.RecordBookingCancellation()
	logger.Info("booking cancelled", "booking_id", bookingID)

	if detailsErr != nil {
		logger.WithError(detailsErr).Warn("skipping cancellation email", "booking_id", bookingID)
	} else if details != nil {
		s.notifyBooking(ctx, details, email.TypeBookingCancellation)
	}
	return nil
}

func (s *service) CompleteBooking(ctx context.Context, bookingID int) (*CompletionResult, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("No booking found with id %d", bookingID)
	}
	if b.Status != StatusConfirmed {
		return nil, apperr.BadRequest("Booking is already %s", b.Status)
	}

	result, err := s.repo.Complete(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	for _, u := range result.MachineUsage {
		if u.FlaggedForService {
			s.alertService(ctx, u)
		}
	}
	metrics.RecordBookingCompletion(result.UsageMinutes)
	logger.Info("booking completed", "booking_id", bookingID, "machines", len(result.MachineUsage))
	return result, nil
}

// ownedConfirmed loads a booking the caller may still modify.
func (s *service) ownedConfirmed(ctx context.Context, bookingID int, userID, verb string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("No booking found with id %d", bookingID)
	}
	if b.UserID != userID {
		return nil, apperr.Unauthenticated("You are not authorized to modify this booking")
	}
	if b.Status != StatusConfirmed {
		return nil, apperr.BadRequest("Cannot %s a %s booking", verb, b.Status)
	}
	return b, nil
}

func (s *service) AddMachineToBooking(ctx context.Context, bookingID int, userID string, req AddMachineRequest) (*MachineBooking, error) {
	if req.MachineID <= 0 {
		return nil, apperr.BadRequest("Please provide machine ID")
	}
	b, err := s.ownedConfirmed(ctx, bookingID, userID, "add machine to")
	if err != nil {
		return nil, err
	}

	duration := b.DurationMinutes()
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, apperr.BadRequest("Duration must be a positive number of minutes")
		}
		duration = *req.DurationMinutes
	}

	mb, err := s.repo.AddMachine(ctx, bookingID, req.MachineID, duration)
	if err != nil {
		return nil, err
	}
	logger.Info("machine added to booking", "booking_id", bookingID, "machine_id", req.MachineID)
	return mb, nil
}

func (s *service) RemoveMachineFromBooking(ctx context.Context, bookingID int, userID string, machineBookingID int) (*MachineBooking, error) {
	if _, err := s.ownedConfirmed(ctx, bookingID, userID, "modify"); err != nil {
		return nil, err
	}
	mb, err := s.repo.RemoveMachine(ctx, bookingID, machineBookingID)
	if err != nil {
		return nil, err
	}
	logger.Info("machine removed from booking", "booking_id", bookingID, "machine_id", mb.MachineID)
	return mb, nil
}

func (s *service) CheckMachineAvailability(ctx context.Context, gymID int, start, end time.Time) ([]gym.Machine, error) {
	if gymID <= 0 || start.IsZero() || end.IsZero() {
		return nil, apperr.BadRequest("Please provide gym ID, start time and end time")
	}
	if !start.Before(end) {
		return nil, apperr.BadRequest("End time must be after start time")
	}

	g, err := s.gyms.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("No gym found with id %d", gymID)
	}

	machines, err := s.gyms.ListServiceableMachines(ctx, gymID)
	if err != nil {
		return nil, err
	}
	bookedIDs, err := s.windows.BookedMachineIDs(ctx, gymID, start, end)
	if err != nil {
		return nil, err
	}
	booked := make(map[int]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	free := make([]gym.Machine, 0, len(machines))
	for _, m := range machines {
		if !booked[m.ID] {
			free = append(free, m)
		}
	}
	metrics.RecordAvailabilityQuery("machine_check")
	return free, nil
}

func (s *service) GetBookingAnalytics(ctx context.Context, q AnalyticsQuery) (*AnalyticsReport, error) {
	groupBy := q.GroupBy
	if groupBy == "" {
		groupBy = GroupByDay
	}
	if groupBy != GroupByDay && groupBy != GroupByGym {
		return nil, apperr.BadRequest("group_by must be 'day' or 'gym'")
	}

	today := now.With(s.clock().In(s.loc))
	from := today.BeginningOfMonth()
	to := today.EndOfDay()
	var err error
	if q.From != "" {
		if from, err = s.parseBound(q.From, false); err != nil {
			return nil, apperr.BadRequest("invalid from format, use RFC3339 or YYYY-MM-DD")
		}
	}
	if q.To != "" {
		if to, err = s.parseBound(q.To, true); err != nil {
			return nil, apperr.BadRequest("invalid to format, use RFC3339 or YYYY-MM-DD")
		}
	}
	if !from.Before(to) {
		return nil, apperr.BadRequest("from must be before to")
	}

	report := &AnalyticsReport{GroupBy: groupBy, From: from, To: to}
	switch groupBy {
	case GroupByGym:
		report.Data, err = s.repo.StatsByGym(ctx, from, to)
	default:
		report.Data, err = s.repo.StatsByDay(ctx, from, to)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// parseBound accepts an RFC 3339 instant or a calendar date; a date used as
// the upper bound covers the whole day.
func (s *service) parseBound(raw string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(analyticsLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return now.With(d).EndOfDay(), nil
	}
	return d, nil
}

func (s *service) notifyBooking(ctx context.Context, d *BookingDetails, kind string) {
	if s.notifier == nil {
		return
	}
	u, err := s.users.FindByID(ctx, d.UserID)
	if err != nil {
		logger.WithError(err).Warn("booking notification skipped", "booking_id", d.ID)
		return
	}
	if u == nil || u.Email == "" {
		return
	}

	notice := email.BookingNotice{
		BookingID: d.ID,
		Email:     u.Email,
		Name:      u.Name,
		GymName:   d.Gym.Name,
		Start:     d.StartTime.In(s.loc),
		End:       d.EndTime.In(s.loc),
		Machines:  d.MachineNames(),
	}
	switch kind {
	case email.TypeBookingCancellation:
		err = s.notifier.SendCancellation(ctx, notice)
	default:
		err = s.notifier.SendBookingConfirmation(ctx, notice)
	}
	if err != nil {
		logger.WithError(err).Error("failed to queue booking email", "booking_id", d.ID, "type", kind)
	}
}

func (s *service) alertService(ctx context.Context, u maintenance.UsageResult) {
	if s.notifier == nil {
		return
	}
	alert := email.ServiceAlert{
		TicketID:      u.TicketID,
		MachineID:     u.MachineID,
		MachineName:   u.MachineName,
		IntervalHours: u.IntervalHours,
		UsageHours:    u.UsageHours,
	}
	if g, err := s.gyms.GetGymByID(ctx, u.GymID); err == nil && g != nil {
		alert.GymName = g.Name
	}
	if err := s.notifier.SendServiceAlert(ctx, alert); err != nil {
		logger.WithError(err).Error("failed to queue service alert", "ticket_id", u.TicketID)
	}
}
