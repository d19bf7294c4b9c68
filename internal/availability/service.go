package availability

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/jinzhu/now"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/gym"
	"github.com/pankajbaid567/Fittlr-Backend/internal/metrics"
	"github.com/pankajbaid567/Fittlr-Backend/internal/schedule"
	"github.com/pankajbaid567/Fittlr-Backend/internal/traffic"
)

const (
	slotLength    = time.Hour
	minSlotLength = 30 * time.Minute
)

type Service interface {
	GetAvailability(ctx context.Context, q Query) (*Result, error)
}

type service struct {
	gyms  gym.Repository
	repo  Repository
	loc   *time.Location
	clock func() time.Time
}

// NewService builds the planner. Dates and opening hours are interpreted in
// loc; clock defaults to time.Now.
func NewService(gyms gym.Repository, repo Repository, loc *time.Location, clock func() time.Time) Service {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{gyms: gyms, repo: repo, loc: loc, clock: clock}
}

func (s *service) GetAvailability(ctx context.Context, q Query) (*Result, error) {
	if q.GymID <= 0 {
		return nil, apperr.BadRequest("Gym ID is required")
	}

	g, err := s.gyms.GetGymByID(ctx, q.GymID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.NotFound("No gym found with id %d", q.GymID)
	}

	hours, err := s.gyms.GetOpeningHours(ctx, q.GymID)
	if err != nil {
		return nil, err
	}

	res := &Result{GymDetails: gymDetails(g)}

	if q.Date == "" {
		res.Mode = ModeDates
		res.AvailableDates = s.upcomingDates(hours)
		metrics.RecordAvailabilityQuery(res.Mode)
		return res, nil
	}

	day, err := s.parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	oh, ok := gym.HoursForDay(hours, day.Weekday())
	if !ok {
		return nil, apperr.BadRequest("Gym is closed on %s", q.Date)
	}
	open, closing, err := s.openWindow(day, oh)
	if err != nil {
		return nil, err
	}
	selected := dateEntry(day, oh)
	selected.Date = q.Date
	res.SelectedDate = &selected

	switch {
	case q.StartTime == "":
		res.Mode = ModeSlots
		res.TimeSlots, err = s.slots(ctx, g, open, closing)
	case q.DurationMinutes == nil:
		// A start time alone narrows nothing further.
		res.Mode = ModeDay
	default:
		res.Mode = ModeMachines
		err = s.machines(ctx, res, g, day, q)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordAvailabilityQuery(res.Mode)
	return res, nil
}

func gymDetails(g *gym.Gym) GymDetails {
	pct := g.CapacityPercentage()
	level := traffic.Status(pct)
	return GymDetails{
		ID:                 g.ID,
		Name:               g.Name,
		Location:           g.Location,
		ImageURL:           g.ImageURL,
		MaxCapacity:        g.MaxCapacity,
		CurrentUsers:       g.CurrentUsers,
		CapacityPercentage: int(math.Round(pct)),
		TrafficStatus:      level,
		TrafficIndicator:   traffic.Indicator(level),
	}
}

func dateEntry(day time.Time, oh gym.OpeningHours) DateEntry {
	level := traffic.ForDay(day.Weekday())
	return DateEntry{
		Date:             day.Format(dateLayout),
		DayOfWeek:        int(day.Weekday()),
		OpenTime:         oh.OpenTime,
		CloseTime:        oh.CloseTime,
		PredictedTraffic: level,
		TrafficIndicator: traffic.Indicator(level),
	}
}

func (s *service) upcomingDates(hours []gym.OpeningHours) []DateEntry {
	today := now.With(s.clock().In(s.loc)).BeginningOfDay()

	dates := make([]DateEntry, 0, LookAheadDays)
	for i := 0; i < LookAheadDays; i++ {
		day := today.AddDate(0, 0, i)
		if oh, ok := gym.HoursForDay(hours, day.Weekday()); ok {
			dates = append(dates, dateEntry(day, oh))
		}
	}
	return dates
}

func (s *service) parseDate(raw string) (time.Time, error) {
	if d, err := time.ParseInLocation(dateLayout, raw, s.loc); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return now.With(t.In(s.loc)).BeginningOfDay(), nil
	}
	return time.Time{}, apperr.BadRequest("Invalid date %q, expected YYYY-MM-DD", raw)
}

func (s *service) openWindow(day time.Time, oh gym.OpeningHours) (time.Time, time.Time, error) {
	openClock, err := schedule.ParseClock(oh.OpenTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	closeClock, err := schedule.ParseClock(oh.CloseTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return openClock.At(day, s.loc), closeClock.At(day, s.loc), nil
}

// slots partitions [open, close) into hour-long slots, clipping the last one
// at closing and dropping any remainder under 30 minutes.
func (s *service) slots(ctx context.Context, g *gym.Gym, open, closing time.Time) ([]Slot, error) {
	windows, err := s.repo.OverlappingBookings(ctx, g.ID, open, closing)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}
	for start := open; start.Before(closing); start = start.Add(slotLength) {
		end := start.Add(slotLength)
		if end.After(closing) {
			end = closing
		}
		if end.Sub(start) < minSlotLength {
			continue
		}

		booked := 0
		for _, w := range windows {
			if schedule.Overlaps(w.StartTime, w.EndTime, start, end) {
				booked++
			}
		}

		pct := occupancy(booked, g.MaxCapacity)
		level := traffic.Combine(traffic.Status(pct), traffic.ForHour(start.In(s.loc).Hour()))
		slots = append(slots, Slot{
			StartTime:          start,
			EndTime:            end,
			AvailableCapacity:  g.MaxCapacity - booked,
			CapacityPercentage: int(math.Round(pct)),
			IsAvailable:        g.MaxCapacity-booked > 0,
			TrafficStatus:      level,
			TrafficIndicator:   traffic.Indicator(level),
			PossibleDurations:  schedule.StandardDurations(start, closing),
		})
	}
	return slots, nil
}

func (s *service) machines(ctx context.Context, res *Result, g *gym.Gym, day time.Time, q Query) error {
	minutes := *q.DurationMinutes
	if minutes <= 0 {
		return apperr.BadRequest("Duration must be a positive number of minutes")
	}

	start, err := s.parseStart(day, q.StartTime)
	if err != nil {
		return err
	}
	end := start.Add(time.Duration(minutes) * time.Minute)
	if !end.After(start) {
		return apperr.BadRequest("End time must be after start time")
	}

	windows, err := s.repo.OverlappingBookings(ctx, g.ID, start, end)
	if err != nil {
		return err
	}
	pct := occupancy(len(windows), g.MaxCapacity)
	level := traffic.Status(pct)
	res.SelectedTimeSlot = &SelectedTimeSlot{
		StartTime:          start,
		CalculatedEndTime:  end,
		Duration:           minutes,
		AvailableCapacity:  g.MaxCapacity - len(windows),
		CapacityPercentage: int(math.Round(pct)),
		TrafficStatus:      level,
		TrafficIndicator:   traffic.Indicator(level),
	}

	machines, err := s.gyms.ListBookableMachines(ctx, g.ID)
	if err != nil {
		return err
	}
	bookedIDs, err := s.repo.BookedMachineIDs(ctx, g.ID, start, end)
	if err != nil {
		return err
	}
	booked := make(map[int]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	res.AvailableMachines = []MachineOption{}
	res.MachinesByType = map[string][]MachineOption{}
	for _, m := range machines {
		if booked[m.ID] {
			continue
		}
		opt := MachineOption{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			ImageURL:    m.ImageURL,
			Type:        MachineType(m.Name),
			Popularity:  Popularity(m.UsesCount),
		}
		res.AvailableMachines = append(res.AvailableMachines, opt)
		res.MachinesByType[opt.Type] = append(res.MachinesByType[opt.Type], opt)
	}

	var availablePct float64
	if len(machines) > 0 {
		availablePct = float64(len(res.AvailableMachines)) / float64(len(machines)) * 100
	}
	res.MachineAvailability = &MachineAvailability{
		Total:               len(machines),
		Available:           len(res.AvailableMachines),
		PercentageAvailable: int(math.Round(availablePct)),
		AvailabilityStatus:  AvailabilityStatus(availablePct),
	}
	return nil
}

// parseStart accepts an RFC 3339 instant or an "HH:MM" wall-clock time on day.
func (s *service) parseStart(day time.Time, raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(s.loc), nil
	}
	if c, err := schedule.ParseClock(raw); err == nil {
		return c.At(day, s.loc), nil
	}
	return time.Time{}, apperr.BadRequest("Invalid start time %q", raw)
}

func occupancy(booked, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(booked) / float64(capacity) * 100
}

// ParseDuration reads an optional duration query value.
func ParseDuration(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.BadRequest("Duration must be a positive number of minutes")
	}
	return &v, nil
}
