package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/availability"
	"github.com/pankajbaid567/Fittlr-Backend/internal/email"
	"github.com/pankajbaid567/Fittlr-Backend/internal/gym"
	"github.com/pankajbaid567/Fittlr-Backend/internal/maintenance"
	"github.com/pankajbaid567/Fittlr-Backend/internal/user"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, nb NewBooking) (*BookingDetails, error) {
	args := m.Called(ctx, nb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingDetails), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetDetails(ctx context.Context, id int) (*BookingDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingDetails), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID, status string) ([]BookingDetails, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]BookingDetails), args.Error(1)
}

func (m *MockRepository) HasOverlappingBooking(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Cancel(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) Complete(ctx context.Context, id int) (*CompletionResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CompletionResult), args.Error(1)
}

func (m *MockRepository) AddMachine(ctx context.Context, bookingID, machineID, durationMinutes int) (*MachineBooking, error) {
	args := m.Called(ctx, bookingID, machineID, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MachineBooking), args.Error(1)
}

func (m *MockRepository) RemoveMachine(ctx context.Context, bookingID, machineBookingID int) (*MachineBooking, error) {
	args := m.Called(ctx, bookingID, machineBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MachineBooking), args.Error(1)
}

func (m *MockRepository) StatsByDay(ctx context.Context, from, to time.Time) ([]StatsByDay, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]StatsByDay), args.Error(1)
}

func (m *MockRepository) StatsByGym(ctx context.Context, from, to time.Time) ([]StatsByGym, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]StatsByGym), args.Error(1)
}

// mockGyms implements the parts of gym.Repository the booking flow reads.
type mockGyms struct {
	mock.Mock
	gym.Repository
}

func (m *mockGyms) GetGymByID(ctx context.Context, id int) (*gym.Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *mockGyms) GetOpeningHoursForDay(ctx context.Context, gymID int, day time.Weekday) (*gym.OpeningHours, error) {
	args := m.Called(ctx, gymID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.OpeningHours), args.Error(1)
}

func (m *mockGyms) ListServiceableMachines(ctx context.Context, gymID int) ([]gym.Machine, error) {
	args := m.Called(ctx, gymID)
	return args.Get(0).([]gym.Machine), args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Ensure(ctx context.Context, u user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type mockWindows struct {
	mock.Mock
}

func (m *mockWindows) OverlappingBookings(ctx context.Context, gymID int, start, end time.Time) ([]availability.BookingWindow, error) {
	args := m.Called(ctx, gymID, start, end)
	return args.Get(0).([]availability.BookingWindow), args.Error(1)
}

func (m *mockWindows) BookedMachineIDs(ctx context.Context, gymID int, start, end time.Time) ([]int, error) {
	args := m.Called(ctx, gymID, start, end)
	return args.Get(0).([]int), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendBookingConfirmation(ctx context.Context, n email.BookingNotice) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifier) SendCancellation(ctx context.Context, n email.BookingNotice) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifier) SendServiceAlert(ctx context.Context, a email.ServiceAlert) error {
	return m.Called(ctx, a).Error(0)
}

var ist = mustLoad("Asia/Kolkata")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(day, hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+hhmm, ist)
	if err != nil {
		panic(err)
	}
	return t
}

func intp(v int) *int { return &v }

type fixture struct {
	repo     *MockRepository
	gyms     *mockGyms
	users    *mockUsers
	windows  *mockWindows
	notifier *mockNotifier
	now      time.Time
}

func newFixture() *fixture {
	return &fixture{
		repo:     new(MockRepository),
		gyms:     new(mockGyms),
		users:    new(mockUsers),
		windows:  new(mockWindows),
		notifier: new(mockNotifier),
		// Monday afternoon.
		now: at("2025-03-10", "15:00"),
	}
}

func (f *fixture) service() Service {
	return NewService(f.repo, f.gyms, f.users, f.windows, f.notifier, ist, func() time.Time { return f.now })
}

func (f *fixture) openMonday() {
	f.gyms.On("GetOpeningHoursForDay", mock.Anything, 1, time.Monday).
		Return(&gym.OpeningHours{GymID: 1, DayOfWeek: 1, OpenTime: "06:00", CloseTime: "22:00"}, nil)
}

func testGym() *gym.Gym {
	return &gym.Gym{ID: 1, Name: "Iron Temple", MaxCapacity: 10, CurrentUsers: 2}
}

func createRequest(start time.Time, minutes int, machines ...int) CreateBookingRequest {
	req := CreateBookingRequest{GymID: 1, StartTime: start, DurationMinutes: minutes}
	for _, id := range machines {
		req.Machines = append(req.Machines, MachineSelection{ID: id})
	}
	return req
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture()
	start := at("2025-03-10", "18:00")
	end := at("2025-03-10", "19:30")

	f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
	f.openMonday()
	f.repo.On("HasOverlappingBooking", mock.Anything, "user-1", start, end).Return(false, nil)

	created := &BookingDetails{
		Booking:  Booking{ID: 42, UserID: "user-1", GymID: 1, StartTime: start, EndTime: end, Status: StatusConfirmed},
		Gym:      GymSummary{ID: 1, Name: "Iron Temple"},
		Machines: []MachineBooking{{ID: 1, BookingID: 42, MachineID: 3, DurationMinutes: 90, MachineName: "Bench Press"}},
	}
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(nb NewBooking) bool {
		return nb.UserID == "user-1" && nb.GymID == 1 &&
			nb.StartTime.Equal(start) && nb.EndTime.Equal(end) &&
			nb.DurationMinutes == 90 && assert.ObjectsAreEqual([]int{3}, nb.MachineIDs)
	})).Return(created, nil)

	f.users.On("FindByID", mock.Anything, "user-1").Return(&user.User{ID: "user-1", Name: "Asha", Email: "asha@example.com"}, nil)
	f.notifier.On("SendBookingConfirmation", mock.Anything, mock.MatchedBy(func(n email.BookingNotice) bool {
		return n.BookingID == 42 && n.Email == "asha@example.com" && n.GymName == "Iron Temple" &&
			assert.ObjectsAreEqual([]string{"Bench Press"}, n.Machines)
	})).Return(nil)

	res, err := f.service().CreateBooking(context.Background(), "user-1", createRequest(start, 90, 3))

	require.NoError(t, err)
	assert.Equal(t, 42, res.Booking.ID)
	assert.Equal(t, 90, res.Duration)
	assert.True(t, res.CalculatedEndTime.Equal(end))
	f.repo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateBooking_NotificationFailureIsIgnored(t *testing.T) {
	f := newFixture()
	start := at("2025-03-10", "07:00")

	f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
	f.openMonday()
	f.repo.On("HasOverlappingBooking", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(false, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(&BookingDetails{Booking: Booking{ID: 7, UserID: "user-1"}}, nil)
	f.users.On("FindByID", mock.Anything, "user-1").Return(&user.User{ID: "user-1", Email: "a@example.com"}, nil)
	f.notifier.On("SendBookingConfirmation", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	res, err := f.service().CreateBooking(context.Background(), "user-1", createRequest(start, 60))

	require.NoError(t, err)
	assert.Equal(t, 7, res.Booking.ID)
}

func TestCreateBooking_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		req     CreateBookingRequest
		kind    apperr.Kind
		message string
	}{
		{
			name:    "missing fields",
			setup:   func(f *fixture) {},
			req:     CreateBookingRequest{GymID: 1},
			kind:    apperr.KindBadRequest,
			message: "User ID, gym ID, start time, and duration are required",
		},
		{
			name: "unknown gym",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(nil, nil)
			},
			req:     createRequest(at("2025-03-10", "18:00"), 60),
			kind:    apperr.KindNotFound,
			message: "No gym found with id 1",
		},
		{
			name: "negative duration",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
			},
			req:     createRequest(at("2025-03-10", "18:00"), -30),
			kind:    apperr.KindBadRequest,
			message: "Duration must be a positive number of minutes",
		},
		{
			name: "duration overflowing the clock",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
			},
			req:     createRequest(at("2025-03-10", "10:00"), 307445705),
			kind:    apperr.KindBadRequest,
			message: "End time must be after start time",
		},
		{
			name: "gym full",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(&gym.Gym{ID: 1, MaxCapacity: 2, CurrentUsers: 2}, nil)
			},
			req:     createRequest(at("2025-03-10", "18:00"), 60),
			kind:    apperr.KindBadRequest,
			message: "Gym is at maximum capacity for this time slot",
		},
		{
			name: "closed day",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
				f.gyms.On("GetOpeningHoursForDay", mock.Anything, 1, time.Tuesday).Return(nil, nil)
			},
			req:     createRequest(at("2025-03-11", "18:00"), 60),
			kind:    apperr.KindBadRequest,
			message: "Gym is closed on this day",
		},
		{
			name: "runs past closing",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
				f.openMonday()
			},
			req:     createRequest(at("2025-03-10", "21:00"), 90),
			kind:    apperr.KindBadRequest,
			message: "Gym is only open from 06:00 to 22:00 on this day",
		},
		{
			name: "starts before opening",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
				f.openMonday()
			},
			req:     createRequest(at("2025-03-10", "05:30"), 60),
			kind:    apperr.KindBadRequest,
			message: "Gym is only open from 06:00 to 22:00 on this day",
		},
		{
			name: "user already booked",
			setup: func(f *fixture) {
				f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
				f.openMonday()
				f.repo.On("HasOverlappingBooking", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(true, nil)
			},
			req:     createRequest(at("2025-03-10", "18:00"), 60),
			kind:    apperr.KindBadRequest,
			message: "You already have a booking during this time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			_, err := f.service().CreateBooking(context.Background(), "user-1", tt.req)

			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, tt.kind))
			assert.EqualError(t, err, tt.message)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_UTCStartUsesGymWeekday(t *testing.T) {
	f := newFixture()
	// 2025-03-10 19:00 UTC is already Tuesday 00:30 in the gym's zone.
	start := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)

	f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
	f.gyms.On("GetOpeningHoursForDay", mock.Anything, 1, time.Tuesday).Return(nil, nil)

	_, err := f.service().CreateBooking(context.Background(), "user-1", createRequest(start, 60))

	assert.EqualError(t, err, "Gym is closed on this day")
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture()
	f.repo.On("ListByUser", mock.Anything, "user-1", StatusConfirmed).Return([]BookingDetails{{Booking: Booking{ID: 1}}}, nil)

	got, err := f.service().GetUserBookings(context.Background(), "user-1", StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.service().GetUserBookings(context.Background(), "user-1", "booked")
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestGetBookingDetails_NotFound(t *testing.T) {
	f := newFixture()
	f.repo.On("GetDetails", mock.Anything, 5).Return(nil, nil)

	_, err := f.service().GetBookingDetails(context.Background(), 5)

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.EqualError(t, err, "No booking found with id 5")
}

func summaryBooking(start time.Time, minutes int, status string) *BookingDetails {
	return &BookingDetails{
		Booking: Booking{
			ID: 9, UserID: "user-1", GymID: 1, Status: status,
			StartTime: start.UTC(), EndTime: start.Add(time.Duration(minutes) * time.Minute).UTC(),
		},
		Gym:  GymSummary{ID: 1, Name: "Iron Temple"},
		User: &UserSummary{Name: "Asha", Email: "asha@example.com"},
		Machines: []MachineBooking{
			{MachineID: 3, MachineName: "Rower", DurationMinutes: 75},
		},
	}
}

func TestGetBookingSummary(t *testing.T) {
	f := newFixture()
	f.repo.On("GetDetails", mock.Anything, 9).Return(summaryBooking(at("2025-03-10", "15:10"), 90, StatusConfirmed), nil)

	s, err := f.service().GetBookingSummary(context.Background(), 9, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "Monday, March 10, 2025", s.Date)
	assert.Equal(t, "03:10 PM", s.StartTime)
	assert.Equal(t, "04:40 PM", s.EndTime)
	assert.Equal(t, "1 hour and 30 minutes", s.Duration)
	assert.Equal(t, 90, s.DurationMinutes)
	assert.True(t, s.CanCancel)
	assert.True(t, s.CanCheckIn)
	require.Len(t, s.Machines, 1)
	assert.Equal(t, "1 hour and 15 minutes", s.Machines[0].DurationFormatted)
}

func TestGetBookingSummary_Flags(t *testing.T) {
	tests := []struct {
		name       string
		start      time.Time
		status     string
		canCancel  bool
		canCheckIn bool
	}{
		{"later today", at("2025-03-10", "18:00"), StatusConfirmed, true, false},
		{"check-in window opens", at("2025-03-10", "15:15"), StatusConfirmed, true, true},
		{"in progress", at("2025-03-10", "14:30"), StatusConfirmed, false, true},
		{"already over", at("2025-03-10", "13:00"), StatusConfirmed, false, false},
		{"cancelled", at("2025-03-10", "15:10"), StatusCancelled, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetDetails", mock.Anything, 9).Return(summaryBooking(tt.start, 60, tt.status), nil)

			s, err := f.service().GetBookingSummary(context.Background(), 9, "user-1")

			require.NoError(t, err)
			assert.Equal(t, tt.canCancel, s.CanCancel)
			assert.Equal(t, tt.canCheckIn, s.CanCheckIn)
		})
	}
}

func TestGetBookingSummary_OtherUser(t *testing.T) {
	f := newFixture()
	f.repo.On("GetDetails", mock.Anything, 9).Return(summaryBooking(at("2025-03-10", "18:00"), 60, StatusConfirmed), nil)

	_, err := f.service().GetBookingSummary(context.Background(), 9, "someone-else")

	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
}

func TestCancelBooking(t *testing.T) {
	f := newFixture()
	b := &Booking{ID: 4, UserID: "user-1", GymID: 1, Status: StatusConfirmed}
	f.repo.On("GetByID", mock.Anything, 4).Return(b, nil)
	f.repo.On("GetDetails", mock.Anything, 4).Return(&BookingDetails{Booking: *b, Gym: GymSummary{Name: "Iron Temple"}}, nil)
	f.repo.On("Cancel", mock.Anything, 4).Return(nil)
	f.users.On("FindByID", mock.Anything, "user-1").Return(&user.User{ID: "user-1", Email: "a@example.com"}, nil)
	f.notifier.On("SendCancellation", mock.Anything, mock.MatchedBy(func(n email.BookingNotice) bool {
		return n.BookingID == 4 && n.GymName == "Iron Temple"
	})).Return(nil)

	err := f.service().CancelBooking(context.Background(), 4, "user-1")

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCancelBooking_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		booking *Booking
		userID  string
		kind    apperr.Kind
		message string
	}{
		{"missing", nil, "user-1", apperr.KindNotFound, "No booking found with id 4"},
		{"not owner", &Booking{ID: 4, UserID: "user-2", Status: StatusConfirmed}, "user-1", apperr.KindUnauthenticated, "You are not authorized to cancel this booking"},
		{"completed", &Booking{ID: 4, UserID: "user-1", Status: StatusCompleted}, "user-1", apperr.KindBadRequest, "Cannot cancel a completed booking"},
		{"cancelled", &Booking{ID: 4, UserID: "user-1", Status: StatusCancelled}, "user-1", apperr.KindBadRequest, "Booking is already cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.booking == nil {
				f.repo.On("GetByID", mock.Anything, 4).Return(nil, nil)
			} else {
				f.repo.On("GetByID", mock.Anything, 4).Return(tt.booking, nil)
			}

			err := f.service().CancelBooking(context.Background(), 4, tt.userID)

			assert.True(t, apperr.IsKind(err, tt.kind))
			assert.EqualError(t, err, tt.message)
			f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
		})
	}
}

func TestCompleteBooking_SendsServiceAlerts(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, 4).Return(&Booking{ID: 4, UserID: "user-1", GymID: 1, Status: StatusConfirmed}, nil)
	f.repo.On("Complete", mock.Anything, 4).Return(&CompletionResult{
		BookingID:    4,
		UsageMinutes: 120,
		MachineUsage: []maintenance.UsageResult{
			{MachineID: 3, MachineName: "Rower", GymID: 1, UsageHours: 12, IntervalHours: 10, FlaggedForService: true, TicketID: 55},
			{MachineID: 4, MachineName: "Bench", GymID: 1, UsageHours: 2, IntervalHours: 100},
		},
	}, nil)
	f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
	f.notifier.On("SendServiceAlert", mock.Anything, email.ServiceAlert{
		TicketID: 55, MachineID: 3, MachineName: "Rower", GymName: "Iron Temple", IntervalHours: 10, UsageHours: 12,
	}).Return(nil).Once()

	res, err := f.service().CompleteBooking(context.Background(), 4)

	require.NoError(t, err)
	assert.Len(t, res.MachineUsage, 2)
	f.notifier.AssertExpectations(t)
}

func TestCompleteBooking_NotConfirmed(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, 4).Return(&Booking{ID: 4, Status: StatusCancelled}, nil)

	_, err := f.service().CompleteBooking(context.Background(), 4)

	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
	assert.EqualError(t, err, "Booking is already cancelled")
	f.repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestCompleteBooking_RollbackSurfaces(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, 4).Return(&Booking{ID: 4, Status: StatusConfirmed}, nil)
	f.repo.On("Complete", mock.Anything, 4).Return(nil, errors.New("open service ticket for machine 3: boom"))

	_, err := f.service().CompleteBooking(context.Background(), 4)

	assert.Error(t, err)
	f.notifier.AssertNotCalled(t, "SendServiceAlert", mock.Anything, mock.Anything)
}

func TestAddMachineToBooking(t *testing.T) {
	f := newFixture()
	b := &Booking{ID: 4, UserID: "user-1", GymID: 1, Status: StatusConfirmed,
		StartTime: at("2025-03-10", "18:00"), EndTime: at("2025-03-10", "19:30")}
	f.repo.On("GetByID", mock.Anything, 4).Return(b, nil)
	f.repo.On("AddMachine", mock.Anything, 4, 8, 90).Return(&MachineBooking{ID: 2, BookingID: 4, MachineID: 8, DurationMinutes: 90}, nil).Once()
	f.repo.On("AddMachine", mock.Anything, 4, 9, 30).Return(&MachineBooking{ID: 3, BookingID: 4, MachineID: 9, DurationMinutes: 30}, nil).Once()

	mb, err := f.service().AddMachineToBooking(context.Background(), 4, "user-1", AddMachineRequest{MachineID: 8})
	require.NoError(t, err)
	assert.Equal(t, 90, mb.DurationMinutes)

	mb, err = f.service().AddMachineToBooking(context.Background(), 4, "user-1", AddMachineRequest{MachineID: 9, DurationMinutes: intp(30)})
	require.NoError(t, err)
	assert.Equal(t, 30, mb.DurationMinutes)

	_, err = f.service().AddMachineToBooking(context.Background(), 4, "user-1", AddMachineRequest{MachineID: 9, DurationMinutes: intp(0)})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	_, err = f.service().AddMachineToBooking(context.Background(), 4, "user-2", AddMachineRequest{MachineID: 9})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	f.repo.AssertExpectations(t)
}

func TestAddMachineToBooking_CancelledParent(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, 4).Return(&Booking{ID: 4, UserID: "user-1", Status: StatusCancelled}, nil)

	_, err := f.service().AddMachineToBooking(context.Background(), 4, "user-1", AddMachineRequest{MachineID: 8})

	assert.EqualError(t, err, "Cannot add machine to a cancelled booking")
}

func TestRemoveMachineFromBooking(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, 4).Return(&Booking{ID: 4, UserID: "user-1", Status: StatusConfirmed}, nil)
	f.repo.On("RemoveMachine", mock.Anything, 4, 2).Return(&MachineBooking{ID: 2, MachineID: 8, MachineName: "Rower"}, nil)
	f.repo.On("RemoveMachine", mock.Anything, 4, 99).Return(nil, apperr.NotFound("Machine booking not found in this booking"))

	mb, err := f.service().RemoveMachineFromBooking(context.Background(), 4, "user-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "Rower", mb.MachineName)

	_, err = f.service().RemoveMachineFromBooking(context.Background(), 4, "user-1", 99)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCheckMachineAvailability(t *testing.T) {
	f := newFixture()
	start, end := at("2025-03-10", "18:00"), at("2025-03-10", "19:00")
	f.gyms.On("GetGymByID", mock.Anything, 1).Return(testGym(), nil)
	f.gyms.On("ListServiceableMachines", mock.Anything, 1).Return([]gym.Machine{
		{ID: 1, Name: "Bench"}, {ID: 2, Name: "Rower"}, {ID: 3, Name: "Squat Rack", Status: gym.MachineInactive},
	}, nil)
	f.windows.On("BookedMachineIDs", mock.Anything, 1, start, end).Return([]int{2}, nil)

	free, err := f.service().CheckMachineAvailability(context.Background(), 1, start, end)

	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, 1, free[0].ID)
	assert.Equal(t, 3, free[1].ID)
}

func TestCheckMachineAvailability_Validation(t *testing.T) {
	f := newFixture()
	start := at("2025-03-10", "18:00")

	_, err := f.service().CheckMachineAvailability(context.Background(), 1, start, start)
	assert.EqualError(t, err, "End time must be after start time")

	_, err = f.service().CheckMachineAvailability(context.Background(), 0, start, start.Add(time.Hour))
	assert.EqualError(t, err, "Please provide gym ID, start time and end time")
}

func TestGetBookingAnalytics_Defaults(t *testing.T) {
	f := newFixture()
	from := at("2025-03-01", "00:00")
	f.repo.On("StatsByDay", mock.Anything, mock.MatchedBy(func(t time.Time) bool { return t.Equal(from) }), mock.MatchedBy(func(t time.Time) bool {
		return t.Equal(at("2025-03-10", "23:59").Add(59*time.Second + 999999999))
	})).Return([]StatsByDay{{Bucket: "2025-03-10", Total: 3, Confirmed: 2, Cancelled: 1}}, nil)

	report, err := f.service().GetBookingAnalytics(context.Background(), AnalyticsQuery{})

	require.NoError(t, err)
	assert.Equal(t, GroupByDay, report.GroupBy)
	assert.Equal(t, []StatsByDay{{Bucket: "2025-03-10", Total: 3, Confirmed: 2, Cancelled: 1}}, report.Data)
	f.repo.AssertExpectations(t)
}

func TestGetBookingAnalytics_ByGym(t *testing.T) {
	f := newFixture()
	f.repo.On("StatsByGym", mock.Anything,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	).Return([]StatsByGym{{GymID: 1, GymName: "Iron Temple", Total: 4}}, nil)

	report, err := f.service().GetBookingAnalytics(context.Background(), AnalyticsQuery{
		GroupBy: GroupByGym, From: "2025-02-01T00:00:00Z", To: "2025-03-01T00:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, GroupByGym, report.GroupBy)
	f.repo.AssertExpectations(t)
}

func TestGetBookingAnalytics_Validation(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.GetBookingAnalytics(context.Background(), AnalyticsQuery{GroupBy: "week"})
	assert.EqualError(t, err, "group_by must be 'day' or 'gym'")

	_, err = svc.GetBookingAnalytics(context.Background(), AnalyticsQuery{From: "yesterday"})
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))

	_, err = svc.GetBookingAnalytics(context.Background(), AnalyticsQuery{From: "2025-03-05", To: "2025-03-01"})
	assert.EqualError(t, err, "from must be before to")
}
