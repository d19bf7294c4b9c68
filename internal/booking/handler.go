package booking

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pankajbaid567/Fittlr-Backend/internal/api"
	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func currentUser(c *gin.Context) (string, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "User not authenticated")
	}
	return userID, ok
}

// CreateBooking godoc
// @Summary      Create booking
// @Description  Books a gym session starting at startTime for duration minutes, optionally reserving machines.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CreateBookingRequest true "Booking request"
// @Success      201 {object} api.DataResponse{data=booking.CreateBookingResult}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/booking/create [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	res, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusCreated, res)
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Description  Returns the caller's bookings, newest start first.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending, confirmed, cancelled or completed"
// @Success      200 {object} api.ListResponse{data=[]booking.BookingDetails}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	bookings, err := h.service.GetUserBookings(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.List(c, bookings)
}

// GetBooking godoc
// @Summary      Booking details
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.DataResponse{data=booking.BookingDetails}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	bookingID, ok := api.IntParam(c, "bookingID", "booking ID")
	if !ok {
		return
	}

	details, err := h.service.GetBookingDetails(c.Request.Context(), bookingID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, details)
}

// GetBookingSummary godoc
// @Summary      Booking summary
// @Description  Display-ready booking with canCancel and canCheckIn flags.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.DataResponse{data=booking.Summary}
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/bookings/{bookingID}/summary [get]
func (h *Handler) GetBookingSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := api.IntParam(c, "bookingID", "booking ID")
	if !ok {
		return
	}

	summary, err := h.service.GetBookingSummary(c.Request.Context(), bookingID, userID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, summary)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels a booking of the current user.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := api.IntParam(c, "bookingID", "booking ID")
	if !ok {
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), bookingID, userID); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Booking cancelled successfully"})
}

// CompleteBooking godoc
// @Summary      Complete booking
// @Description  Marks a confirmed booking completed and records machine usage. Admin only.
// @Tags         admin,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.DataResponse{data=booking.CompletionResult}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/complete [post]
func (h *Handler) CompleteBooking(c *gin.Context) {
	bookingID, ok := api.IntParam(c, "bookingID", "booking ID")
	if !ok {
		return
	}

	result, err := h.service.CompleteBooking(c.Request.Context(), bookingID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, result)
}

// AddMachine godoc
// @Summary      Add machine to booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID path int true "Booking ID"
// @Param        request body booking.AddMachineRequest true "Machine"
// @Success      200 {object} api.DataResponse{data=booking.MachineBooking}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/bookings/{bookingID}/machines [post]
func (h *Handler) AddMachine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := api.IntParam(c, "bookingID", "booking ID")
	if !ok {
		return
	}

	var req AddMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	mb, err := h.service.AddMachineToBooking(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, mb)
}

// RemoveMachine godoc
// @Summary      Remove machine from booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingID        path int true "Booking ID"
// @Param        machineBookingID path int true "Machine booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/bookings/{bookingID}/machines/{machineBookingID} [delete]
func (h *Handler) RemoveMachine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookingID, ok := api.IntParam(c, "bookingID", "booking ID")
	if !ok {
		return
	}
	machineBookingID, ok := api.IntParam(c, "machineBookingID", "machine booking ID")
	if !ok {
		return
	}

	mb, err := h.service.RemoveMachineFromBooking(c.Request.Context(), bookingID, userID, machineBookingID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{
		Success: true,
		Message: "Machine " + mb.MachineName + " removed from booking successfully",
	})
}

// CheckMachineAvailability godoc
// @Summary      Free machines in a window
// @Description  Machines not flagged for service and not booked in [startTime, endTime).
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        gymId     query int    true "Gym ID"
// @Param        startTime query string true "RFC 3339"
// @Param        endTime   query string true "RFC 3339"
// @Success      200 {object} api.ListResponse{data=[]gym.Machine}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/machines/availability [get]
func (h *Handler) CheckMachineAvailability(c *gin.Context) {
	gymIDStr, startStr, endStr := c.Query("gymId"), c.Query("startTime"), c.Query("endTime")
	if gymIDStr == "" || startStr == "" || endStr == "" {
		api.RespondError(c, apperr.BadRequest("Please provide gym ID, start time and end time"))
		return
	}

	gymID, err := strconv.Atoi(gymIDStr)
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym ID")
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid startTime format, use RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "invalid endTime format, use RFC3339")
		return
	}

	machines, err := h.service.CheckMachineAvailability(c.Request.Context(), gymID, start, end)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.List(c, machines)
}

// GetBookingAnalytics godoc
// @Summary      Booking analytics
// @Description  Booking counts per day or per gym, split by status. Admin only.
// @Tags         admin,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        group_by query string false "day (default) or gym"
// @Param        from     query string false "RFC 3339 or YYYY-MM-DD, defaults to the start of this month"
// @Param        to       query string false "RFC 3339 or YYYY-MM-DD, defaults to the end of today"
// @Success      200 {object} api.DataResponse{data=booking.AnalyticsReport}
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/analytics/bookings [get]
func (h *Handler) GetBookingAnalytics(c *gin.Context) {
	report, err := h.service.GetBookingAnalytics(c.Request.Context(), AnalyticsQuery{
		GroupBy: c.DefaultQuery("group_by", GroupByDay),
		From:    c.Query("from"),
		To:      c.Query("to"),
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, report)
}
