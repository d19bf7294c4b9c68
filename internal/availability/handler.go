package availability

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pankajbaid567/Fittlr-Backend/internal/api"
	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAvailability godoc
// @Summary      Gym availability
// @Description  Without date: open dates for the next 30 days. With date: hourly slots. With date, startTime and duration: free machines.
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Param        gymId     query int    true  "Gym ID"
// @Param        date      query string false "YYYY-MM-DD in the gym's time zone"
// @Param        startTime query string false "RFC 3339 instant or HH:MM"
// @Param        duration  query int    false "Session length in minutes"
// @Success      200 {object} api.DataResponse{data=availability.Result}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/booking/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	rawGym := c.Query("gymId")
	if rawGym == "" {
		api.RespondError(c, apperr.BadRequest("Gym ID is required"))
		return
	}
	gymID, err := strconv.Atoi(rawGym)
	if err != nil {
		api.RespondError(c, apperr.BadRequest("Invalid gym ID"))
		return
	}

	duration, err := ParseDuration(c.Query("duration"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	res, err := h.service.GetAvailability(c.Request.Context(), Query{
		GymID:           gymID,
		Date:            c.Query("date"),
		StartTime:       c.Query("startTime"),
		DurationMinutes: duration,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.OK(c, http.StatusOK, res)
}
