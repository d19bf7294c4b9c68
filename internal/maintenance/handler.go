package maintenance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pankajbaid567/Fittlr-Backend/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List machines needing service
// @Tags         admin,machines
// @Produce      json
// @Security     BearerAuth
// @Param        gymId query int false "Gym ID"
// @Success      200 {object} api.ListResponse{data=[]maintenance.MachineServiceStatus}
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/machines/service [get]
func (h *Handler) ListMachinesNeedingService(c *gin.Context) {
	gymID, err := api.OptionalIntQuery(c, "gymId")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	machines, err := h.service.ListMachinesNeedingService(c.Request.Context(), gymID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.List(c, machines)
}

// @Summary      Mark a machine as serviced
// @Description  Reactivates the machine, resets its usage and closes service tickets
// @Tags         admin,machines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        machineID path int true "Machine ID"
// @Param        request body maintenance.ServiceMachineRequest false "Service notes"
// @Success      200 {object} api.DataResponse{data=maintenance.ServiceOutcome}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/machines/{machineID}/service [post]
func (h *Handler) ServiceMachine(c *gin.Context) {
	machineID, ok := api.IntParam(c, "machineID", "machine ID")
	if !ok {
		return
	}

	var req ServiceMachineRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.RespondBindError(c, err)
			return
		}
	}

	outcome, err := h.service.ServiceMachine(c.Request.Context(), machineID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, outcome)
}

// @Summary      Update a machine's service interval
// @Tags         admin,machines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        machineID path int true "Machine ID"
// @Param        request body maintenance.UpdateIntervalRequest true "Interval in hours"
// @Success      200 {object} api.DataResponse{data=maintenance.ServiceRecord}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/machines/{machineID}/service-interval [put]
func (h *Handler) UpdateServiceInterval(c *gin.Context) {
	machineID, ok := api.IntParam(c, "machineID", "machine ID")
	if !ok {
		return
	}

	var req UpdateIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	rec, err := h.service.UpdateServiceInterval(c.Request.Context(), machineID, req.ServiceIntervalHours)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.OK(c, http.StatusOK, rec)
}

// @Summary      Machine usage statistics
// @Tags         admin,machines
// @Produce      json
// @Security     BearerAuth
// @Param        gymId query int false "Gym ID"
// @Success      200 {object} api.ListResponse{data=[]maintenance.MachineUsage}
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/machines/stats [get]
func (h *Handler) GetMachineUsageStats(c *gin.Context) {
	gymID, err := api.OptionalIntQuery(c, "gymId")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	stats, err := h.service.GetMachineUsageStats(c.Request.Context(), gymID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.List(c, stats)
}

// @Summary      Machines approaching their service interval
// @Tags         admin,machines
// @Produce      json
// @Security     BearerAuth
// @Param        gymId query int true "Gym ID"
// @Success      200 {object} api.ListResponse{data=[]maintenance.UpcomingService}
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/machines/upcoming-service [get]
func (h *Handler) GetUpcomingService(c *gin.Context) {
	gymID, err := api.OptionalIntQuery(c, "gymId")
	if err != nil {
		api.RespondError(c, err)
		return
	}
	if gymID == nil {
		api.Fail(c, http.StatusBadRequest, "Gym ID is required")
		return
	}

	upcoming, err := h.service.GetUpcomingService(c.Request.Context(), *gymID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.List(c, upcoming)
}

// @Summary      List service tickets
// @Tags         admin,tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "open or closed"
// @Param        gymId query int false "Gym ID"
// @Success      200 {object} api.ListResponse{data=[]maintenance.Ticket}
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/tickets [get]
func (h *Handler) GetServiceTickets(c *gin.Context) {
	gymID, err := api.OptionalIntQuery(c, "gymId")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	tickets, err := h.service.GetServiceTickets(c.Request.Context(), c.Query("status"), gymID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	api.List(c, tickets)
}
