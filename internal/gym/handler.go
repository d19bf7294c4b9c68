package gym

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pankajbaid567/Fittlr-Backend/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create a gym
// @Description  Admin-only: create a new gym
// @Tags         admin,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gym.CreateGymRequest true "Gym payload"
// @Success      201 {object} api.DataResponse{data=gym.Gym}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	g, err := h.service.CreateGym(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.OK(c, http.StatusCreated, g)
}

// @Summary      List gyms
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.ListResponse{data=[]gym.Gym}
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.service.GetAllGyms(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.List(c, gyms)
}

// @Summary      Replace weekly opening hours
// @Description  Admin-only: replaces every opening hours row of the gym
// @Tags         admin,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body gym.SetOpeningHoursRequest true "Opening hours"
// @Success      200 {object} api.DataResponse{data=[]gym.OpeningHours}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/hours [put]
func (h *Handler) SetOpeningHours(c *gin.Context) {
	gymID, ok := api.IntParam(c, "gymID", "gym ID")
	if !ok {
		return
	}

	var req SetOpeningHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	hours, err := h.service.SetOpeningHours(c.Request.Context(), gymID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.OK(c, http.StatusOK, hours)
}

// @Summary      Add a machine
// @Tags         admin,machines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body gym.CreateMachineRequest true "Machine payload"
// @Success      201 {object} api.DataResponse{data=gym.Machine}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/machines [post]
func (h *Handler) AddMachine(c *gin.Context) {
	gymID, ok := api.IntParam(c, "gymID", "gym ID")
	if !ok {
		return
	}

	var req CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	m, err := h.service.AddMachine(c.Request.Context(), gymID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.OK(c, http.StatusCreated, m)
}

// @Summary      List machines of a gym
// @Tags         gyms,machines
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} api.ListResponse{data=[]gym.Machine}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/gyms/{gymID}/machines [get]
func (h *Handler) ListMachines(c *gin.Context) {
	gymID, ok := api.IntParam(c, "gymID", "gym ID")
	if !ok {
		return
	}

	machines, err := h.service.ListMachines(c.Request.Context(), gymID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.List(c, machines)
}
