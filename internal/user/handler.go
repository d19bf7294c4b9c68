package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pankajbaid567/Fittlr-Backend/internal/api"
	"github.com/pankajbaid567/Fittlr-Backend/internal/auth"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// EnsureProfile is middleware that makes sure the authenticated caller has a users row.
func (h *Handler) EnsureProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.GetIdentity(c)
		if !ok {
			api.Fail(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}

		if err := h.service.EnsureProfile(c.Request.Context(), id); err != nil {
			logger.WithError(err).Error("ensure profile failed", "user_id", id.UserID)
			api.Fail(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetMe godoc
// @Summary      Get current user
// @Description  Returns profile of the authenticated user.
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse{data=user.User}
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		api.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	api.OK(c, http.StatusOK, u)
}
