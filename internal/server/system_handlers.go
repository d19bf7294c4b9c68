package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pankajbaid567/Fittlr-Backend/internal/api"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
)

// Check probes one dependency for the health endpoint.
type Check func(ctx context.Context) error

type Mailer interface {
	Send(ctx context.Context, emailType, to, name, subject, body string) error
}

// @Summary      Health check
// @Description  Reports "ok" when every dependency answers, "degraded" with a 503 otherwise.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := api.HealthResponse{Status: "ok"}
		code := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WithError(err).Warn("health check failed", "dependency", name)
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}

		c.JSON(code, resp)
	}
}

// @Summary      Queue a test email
// @Tags         system
// @Security     BearerAuth
// @Produce      json
// @Param        email query string true "Recipient email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/test-email [post]
func TestEmail(mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := c.Query("email")
		if to == "" {
			api.Fail(c, http.StatusBadRequest, "email parameter required")
			return
		}

		if err := mailer.Send(c.Request.Context(), "test", to, "Fittlr Admin", "Test email from Fittlr", "Email delivery is working!"); err != nil {
			api.RespondError(c, err)
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Email queued successfully"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
