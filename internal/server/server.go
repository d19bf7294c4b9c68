package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pankajbaid567/Fittlr-Backend/internal/auth"
	"github.com/pankajbaid567/Fittlr-Backend/internal/availability"
	"github.com/pankajbaid567/Fittlr-Backend/internal/booking"
	"github.com/pankajbaid567/Fittlr-Backend/internal/config"
	"github.com/pankajbaid567/Fittlr-Backend/internal/gym"
	"github.com/pankajbaid567/Fittlr-Backend/internal/maintenance"
	"github.com/pankajbaid567/Fittlr-Backend/internal/user"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	User         *user.Handler
	Gym          *gym.Handler
	Availability *availability.Handler
	Booking      *booking.Handler
	Maintenance  *maintenance.Handler
	Mailer       Mailer
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h Handlers, checks map[string]Check) *Server {
	router := NewRouter(cfg, h, checks)
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func NewRouter(cfg *config.Config, h Handlers, checks map[string]Check) *gin.Engine {
	registerJSONFieldNames()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	router.GET("/health", Health(checks))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	ensureProfile := h.User.EnsureProfile()

	protected := router.Group("/api")
	protected.Use(authMiddleware, ensureProfile)
	{
		protected.GET("/me", h.User.GetMe)

		protected.GET("/gyms", h.Gym.ListGyms)
		protected.GET("/gyms/:gymID/machines", h.Gym.ListMachines)

		protected.GET("/booking/availability", h.Availability.GetAvailability)
		protected.POST("/booking/create", h.Booking.CreateBooking)

		protected.GET("/bookings", h.Booking.ListMyBookings)
		protected.GET("/bookings/:bookingID", h.Booking.GetBooking)
		protected.GET("/bookings/:bookingID/summary", h.Booking.GetBookingSummary)
		protected.POST("/bookings/:bookingID/cancel", h.Booking.CancelBooking)
		protected.POST("/bookings/:bookingID/machines", h.Booking.AddMachine)
		protected.DELETE("/bookings/:bookingID/machines/:machineBookingID", h.Booking.RemoveMachine)

		protected.GET("/machines/availability", h.Booking.CheckMachineAvailability)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin), ensureProfile)
	{
		admin.POST("/gyms", h.Gym.CreateGym)
		admin.PUT("/gyms/:gymID/hours", h.Gym.SetOpeningHours)
		admin.POST("/gyms/:gymID/machines", h.Gym.AddMachine)

		admin.POST("/bookings/:bookingID/complete", h.Booking.CompleteBooking)
		admin.GET("/analytics/bookings", h.Booking.GetBookingAnalytics)

		admin.GET("/machines/service", h.Maintenance.ListMachinesNeedingService)
		admin.POST("/machines/:machineID/service", h.Maintenance.ServiceMachine)
		admin.PUT("/machines/:machineID/service-interval", h.Maintenance.UpdateServiceInterval)
		admin.GET("/machines/stats", h.Maintenance.GetMachineUsageStats)
		admin.GET("/machines/upcoming-service", h.Maintenance.GetUpcomingService)
		admin.GET("/tickets", h.Maintenance.GetServiceTickets)

		if h.Mailer != nil {
			admin.POST("/test-email", TestEmail(h.Mailer))
		}
	}

	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
