package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/pankajbaid567/Fittlr-Backend/docs"
	"github.com/pankajbaid567/Fittlr-Backend/internal/availability"
	"github.com/pankajbaid567/Fittlr-Backend/internal/booking"
	"github.com/pankajbaid567/Fittlr-Backend/internal/config"
	"github.com/pankajbaid567/Fittlr-Backend/internal/db"
	"github.com/pankajbaid567/Fittlr-Backend/internal/email"
	"github.com/pankajbaid567/Fittlr-Backend/internal/gym"
	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
	"github.com/pankajbaid567/Fittlr-Backend/internal/maintenance"
	"github.com/pankajbaid567/Fittlr-Backend/internal/server"
	"github.com/pankajbaid567/Fittlr-Backend/internal/user"
)

// @title Fittlr API
// @version 1.0
// @description Gym booking, availability and machine service API.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting Fittlr application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	emailService := email.New(email.Options{
		RedisAddr: cfg.RedisAddr,
		From:      cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
		SMTPHost:  cfg.SMTPHost,
		SMTPPort:  cfg.SMTPPort,
		SMTPUser:  cfg.SMTPUser,
		SMTPPass:  cfg.SMTPPass,
		OpsEmail:  cfg.OpsEmail,
	})
	defer emailService.Close()
	logger.Info("Email service initialized")

	gymRepo := gym.NewRepository(database)
	userRepo := user.NewRepository(database)
	windowRepo := availability.NewRepository(database)
	tracker := maintenance.NewTracker(database, cfg.SystemUserID)
	bookingRepo := booking.NewRepository(database, tracker)

	handlers := server.Handlers{
		User: user.NewHandler(user.NewService(userRepo)),
		Gym:  gym.NewHandler(gym.NewService(gymRepo)),
		Availability: availability.NewHandler(
			availability.NewService(gymRepo, windowRepo, cfg.GymTimezone, time.Now),
		),
		Booking: booking.NewHandler(
			booking.NewService(bookingRepo, gymRepo, userRepo, windowRepo, emailService, cfg.GymTimezone, time.Now),
		),
		Maintenance: maintenance.NewHandler(
			maintenance.NewService(maintenance.NewRepository(database), tracker),
		),
		Mailer: emailService,
	}

	srv := server.New(cfg, handlers, map[string]server.Check{
		"database": database.PingContext,
		"redis": func(ctx context.Context) error {
			if err := emailService.Ping(ctx); err != nil {
				return err
			}
			emailService.QueueLength(ctx)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
