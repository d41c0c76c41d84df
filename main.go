package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"rsvp-service/internal/config"
	"rsvp-service/internal/logger"
	"rsvp-service/internal/mailer"
	rsvp_db "rsvp-service/internal/rsvp/db"
	"rsvp-service/internal/rsvp/rsvp_api"
	"rsvp-service/internal/rsvp/service"
	"rsvp-service/internal/storage"
)

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting RSVP Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	logger.Info("APP", "Opening storage backend")
	bunDB, err := storage.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to open storage: %v", err))
	}
	defer bunDB.Close()

	rsvpDB := &rsvp_db.DB{Bun: bunDB}
	if err := rsvpDB.CreateSchema(ctx); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Schema bootstrap failed: %v", err))
	}
	logger.LogDatabase("BOOTSTRAP", "rsvp", "Schema ensured")

	confirmationMailer := mailer.New(cfg.Email, logger)
	if cfg.Email.Configured() {
		logger.Info("MAIL", fmt.Sprintf("Confirmation emails enabled via %s:%s", cfg.Email.SMTPHost, cfg.Email.SMTPPort))
	} else {
		logger.Warn("MAIL", "Sender credentials not set, confirmation emails disabled")
	}

	rsvpService := service.NewRSVPService(rsvpDB, confirmationMailer, logger)
	handler := rsvp_api.NewHandler(rsvpService, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}))

	handler.RegisterRoutes(r)
	logger.Info("ROUTER", "RSVP routes registered under /api")

	r.Get("/", serveAdminPage)
	r.Get("/admin", serveAdminPage)
	logger.Info("ROUTER", "Admin page registered at / and /admin")

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 RSVP Service running on :%s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ RSVP Service shutdown complete")
	}
}

func serveAdminPage(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "public/admin.html")
}
