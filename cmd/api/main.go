package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/prettystyles/booking-api/internal/config"
	"github.com/prettystyles/booking-api/internal/email"
	"github.com/prettystyles/booking-api/internal/handler"
	authHandler "github.com/prettystyles/booking-api/internal/handler/auth"
	bookingHandler "github.com/prettystyles/booking-api/internal/handler/booking"
	catalogHandler "github.com/prettystyles/booking-api/internal/handler/catalog"
	reviewHandler "github.com/prettystyles/booking-api/internal/handler/review"
	"github.com/prettystyles/booking-api/internal/middleware"
	"github.com/prettystyles/booking-api/internal/repository/postgres"
	"github.com/prettystyles/booking-api/internal/router"
	authService "github.com/prettystyles/booking-api/internal/service/auth"
	"github.com/prettystyles/booking-api/internal/service/auth/provider"
	bookingService "github.com/prettystyles/booking-api/internal/service/booking"
	catalogService "github.com/prettystyles/booking-api/internal/service/catalog"
	eventService "github.com/prettystyles/booking-api/internal/service/event"
	reviewService "github.com/prettystyles/booking-api/internal/service/review"
	"github.com/prettystyles/booking-api/pkg/auth"
	"github.com/prettystyles/booking-api/pkg/clock"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	emailSvc := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		BaseURL:  cfg.SMTP.BaseURL,
	})
	providers := provider.NewRegistry(
		provider.NewGoogle(),
		provider.NewFacebook(),
		provider.NewApple(cfg.OAuth.AppleClientID),
	)

	clk := clock.New()
	eventSvc := eventService.NewService(outboxRepo)
	catalogSvc := catalogService.NewService(catalogRepo)
	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, emailSvc, providers)
	bookingSvc := bookingService.NewService(bookingRepo, userRepo, catalogSvc, eventSvc, clk)
	reviewSvc := reviewService.NewService(reviewRepo, bookingRepo, userRepo, eventSvc, clk)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	h := handler.NewHandler(db)
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		bookingHandler.NewHandler(bookingSvc),
		reviewHandler.NewHandler(reviewSvc),
		catalogHandler.NewHandler(catalogSvc),
		h,
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORSConfig: middleware.CORSConfig{
				AllowedOrigins: cfg.Security.AllowedOrigins,
				AllowedMethods: cfg.Security.AllowedMethods,
				AllowedHeaders: cfg.Security.AllowedHeaders,
			},
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
