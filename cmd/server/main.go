package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/chriskke/teeko-booking-service/internal/config"
	"github.com/chriskke/teeko-booking-service/internal/database"
	"github.com/chriskke/teeko-booking-service/internal/handler"
	"github.com/chriskke/teeko-booking-service/internal/queue"
	"github.com/chriskke/teeko-booking-service/internal/repository"
	"github.com/chriskke/teeko-booking-service/internal/router"
	"github.com/chriskke/teeko-booking-service/internal/service"
)

func main() {
	// Load a local .env when present; real deployments set the
	// environment directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open MySQL and fail fast when the database is unreachable.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	// Redis backs the response cache and the rate limiter.  A nil
	// client disables both rather than blocking startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// Repositories over the shared DB handle.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	packages := repository.NewPackageRepo(db)

	// The booking service owns every status transition; handlers only
	// translate HTTP to calls on it.
	bookingSvc := service.NewBookingService(bookings, packages, nil)

	// Consume redemption events in the background; the consumer runs
	// its own reconnect loop and never stops the server.
	go func() {
		if err := queue.StartRedemptionConsumer(); err != nil {
			log.Printf("redemption consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPackages(e, handler.NewPackageHandler(packages), rdb)
	router.RegisterBookings(e,
		handler.NewBookingHandler(bookingSvc),
		handler.NewAdminBookingHandler(bookingSvc),
		cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
