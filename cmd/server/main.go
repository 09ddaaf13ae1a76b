package main // Entry point package

import (
	"log"  // Logging library
	"time" // Durations for the lock TTL

	"github.com/joho/godotenv"    // Optional .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/banquet-hall-booking/internal/config"
	"github.com/iliyamo/banquet-hall-booking/internal/database"
	"github.com/iliyamo/banquet-hall-booking/internal/handler"
	"github.com/iliyamo/banquet-hall-booking/internal/lock"
	"github.com/iliyamo/banquet-hall-booking/internal/queue"
	"github.com/iliyamo/banquet-hall-booking/internal/repository"
	"github.com/iliyamo/banquet-hall-booking/internal/router"
	queue_publisher "github.com/iliyamo/banquet-hall-booking/internal/service"
	"github.com/iliyamo/banquet-hall-booking/internal/workflow"
)

func main() {
	_ = godotenv.Load() // load .env when present; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs the per-hall-per-date lock; nil degrades to no-op.
	redisClient := config.NewRedisClient()
	if redisClient == nil {
		log.Printf("redis unavailable; hall/date locking degraded to conflict re-check only")
	}
	hallLock := lock.NewHallDateLock(redisClient, time.Duration(cfg.HallLockTTLSec)*time.Second)

	bookingRepo := repository.NewBookingRepo(db)
	hallRepo := repository.NewHallRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	userRepo := repository.NewUserRepo(db)

	orch := workflow.NewOrchestrator(bookingRepo, hallLock, queue_publisher.AuditPublisher{})

	authHandler := handler.NewAuthHandler(cfg, userRepo)
	hallHandler := handler.NewHallHandler(hallRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, orch)
	paymentHandler := handler.NewPaymentHandler(paymentRepo, bookingRepo, orch)
	adminHandler := handler.NewAdminBookingHandler(bookingRepo, orch)

	// Consume booking.audit in the background and append to logs/audit.log.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, hallHandler)
	router.RegisterBookings(e, bookingHandler, paymentHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
