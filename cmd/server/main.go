package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/booking"
	"github.com/iliyamo/ev-charge-booking/internal/config"
	"github.com/iliyamo/ev-charge-booking/internal/database"
	"github.com/iliyamo/ev-charge-booking/internal/expiry"
	"github.com/iliyamo/ev-charge-booking/internal/handler"
	"github.com/iliyamo/ev-charge-booking/internal/middleware"
	"github.com/iliyamo/ev-charge-booking/internal/queue"
	"github.com/iliyamo/ev-charge-booking/internal/repository"
	"github.com/iliyamo/ev-charge-booking/internal/router"
	queue_publisher "github.com/iliyamo/ev-charge-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	stations := repository.NewStationRepo(db)
	ports := repository.NewPortRepo(db)
	cars := repository.NewCarRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// Booking core.  The publisher is optional; without a broker URL
	// events are dropped.
	var events booking.Events
	if cfg.RabbitURL != "" {
		events = queue_publisher.NewPublisher(cfg.RabbitURL)
	}
	bookings := booking.NewService(
		bookingRepo,
		repository.NewDirectory(users, cars, ports),
		repository.NewTxRunner(db),
		events,
	)

	// Redis-backed middleware degrades to passthrough when no server is
	// reachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Handlers and routes.
	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(stations, ports), cacheMW)
	router.RegisterDriver(e, handler.NewDriverHandler(cars, bookings), cfg.JWTSecret, rateMW)
	router.RegisterOperator(e, handler.NewOperatorHandler(stations, ports, bookings), cfg.JWTSecret)

	// Background workers.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go expiry.NewSweeper(bookings, cfg.SweepInterval).Run(ctx)
	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartBookingConsumer(cfg.RabbitURL); err != nil {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
