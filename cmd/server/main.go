package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hosterly/booking-api/internal/config"
	"github.com/hosterly/booking-api/internal/database"
	"github.com/hosterly/booking-api/internal/engine"
	"github.com/hosterly/booking-api/internal/handler"
	"github.com/hosterly/booking-api/internal/mail"
	"github.com/hosterly/booking-api/internal/middleware"
	"github.com/hosterly/booking-api/internal/queue"
	"github.com/hosterly/booking-api/internal/repository"
	"github.com/hosterly/booking-api/internal/router"
	queuepub "github.com/hosterly/booking-api/internal/service"
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.ApplySchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	// Redis is optional infrastructure: without it the limiter and the
	// response cache silently turn into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	hosters := repository.NewHosterRepo(db)
	tokens := repository.NewTokenRepo(db)
	clients := repository.NewClientRepo(db)
	connections := repository.NewConnectionRepo(db)
	timeslots := repository.NewTimeslotRepo(db)
	requests := repository.NewRequestRepo(db)
	appointments := repository.NewAppointmentRepo(db)

	eng := engine.New(repository.NewBookingStore(db), queuepub.Dispatcher{})

	// Background consumer: drains booking.notify into SMTP + audit log.
	sender := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	go func() {
		if err := queue.StartNotificationConsumer(sender); err != nil {
			log.Printf("notify-consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, hosters, tokens)
	hosterH := handler.NewHosterHandler(timeslots, clients, connections, requests, appointments, eng)
	clientH := handler.NewClientHandler(connections, timeslots, requests, appointments, eng)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterHoster(e, authH, hosterH, cfg.JWTSecret)
	router.RegisterClient(e, clientH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
