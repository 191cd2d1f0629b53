package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/pulsefit/studio-booking/internal/cache"
	"github.com/pulsefit/studio-booking/internal/config"
	"github.com/pulsefit/studio-booking/internal/database"
	"github.com/pulsefit/studio-booking/internal/handler"
	"github.com/pulsefit/studio-booking/internal/logging"
	"github.com/pulsefit/studio-booking/internal/metrics"
	"github.com/pulsefit/studio-booking/internal/middleware"
	"github.com/pulsefit/studio-booking/internal/notify"
	"github.com/pulsefit/studio-booking/internal/queue"
	"github.com/pulsefit/studio-booking/internal/repository"
	"github.com/pulsefit/studio-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := logging.New(cfg.Env)
	metrics.Register()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("running migrations failed")
	}
	cancel()

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache degrades to memory tier and rate limiting is off")
	}
	store := cache.New(rdb, log)
	cacheCfg := config.LoadCacheConfig()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	classes := repository.NewClassRepo(db)
	events := repository.NewEventRepo(db)
	schedules := repository.NewScheduleRepo(db)
	packs := repository.NewPackRepo(db)
	addons := repository.NewAddonRepo(db)
	trainers := repository.NewTrainerRepo(db)
	enquiries := repository.NewEnquiryRepo(db)
	attendance := repository.NewAttendanceRepo(db)

	notifier := notify.NewEmailSender(cfg, log)
	publisher := queue.NewPublisher(cfg.AMQPURL, log)
	if cfg.AMQPURL != "" {
		go queue.StartStatusConsumer(cfg.AMQPURL, log)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Metrics())
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(
		store, cacheCfg, classes, events, packs, trainers, schedules, enquiries, log))
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, log), cfg.JWTSecret)
	router.RegisterAdmin(e, router.AdminHandlers{
		Bookings: handler.NewAdminBookingHandler(
			bookings, users, classes, events, notifier, publisher, cfg.NotifyTimeout, log),
		Classes:    handler.NewAdminClassHandler(classes, schedules, store, log),
		Events:     handler.NewAdminEventHandler(events, store, log),
		Catalog:    handler.NewAdminCatalogHandler(packs, addons, trainers, store, log),
		Enquiries:  handler.NewAdminEnquiryHandler(enquiries, log),
		Attendance: handler.NewAttendanceHandler(attendance, bookings, log),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
