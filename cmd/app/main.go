package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/api"
	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/db"
	"github.com/Domenick1991/flightdesk/internal/identity"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/aircraft"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	metrics.Register()
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]bootstrap.Check{}

	var (
		bookingRepo  repository.BookingRepository
		aircraftRepo repository.AircraftRepository
	)
	switch cfg.Database.Driver {
	case "memory":
		logrus.Warn("using in-memory store; data is lost on restart")
		store := repository.NewMemoryStore()
		bookingRepo, aircraftRepo = store, store
	default:
		if cfg.Database.MigrationsPath != "" {
			if err := db.Migrate(cfg.Database.MigrationsPath, cfg.Database.DSN()); err != nil {
				logrus.Fatalf("migrate: %v", err)
			}
		}
		pool, err := db.Open(ctx, cfg.Database.DSN())
		if err != nil {
			logrus.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		checks["postgres"] = pool.Ping
		bookingRepo = repository.NewBookingRepository(pool)
		aircraftRepo = repository.NewAircraftRepository(pool)
	}

	bookingOpts := []booking.BookingServiceOption{}
	var fleetCache aircraft.FleetCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.BookingCacheTTL, cfg.Booking.AircraftCacheTTL)
		checks["redis"] = redisCache.Ping
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
		fleetCache = redisCache
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		checks["kafka"] = producer.CheckConnection
		bookingOpts = append(bookingOpts,
			booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	bookingService := booking.NewBookingService(bookingRepo, bookingOpts...)
	aircraftService := aircraft.NewAircraftService(aircraftRepo, fleetCache)

	router := api.NewRouter(api.RouterDeps{
		Bookings:       bookingService,
		Aircraft:       aircraftService,
		Identity:       identity.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	if err := bootstrap.Run(ctx, cfg, router, checks); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
