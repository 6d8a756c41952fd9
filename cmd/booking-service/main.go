package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"starevents/internal/auth"
	"starevents/internal/booking"
	bookingapi "starevents/internal/booking/api"
	bookingdb "starevents/internal/booking/db"
	bookingredis "starevents/internal/booking/redis"
	"starevents/internal/config"
	"starevents/internal/database/migrations"
	"starevents/internal/events"
	eventsapi "starevents/internal/events/api"
	"starevents/internal/kafka"
	"starevents/internal/logger"
	"starevents/internal/notify"
	"starevents/internal/payment"
	"starevents/internal/reports"
	reportsapi "starevents/internal/reports/api"
	"starevents/internal/settings"
	"starevents/internal/utils"
)

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back all migrations and exit")
	flag.Parse()

	_ = godotenv.Load()

	log := logger.NewLogger()
	defer log.Close()

	cfg := config.Load()

	// --- PostgreSQL ---
	bunDB := connectPostgres(cfg, log)
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions(), log)
	if *migrateDown {
		if err := runner.Down(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("migrate down failed: %v", err))
		}
		log.Info("DATABASE", "migrations rolled back")
		return
	}
	if err := runner.Run(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("migrations failed: %v", err))
	}

	// --- Redis ---
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("failed to connect to Redis at %s: %v", cfg.Redis.Addr, err))
	}
	defer redisClient.Close()

	// --- Kafka ---
	var publisher booking.Publisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.BookingConfirmed, cfg.Kafka.Topics.BookingCancelled}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("topic setup failed, continuing without: %v", err))
		} else {
			producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.BookingConfirmed, cfg.Kafka.Topics.BookingCancelled)
			publisher = producer
			defer producer.Close()
		}
	}

	// --- Payment gateway ---
	var gateway booking.PaymentGateway = &payment.SimulatedGateway{Log: log}
	if cfg.Stripe.SecretKey != "" {
		stripeGW, err := payment.NewStripeGateway(cfg.Stripe.SecretKey, log)
		if err != nil {
			log.Fatal("PAYMENT", fmt.Sprintf("stripe init failed: %v", err))
		}
		gateway = stripeGW
		log.Info("PAYMENT", "using Stripe gateway")
	} else {
		log.Info("PAYMENT", "using simulated gateway")
	}

	// --- Services ---
	policyStore := &settings.Store{Bun: bunDB}
	notifier := &notify.LogEmailSender{Cfg: cfg.Email, Log: log}

	bookingSvc := booking.NewService(
		&bookingdb.DB{Bun: bunDB},
		bookingredis.NewStaging(redisClient, cfg.Checkout.StagingTTL),
		policyStore,
		gateway,
		publisher,
		notifier,
		log,
	)
	eventsSvc := events.NewService(&events.DB{Bun: bunDB}, log)
	reportsSvc := reports.NewService(bunDB)

	bookingHandler := &bookingapi.Handler{Booking: bookingSvc}
	catalogHandler := &eventsapi.Handler{Events: eventsSvc}
	adminHandler := &reportsapi.Handler{Reports: reportsSvc, Settings: policyStore}

	// --- Router ---
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware())

		r.Post("/checkout", bookingHandler.StartCheckout)
		r.Get("/checkout", bookingHandler.StagedQuote)
		r.Post("/checkout/confirm", bookingHandler.ConfirmPayment)

		r.Get("/bookings", bookingHandler.ListBookings)
		r.Get("/bookings/{bookingID}", bookingHandler.GetBooking)
		r.Post("/bookings/{bookingID}/cancel", bookingHandler.CancelBooking)
		r.Get("/bookings/{bookingID}/qr", bookingHandler.TicketQR)

		r.Get("/events", catalogHandler.ListEvents)
		r.Post("/events", catalogHandler.CreateEvent)
		r.Get("/events/{eventID}", catalogHandler.GetEvent)
		r.Put("/events/{eventID}", catalogHandler.UpdateEvent)
		r.Post("/events/{eventID}/status", catalogHandler.TransitionEvent)
		r.Delete("/events/{eventID}", catalogHandler.DeleteEvent)

		r.Get("/venues", catalogHandler.ListVenues)
		r.Post("/venues", catalogHandler.CreateVenue)
		r.Put("/venues/{venueID}", catalogHandler.UpdateVenue)
		r.Delete("/venues/{venueID}", catalogHandler.DeleteVenue)

		r.Get("/profile", catalogHandler.GetProfile)
		r.Put("/profile", catalogHandler.UpdateProfile)
		r.Delete("/users/{userID}", catalogHandler.DeleteUser)

		r.Get("/reports", adminHandler.Summary)
		r.Get("/reports/organizer", adminHandler.OrganizerSummary)
		r.Get("/reports/export", adminHandler.Export)
		r.Get("/settings", adminHandler.GetSettings)
		r.Put("/settings", adminHandler.UpdateSettings)
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("booking service listening on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SERVER", "shutdown signal received")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("SERVER", fmt.Sprintf("forced shutdown: %v", err))
	}
	log.Info("SERVER", "server exited gracefully")
}

func connectPostgres(cfg *config.Config, log *logger.Logger) *bun.DB {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN))
	sqldb := sql.OpenDB(connector)
	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	var err error
	for i := 1; i <= 5; i++ {
		if err = sqldb.Ping(); err == nil {
			break
		}
		log.Warn("DATABASE", fmt.Sprintf("Postgres not ready (attempt %d/5): %v", i, err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("failed to connect to Postgres: %v", err))
	}

	return bun.NewDB(sqldb, pgdialect.New())
}
