package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/cancel_booking"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/check_availability"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/create_booking"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/delete_booking"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/get_booking"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/get_facility_availability"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/get_facility_bookings"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/get_facility_rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/get_user_bookings"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/handlers/update_facility_rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBookingService/internal/config"
	"github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/booking"
	rulesstorage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/userservice"
	bookingsservice "github.com/m04kA/SMC-FacilityBookingService/internal/service/bookings"
	rulesservice "github.com/m04kA/SMC-FacilityBookingService/internal/service/rules"
	checkavailability "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/check_availability"
	confirmbooking "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/confirm_booking"
	createbooking "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/create_booking"
	getavailableslots "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/get_available_slots"
	updatebooking "github.com/m04kA/SMC-FacilityBookingService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/logger"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/metrics"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/rediscache"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/txmanager"
)

// txManager общий контракт обоих transaction manager'ов
type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// realTimeProvider боевой источник времени
type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

func main() {
	configPath := flag.String("config", "config.toml", "путь к конфигурационному файлу")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logg.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.ServiceName)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logg.Fatal("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		logg.Fatal("failed to ping database: %v", err)
	}

	stopCh := make(chan struct{})
	defer close(stopCh)

	var (
		executor dbmetrics.DBExecutor
		txMgr    txManager
	)
	if m != nil {
		wrapped := dbmetrics.WrapWithDefault(db, m, cfg.Database.DBName, stopCh)
		executor = wrapped
		txMgr = txmanager.NewTransactionManager(wrapped)
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	var facilityCache facilityservice.FacilityCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			// Кэш вспомогательный: при недоступном Redis работаем напрямую
			logg.Warn("redis is not available, facility cache disabled: %v", err)
		} else {
			facilityCache = rediscache.New(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		}
	}

	facilityClient := facilityservice.NewClient(
		cfg.FacilityService.URL,
		time.Duration(cfg.FacilityService.Timeout)*time.Second,
		facilityCache,
		logg,
	)
	userClient := userservice.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		logg,
	)

	bookingRepo := booking.NewRepository(executor)
	rulesRepo := rulesstorage.NewRepository(executor)

	timeProv := realTimeProvider{}

	// Бизнес-метрики опциональны, при nil сервисы их не пишут
	var businessMetrics *metrics.Metrics = m

	bookingsSvc := bookingsservice.New(bookingRepo, rulesRepo, facilityClient, asBookingsMetrics(businessMetrics), timeProv, logg)
	rulesSvc := rulesservice.New(rulesRepo, facilityClient, logg)

	createUC := createbooking.New(bookingRepo, rulesRepo, facilityClient, userClient,
		txMgr, asCreateMetrics(businessMetrics), timeProv, logg)
	checkUC := checkavailability.New(bookingRepo, rulesRepo, facilityClient, timeProv, logg)
	slotsUC := getavailableslots.New(bookingRepo, rulesRepo, facilityClient, timeProv, logg)
	updateUC := updatebooking.New(bookingRepo, rulesRepo, facilityClient, txMgr, timeProv, logg)
	confirmUC := confirmbooking.New(bookingRepo, facilityClient, txMgr, logg)

	router := mux.NewRouter()

	if m != nil {
		router.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Logging(logg))
	if m != nil {
		api.Use(middleware.Metrics(m))
	}
	api.Use(middleware.Auth)

	api.HandleFunc("/bookings", create_booking.New(createUC, logg).Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/check-availability", check_availability.New(checkUC, logg).Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{booking_id:[0-9]+}", get_booking.New(bookingsSvc, logg).Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{booking_id:[0-9]+}", update_booking.New(updateUC, logg).Handle).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{booking_id:[0-9]+}", delete_booking.New(bookingsSvc, logg).Handle).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{booking_id:[0-9]+}/status", update_booking_status.New(confirmUC, bookingsSvc, logg).Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{booking_id:[0-9]+}/cancel", cancel_booking.New(bookingsSvc, logg).Handle).Methods(http.MethodPost)

	api.HandleFunc("/users/{user_id:[0-9]+}/bookings", get_user_bookings.New(bookingsSvc, logg).Handle).Methods(http.MethodGet)

	api.HandleFunc("/facilities/{facility_id:[0-9]+}/availability", get_facility_availability.New(slotsUC, logg).Handle).Methods(http.MethodGet)
	api.HandleFunc("/facilities/{facility_id:[0-9]+}/bookings", get_facility_bookings.New(bookingsSvc, logg).Handle).Methods(http.MethodGet)

	rulesHandler := update_facility_rules.New(rulesSvc, logg)
	api.HandleFunc("/facilities/{facility_id:[0-9]+}/rules", get_facility_rules.New(rulesSvc, logg).Handle).Methods(http.MethodGet)
	api.HandleFunc("/facilities/{facility_id:[0-9]+}/rules", rulesHandler.Handle).Methods(http.MethodPut)
	api.HandleFunc("/facilities/{facility_id:[0-9]+}/rules", rulesHandler.HandleDelete).Methods(http.MethodDelete)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logg.Info("server started on port %d", cfg.Server.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("graceful shutdown failed: %v", err)
	}

	logg.Info("server stopped")
}

// asBookingsMetrics приводит *metrics.Metrics к контракту сервиса,
// сохраняя nil при выключенных метриках
func asBookingsMetrics(m *metrics.Metrics) bookingsservice.BusinessMetrics {
	if m == nil {
		return nil
	}
	return m
}

// asCreateMetrics то же для сценария создания
func asCreateMetrics(m *metrics.Metrics) createbooking.BusinessMetrics {
	if m == nil {
		return nil
	}
	return m
}
