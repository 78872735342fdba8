package main

import (
	"context"
	"fmt"
	"net/http"

	bookinghandler "github.com/charmheroku/railway-station/internal/booking/handler"
	bookingrepo "github.com/charmheroku/railway-station/internal/booking/repository"
	bookingservice "github.com/charmheroku/railway-station/internal/booking/service"
	"github.com/charmheroku/railway-station/internal/common/auth"
	"github.com/charmheroku/railway-station/internal/common/config"
	"github.com/charmheroku/railway-station/internal/common/db"
	"github.com/charmheroku/railway-station/internal/common/logger"
	"github.com/charmheroku/railway-station/internal/common/rmq"
	"github.com/charmheroku/railway-station/internal/common/web"
	stationhandler "github.com/charmheroku/railway-station/internal/station/handler"
	stationmodel "github.com/charmheroku/railway-station/internal/station/model"
	stationrepo "github.com/charmheroku/railway-station/internal/station/repository"
	stationservice "github.com/charmheroku/railway-station/internal/station/service"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// catalogReader gives the booking side read access to trips and wagons
// without exposing the full catalog repositories.
type catalogReader struct {
	trips   *stationrepo.TripRepository
	catalog *stationrepo.CatalogRepository
}

func (r *catalogReader) GetTrip(ctx context.Context, id int64) (*stationmodel.Trip, error) {
	return r.trips.GetTrip(ctx, id)
}

func (r *catalogReader) GetWagon(ctx context.Context, id int64) (*stationmodel.Wagon, error) {
	return r.catalog.GetWagon(ctx, id)
}

func run(cfg *config.Config) error {
	postgres, err := db.NewPostgres(cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer postgres.Close()

	if err := postgres.RunMigrations(cfg.Migrations.Dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	// The API stays up without the broker; order events are advisory.
	var publisher *rmq.Publisher
	rabbit, err := rmq.NewRabbitMQ(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Warn("startup", "rabbitmq unavailable, order events disabled", "", "", err.Error())
	} else {
		defer rabbit.Close()
		publisher = rmq.NewPublisher(rabbit)
	}

	authManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.AccessTTL)

	catalogRepository := stationrepo.NewCatalogRepository(postgres.Pool)
	tripRepository := stationrepo.NewTripRepository(postgres.Pool)
	orderRepository := bookingrepo.NewOrderRepository(postgres.Pool)
	passengerTypeRepository := bookingrepo.NewPassengerTypeRepository(postgres.Pool)

	inventoryService := stationservice.NewInventoryService(tripRepository)
	catalogService := stationservice.NewCatalogService(catalogRepository)
	tripService := stationservice.NewTripService(tripRepository, inventoryService)
	passengerTypeService := bookingservice.NewPassengerTypeService(passengerTypeRepository)
	seatHoldService := bookingservice.NewSeatHoldService(redisClient, cfg.SeatHold.TTL)

	reader := &catalogReader{trips: tripRepository, catalog: catalogRepository}
	var events bookingservice.EventPublisher
	if publisher != nil {
		events = publisher
	}
	orderService := bookingservice.NewOrderService(orderRepository, reader, passengerTypeService, events)

	stationH := stationhandler.NewStationHandler(catalogService, tripService)
	bookingH := bookinghandler.NewBookingHandler(orderService, passengerTypeService, seatHoldService)

	router := chi.NewRouter()
	router.Use(web.RequestID)
	router.Post("/auth/token", authManager.TokenHandler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Route("/api/v1", func(api chi.Router) {
		stationH.Register(api, authManager)
		bookingH.Register(api, authManager)
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logger.Info("startup", fmt.Sprintf("listening on %s", addr), "", "")
	return http.ListenAndServe(addr, router)
}
