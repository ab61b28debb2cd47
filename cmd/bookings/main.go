package main

import (
	"homelet/internal/bookings/handler"
	"homelet/internal/bookings/repository"
	"homelet/internal/bookings/service"
	"homelet/internal/bookings/validator"
	propertiesrepo "homelet/internal/properties/repository"
	"homelet/pkg/app"
	"homelet/pkg/config"
	"homelet/pkg/events"
	"homelet/pkg/identity"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	if cfg.AuthTokenSecret == "" {
		cfg.Log.Fatal("AUTH_TOKEN_SECRET must be set")
	}
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting bookings service")

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.BookingEventTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to configure booking event publisher", "error", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close booking event publisher", "error", err)
		}
	}()

	bookingService := initServices(cfg, publisher)
	provider := identity.NewHMACProvider(cfg.AuthTokenSecret)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log), provider)
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	propertyRepo := propertiesrepo.NewMongoPropertyRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		propertyRepo,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
