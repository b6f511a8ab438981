package config

import (
	"context"

	"booking-service/src/internal/delivery/http"
	"booking-service/src/internal/delivery/http/middleware"
	"booking-service/src/internal/delivery/http/route"
	"booking-service/src/internal/gateway/messaging"
	"booking-service/src/internal/metrics"
	"booking-service/src/internal/repository"
	"booking-service/src/internal/usecase"
	"booking-service/src/pkg/databases/mysql"
	"booking-service/src/pkg/geo"
	kafkaPkg "booking-service/src/pkg/kafka"
	"booking-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkg.Producer
	Redis       redis.UniversalClient
	Geoservice  *geo.Geocoder
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	metrics.Register()

	// setup repositories
	userRepository := repository.NewUserRepository(config.DB)
	walletRepository := repository.NewWalletRepository(config.DB)
	serviceRepository := repository.NewServiceRepository(config.DB)
	bookingRepository := repository.NewBookingRepository(config.DB, walletRepository)
	notificationProducer := messaging.NewNotificationProducer(config.Producer, config.Log)

	// setup use cases
	bookingUseCase := usecase.NewBookingUseCase(
		config.Log,
		config.Validate,
		bookingRepository,
		serviceRepository,
		userRepository,
		config.Config,
		config.Geoservice,
		notificationProducer,
	)

	callUseCase := usecase.NewCallUseCase(
		config.Log,
		config.Validate,
		bookingRepository,
		serviceRepository,
		walletRepository,
		config.Config,
		config.Redis,
		notificationProducer,
	)

	walletUseCase := usecase.NewWalletUseCase(
		config.Log,
		config.Validate,
		walletRepository,
	)

	serviceUseCase := usecase.NewServiceUseCase(
		config.Log,
		config.Validate,
		serviceRepository,
		userRepository,
		config.Config,
	)

	sweeperUseCase := usecase.NewSweeperUseCase(
		config.Log,
		bookingRepository,
		serviceRepository,
		config.Config,
		notificationProducer,
	)

	// setup controller
	bookingController := http.NewBookingController(bookingUseCase, config.Log)
	callController := http.NewCallController(callUseCase, config.Log)
	walletController := http.NewWalletController(walletUseCase, config.Log)
	serviceController := http.NewServiceController(serviceUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	if config.Async != nil {
		config.Async.HandleFunc(usecase.TaskAutoRelease, func(ctx context.Context, t *asynq.Task) error {
			_, err := sweeperUseCase.ReleaseDue(ctx)
			return err
		})
	}

	routeConfig := route.RouteConfig{
		App:               config.App,
		BookingController: bookingController,
		CallController:    callController,
		WalletController:  walletController,
		ServiceController: serviceController,
		AuthMiddleware:    authMiddleware,
	}
	routeConfig.Setup()
}
