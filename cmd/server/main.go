package main

import (
	customershandler "kartrm/internal/customers/handler"
	customersrepository "kartrm/internal/customers/repository"
	customersservice "kartrm/internal/customers/service"
	customersvalidator "kartrm/internal/customers/validator"
	kartshandler "kartrm/internal/karts/handler"
	kartsrepository "kartrm/internal/karts/repository"
	kartsservice "kartrm/internal/karts/service"
	kartsvalidator "kartrm/internal/karts/validator"
	"kartrm/internal/notifications/courier"
	"kartrm/internal/notifications/receipt"
	reportshandler "kartrm/internal/reports/handler"
	reportsservice "kartrm/internal/reports/service"
	reservationshandler "kartrm/internal/reservations/handler"
	reservationsrepository "kartrm/internal/reservations/repository"
	reservationsservice "kartrm/internal/reservations/service"
	reservationsvalidator "kartrm/internal/reservations/validator"
	"kartrm/pkg/app"
	"kartrm/pkg/config"
	"kartrm/pkg/contracts"
	"kartrm/pkg/kafka"
)

const ServiceName = "kartrm-server"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting KartRM server")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config) []contracts.Handler {
	customerRepo := customersrepository.NewMongoCustomerRepository(cfg)
	customerService := customersservice.NewCustomerService(
		customerRepo,
		customersvalidator.NewCustomerValidator(),
		cfg,
	)

	kartRepo := kartsrepository.NewMongoKartRepository(cfg)
	kartService := kartsservice.NewKartService(
		kartRepo,
		kartsvalidator.NewKartValidator(),
		cfg,
	)

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.VoucherTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create voucher producer", "error", err)
	}

	reservationRepo := reservationsrepository.NewMongoReservationRepository(cfg)
	reservationService := reservationsservice.NewReservationService(
		reservationRepo,
		reservationsrepository.NewReservationLockRepository(cfg),
		reservationsvalidator.NewReservationValidator(),
		kartService,
		customerRepo,
		receipt.NewRenderer(),
		courier.NewKafkaCourier(producer, cfg),
		cfg,
	)

	incomeService := reportsservice.NewIncomeService(reservationRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		customershandler.NewCustomerHandler(customerService, cfg.Log),
		kartshandler.NewKartHandler(kartService, cfg.Log),
		reservationshandler.NewReservationHandler(reservationService, cfg.Log),
		reportshandler.NewIncomeHandler(incomeService, cfg.Log),
	}
}
