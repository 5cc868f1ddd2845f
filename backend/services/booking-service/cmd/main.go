// backend/services/booking-service/cmd/main.go

package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/MikyMack/TranshaStays/backend/shared/go-middleware"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-repositories"
	"github.com/MikyMack/TranshaStays/backend/shared/go-seeding"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/app"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/config"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/controllers"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/events"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/routes"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/services"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize booking-service:", err)
	}
	defer application.Close()

	propRepo := repositories.NewPropertyRepository(application.DB)
	unitRepo := repositories.NewUnitRepository(application.DB)
	floorRepo := repositories.NewFloorRepository(application.DB)
	tenantRepo := repositories.NewTenantRepository(application.DB)
	bookingRepo := repositories.NewBookingRepository(application.DB)
	leaseRepo := repositories.NewLeaseRepository(application.DB)
	reviewRepo := repositories.NewReviewRepository(application.DB)
	holdRepo := repositories.NewHoldRepository(application.DB)
	auditRepo := repositories.NewAdminAuditLogRepository(application.DB)

	if cfg.LDFlag_SeedDemoCatalog {
		if err := seeding.SeedDemoCatalog(context.Background(), seeding.Catalog{
			Properties: propRepo,
			Units:      unitRepo,
			Floors:     floorRepo,
		}); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed demo catalog")
		} else {
			utils.Logger.Info("Seeded demo catalog successfully")
		}
	}

	// Each channel stays off until its credentials are configured.
	var (
		emailSender services.EmailSender
		smsSender   services.SMSSender
	)
	if cfg.SendGridAPIKey != "" {
		emailSender = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	} else {
		utils.Logger.Warn("SENDGRID_API_KEY not set; email notifications disabled")
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		smsSender = twClient.Api
	} else {
		utils.Logger.Warn("Twilio credentials not set; SMS notifications disabled")
	}

	notifier := services.NewNotificationService(cfg, emailSender, smsSender, propRepo)
	handlers := []events.Handler{services.LogEvent, notifier.Handle}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var publisher events.Publisher
	if application.Redis != nil {
		publisher = events.NewRedisStreamPublisher(application.Redis, constants.EventStream)
		consumer := events.NewRedisStreamConsumer(
			application.Redis,
			constants.EventStream,
			constants.EventConsumerGroup,
			cfg.AppName+"-"+config.UniqueRunnerID,
			constants.EventHandlerTimeout,
			handlers...,
		)
		go func() {
			if e := consumer.Run(bgCtx); e != nil {
				utils.Logger.WithError(e).Error("Booking event consumer stopped")
			}
		}()
		utils.Logger.Infof("Publishing booking events to redis stream %s", constants.EventStream)
	} else {
		bus := events.NewLocalBus(constants.EventBusBufferSize, constants.EventBusWorkers, constants.EventHandlerTimeout, handlers...)
		bus.Start()
		defer bus.Close()
		publisher = bus
		utils.Logger.Info("REDIS_ADDR not set; dispatching booking events in-process")
	}

	overlap := services.NewOverlapDetector(holdRepo)
	catalogService := services.NewCatalogService(cfg, propRepo, unitRepo, floorRepo, tenantRepo)
	availabilityService := services.NewAvailabilityService(cfg, propRepo, unitRepo, floorRepo, overlap)
	bookingService := services.NewBookingService(cfg, propRepo, unitRepo, bookingRepo, overlap, publisher)
	leaseService := services.NewLeaseService(cfg, propRepo, unitRepo, tenantRepo, leaseRepo, overlap, publisher)
	reviewService := services.NewReviewService(cfg, propRepo, reviewRepo)
	leaseMaintenance := services.NewLeaseMaintenanceService(leaseService)
	auditService := services.NewAuditService(cfg, auditRepo)

	healthController := controllers.NewHealthController(application)
	availabilityController := controllers.NewAvailabilityController(availabilityService)
	apartmentBookings := controllers.NewBookingController(bookingService, models.InventoryApartment, auditService)
	resortBookings := controllers.NewBookingController(bookingService, models.InventoryResort, auditService)
	pgBookings := controllers.NewBookingController(bookingService, models.InventoryPG, auditService)
	leaseController := controllers.NewLeaseController(leaseService, auditService)
	apartments := controllers.NewPropertyController(catalogService, models.InventoryApartment, auditService)
	resorts := controllers.NewPropertyController(catalogService, models.InventoryResort, auditService)
	pgProperties := controllers.NewPropertyController(catalogService, models.InventoryPG, auditService)
	unitController := controllers.NewUnitController(catalogService, auditService)
	reviewController := controllers.NewReviewController(reviewService, auditService)
	auditController := controllers.NewAuditController(auditService)

	router := mux.NewRouter()
	router.Use(middleware.RequestLoggingMiddleware)

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.ApartmentAvailability, availabilityController.ApartmentHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ResortAvailability, availabilityController.ResortHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PGAvailability, availabilityController.PGHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.ApartmentBookingsBase, apartmentBookings.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ApartmentBookingsBase, apartmentBookings.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ApartmentBookingByID, apartmentBookings.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ApartmentBookingCancel, apartmentBookings.CancelHandler).Methods(http.MethodPut)

	router.HandleFunc(routes.ResortBookingsBase, resortBookings.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ResortBookingsBase, resortBookings.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ResortBookingByID, resortBookings.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ResortBookingCancel, resortBookings.CancelHandler).Methods(http.MethodPut)

	router.HandleFunc(routes.PGBookingsBase, pgBookings.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PGBookingsBase, pgBookings.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PGBookingByID, pgBookings.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PGBookingCancel, pgBookings.CancelHandler).Methods(http.MethodPut)

	router.HandleFunc(routes.PGLeasesBase, leaseController.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PGLeasesBase, leaseController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PGLeaseByID, leaseController.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PGLeaseCancel, leaseController.CancelHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.PGLeasePayments, leaseController.RecordPaymentHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.ApartmentsBase, apartments.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ApartmentByID, apartments.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ResortsBase, resorts.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ResortByID, resorts.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PGPropertiesBase, pgProperties.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PGPropertyByID, pgProperties.GetHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyUnits, unitController.ListUnitsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PGPropertyFloors, unitController.ListFloorsHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.ApartmentReviews, reviewController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ApartmentReviews, reviewController.AddHandler).Methods(http.MethodPost)

	// Admin
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AdminAuthMiddleware(cfg.RSAPublicKey))

	admin.HandleFunc(routes.ApartmentBookingStatus, apartmentBookings.UpdateStatusHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.ApartmentBookingByID, apartmentBookings.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.ApartmentBookingsBase, apartmentBookings.DeleteByBodyHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.ResortBookingStatus, resortBookings.UpdateStatusHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.ResortBookingByID, resortBookings.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.ResortBookingsBase, resortBookings.DeleteByBodyHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.PGBookingStatus, pgBookings.UpdateStatusHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.PGBookingByID, pgBookings.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.PGBookingsBase, pgBookings.DeleteByBodyHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.PGLeaseStatus, leaseController.UpdateStatusHandler).Methods(http.MethodPut)

	for _, pc := range []struct {
		base, byID, toggle string
		ctrl               *controllers.PropertyController
	}{
		{routes.ApartmentsBase, routes.ApartmentByID, routes.ApartmentToggle, apartments},
		{routes.ResortsBase, routes.ResortByID, routes.ResortToggle, resorts},
		{routes.PGPropertiesBase, routes.PGPropertyByID, routes.PGPropertyToggle, pgProperties},
	} {
		admin.HandleFunc(pc.base, pc.ctrl.CreateHandler).Methods(http.MethodPost)
		admin.HandleFunc(pc.byID, pc.ctrl.UpdateHandler).Methods(http.MethodPut)
		admin.HandleFunc(pc.byID, pc.ctrl.DeleteHandler).Methods(http.MethodDelete)
		admin.HandleFunc(pc.toggle, pc.ctrl.ToggleHandler).Methods(http.MethodPatch)
	}

	admin.HandleFunc(routes.ApartmentAvailabilityOf, unitController.ApartmentAvailabilityHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.PropertyUnits, unitController.CreateUnitHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.UnitByID, unitController.UpdateUnitHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.UnitByID, unitController.DeleteUnitHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.UnitToggle, unitController.ToggleUnitHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.PGPropertyFloors, unitController.CreateFloorHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.PGFloorByID, unitController.UpdateFloorHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.PGFloorByID, unitController.DeleteFloorHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.PGTenantsBase, unitController.CreateTenantHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.PGTenantsBase, unitController.ListTenantsHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.PGTenantByID, unitController.GetTenantHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.ApartmentReviewByID, reviewController.UpdateHandler).Methods(http.MethodPut)
	admin.HandleFunc(routes.ApartmentReviewByID, reviewController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminAuditHistory, auditController.HistoryHandler).Methods(http.MethodGet)

	if cfg.LDFlag_LeaseMaintenanceCron {
		c := cron.New()
		_, cronErr := c.AddFunc(constants.LeaseMaintenanceSchedule, func() {
			if e := leaseMaintenance.RunDailyLeaseMaintenance(bgCtx); e != nil {
				utils.Logger.WithError(e).Error("Scheduled lease maintenance failed")
			}
		})
		if cronErr != nil {
			utils.Logger.WithError(cronErr).Fatal("Failed to schedule lease maintenance cron")
		}
		c.Start()
		defer c.Stop()
	} else {
		utils.Logger.Info("Lease maintenance cron disabled by flag")
	}

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("booking-service failed to start:", err)
	}
}
