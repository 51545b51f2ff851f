package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"handwerk/config"
	"handwerk/cron"
	"handwerk/database"
	bookingRepoPkg "handwerk/database/repository/booking"
	paymentRepoPkg "handwerk/database/repository/payment"
	photoRepoPkg "handwerk/database/repository/photo"
	profileRepoPkg "handwerk/database/repository/profile"
	serviceRepoPkg "handwerk/database/repository/service"
	userRepoPkg "handwerk/database/repository/user"
	"handwerk/handlers"
	"handwerk/routes"
	"handwerk/services/booking"
	"handwerk/services/payment"
	"handwerk/services/session"
	"handwerk/services/storage"
	"handwerk/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	stripe.Key = config.AppConfig.StripeKey

	storageService, err := storage.NewCloudinaryStorage()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	profileRepo := profileRepoPkg.NewMongoProfileRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	photoRepo := photoRepoPkg.NewMongoPhotoRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	serviceRepo := serviceRepoPkg.NewMongoServiceRepo()

	// services.
	sessionService := &session.DefaultSessionService{
		Repo:      userRepo,
		Profiles:  profileRepo,
		AuthCache: utils.GetAuthCacheClient(),
		Events:    session.NewAuthEventBus(),
	}
	if err := sessionService.Initialize(context.Background()); err != nil {
		logger.Sugar().Warnf("main: session restore skipped: %v", err)
	}

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	bookingService := &booking.DefaultBookingService{
		Repo:       bookingRepo,
		Photos:     photoRepo,
		Services:   serviceRepo,
		Storage:    storageService,
		Cache:      utils.GetCacheClient(),
		Queue:      queueClient,
		SessionTTL: time.Duration(config.AppConfig.FormSessionTTLMinutes) * time.Minute,
	}

	bookingService.SetAvailableTimeSlots([]string{
		"08:00", "09:00", "10:00", "11:00", "12:00",
		"13:00", "14:00", "15:00", "16:00", "17:00",
	})

	paymentService := &payment.DefaultPaymentService{
		Bookings: bookingRepo,
		Payments: paymentRepo,
		Profiles: profileRepo,
	}

	handlerBundle := handlers.NewHandlerBundle(
		userRepo, profileRepo, serviceRepo,
		sessionService, bookingService, paymentService,
	)

	routes.RegisterRoutes(router, handlerBundle)

	cron.InitReminderWorker()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	sessionService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
