// File: haulaway/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"haulaway/backend"
	"haulaway/config"
	"haulaway/cron"
	"haulaway/handlers"
	"haulaway/middleware"
	"haulaway/routes"
	"haulaway/services/notification"
	"haulaway/services/order"
	"haulaway/services/payment"
	"haulaway/services/proof"
	"haulaway/services/session"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitCache()
	utils.InitSessionCache()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Shared collaborators.
	backendClient := backend.NewHTTPClient(
		config.AppConfig.BackendBaseURL,
		backend.ContextCredentials{},
		logger,
	)
	sessionStore := session.NewStore(utils.GetSessionCacheClient())
	sessionManager := session.NewManager(sessionStore)
	proofStore := proof.NewRedisStore(utils.GetCacheClient())

	// services.
	paymentService := &payment.DefaultPaymentService{
		Backend:    backendClient,
		Quotes:     payment.NewRedisQuoteStore(utils.GetCacheClient()),
		Invoices:   payment.NewStripeInvoiceProvider(logger),
		Logger:     logger,
		SuccessURL: config.AppConfig.CheckoutSuccessURL,
		CancelURL:  config.AppConfig.CheckoutCancelURL,
	}

	proofResolver := proof.NewResolver(backendClient, proofStore, cloudinaryStorageService, logger)
	notificationService := notification.NewDefaultNotificationService()
	registrarSet := notification.NewRegistrarSet(backendClient, logger)

	orderService := order.NewDefaultOrderService(
		backendClient,
		paymentService,
		proofResolver,
		notificationService,
		utils.GetCacheClient(),
		logger,
	)

	// Background preload worker (best effort).
	cron.InitPreloadWorker(backendClient, sessionStore, proofStore, utils.GetCacheClient())
	tasksClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPreloadQueueDB,
	})

	// handlers.
	sessionHandler := &handlers.SessionHandler{
		Manager:    sessionManager,
		OrderSvc:   orderService,
		Registrars: registrarSet,
		Tasks:      tasksClient,
		Logger:     logger,
	}
	orderHandler := handlers.NewOrderHandler(orderService, tasksClient, logger)
	checkoutHandler := handlers.NewCheckoutHandler(orderService, logger)
	proofHandler := handlers.NewProofHandler(orderService, logger)
	ratingHandler := handlers.NewRatingHandler(orderService, logger)
	deviceHandler := handlers.NewDeviceHandler(registrarSet, logger)

	routes.RegisterRoutes(router, sessionManager,
		sessionHandler, orderHandler, checkoutHandler, proofHandler, ratingHandler, deviceHandler)

	utils.StartHealthMonitor([]*redis.Client{
		utils.GetCacheClient(),
		utils.GetSessionCacheClient(),
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
