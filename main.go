package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nocturnelux/storefront/cache"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/controllers"
	"github.com/nocturnelux/storefront/events"
	"github.com/nocturnelux/storefront/payments"
	"github.com/nocturnelux/storefront/routes"
	"github.com/nocturnelux/storefront/utils"
	"github.com/nocturnelux/storefront/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Database init failed: %v", err)
		log.Fatal("Database init failed:", err)
	}
	if err := config.SeedCatalog(config.DB); err != nil {
		utils.LogError("Failed to seed catalog: %v", err)
	}
	if err := controllers.SeedAdmin(config.DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		utils.LogError("Failed to seed admin: %v", err)
		log.Fatal("Failed to seed admin:", err)
	}

	config.InitGoogleOAuth(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := config.InitRedis(ctx, cfg)
	if err != nil {
		utils.LogError("Redis unavailable, running without cache and rate limiting: %v", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}
	controllers.CatalogCache = cache.New(rdb, "catalog:", cfg.CacheTTL)

	if rp := payments.NewRazorpay(cfg.RazorpayKey, cfg.RazorpaySecret); rp != nil {
		controllers.PaymentGateway = rp
	} else {
		utils.LogInfo("Razorpay not configured, online payments disabled")
	}

	host, err := utils.NewCloudinaryHost(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		utils.LogError("Cloudinary init failed: %v", err)
	}
	if host != nil {
		controllers.ImageHost = host
	}

	var mailer utils.Mailer
	smtp := &utils.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	if smtp.Configured() {
		mailer = smtp
	} else {
		utils.LogInfo("SMTP not configured, order emails will be skipped")
	}

	var publisher events.Publisher
	if kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic); kp != nil {
		publisher = kp
		defer kp.Close()
	}

	dispatcherCfg := worker.DefaultConfig()
	dispatcherCfg.PollInterval = cfg.OutboxPollInterval
	dispatcherCfg.MaxAttempts = cfg.OutboxMaxAttempts
	dispatcher := worker.NewDispatcher(config.DB, dispatcherCfg)
	worker.Register(dispatcher, config.DB, mailer, publisher)
	if err := dispatcher.Start(ctx); err != nil {
		log.Fatal("Failed to start outbox dispatcher:", err)
	}

	// Set up router
	router := routes.SetupRouter(cfg, rdb)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("HTTP shutdown: %v", err)
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		utils.LogError("Dispatcher shutdown: %v", err)
	}
}
