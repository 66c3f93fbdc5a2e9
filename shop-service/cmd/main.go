package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"webshop/pkg/logger"
	"webshop/shop-service/internal/app/shop/config"
	"webshop/shop-service/internal/app/shop/handler"
	http2 "webshop/shop-service/internal/app/shop/infrastructure/http"
	"webshop/shop-service/internal/app/shop/infrastructure/messaging"
	"webshop/shop-service/internal/app/shop/repository"
	"webshop/shop-service/internal/app/shop/service"
	"webshop/shop-service/internal/app/shop/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("shop-service", logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "shop-service", logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	redisClient, err := util.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

	orderProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	defer orderProducer.Close()
	reviewProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.ReviewTopic)
	defer reviewProducer.Close()
	logger.Info().
		Str("order_topic", cfg.Kafka.OrderTopic).
		Str("review_topic", cfg.Kafka.ReviewTopic).
		Msg("Initialized Kafka producers")

	authClient := http2.NewAuthClient(cfg.AuthService.URL)
	logger.Info().
		Str("url", cfg.AuthService.URL).
		Msg("Initialized Auth Service client")

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	catalogService := service.NewCatalogService(productRepo, reviewRepo, redisClient)
	orderService := service.NewOrderService(orderRepo, productRepo, redisClient, orderProducer)
	reviewService := service.NewReviewService(reviewRepo, productRepo, redisClient, reviewProducer)
	analyticsService := service.NewAnalyticsService(analyticsRepo, productRepo, reviewRepo, authClient)

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	productHandler := handler.NewProductHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	uploadHandler, err := handler.NewUploadHandler(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	router := handler.SetupRoutes(
		productHandler,
		orderHandler,
		reviewHandler,
		analyticsHandler,
		uploadHandler,
		authMiddleware,
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Shop Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Shop Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Shop Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Info),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
