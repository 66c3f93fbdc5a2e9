package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/config"
	"webshop/analytics-worker-service/internal/app/analytics-worker/handler"
	"webshop/analytics-worker-service/internal/app/analytics-worker/processor"
	"webshop/analytics-worker-service/internal/app/analytics-worker/repository"
	"webshop/analytics-worker-service/internal/app/analytics-worker/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("Starting Analytics Worker Service...")

	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаем основной контекст приложения
	ctx := context.Background()

	// === ПОДКЛЮЧЕНИЕ К MONGODB ===
	// MongoDB используется как долговременное хранилище событий
	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	log.Printf("Successfully connected to MongoDB (database: %s)", cfg.MongoDB.Database)

	db := mongoClient.Database(cfg.MongoDB.Database)

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis используется для хранения дневной статистики
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ ===
	eventRepo := repository.NewEventRepository(db)
	statsRepo := repository.NewStatsRepository(redisClient, cfg.Redis.TTL)
	log.Println("Repositories initialized")

	// === ИНИЦИАЛИЗАЦИЯ СЕРВИСОВ ===
	eventProcessingSvc := service.NewEventProcessingService(eventRepo)
	statsRollupSvc := service.NewStatsRollupService(eventRepo, statsRepo)
	log.Println("Services initialized")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA CONSUMERS ===
	// Отдельный consumer на каждый топик событий магазина
	orderConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.OrderTopic,
		cfg.Kafka.OrderGroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		eventProcessingSvc,
	)

	orderConsumer.Start(ctx)
	defer orderConsumer.Stop()
	log.Printf("Kafka consumer started (topic: %s, group: %s)", cfg.Kafka.OrderTopic, cfg.Kafka.OrderGroupID)

	reviewConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.ReviewTopic,
		cfg.Kafka.ReviewGroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		eventProcessingSvc,
	)

	reviewConsumer.Start(ctx)
	defer reviewConsumer.Stop()
	log.Printf("Kafka consumer started (topic: %s, group: %s)", cfg.Kafka.ReviewTopic, cfg.Kafka.ReviewGroupID)

	// === ИНИЦИАЛИЗАЦИЯ CRON SCHEDULER ===
	cronScheduler := processor.NewCronScheduler(statsRollupSvc)

	// Запускаем cron для периодического пересчета дневной статистики
	if err := cronScheduler.Start(ctx, cfg.CronSchedule.StatsRollup); err != nil {
		log.Fatalf("Failed to start cron scheduler: %v", err)
	}
	defer cronScheduler.Stop()
	log.Printf("Cron scheduler started (schedule: %s)", cfg.CronSchedule.StatsRollup)

	// === ИНИЦИАЛИЗАЦИЯ HEALTHCHECK HTTP СЕРВЕРА ===
	healthHandler := handler.NewHealthCheckHandler(mongoClient, redisClient, statsRollupSvc)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}

	// Запускаем HTTP сервер в отдельной горутине
	go func() {
		log.Println("Starting healthcheck HTTP server on :8080...")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()
	log.Println("Healthcheck and metrics endpoints available:")
	log.Println("  - GET http://localhost:8080/health")
	log.Println("  - GET http://localhost:8080/health/readiness")
	log.Println("  - GET http://localhost:8080/health/liveness")
	log.Println("  - GET http://localhost:8080/stats/daily")
	log.Println("  - GET http://localhost:8080/metrics")

	// === ЗАПУСК ЗАВЕРШЕН ===
	log.Println("Analytics Worker Service is running")
	log.Println("Waiting for ORDER_CREATED and REVIEW_CREATED events from Kafka...")
	log.Printf("Daily stats will be rolled up according to schedule: %s", cfg.CronSchedule.StatsRollup)

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Analytics Worker Service...")

	// Даем время на завершение обработки текущих сообщений
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Ждем завершения обработки
	<-shutdownCtx.Done()

	log.Println("Analytics Worker Service stopped gracefully")
}

// connectMongoDB устанавливает соединение с MongoDB
func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	// Retry logic для устойчивости при запуске в Docker
	for i := 0; i < 10; i++ {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(connectCtx, clientOptions)
		cancel()

		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := client.Ping(pingCtx, nil)
			pingCancel()

			if pingErr == nil {
				return client, nil
			}
			err = pingErr
		}

		log.Printf("Failed to connect to MongoDB (attempt %d/10): %v", i+1, err)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to MongoDB after 10 attempts: %w", err)
}

// connectRedis устанавливает соединение с Redis
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Проверяем соединение с retry logic
	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		log.Printf("Failed to connect to Redis (attempt %d/10)", i+1)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}
