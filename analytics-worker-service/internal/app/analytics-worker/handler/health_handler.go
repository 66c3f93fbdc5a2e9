package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"
	"webshop/analytics-worker-service/internal/app/analytics-worker/service"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthCheckHandler struct {
	mongoClient *mongo.Client
	redisClient *redis.Client
	statsSvc    service.StatsRollupServiceInterface
}

func NewHealthCheckHandler(
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	statsSvc service.StatsRollupServiceInterface,
) *HealthCheckHandler {
	return &HealthCheckHandler{
		mongoClient: mongoClient,
		redisClient: redisClient,
		statsSvc:    statsSvc,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

func (h *HealthCheckHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := "healthy"

	if err := h.checkMongoDB(ctx); err != nil {
		checks["mongodb"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["mongodb"] = "healthy"
	}

	if err := h.checkRedis(ctx); err != nil {
		checks["redis"] = "unhealthy: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		checks["redis"] = "healthy"
	}

	// Отсутствие статистики до первого rollup не считается проблемой
	if err := h.checkDailyStats(ctx); err != nil {
		checks["daily_stats"] = "warning: " + err.Error()
	} else {
		checks["daily_stats"] = "healthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (h *HealthCheckHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.checkMongoDB(ctx); err != nil {
		http.Error(w, "mongodb not ready", http.StatusServiceUnavailable)
		return
	}

	if err := h.checkRedis(ctx); err != nil {
		http.Error(w, "redis not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthCheckHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

// DailyStats возвращает статистику за последние 7 дней
func (h *HealthCheckHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.statsSvc.GetRecentStats(ctx, 7)
	if err != nil {
		http.Error(w, "failed to get daily stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *HealthCheckHandler) checkMongoDB(ctx context.Context) error {
	return h.mongoClient.Ping(ctx, nil)
}

func (h *HealthCheckHandler) checkRedis(ctx context.Context) error {
	return h.redisClient.Ping(ctx).Err()
}

func (h *HealthCheckHandler) checkDailyStats(ctx context.Context) error {
	_, err := h.statsSvc.GetDailyStats(ctx, entity.DateKey(time.Now()))
	return err
}

func (h *HealthCheckHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/health/readiness", h.Readiness)
	mux.HandleFunc("/health/liveness", h.Liveness)
	mux.HandleFunc("/stats/daily", h.DailyStats)
}
