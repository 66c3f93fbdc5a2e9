package config

import (
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки приложения Analytics Worker Service
// Включает конфигурацию для MongoDB, Redis и Kafka
type Config struct {
	MongoDB      MongoDBConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	CronSchedule CronScheduleConfig
}

// MongoDBConfig - настройки подключения к MongoDB
// Используется как долговременное хранилище событий аналитики
type MongoDBConfig struct {
	URI      string // URI подключения (mongodb://host:port)
	Database string // Имя базы данных
}

// RedisConfig - настройки подключения к Redis
// Используется для хранения дневной статистики с TTL
type RedisConfig struct {
	Host     string        // Хост Redis
	Port     string        // Порт Redis
	Password string        // Пароль Redis
	DB       int           // Номер БД Redis
	TTL      time.Duration // TTL для дневной статистики
}

// KafkaConfig - настройки Kafka для подписки на события магазина
// Слушает топики order_events и review_events
type KafkaConfig struct {
	Brokers       []string // Список брокеров Kafka (формат: host:port)
	OrderTopic    string   // Топик событий заказов (order_events)
	ReviewTopic   string   // Топик событий отзывов (review_events)
	OrderGroupID  string   // Группа потребителей для заказов
	ReviewGroupID string   // Группа потребителей для отзывов
	MinBytes      int      // Минимум байт для fetch запроса
	MaxBytes      int      // Максимум байт для fetch запроса
}

// CronScheduleConfig - настройки расписания cron задач
type CronScheduleConfig struct {
	StatsRollup string // Расписание пересчета дневной статистики (по умолчанию каждый час)
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// TTL для дневной статистики (по умолчанию 48 часов)
	ttlHours := getEnvInt("REDIS_STATS_TTL_HOURS", 48)

	return &Config{
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "analytics_service"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 2), // Отдельная БД для статистики
			TTL:      time.Duration(ttlHours) * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			OrderTopic:    getEnv("KAFKA_ORDER_TOPIC", "order_events"),
			ReviewTopic:   getEnv("KAFKA_REVIEW_TOPIC", "review_events"),
			OrderGroupID:  getEnv("KAFKA_ORDER_GROUP_ID", "analytics-worker-orders"),
			ReviewGroupID: getEnv("KAFKA_REVIEW_GROUP_ID", "analytics-worker-reviews"),
			MinBytes:      getEnvInt("KAFKA_MIN_BYTES", 1),    // 1 byte minimum
			MaxBytes:      getEnvInt("KAFKA_MAX_BYTES", 10e6), // 10MB maximum
		},
		CronSchedule: CronScheduleConfig{
			// По умолчанию пересчитываем статистику каждый час
			StatsRollup: getEnv("CRON_STATS_ROLLUP", "0 * * * *"),
		},
	}, nil
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
