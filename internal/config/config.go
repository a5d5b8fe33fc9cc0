package config

import (
	"os"
	"strconv"
)

type AssistanceServiceConfig struct {
	Port        string
	JWTSecret   string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
	MinioCfg    MinioConfig
	GeocoderCfg GeocoderConfig
	WorkerCfg   WorkerConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type MinioConfig struct {
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioLocation  string
	MinioSecure    string
	ReportsBucket  string
}

type GeocoderConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type WorkerConfig struct {
	ExpiryIntervalSeconds int
	PoolWorkers           int
	PoolQueueSize         int
}

func New() *AssistanceServiceConfig {
	return &AssistanceServiceConfig{
		Port:      getEnvOrDefault("PORT", "8086"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", ""),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "assistance"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		MinioCfg: MinioConfig{
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
			ReportsBucket:  getEnvOrDefault("MINIO_REPORTS_BUCKET", "stay-reports"),
		},
		GeocoderCfg: GeocoderConfig{
			BaseURL:        getEnvOrDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			TimeoutSeconds: getEnvIntOrDefault("GEOCODER_TIMEOUT_SECONDS", 5),
		},
		WorkerCfg: WorkerConfig{
			ExpiryIntervalSeconds: getEnvIntOrDefault("EXPIRY_INTERVAL_SECONDS", 3600),
			PoolWorkers:           getEnvIntOrDefault("POOL_WORKERS", 4),
			PoolQueueSize:         getEnvIntOrDefault("POOL_QUEUE_SIZE", 32),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
