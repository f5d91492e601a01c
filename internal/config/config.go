package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// Database (import job history)
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string

	// Directory services
	CategoriesServiceURL   string
	SuppliersServiceURL    string
	SupermarketsServiceURL string
	ProductsServiceURL     string

	// Directory cache
	DirectoryCacheTTL time.Duration

	// Redis (optional directory snapshot cache)
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// NATS
	NATSURL string

	// Pagination
	DefaultPageSize int
	MaxPageSize     int
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisPort, _ := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, _ := strconv.Atoi(getEnv("DIRECTORY_CACHE_TTL_SECONDS", "300"))
	defaultPageSize, _ := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "20"))
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "import_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:        getEnv("PORT", "8091"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Directory services
		CategoriesServiceURL:   getEnv("CATEGORIES_SERVICE_URL", "http://categories-service:8080"),
		SuppliersServiceURL:    getEnv("SUPPLIERS_SERVICE_URL", "http://suppliers-service:8080"),
		SupermarketsServiceURL: getEnv("SUPERMARKETS_SERVICE_URL", "http://supermarkets-service:8080"),
		ProductsServiceURL:     getEnv("PRODUCTS_SERVICE_URL", "http://products-service:8080"),

		// Directory cache
		DirectoryCacheTTL: time.Duration(cacheTTL) * time.Second,

		// Redis
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     redisPort,
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// NATS
		NATSURL: getEnv("NATS_URL", ""),

		// Pagination
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
