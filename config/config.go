package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverMySQL  = "mysql"

	yookassaTestKeyPrefix = "test_"
)

var ErrLiveSecretKey = errors.New("only test YooKassa secret keys are allowed")

type Config struct {
	App      AppConfig
	HTTP     ServerConfig
	GRPC     ServerConfig
	Store    StoreConfig
	MySQL    MySQLConfig
	Log      LogConfig
	YooKassa YooKassaConfig
	Payments PaymentsConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	ServiceName string
	Environment string
	Version     string
	FrontendURL string
}

type ServerConfig struct {
	Host string
	Port string
}

type StoreConfig struct {
	Driver string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type YooKassaConfig struct {
	ShopID      string
	SecretKey   string
	APIURL      string
	HTTPTimeout time.Duration
}

type PaymentsConfig struct {
	Currency            string
	GatewayTimeout      time.Duration
	ReconcileStaleAfter time.Duration
	JobBatchSize        int32
}

type JobsConfig struct {
	ReconcileInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	secretKey := strings.TrimSpace(os.Getenv("YOOKASSA_SECRET_KEY"))
	if secretKey != "" && !strings.HasPrefix(secretKey, yookassaTestKeyPrefix) {
		return nil, ErrLiveSecretKey
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory))
	if driver != StoreDriverMemory && driver != StoreDriverMySQL {
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", driver)
	}
	mysqlDSN := os.Getenv("MYSQL_DSN")
	if driver == StoreDriverMySQL && mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required when STORE_DRIVER=mysql")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "sbp-checkout"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.0.1"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", getEnv("PORT", "3000")),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		Store: StoreConfig{
			Driver: driver,
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		YooKassa: YooKassaConfig{
			ShopID:      getEnv("YOOKASSA_SHOP_ID", ""),
			SecretKey:   secretKey,
			APIURL:      getEnv("YOOKASSA_API_URL", "https://api.yookassa.ru/v3"),
			HTTPTimeout: getSecondsEnv("YOOKASSA_HTTP_TIMEOUT_SECONDS", 15*time.Second),
		},
		Payments: PaymentsConfig{
			Currency:            strings.ToUpper(getEnv("PAYMENTS_CURRENCY", "RUB")),
			GatewayTimeout:      getSecondsEnv("PAYMENTS_GATEWAY_TIMEOUT_SECONDS", 20*time.Second),
			ReconcileStaleAfter: getMinutesEnv("RECONCILE_STALE_AFTER_MINUTES", 5*time.Minute),
			JobBatchSize:        int32(getIntEnv("RECONCILE_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			ReconcileInterval: getSecondsEnv("RECONCILE_INTERVAL_SECONDS", time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
