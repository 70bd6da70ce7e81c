package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	JWT         JWTConfig
	Uploads     UploadsConfig
	RatingCache RatingCacheConfig
	Seed        SeedConfig
	Log         LogConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 3000)
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// QueryTimeout ограничивает каждый запрос к БД внутри одного HTTP запроса
	QueryTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string // Топик для PUB_CREATED, RATING_CREATED и т.д.
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type UploadsConfig struct {
	Dir           string // Каталог для файлов фотографий
	PublicBaseURL string // Префикс URL, по которому раздаются файлы
	MaxSizeBytes  int64
	// Расписание фоновой очистки файлов без записи в photos
	CleanupSchedule string
	CleanupGrace    time.Duration
}

type RatingCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type SeedConfig struct {
	Enabled  bool   // Включает POST /api/seed
	Password string // Пароль тестовых пользователей
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

// Load читает конфигурацию из переменных окружения.
// Перед этим подгружается .env (ENV_FILE), если он есть.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "3000"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "pintperfect"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			QueryTimeout: getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "pub_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			TTL:    getEnvDuration("JWT_TTL", 168*time.Hour),
		},
		Uploads: UploadsConfig{
			Dir:             getEnv("UPLOAD_DIR", "uploads"),
			PublicBaseURL:   getEnv("UPLOAD_PUBLIC_URL", "/uploads"),
			MaxSizeBytes:    int64(getEnvInt("UPLOAD_MAX_SIZE_MB", 10)) << 20,
			CleanupSchedule: getEnv("UPLOAD_CLEANUP_SCHEDULE", "@every 1h"),
			CleanupGrace:    getEnvDuration("UPLOAD_CLEANUP_GRACE", time.Hour),
		},
		RatingCache: RatingCacheConfig{
			Enabled: getEnvBool("RATING_CACHE_ENABLED", false),
			TTL:     getEnvDuration("RATING_CACHE_TTL", 10*time.Minute),
		},
		Seed: SeedConfig{
			Enabled:  getEnvBool("SEED_ENABLED", false),
			Password: getEnv("SEED_PASSWORD", "password123"),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}

	if cfg.Database.QueryTimeout <= 0 {
		return nil, fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got %s", cfg.Database.QueryTimeout)
	}
	if cfg.JWT.TTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWT.TTL)
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// MaxRequestBytes - лимит тела запроса: файл в base64 (4/3) плюс 1 МБ на остальные поля
func (c *UploadsConfig) MaxRequestBytes() int64 {
	return c.MaxSizeBytes/3*4 + 4 + 1<<20
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList разбирает список через запятую (KAFKA_BROKERS=host1:9092,host2:9092)
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
