package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ServerPort string

	MongoURI      string
	MongoDatabase string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL string

	JWTSecret string

	AccessTokenMaxAge  int
	RefreshTokenMaxAge int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	DefaultAvatarURL string

	AssemblyConcurrency int
	AuthorCacheTTL      time.Duration
	WorkerCount         int

	LogLevel  string
	LogFormat string
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
	ErrMissingMongoURI  = errors.New("MONGO_URI is required")
)

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Str("component", "Config").Msg("no .env file found, relying on environment variables")
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "akashic"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "require"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AccessTokenMaxAge:  getEnvInt("ACCESS_TOKEN_MAX_AGE", 3600),
		RefreshTokenMaxAge: getEnvInt("REFRESH_TOKEN_MAX_AGE", 2592000),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		DefaultAvatarURL: os.Getenv("DEFAULT_AVATAR_URL"),

		AssemblyConcurrency: getEnvInt("ASSEMBLY_CONCURRENCY", 8),
		AuthorCacheTTL:      time.Duration(getEnvInt("AUTHOR_CACHE_TTL", 300)) * time.Second,
		WorkerCount:         getEnvInt("WORKER_COUNT", 2),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.MongoURI == "" {
		return nil, ErrMissingMongoURI
	}
	return cfg, nil
}

// MediaEnabled reports whether every R2 setting needed for uploads is present.
func (c *Config) MediaEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns fallback for unset, malformed or non-positive values.
func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
