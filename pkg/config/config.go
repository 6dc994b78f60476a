package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	// Enabled gates the recommendation page cache; the service runs fine
	// without Redis.
	Enabled bool
}

type RecommendConfig struct {
	// CacheTTLSeconds is how long a cached recommendation page stays valid.
	CacheTTLSeconds int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisEnabled := getEnv("REDIS_ENABLED", "false") == "true"

	redisDB := 0
	if redisEnabled {
		var err error
		redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
		if err != nil {
			return nil, errors.New("invalid redis database")
		}
	}

	cacheTTL, err := strconv.Atoi(getEnv("RECO_CACHE_TTL_SECONDS", "30"))
	if err != nil {
		return nil, errors.New("invalid recommendation cache ttl")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ShopRecs API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "shoprecs"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			Enabled:       redisEnabled,
		},
		Recommend: RecommendConfig{
			CacheTTLSeconds: cacheTTL,
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
