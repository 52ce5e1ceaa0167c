package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the casino server
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Casino   CasinoConfig
}

// Load loads the full server configuration from the environment
func Load() *Config {
	return &Config{
		Server:   LoadServerConfig(),
		Database: LoadDatabaseConfig(),
		Redis:    LoadRedisConfig(),
		JWT:      LoadJWTConfig(),
		Casino:   LoadCasinoConfig(),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
