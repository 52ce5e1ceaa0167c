package config

import "time"

// --- Shared Configs ---

type ServerConfig struct {
	HTTPPort    string
	MetricsPort string
	LogLevel    string // debug, info, warn, error
	LogFormat   string // json, console
	LogFile     string
}

type DatabaseConfig struct {
	Driver   string // postgres, sqlite, memory
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite file path
}

type RedisConfig struct {
	Host string
	Port string
}

type JWTConfig struct {
	Secret   string
	Duration time.Duration
}

// LoadServerConfig loads HTTP server configuration
func LoadServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9100"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		LogFile:     getEnv("LOG_FILE", "logs/casino/server.log"),
	}
}

// LoadDatabaseConfig loads database configuration
func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "memory"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "casino_user"),
		Password: getEnv("DB_PASSWORD", "casino_pass"),
		Name:     getEnv("DB_NAME", "casino_db"),
		Path:     getEnv("DB_PATH", "casino.db"),
	}
}

// LoadRedisConfig loads Redis configuration
func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		Host: getEnv("REDIS_HOST", "localhost"),
		Port: getEnv("REDIS_PORT", "6379"),
	}
}

// LoadJWTConfig loads JWT configuration
func LoadJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:   getEnv("JWT_SECRET", "nexus-casino-secret"),
		Duration: getEnvDuration("JWT_DURATION", 24*time.Hour),
	}
}
