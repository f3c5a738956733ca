package config

import (
	"os"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	ServerAddr    string

	// Scheduling policy toggles
	AllowWeekendAssignments bool
	SkipWeekendWindowStart  bool
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "scheduler"),
		DBPassword:    getEnv("DB_PASSWORD", "schedulerpassword"),
		DBName:        getEnv("DB_NAME", "team_scheduler"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),

		AllowWeekendAssignments: getEnvBool("SCHEDULE_ALLOW_WEEKEND", true),
		SkipWeekendWindowStart:  getEnvBool("SCHEDULE_SKIP_WEEKEND_START", false),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
