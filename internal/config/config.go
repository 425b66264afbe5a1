package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Logging  LoggingConfig
	EventBus EventBusConfig
	Output   OutputConfig
}

type LoggingConfig struct {
	Level string
}

type EventBusConfig struct {
	// ChannelBufferSize bounds how far the CSV reader may run ahead of the ledger.
	ChannelBufferSize int
}

type OutputConfig struct {
	// DisputedPath, when set, receives the ids of transactions still disputed
	// at the end of the run.
	DisputedPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env file: %v, using environment and defaults", err)
	}

	return &Config{
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		EventBus: EventBusConfig{
			ChannelBufferSize: getPositiveIntEnv("EVENT_CHANNEL_BUFFER_SIZE", 1024),
		},
		Output: OutputConfig{
			DisputedPath: getEnv("DISPUTED_OUTPUT_PATH", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getPositiveIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 1 {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}
