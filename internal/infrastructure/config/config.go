package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server reads from the environment. A
// .env file in the working directory is honored when present.
type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	DataDir         string
	DefaultQuizFile string
	MistakesFile    string
	TrainerDB       string

	MistakesKey  string
	UpstashURL   string
	UpstashToken string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddress:   getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout: getenvDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		DataDir:         getenvDefault("DATA_DIR", "data"),
		DefaultQuizFile: os.Getenv("DEFAULT_QUIZ_FILE"),
		MistakesFile:    getenvDefault("MISTAKES_FILE", "mistakes.json"),
		TrainerDB:       getenvDefault("TRAINER_DB", "trainer.db"),
		MistakesKey:     getenvDefault("MISTAKES_KEY", "mcq:m:mistakes"),
		UpstashURL:      os.Getenv("UPSTASH_REDIS_REST_URL"),
		UpstashToken:    os.Getenv("UPSTASH_REDIS_REST_TOKEN"),
	}
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDurationDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid duration for %s: %v", key, err)
	}
	return d
}
