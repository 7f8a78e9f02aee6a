package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	Env         string

	EvolutionAPIURL string
	EvolutionAPIKey string

	ChatbotWebhookURL string

	RequeueInterval time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              os.Getenv("PORT"),
		Env:               os.Getenv("ENV"),
		EvolutionAPIURL:   os.Getenv("EVOLUTION_API_URL"),
		EvolutionAPIKey:   os.Getenv("EVOLUTION_API_KEY"),
		ChatbotWebhookURL: os.Getenv("CHATBOT_WEBHOOK_URL"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	cfg.RequeueInterval = time.Minute
	if raw := os.Getenv("REQUEUE_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.RequeueInterval = time.Duration(secs) * time.Second
		}
	}

	return cfg
}
