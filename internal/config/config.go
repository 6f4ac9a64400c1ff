package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment. A .env file
// is honored when present so local development does not need exported vars.
type Config struct {
	Port          string
	DBHost        string
	DBPort        string
	DBUsername    string
	DBPassword    string
	DBDatabase    string
	SessionSecret string
}

func Load() *Config {
	_ = godotenv.Load()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}

	return &Config{
		Port:          getenv("PORT", "8080"),
		DBHost:        getenv("TODO_DB_HOST", "localhost"),
		DBPort:        getenv("TODO_DB_PORT", "5432"),
		DBUsername:    getenv("TODO_DB_USERNAME", "postgres"),
		DBPassword:    os.Getenv("TODO_DB_PASSWORD"),
		DBDatabase:    getenv("TODO_DB_DATABASE", "todoweb"),
		SessionSecret: sessionSecret,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
