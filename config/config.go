package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DatabaseName is fixed: the collections are shared with the route-planning
// tooling that provisioned them.
const DatabaseName = "RouteManagementDB"

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "water_delivery_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Config holds process configuration resolved once at startup.
type Config struct {
	MongoURI string
	Port     string
}

// Load reads .env (if present) and the environment. MONGO_URI is the one
// required variable; the process fails fast without it.
func Load() *Config {
	_ = godotenv.Load()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Fatal("MONGO_URI environment variable is required")
	}

	return &Config{
		MongoURI: uri,
		Port:     getEnv("PORT", "8080"),
	}
}
