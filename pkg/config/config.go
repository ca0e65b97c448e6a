package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is the server's environment-derived configuration.
type Config struct {
	Port               string
	Env                string
	PostgresURL        string
	MongoURI           string
	MongoDatabase      string
	JWTSecret          string
	FCMCredentialsPath string
}

// Load reads configuration from the environment, falling back to development
// defaults. A .env file in the working directory is applied first, so it must
// be loaded before any variable is read. FCMCredentialsPath is optional; when
// empty, mobile push is disabled and notifications are delivered over the
// WebSocket channel only.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		PostgresURL:        getEnv("POSTGRES_URL", "postgres://localhost:5432/travo"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "travo"),
		JWTSecret:          getEnv("JWT_SECRET", "travo-dev-secret"),
		FCMCredentialsPath: getEnv("FCM_CREDENTIALS_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
