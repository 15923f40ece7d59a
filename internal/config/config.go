package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const defaultPort = "5000"

// Load reads the .env file (when present) and fatals on any missing
// required variable, so a misconfigured process dies at startup
// instead of on the first request.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using process environment")
	}

	for _, key := range []string{"JWT_SECRET", "MONGO_URI", "MONGO_DB_NAME", "MYSQL_DSN"} {
		if os.Getenv(key) == "" {
			log.Fatalf("%s is not set in environment", key)
		}
	}
}

func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return defaultPort
}
