package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	RedisAddr       string
	RedisDB         int
	FeedCacheTTLSec int

	GeminiKey     string
	ElevenLabsKey string

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string

	FirestoreProjectID string
	FirebaseCreds      string
}

// Load reads .env (if present) and the process environment. The server
// refuses to start without a database and a token secret; everything else
// degrades to a disabled feature.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		FeedCacheTTLSec: getEnvInt("FEED_CACHE_TTL_SECONDS", 60),

		GeminiKey:     getEnv("GEMINI_API_KEY", ""),
		ElevenLabsKey: getEnv("ELEVENLABS_API_KEY", ""),

		CloudinaryCloud:  getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: getEnv("CLOUDINARY_API_SECRET", ""),

		FirestoreProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		FirebaseCreds:      getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
