package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Google Cloud / Firebase
	GoogleProjectID     string
	FirebaseCredentials string

	// Pub/Sub topics, one per event stream
	CommentTopic         string
	ClassNotifTopic      string
	MultiClassNotifTopic string

	// Upper bound for one multicast dispatch call
	DispatchTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	dispatchTimeout := 10 * time.Second
	if exp := os.Getenv("DISPATCH_TIMEOUT"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			dispatchTimeout = parsed
		}
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=classlink port=5432 sslmode=disable"),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:      accessExpiry,
		JWTRefreshExpiry:     refreshExpiry,
		GoogleProjectID:      getEnv("GOOGLE_PROJECT_ID", ""),
		FirebaseCredentials:  getEnv("FIREBASE_CREDENTIALS", ""),
		CommentTopic:         getEnv("PUBSUB_COMMENT_TOPIC", "comments"),
		ClassNotifTopic:      getEnv("PUBSUB_CLASS_NOTIF_TOPIC", "class-notifications"),
		MultiClassNotifTopic: getEnv("PUBSUB_MULTI_CLASS_NOTIF_TOPIC", "multi-class-notifications"),
		DispatchTimeout:      dispatchTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
