package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// Feedback ratings
	RatingMin         = 1
	RatingMax         = 5
	PositiveRatingMin = 4
	NegativeRatingMax = 2

	// Sessions
	TokenTTL  = 72 * time.Hour
	JWTIssuer = "servicom-service"

	// Dashboard
	RecentComplaintsLimit = 5

	// Messaging
	NotificationsQueue = "notifications"
	FeedChannel        = "complaints:feed"

	// Redis keys
	DeactivatedKeyPrefix = "deactivated:"
)

// DatabaseDSN assembles the PostgreSQL DSN from DB_* environment variables.
func DatabaseDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "user"),
		envOr("DB_PASSWORD", "password"),
		envOr("DB_NAME", "servicomdb"),
		envOr("DB_PORT", "5432"),
	)
}

// RedisAddr returns the Redis address.
func RedisAddr() string {
	return envOr("REDIS_ADDR", "localhost:6379")
}

// AMQPURL returns the RabbitMQ connection URL. Empty disables the
// notification queue.
func AMQPURL() string {
	return os.Getenv("AMQP_URL")
}

// JWTSecret returns the token signing secret.
func JWTSecret() []byte {
	return []byte(envOr("JWT_SECRET", "change-me-in-production"))
}

// TelegramToken returns the bot token for the telegram notification sink.
// Empty disables the sink.
func TelegramToken() string {
	return os.Getenv("TELEGRAM_BOT_TOKEN")
}

// ServerAddr returns the HTTP listen address.
func ServerAddr() string {
	return envOr("SERVER_ADDR", ":8080")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
