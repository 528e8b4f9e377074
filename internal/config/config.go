package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken           string
	BotUsername        string
	MainChatID         int64
	TopicBlitzID       int64
	TopicBlackMirrorID int64

	WebhookBaseURL string
	WebhookSecret  string
	ServerPort     string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	return &Config{
		BotToken:           os.Getenv("BOT_TOKEN"),
		BotUsername:        getEnv("BOT_USERNAME", "couture_party_bot"),
		MainChatID:         getEnvInt64("MAIN_CHAT_ID", 0),
		TopicBlitzID:       getEnvInt64("TOPIC_BLITZ_ID", 0),
		TopicBlackMirrorID: getEnvInt64("TOPIC_BLACK_MIRROR_ID", 0),
		WebhookBaseURL:     getEnv("WEBHOOK_BASE_URL", ""),
		WebhookSecret:      getEnv("WEBHOOK_SECRET", ""),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "couture"),
		JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-me"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, val, fallback)
		return fallback
	}
	return n
}
