package common

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SqliteDB      string
	SessionSecret string
	Port          string
	Domain        string
	CacheMaxAge   time.Duration
	UploadDir     string

	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPassword       string
	SMTPFrom           string
	ContactNotifyEmail string
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system environment")
	} else {
		log.Println(".env file loaded")
	}

	cfg := &Config{
		SqliteDB:           os.Getenv("sqlite_db"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		Port:               getEnvDefault("PORT", "8080"),
		Domain:             strings.TrimSuffix(getEnvDefault("DOMAIN", "http://localhost:8080"), "/"),
		CacheMaxAge:        time.Duration(getEnvInt("CACHE_MAX_AGE", 10)) * time.Minute,
		UploadDir:          getEnvDefault("UPLOAD_DIR", "public/uploads"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           getEnvDefault("SMTP_PORT", "587"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:           os.Getenv("SMTP_FROM"),
		ContactNotifyEmail: os.Getenv("CONTACT_NOTIFY_EMAIL"),
	}

	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
