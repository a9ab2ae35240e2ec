package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config collects every knob the server reads from the environment, so
// handlers never reach for os.Getenv themselves.
type Config struct {
	Port    string // PORT, default "8080"
	BaseURL string // BASE_URL, default "http://localhost:8080"

	// Database. DB_DSN is a MySQL DSN; when it is empty the server falls
	// back to a local SQLite file (SQLITE_PATH, default "pos_dev.db").
	DBDSN      string
	SQLitePath string

	// CORS_ORIGIN, default the Vite dev server.
	CORSOrigin string

	// JWT_SECRET signs local-login tokens. ALLOW_REGISTRATION opens /register.
	JWTSecret         string
	AllowRegistration bool

	// Google OAuth. Empty client id/secret disables the flow.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string // GOOGLE_REDIRECT_URI, default BaseURL + "/auth/callback"
	StaffEmailDomain   string // STAFF_EMAIL_DOMAIN; logins from it start as admin

	// OAuth session lifetime. SESSION_TTL_HOURS, default 168 (7 days).
	SessionTTL time.Duration

	// SMTP for low-stock alert mail. Alerts stay off unless SMTP_HOST is set.
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	AlertFrom string // ALERT_FROM, default SMTP_USER
	AlertTo   string // ALERT_TO, comma-separated
}

// Load reads .env (if present) and builds the config with defaults applied.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := Config{
		Port:               getenv("PORT", "8080"),
		BaseURL:            getenv("BASE_URL", "http://localhost:8080"),
		DBDSN:              os.Getenv("DB_DSN"),
		SQLitePath:         getenv("SQLITE_PATH", "pos_dev.db"),
		CORSOrigin:         getenv("CORS_ORIGIN", "http://localhost:5173"),
		JWTSecret:          getenv("JWT_SECRET", "dev_only_change_me"),
		AllowRegistration:  os.Getenv("ALLOW_REGISTRATION") == "true",
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		StaffEmailDomain:   os.Getenv("STAFF_EMAIL_DOMAIN"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		AlertTo:            os.Getenv("ALERT_TO"),
	}

	cfg.GoogleRedirectURI = getenv("GOOGLE_REDIRECT_URI", cfg.BaseURL+"/auth/callback")
	cfg.AlertFrom = getenv("ALERT_FROM", cfg.SMTPUser)
	cfg.SMTPPort = getenvInt("SMTP_PORT", 587)

	ttlHours := getenvInt("SESSION_TTL_HOURS", 168)
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
