package config

import (
	"os"
	"strings"
	"time"
)

// Config carries everything the process needs at startup. The JWT secret is
// handed to the token manager explicitly instead of being read from the
// environment deep inside the auth code.
type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	CORSOrigins  []string
	SendGridKey  string
	SenderEmail  string
}

func Load() Config {
	return Config{
		Port:         getenv("PORT", "8080"),
		DatabasePath: getenv("DATABASE_PATH", "database.json"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     getenvDuration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:  splitCSV(os.Getenv("CORS_ORIGINS")),
		SendGridKey:  os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:  getenv("SENDER_EMAIL", "orders@farm-market.local"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
