package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBConnStr         string
	JWTSecret         []byte
	ServerPort        string
	RedisAddr         string
	RedisPassword     string
	AllowedOrigins    []string
	LowStockThreshold int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	ClientRedirectURI  string
}

// GoogleOAuthEnabled reports whether enough is configured to mount the
// Google sign-in routes.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURI != ""
}

func Load() *Config {
	threshold := 2
	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			threshold = n
		}
	}

	return &Config{
		DBConnStr:         getEnvOrDefault("DB_CONN", "host=localhost port=5432 user=postgres dbname=shopdb sslmode=disable"),
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		ServerPort:        getEnvOrDefault("PORT", "8080"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		AllowedOrigins:    splitList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		LowStockThreshold: threshold,

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		ClientRedirectURI:  os.Getenv("CLIENT_REDIRECT_URI"),
	}
}

// Validate fails fast on settings the server cannot run without.
func (c *Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("JWT_SECRET is not set in environment")
	}
	if c.DBConnStr == "" {
		return errors.New("DB_CONN is not set in environment")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
