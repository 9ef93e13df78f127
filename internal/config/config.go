// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	CachePath    string
	Cities       []string
	Query        string
	MaxPages     int
	ScanInterval time.Duration
}

// Load reads configuration from the environment. A missing .env file is
// not an error; real deployments set variables directly.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		CachePath:    getEnv("CACHE_PATH", "immoscan-cache.json"),
		Cities:       splitList(getEnv("SCAN_CITIES", "nantes")),
		Query:        getEnv("SCAN_QUERY", "loyer"),
		MaxPages:     getEnvInt("SCAN_MAX_PAGES", 3),
		ScanInterval: getEnvDuration("SCAN_INTERVAL", 30*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
