package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	AllowedOrigins  []string
	SpeedMode       bool
	SpeedTurnSec    int
	NormalTurnSec   int
	RateLimitPerSec int
	ReconnectTTL    time.Duration
	RoomIdleTTL     time.Duration
	SweepInterval   time.Duration
	AvatarBaseURL   string
	Production      bool
}

// Load reads an optional .env file and then the process environment.
// Missing or malformed values fall back to defaults.
func Load() Config {
	// .env is optional; production injects real env vars
	_ = godotenv.Load()

	ginMode := getString("GIN_MODE", "debug")
	return Config{
		Port:            getString("PORT", "42069"),
		GinMode:         ginMode,
		LogLevel:        getString("LOG_LEVEL", "info"),
		AllowedOrigins:  splitList(getString("ALLOWED_ORIGINS", "*")),
		SpeedMode:       getBool("SPEED_MODE", false),
		SpeedTurnSec:    getInt("SPEED_TURN_SEC", 20),
		NormalTurnSec:   getInt("NORMAL_TURN_SEC", 60),
		RateLimitPerSec: getInt("RATE_LIMIT_PER_SEC", 10),
		ReconnectTTL:    getDuration("RECONNECT_TOKEN_TTL", 24*time.Hour),
		RoomIdleTTL:     getDuration("ROOM_IDLE_TTL", 30*time.Minute),
		SweepInterval:   getDuration("ROOM_SWEEP_INTERVAL", time.Minute),
		AvatarBaseURL:   strings.TrimRight(getString("AVATAR_BASE_URL", "/avatars"), "/"),
		Production:      ginMode == "release",
	}
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getString(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getString(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getString(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
