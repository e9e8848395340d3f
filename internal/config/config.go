package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Name           string // display name; prompted for when empty and none is stored
	WSBase         string
	ReconnectDelay time.Duration
	Constrained    bool // selects the smaller particle batch
	IdentityPath   string
	DatabaseURL    string
	DiagAddr       string
	ChatHistory    int
	AudioPoolSize  int
	ParticleTTL    time.Duration
	Title          string
	Verbose        bool
}

func Load() Config {
	cfg := Config{
		Name:           os.Getenv("BEATMEAT_NAME"),
		WSBase:         getEnv("BEATMEAT_WS_BASE", "ws://localhost:8000"),
		ReconnectDelay: getEnvDuration("BEATMEAT_RECONNECT_DELAY", 3*time.Second),
		Constrained:    getEnvBool("BEATMEAT_CONSTRAINED", false),
		IdentityPath:   getEnv("BEATMEAT_IDENTITY_PATH", defaultIdentityPath()),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DiagAddr:       os.Getenv("BEATMEAT_DIAG_ADDR"),
		ChatHistory:    getEnvInt("BEATMEAT_CHAT_HISTORY", 200),
		AudioPoolSize:  getEnvInt("BEATMEAT_AUDIO_POOL", 3),
		ParticleTTL:    getEnvDuration("BEATMEAT_PARTICLE_TTL", 2*time.Second),
		Title:          getEnv("BEATMEAT_TITLE", "Beat Meat!"),
		Verbose:        getEnvBool("BEATMEAT_VERBOSE", false),
	}
	return cfg
}

func defaultIdentityPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "identity.json"
	}
	return filepath.Join(home, ".beatmeat", "identity.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
