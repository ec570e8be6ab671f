package config

import (
	"net/http"
	"os"
	"strconv"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	HTTP   HTTPConfig
	Engine EngineConfig
	Auth   AuthConfig
}

type HTTPConfig struct {
	// Status returned when the candidate move fails to parse against the
	// position. The original service surfaced illegal moves as 500; set
	// ILLEGAL_MOVE_HTTP_STATUS=400 to treat them as client errors.
	IllegalMoveStatus int
}

type EngineConfig struct {
	Path        string
	MoveTime    int  // milliseconds per engine query
	DepthOrTime bool // true for depth, false for time
	Depth       int
}

type AuthConfig struct {
	Issuer   string
	Audience string
}

// LoadConfig reads configuration from the environment. Every field has a
// working default so the service runs with no env at all, matching the
// original deployment (stockfish on PATH, 100ms per query).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			IllegalMoveStatus: getenvInt("ILLEGAL_MOVE_HTTP_STATUS", http.StatusInternalServerError),
		},
		Engine: EngineConfig{
			Path:        getenvDefault("ENGINE_PATH", "stockfish"),
			MoveTime:    getenvInt("ENGINE_MOVE_TIME", 100),
			Depth:       getenvInt("ENGINE_DEPTH", 12),
			DepthOrTime: getenvBool("ENGINE_DEPTH_OR_TIME", false),
		},
		Auth: AuthConfig{
			Issuer:   os.Getenv("AUTH_ISSUER"),
			Audience: os.Getenv("AUTH_AUDIENCE"),
		},
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
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
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
