package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	Env             string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// AllowedOrigins is the CORS allow-list; FrontendURL is the first origin,
	// used to build the payment redirect URLs.
	AllowedOrigins []string
	FrontendURL    string
	BackendURL     string

	MPAccessToken string
	MPTimeout     time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsFile string
}

// FromEnv builds Config with defaults, overridden by environment variables.
// MP_ACCESS_TOKEN, FIREBASE_PROJECT_ID and FRONTEND_URL are required.
func FromEnv() (Config, error) {
	var missing []string
	for _, key := range []string{"MP_ACCESS_TOKEN", "FIREBASE_PROJECT_ID", "FRONTEND_URL"} {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	addr := envOrDefault("HTTP_ADDR", ":3000")
	origins := parseOrigins(os.Getenv("FRONTEND_URL"))
	if len(origins) == 0 {
		return Config{}, fmt.Errorf("FRONTEND_URL contains no usable origin")
	}

	cfg := Config{
		Env:                     envOrDefault("APP_ENV", "development"),
		HTTPAddr:                addr,
		ShutdownTimeout:         envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		AllowedOrigins:          origins,
		FrontendURL:             normalizeURL(origins[0]),
		BackendURL:              normalizeURL(envOrDefault("BACKEND_URL", "http://localhost"+addr)),
		MPAccessToken:           os.Getenv("MP_ACCESS_TOKEN"),
		MPTimeout:               envDuration("MP_TIMEOUT_SECONDS", 5*time.Second),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
	}
	return cfg, nil
}

func parseOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func normalizeURL(value string) string {
	return strings.TrimSuffix(value, "/")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
