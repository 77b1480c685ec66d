package config // package config loads console configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. The backend base URL is the one value with no safe
// default: the console is nothing without its API.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port the console listens on
	APIBaseURL        string        // base URL of the medicine-inventory backend, incl. path prefix
	TokenFile         string        // path of the file-backed credential store
	RegisterAutoLogin bool          // whether register chains into an automatic login
	PageSize          int           // fixed rows-per-page of the inventory table
	HTTPTimeout       time.Duration // timeout for outgoing backend calls
	OAuthProvider     string        // provider segment of /oauth2/authorization/{provider}
	AMQPURL           string        // audit queue broker; empty disables auditing
}

// Load reads configuration from environment variables. Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message; everything else has a sensible default.
func Load() Config {
	return Config{
		Env:               getenv("APP_ENV", "dev"),
		Port:              getenv("APP_PORT", "8090"),
		APIBaseURL:        must("API_BASE_URL"),
		TokenFile:         getenv("TOKEN_FILE", defaultTokenFile()),
		RegisterAutoLogin: getenv("REGISTER_AUTO_LOGIN", "true") == "true",
		PageSize:          atoi(getenv("PAGE_SIZE", "20")),
		HTTPTimeout:       parseDur(getenv("HTTP_TIMEOUT", "10s")),
		OAuthProvider:     getenv("OAUTH_PROVIDER", "yandex"),
		AMQPURL:           firstEnv("AMQP_URL", "RABBITMQ_URL"),
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".medfront/authToken"
	}
	return home + "/.medfront/authToken"
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return strings.TrimSpace(v)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func atoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return 20
	}
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
