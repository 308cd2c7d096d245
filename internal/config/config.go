// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	// Storage collaborator
	DBDriver      string
	DBDSN         string
	StorageRegion string

	// Token validation
	JWTSecretKey string
	JWTAlgorithm string

	// Notification collaborator
	PusherAppID   string
	PusherKey     string
	PusherSecret  string
	PusherCluster string
	PusherSSL     bool

	AllowedOrigins []string
	// Proxies whose X-Forwarded-For is believed; empty trusts none.
	TrustedProxies []string

	// Failed-authentication throttling
	AuthMaxFailures   int
	AuthFailureWindow time.Duration
	AuthBanDuration   time.Duration
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: env,

		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:         getEnv("DB_DSN", "chatrelay.db"),
		StorageRegion: getEnv("AWS_REGION", ""),

		JWTSecretKey: getEnv("SECRET_KEY", ""),
		JWTAlgorithm: getEnv("ALGORITHM", "HS256"),

		PusherAppID:   getEnv("PUSHER_APP_ID", ""),
		PusherKey:     getEnv("PUSHER_KEY", ""),
		PusherSecret:  getEnv("PUSHER_SECRET", ""),
		PusherCluster: getEnv("PUSHER_CLUSTER", ""),
		PusherSSL:     getEnvAsBool("PUSHER_SSL", false),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),

		AuthMaxFailures:   getEnvAsInt("AUTH_MAX_FAILURES", 20),
		AuthFailureWindow: getEnvAsDuration("AUTH_FAILURE_WINDOW", 15*time.Minute),
		AuthBanDuration:   getEnvAsDuration("AUTH_BAN_DURATION", 15*time.Minute),
	}
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// PusherEnabled reports whether enough Pusher credentials are present to publish.
func (c *Config) PusherEnabled() bool {
	return c.PusherAppID != "" && c.PusherKey != "" && c.PusherSecret != ""
}

// Validate checks the values every environment needs. Pusher credentials are
// only required in production; elsewhere the in-process websocket hub is enough.
func (c *Config) Validate() error {
	missing := []string{}
	if c.JWTSecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if c.JWTAlgorithm == "" {
		missing = append(missing, "ALGORITHM")
	}
	if c.IsProduction() {
		if c.PusherAppID == "" {
			missing = append(missing, "PUSHER_APP_ID")
		}
		if c.PusherKey == "" {
			missing = append(missing, "PUSHER_KEY")
		}
		if c.PusherSecret == "" {
			missing = append(missing, "PUSHER_SECRET")
		}
		if c.PusherCluster == "" {
			missing = append(missing, "PUSHER_CLUSTER")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsBool accepts "True" as well, which is how the Pusher settings are usually written.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as bool. Using default value.", key)
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
