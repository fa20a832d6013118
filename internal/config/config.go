package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string

	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey              string
	JWTAccessTokenExpireMin   int
	JWTRefreshTokenExpireDays int

	// Routing
	RoutingProvider    string // "seeded" or "osrm"
	RouteCacheMode     string // "precompute" or "ondemand"
	OSRMBaseURL        string
	OSRMTimeoutSeconds int

	// Moderation
	ProfanityExtraTerms  string // comma-separated extra dictionary terms
	MessageDefaultStatus string // status assigned to new messages

	// SOS escalation
	SOSEscalationEmail string

	// Email (SMTP)
	EmailHost         string
	EmailPort         int
	EmailHostUser     string
	EmailHostPassword string
	EmailUseTLS       bool
	DefaultFromEmail  string

	// Firebase
	FirebaseCredentialsPath string

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL wins, otherwise built from POSTGRES_* vars
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin:   getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		JWTRefreshTokenExpireDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		// Routing
		RoutingProvider:    getEnv("ROUTING_PROVIDER", "seeded"),
		RouteCacheMode:     getEnv("ROUTE_CACHE_MODE", "ondemand"),
		OSRMBaseURL:        getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		OSRMTimeoutSeconds: getEnvAsInt("OSRM_TIMEOUT_SECONDS", 10),

		// Moderation
		ProfanityExtraTerms:  getEnv("PROFANITY_EXTRA_TERMS", ""),
		MessageDefaultStatus: getEnv("MESSAGE_DEFAULT_STATUS", "pending"),

		// SOS escalation
		SOSEscalationEmail: getEnv("SOS_ESCALATION_EMAIL", ""),

		// Email
		EmailHost:         getEnv("EMAIL_HOST", ""),
		EmailPort:         getEnvAsInt("EMAIL_PORT", 587),
		EmailHostUser:     getEnv("EMAIL_HOST_USER", ""),
		EmailHostPassword: getEnv("EMAIL_HOST_PASSWORD", ""),
		EmailUseTLS:       getEnvAsBool("EMAIL_USE_TLS", true),
		DefaultFromEmail:  getEnv("DEFAULT_FROM_EMAIL", ""),

		// Firebase
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

// OnDemandRouting reports whether missing routes may be fetched from the
// external provider at request time.
func (c *Config) OnDemandRouting() bool {
	return c.RouteCacheMode == "ondemand" && c.RoutingProvider == "osrm"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "mavwalk")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
