package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// LogFormat is "text" or "json".
	LogFormat string
	LogColors bool

	ServerPort  string
	JWTSecret   string
	CORSOrigins string

	// StoreDriver selects the persistent store: "memory" or "postgres".
	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	AdminEmail    string
	AdminPassword string

	SeedSampleData bool

	BrevoAPIKey  string
	BrevoAPIURL  string
	FromName     string
	FromEmail    string
	ContactEmail string

	StatsCron         string
	StatsTimezone     string
	CertificatePrefix string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		LogColors: getEnvBool("LOG_COLORS", false),

		ServerPort:  getEnv("SERVER_PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "skillnexis"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		AdminEmail:    strings.ToLower(getEnv("ADMIN_EMAIL", "admin@skillnexis.com")),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		SeedSampleData: getEnvBool("SEED_SAMPLE_DATA", true),

		BrevoAPIKey:  getEnv("BREVO_API_KEY", ""),
		BrevoAPIURL:  getEnv("BREVO_API_URL", "https://api.brevo.com/v3/smtp/email"),
		FromName:     getEnv("FROM_NAME", "SkillNexis Contact Form"),
		FromEmail:    getEnv("FROM_EMAIL", "skillnexis.official@gmail.com"),
		ContactEmail: getEnv("CONTACT_EMAIL", "skillnexis.official@gmail.com"),

		StatsCron:         getEnv("STATS_CRON", "@hourly"),
		StatsTimezone:     getEnv("STATS_TIMEZONE", "UTC"),
		CertificatePrefix: getEnv("CERTIFICATE_PREFIX", "SN"),
	}, nil
}

// DSN builds the postgres connection string for the gorm store.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		log.Printf("Config: %s=%q is not a boolean, using %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
