package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	MaleSource   string
	FemaleSource string

	Port     string
	GinMode  string
	LogLevel string

	LoadConcurrency int
	MaxRetries      int
	HTTPTimeoutSec  int

	TopLimit           int
	BoxDefaultBrands   int
	StripDefaultBrands int
	ViolinCeiling      float64

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ExportDir    string
	SnapshotURL  string
	SnapshotPath string
	ChromeBin    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	port := getEnv("PORT", "8080")

	return &Config{
		MaleSource:   getEnv("MALE_SOURCE", "./data/ebay_mens_perfume.csv"),
		FemaleSource: getEnv("FEMALE_SOURCE", "./data/ebay_womens_perfume.csv"),

		Port:     port,
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		LoadConcurrency: getEnvInt("LOAD_CONCURRENCY", 2),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		HTTPTimeoutSec:  getEnvInt("HTTP_TIMEOUT_SEC", 30),

		TopLimit:           getEnvInt("TOP_LIMIT", 10),
		BoxDefaultBrands:   getEnvInt("BOX_DEFAULT_BRANDS", 5),
		StripDefaultBrands: getEnvInt("STRIP_DEFAULT_BRANDS", 10),
		ViolinCeiling:      getEnvFloat("VIOLIN_PRICE_CEILING", 300),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard123"),
		PostgresDB:       getEnv("POSTGRES_DB", "perfume_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ExportDir:    getEnv("EXPORT_DIR", "./output"),
		SnapshotURL:  getEnv("SNAPSHOT_URL", "http://localhost:"+port+"/"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./output/dashboard.png"),
		ChromeBin:    getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Debug reports whether debug-level logging was requested.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
