// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required by the server).
	JWTSecret string

	// Server
	Debug       bool
	Port        string
	TLSDomains  []string
	AdminUsers  []string
	UploadMaxMB int64

	// Import pipeline
	JudgeRosterFile  string
	RegistryCacheTTL time.Duration
	Timezone         string

	// MySQL – used only by cmd/migrate.
	MySQLDSN string
}

// Load reads configuration for the HTTP server and exits if the database
// or JWT settings are missing.
func Load() *Config {
	cfg := read()
	cfg.validate()
	return cfg
}

// LoadCLI reads configuration without validating it. Commands that need a
// database call RequireDB.
func LoadCLI() *Config {
	return read()
}

func read() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "trials")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "trials")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("DEBUG", false)
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("UPLOAD_MAX_MB", 20)
	v.SetDefault("REGISTRY_CACHE_TTL", "10m")
	v.SetDefault("TIMEZONE", "Local")

	return &Config{
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBUser:           v.GetString("DB_USER"),
		DBPass:           v.GetString("DB_PASS"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		Debug:            v.GetBool("DEBUG"),
		Port:             v.GetString("PORT"),
		TLSDomains:       splitTrimmed(v.GetString("TLS_DOMAINS")),
		AdminUsers:       splitTrimmed(v.GetString("ADMIN_USERS")),
		UploadMaxMB:      v.GetInt64("UPLOAD_MAX_MB"),
		JudgeRosterFile:  v.GetString("JUDGE_ROSTER_FILE"),
		RegistryCacheTTL: v.GetDuration("REGISTRY_CACHE_TTL"),
		Timezone:         v.GetString("TIMEZONE"),
		MySQLDSN:         v.GetString("MYSQL_DSN"),
	}
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// Location resolves Timezone; "Local" or an empty value is the server zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsAdmin reports whether username is listed in ADMIN_USERS.
func (c *Config) IsAdmin(username string) bool {
	normalized := strings.ToLower(strings.TrimSpace(username))
	if normalized == "" {
		return false
	}
	for _, admin := range c.AdminUsers {
		if normalized == strings.ToLower(admin) {
			return true
		}
	}
	return false
}

// UploadLimit is the maximum accepted workbook size in bytes.
func (c *Config) UploadLimit() int64 {
	if c.UploadMaxMB <= 0 {
		return 20 << 20
	}
	return c.UploadMaxMB << 20
}

// RequireDB reports an error when no database credentials are configured.
func (c *Config) RequireDB() error {
	if c.DatabaseURL == "" && c.DBPass == "" {
		return errors.New("config: DATABASE_URL or DB_PASS must be set")
	}
	return nil
}

func (c *Config) validate() {
	if err := c.RequireDB(); err != nil {
		log.Fatal(err)
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
