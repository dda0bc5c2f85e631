package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server configuration read from the environment
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	// Icon backend
	BackendBaseURL string        `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8080"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
	AssetBaseURL   string        `env:"ASSET_BASE_URL"`
	AddSlotImage   string        `env:"ADD_SLOT_IMAGE" envDefault:"/static/ornament/add.png"`

	// Uploads
	UploadMaxDimension int    `env:"UPLOAD_MAX_DIMENSION" envDefault:"512"`
	CredentialsPath    string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ChromePath         string `env:"CHROME_PATH"`

	// Purchase journal (optional)
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`
}

// IsProduction reports whether ENV=production
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr returns the listen address on all interfaces.
// PORT may carry a leading colon.
func (c Config) Addr() string {
	return "0.0.0.0:" + strings.TrimPrefix(c.Port, ":")
}

// AssetURL returns the base used to resolve icon paths, falling back to the backend URL
func (c Config) AssetURL() string {
	if c.AssetBaseURL != "" {
		return c.AssetBaseURL
	}
	return c.BackendBaseURL
}

// DatabaseDSN returns DATABASE_URL, or a DSN built from DB_* variables.
// An empty string means the journal is disabled.
func (c Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Load reads .env (outside production) and parses the environment into a Config
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if os.Getenv("ENV") != "production" {
		// Overload so .env values win over the shell environment
		if err := godotenv.Overload(envFiles...); err != nil {
			log.Printf("⚠️  .env file not loaded, using system environment variables: %v", err)
		} else {
			log.Printf("✓ Loaded environment variables from %s", strings.Join(envFiles, ", "))
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
