package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type (
	Config struct {
		BindAddress string   `env:"BIND_ADDRESS" envDefault:"0.0.0.0:8080"`
		TLSDomains  []string `env:"TLS_DOMAINS" envSeparator:","` // e.g. "example.com,example2.com"
		DebugMode   bool     `env:"DEBUG_MODE" envDefault:"true"`
		LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
		MaxUploadMB int64    `env:"MAX_UPLOAD_MB" envDefault:"32"`

		Database   Database
		Auth       Auth       `envPrefix:"AUTH_"`
		Classifier Classifier `envPrefix:"CLASSIFIER_"`
		Storage    Storage    `envPrefix:"STORAGE_"`
	}

	Database struct {
		MySQLDSN   string `env:"MYSQL_DSN"`                              // MySQL will be used if this is set
		SQLiteFile string `env:"SQLITE_FILE" envDefault:"photolabel.db"` // otherwise SQLite
	}

	Auth struct {
		SecretKey string        `env:"SECRET_KEY,required"`
		TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
	}

	Classifier struct {
		URL       string        `env:"URL"` // empty disables classification
		Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
		InputSize uint          `env:"INPUT_SIZE" envDefault:"224"`
		MaxPixels int64         `env:"MAX_PIXELS" envDefault:"40000000"` // larger uploads are rejected undecoded
	}

	// Storage is where uploaded originals are written. Both empty means uploads are not kept.
	Storage struct {
		Dir        string `env:"DIR"`
		S3Bucket   string `env:"S3_BUCKET"`
		S3Region   string `env:"S3_REGION" envDefault:"us-east-1"`
		S3Endpoint string `env:"S3_ENDPOINT"`
		S3Key      string `env:"S3_KEY"`
		S3Secret   string `env:"S3_SECRET"`
	}
)

// Read parses the process environment.
func Read() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Auth.SecretKey == "" {
		return nil, fmt.Errorf("read config: AUTH_SECRET_KEY must not be empty")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("read config: AUTH_TOKEN_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}
	return cfg, nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
