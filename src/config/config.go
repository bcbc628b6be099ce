package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// Historical FX provider (frankfurter.app compatible)
	FXAPIURL        string        `env:"FX_API_URL" envDefault:"https://api.frankfurter.app"`
	FXAPITimeout    time.Duration `env:"FX_API_TIMEOUT" envDefault:"5s"`
	FXAPIRPS        float64       `env:"FX_API_RPS" envDefault:"10"`
	FXCacheFallback bool          `env:"FX_CACHE_FALLBACK" envDefault:"true"`

	MaxUploadSizeBytes int64         `env:"MAX_UPLOAD_SIZE_BYTES" envDefault:"10485760"`
	ResultTTL          time.Duration `env:"RESULT_TTL" envDefault:"15m"`
	OutputDir          string        `env:"OUTPUT_DIR" envDefault:"outputs"`

	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"30"`
}

var Cfg *AppConfig

// LoadConfig reads .env (if present) and the process environment into Cfg.
func LoadConfig() {
	if errEnv := godotenv.Load(); errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults.")
	} else {
		log.Println(".env file loaded successfully.")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}
	Cfg = cfg
}

// Parse builds an AppConfig from the environment without touching Cfg.
func Parse() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.FXAPITimeout <= 0 {
		return fmt.Errorf("FX_API_TIMEOUT must be positive, got %s", c.FXAPITimeout)
	}
	if c.FXAPIRPS <= 0 {
		return fmt.Errorf("FX_API_RPS must be positive, got %v", c.FXAPIRPS)
	}
	if c.MaxUploadSizeBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_BYTES must be positive, got %d", c.MaxUploadSizeBytes)
	}
	c.FXAPIURL = strings.TrimRight(c.FXAPIURL, "/")
	if c.FXAPIURL == "" {
		return fmt.Errorf("FX_API_URL must not be empty")
	}
	return nil
}
