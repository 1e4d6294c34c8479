// Package config loads process settings from an optional YAML file, a local
// .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfFile = "config.yml"

type (
	// Config is everything the server and CLI read at startup.
	Config struct {
		Port           int      `yaml:"port"`
		LogLevel       string   `yaml:"logLevel"`
		MaxUploadBytes int64    `yaml:"maxUploadBytes"`
		Venmo          Venmo    `yaml:"venmo"`
		OCR            OCR      `yaml:"ocr"`
		Dispatch       Dispatch `yaml:"dispatch"`
		Auth           Auth     `yaml:"auth"`
	}

	// Venmo holds the payment network credentials.
	Venmo struct {
		AccessToken string `yaml:"accessToken"`
		BaseURL     string `yaml:"baseURL"`
		// Mock swaps the network for an in-memory fake (local development).
		Mock bool `yaml:"mock"`
	}

	// OCR tunes preprocessing and recognition.
	OCR struct {
		Threshold int      `yaml:"threshold"`
		Languages []string `yaml:"languages"`
		DebugDir  string   `yaml:"debugDir"`
	}

	// Dispatch controls how a payment batch reacts to service errors.
	Dispatch struct {
		ContinueOnError bool `yaml:"continueOnError"`
	}

	// Auth guards the payment endpoint when a secret is set.
	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
	}
)

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:           5000,
		LogLevel:       "info",
		MaxUploadBytes: 10 << 20,
		OCR: OCR{
			Threshold: 150,
			Languages: []string{"eng"},
		},
	}
}

// Load reads .env (never overriding variables already set), then the YAML
// file named by CONF_FILE (config.yml if present), then environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}
	conf := Default()

	confFile := os.Getenv("CONF_FILE")
	explicit := confFile != ""
	if !explicit {
		confFile = defaultConfFile
	}
	b, err := os.ReadFile(confFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, conf); err != nil {
			return nil, fmt.Errorf("error unmarshaling config file '%s': %w", confFile, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("error reading config file '%s': %w", confFile, err)
	}

	if err := applyEnv(conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks ranges that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.OCR.Threshold < 0 || c.OCR.Threshold > 255 {
		return fmt.Errorf("ocr threshold must be within 0-255, got %d", c.OCR.Threshold)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if len(c.OCR.Languages) == 0 {
		return errors.New("at least one ocr language is required")
	}
	return nil
}

func applyEnv(c *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("ACCESS_TOKEN"); v != "" {
		c.Venmo.AccessToken = v
	}
	if v := os.Getenv("VENMO_BASE_URL"); v != "" {
		c.Venmo.BaseURL = v
	}
	if err := envBool("VENMO_MOCK", &c.Venmo.Mock); err != nil {
		return err
	}
	if v := os.Getenv("OCR_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OCR_THRESHOLD: %w", err)
		}
		c.OCR.Threshold = n
	}
	if v := os.Getenv("OCR_LANG"); v != "" {
		c.OCR.Languages = strings.Split(v, "+")
	}
	if v := os.Getenv("OCR_DEBUG_DIR"); v != "" {
		c.OCR.DebugDir = v
	}
	if err := envBool("DISPATCH_CONTINUE_ON_ERROR", &c.Dispatch.ContinueOnError); err != nil {
		return err
	}
	if v := os.Getenv("API_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return nil
}
