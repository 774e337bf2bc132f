package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	User           string        `yaml:"user" validate:"required"`
	Locale         string        `yaml:"locale" validate:"oneof=en ru"`
	FreezeAfter    time.Duration `yaml:"freeze_after" validate:"min=1s"`
	LogLevel       string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile        string        `yaml:"log_file" validate:"required"`
	SeedFile       string        `yaml:"seed_file,omitempty"`
	AttachmentsDir string        `yaml:"attachments_dir,omitempty"`
}

var validate = validator.New()

// GetConfigDir returns the path to the data directory (~/.sibchat).
func GetConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".sibchat")
}

// DefaultPath returns the config file location, honouring SIBCHAT_CONFIG.
func DefaultPath() string {
	return getEnv("SIBCHAT_CONFIG", filepath.Join(GetConfigDir(), "config.yml"))
}

func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		User:           "Юрий",
		Locale:         "ru",
		FreezeAfter:    60 * time.Second,
		LogLevel:       "info",
		LogFile:        filepath.Join(GetConfigDir(), "sibchat.log"),
		AttachmentsDir: homeDir,
	}
}

// Load reads the YAML config at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.LogFile = expandHome(cfg.LogFile)
	cfg.SeedFile = expandHome(cfg.SeedFile)
	cfg.AttachmentsDir = expandHome(cfg.AttachmentsDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
