package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Ledger LedgerConfig `yaml:"ledger"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Transport selects how the MCP server is exposed: "http" or "stdio".
	Transport string `yaml:"transport"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type LedgerConfig struct {
	// CampaignDuration is the fixed window between project creation and its
	// funding deadline.
	CampaignDuration time.Duration `yaml:"-"`
}

// UnmarshalYAML parses campaign_duration from the Go duration string form
// ("720h", "30m") which yaml cannot decode into time.Duration on its own.
func (c *LedgerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		CampaignDuration string `yaml:"campaign_duration"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.CampaignDuration == "" {
		return nil
	}
	dur, err := time.ParseDuration(raw.CampaignDuration)
	if err != nil {
		return fmt.Errorf("invalid campaign_duration: %w", err)
	}
	c.CampaignDuration = dur
	return nil
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			Transport: "http",
		},
		DB: DBConfig{
			Path: "crowdvault.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Ledger: LedgerConfig{
			CampaignDuration: 720 * time.Hour,
		},
	}

	if path := os.Getenv("CROWDVAULT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CROWDVAULT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CROWDVAULT_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CROWDVAULT_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if transport := os.Getenv("CROWDVAULT_TRANSPORT_MODE"); transport != "" {
		cfg.Server.Transport = transport
	}
	if dbPath := os.Getenv("CROWDVAULT_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CROWDVAULT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if durStr := os.Getenv("CROWDVAULT_CAMPAIGN_DURATION"); durStr != "" {
		dur, err := time.ParseDuration(durStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CROWDVAULT_CAMPAIGN_DURATION: %w", err)
		}
		cfg.Ledger.CampaignDuration = dur
	}

	if cfg.Server.Transport != "http" && cfg.Server.Transport != "stdio" {
		return Config{}, fmt.Errorf("invalid transport mode %q: want http or stdio", cfg.Server.Transport)
	}
	if cfg.Ledger.CampaignDuration <= 0 {
		return Config{}, fmt.Errorf("campaign duration must be positive, got %s", cfg.Ledger.CampaignDuration)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
