// Package config loads client configuration from a YAML file and/or
// environment variables, environment taking precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration for the auth client.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Routes  RouteConfig   `yaml:"routes"`
	Social  SocialConfig  `yaml:"social"`
}

// APIConfig describes the remote auth service endpoint.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url" env:"API_URL" env-default:"http://localhost:5000/api"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"API_REQUEST_TIMEOUT" env-default:"15s"`
	RefreshTimeout time.Duration `yaml:"refresh_timeout" env:"API_REFRESH_TIMEOUT" env-default:"10s"`
}

// StorageConfig locates the durable credential store.
type StorageConfig struct {
	CredentialFile string `yaml:"credential_file" env:"CREDENTIAL_FILE" env-default:""`
}

// RouteConfig holds the application routes the gating logic redirects to.
type RouteConfig struct {
	Login   string `yaml:"login" env:"ROUTE_LOGIN" env-default:"/login"`
	Landing string `yaml:"landing" env:"ROUTE_LANDING" env-default:"/dashboard"`
}

// SocialConfig configures third-party login providers. A provider with an
// empty client ID is treated as disabled.
type SocialConfig struct {
	GoogleClientID   string `yaml:"google_client_id" env:"SOCIAL_GOOGLE_CLIENT_ID" env-default:""`
	FacebookClientID string `yaml:"facebook_client_id" env:"SOCIAL_FACEBOOK_CLIENT_ID" env-default:""`
	CallbackURL      string `yaml:"callback_url" env:"SOCIAL_CALLBACK_URL" env-default:""`
}

// MustLoad wraps Load and panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from the given YAML file when present, then
// overlays environment variables. An empty path loads from environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	return &cfg, nil
}
