package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "AIHUB_"

// APIKeyEnvVars are consulted in order for the gateway credential.
// The first non-empty value wins and takes precedence over the file.
var APIKeyEnvVars = []string{"AIHUB_API_KEY", "OPENROUTER_API_KEY", "VITE_OPENROUTER_API_KEY"}

// DefaultEnvFile is loaded when no explicit env file is given and it exists.
const DefaultEnvFile = ".env"

// LoadConfig loads configuration from a YAML file at the specified path.
// An empty path yields the defaults. It applies default values, validates
// the configuration, and returns any errors. Environment variables are not
// consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention AIHUB_SECTION_FIELD (e.g., AIHUB_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Read gateway.api_key_file when no key was found
// 5. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if cfg.Gateway.APIKey == "" && cfg.Gateway.APIKeyFile != "" {
		key, err := ReadSecretFile(cfg.Gateway.APIKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read gateway.api_key_file: %w", err)
		}
		cfg.Gateway.APIKey = key
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables already set are left untouched. An empty path means
// DefaultEnvFile, which is optional; an explicit path must exist.
func LoadEnvFile(path string) error {
	optional := path == ""
	if optional {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

// ResolveAPIKey returns the first credential found in APIKeyEnvVars, or fallback.
func ResolveAPIKey(fallback string) string {
	for _, name := range APIKeyEnvVars {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return strings.TrimSpace(fallback)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format AIHUB_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Gateway overrides
	cfg.Gateway.APIKey = ResolveAPIKey(cfg.Gateway.APIKey)
	envString("GATEWAY_API_KEY_FILE", &cfg.Gateway.APIKeyFile)
	envString("GATEWAY_BASE_URL", &cfg.Gateway.BaseURL)
	envString("GATEWAY_SITE_URL", &cfg.Gateway.SiteURL)
	envString("GATEWAY_SITE_NAME", &cfg.Gateway.SiteName)
	envString("GATEWAY_SYSTEM_INSTRUCTION", &cfg.Gateway.SystemInstruction)
	envFloat("GATEWAY_TEMPERATURE", &cfg.Gateway.Temperature)
	envDuration("GATEWAY_ATTEMPT_TIMEOUT", &cfg.Gateway.AttemptTimeout)
	envBool("GATEWAY_DEDUPE_ANALYSIS", &cfg.Gateway.DedupeAnalysis)
	if val := os.Getenv(EnvPrefix + "GATEWAY_MODELS"); val != "" {
		cfg.Gateway.Models = splitList(val)
	}

	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	if val := os.Getenv(EnvPrefix + "SERVER_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.AllowedOrigins = splitList(val)
	}
	envInt("SERVER_MAX_IN_FLIGHT", &cfg.Server.MaxInFlight)
	envBool("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	envString("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	envString("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envString("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	envFloat("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// splitList splits a comma separated value, dropping empty items.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
