package config

import "time"

// Default values for configuration fields.
const (
	// Gateway defaults
	DefaultBaseURL           = "https://openrouter.ai/api/v1"
	DefaultSiteURL           = "http://localhost:5173"
	DefaultSiteName          = "Atomic Explorer"
	DefaultTemperature       = 0.7
	DefaultAttemptTimeout    = 30 * time.Second
	DefaultDedupeAnalysis    = true
	DefaultMaxIdleConns      = 100
	DefaultMaxIdleConnsHost  = 10
	DefaultIdleConnTimeout   = 90 * time.Second
	DefaultSystemInstruction = "You are Atomic Explorer, a chemistry assistant. Keep answers short, scientific, and helpful. Use bolding for element names."

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8787"
	DefaultReadTimeout     = 15 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultMaxInFlight     = 64
	DefaultTLSMinVersion   = "1.3"
	DefaultTLSReload       = 5 * time.Minute

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultRedactSecrets      = true
	DefaultMetricsEnabled     = true
	DefaultPrometheusPath     = "/metrics"
	DefaultMetricsNamespace   = "atomic_explorer"
	DefaultMetricsSubsystem   = "aihub"
	DefaultTracingEnabled     = false
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingService     = "atomic-explorer-aihub"
	DefaultTracingInsecure    = true
	DefaultTracingTimeout     = 10 * time.Second
	DefaultLivenessPath       = "/healthz"
	DefaultReadinessPath      = "/readyz"
	DefaultVersionPath        = "/version"
	DefaultHealthCheckTimeout = 2 * time.Second
)

// DefaultModels is the ranked free-tier model list used when none is configured.
var DefaultModels = []string{
	"meta-llama/llama-3.2-3b-instruct:free",
	"google/gemini-2.0-flash-lite-preview-02-05:free",
	"google/gemini-2.0-flash-exp:free",
	"meta-llama/llama-3.1-405b-instruct:free",
	"meta-llama/llama-3.1-70b-instruct:free",
	"qwen/qwen-2.5-vl-7b-instruct:free",
	"qwen/qwen-2.5-coder-32b-instruct:free",
	"google/gemma-3-27b-it:free",
	"google/gemma-2-9b-it:free",
	"microsoft/phi-3-mini-128k-instruct:free",
	"mistralai/mistral-7b-instruct:free",
	"huggingfaceh4/zephyr-7b-beta:free",
}

// DefaultLatencyBuckets are the histogram buckets (seconds) for latency metrics.
var DefaultLatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}

// DefaultAllowedOrigins is the development origin of the web UI.
var DefaultAllowedOrigins = []string{"http://localhost:5173"}

// Default returns a configuration with every default applied, including the
// boolean switches whose zero value is not their default. YAML is decoded on
// top of it so that absent keys keep these values.
func Default() *Config {
	cfg := &Config{}
	cfg.Gateway.DedupeAnalysis = DefaultDedupeAnalysis
	cfg.Server.MaxInFlight = DefaultMaxInFlight
	cfg.Telemetry.Logging.RedactSecrets = DefaultRedactSecrets
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Telemetry.Tracing.Enabled = DefaultTracingEnabled
	cfg.Telemetry.Tracing.Insecure = DefaultTracingInsecure
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Gateway defaults
	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = DefaultBaseURL
	}
	if cfg.Gateway.SiteURL == "" {
		cfg.Gateway.SiteURL = DefaultSiteURL
	}
	if cfg.Gateway.SiteName == "" {
		cfg.Gateway.SiteName = DefaultSiteName
	}
	if len(cfg.Gateway.Models) == 0 {
		cfg.Gateway.Models = append([]string(nil), DefaultModels...)
	}
	if cfg.Gateway.Temperature == 0 {
		cfg.Gateway.Temperature = DefaultTemperature
	}
	if cfg.Gateway.SystemInstruction == "" {
		cfg.Gateway.SystemInstruction = DefaultSystemInstruction
	}
	if cfg.Gateway.AttemptTimeout == 0 {
		cfg.Gateway.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.Gateway.MaxIdleConns == 0 {
		cfg.Gateway.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Gateway.MaxIdleConnsPerHost == 0 {
		cfg.Gateway.MaxIdleConnsPerHost = DefaultMaxIdleConnsHost
	}
	if cfg.Gateway.IdleConnTimeout == 0 {
		cfg.Gateway.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.TLS.ReloadInterval == 0 {
		cfg.Server.TLS.ReloadInterval = DefaultTLSReload
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.LatencyBuckets) == 0 {
		cfg.Telemetry.Metrics.LatencyBuckets = append([]float64(nil), DefaultLatencyBuckets...)
	}

	// Tracing defaults
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 && cfg.Telemetry.Tracing.Sampler == "ratio" {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.ExportTimeout == 0 {
		cfg.Telemetry.Tracing.ExportTimeout = DefaultTracingTimeout
	}

	// Health defaults
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Telemetry.Health.VersionPath == "" {
		cfg.Telemetry.Health.VersionPath = DefaultVersionPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
