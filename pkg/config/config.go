package config

import "time"

// Config is the root configuration structure for the AI hub.
// It contains the gateway, the HTTP server that exposes it, and telemetry.
type Config struct {
	// Gateway contains the provider list, credential, and request shaping
	// used by every gateway operation.
	Gateway GatewayConfig `yaml:"gateway"`

	// Server contains HTTP server configuration for serve mode.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GatewayConfig contains configuration for the inference gateway.
type GatewayConfig struct {
	// APIKey is the bearer credential shared by all providers.
	// Usually supplied through AIHUB_API_KEY or OPENROUTER_API_KEY instead of
	// the file. A blank key is not a load error; operations report it.
	APIKey string `yaml:"api_key"`

	// APIKeyFile names a file holding the credential, such as a mounted
	// container secret. It is read only when neither the environment nor
	// api_key supply one.
	APIKeyFile string `yaml:"api_key_file"`

	// BaseURL is the OpenAI-compatible API base.
	// Default: "https://openrouter.ai/api/v1"
	BaseURL string `yaml:"base_url"`

	// SiteURL is sent as the HTTP-Referer attribution header.
	// Default: "http://localhost:5173"
	SiteURL string `yaml:"site_url"`

	// SiteName is sent as the X-Title attribution header.
	// Default: "Atomic Explorer"
	SiteName string `yaml:"site_name"`

	// Models is the ranked provider list. Index 0 is tried first.
	// Default: the twelve free-tier models in DefaultModels
	Models []string `yaml:"models"`

	// Temperature is the sampling temperature sent with every request.
	// Default: 0.7
	Temperature float64 `yaml:"temperature"`

	// SystemInstruction is prepended to chat and insight requests.
	SystemInstruction string `yaml:"system_instruction"`

	// AttemptTimeout bounds a single provider attempt. Zero disables the bound.
	// Default: 30s
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`

	// DedupeAnalysis coalesces concurrent identical analysis requests.
	// Default: true
	DedupeAnalysis bool `yaml:"dedupe_analysis"`

	// Connection pool tuning for the shared HTTP client.
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8787"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout must exceed the worst-case failover chain.
	// Default: 0 (no timeout)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits request bodies accepted by the API.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// AllowedOrigins lists origins allowed by CORS. Empty disables CORS headers.
	// Default: ["http://localhost:5173"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxInFlight caps concurrent gateway requests across all clients.
	// Requests over the cap get 503. Zero disables the cap.
	// Default: 64
	MaxInFlight int `yaml:"max_in_flight"`

	// TLS enables HTTPS.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains HTTPS configuration for the API server.
type TLSConfig struct {
	// Enabled switches the listener to TLS.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the lowest accepted protocol version ("1.2" or "1.3").
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// changes, so renewed certificates are served without a restart.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health endpoint configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys and bearer tokens in log records.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "atomic_explorer"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "aihub"
	Subsystem string `yaml:"subsystem"`

	// LatencyBuckets defines histogram buckets for attempt and request latency (seconds).
	// Default: [0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60]
	LatencyBuckets []float64 `yaml:"latency_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "atomic-explorer-aihub"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// ExportTimeout is the timeout for OTLP exports.
	// Default: 10s
	ExportTimeout time.Duration `yaml:"export_timeout"`
}

// HealthConfig contains health endpoint configuration.
type HealthConfig struct {
	// LivenessPath answers while the process is up.
	// Default: "/healthz"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath answers 200 only when the gateway can serve requests.
	// Default: "/readyz"
	ReadinessPath string `yaml:"readiness_path"`

	// VersionPath reports build information.
	// Default: "/version"
	VersionPath string `yaml:"version_path"`

	// CheckTimeout bounds each readiness check.
	// Default: 2s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
