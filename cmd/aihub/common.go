package main

import (
	"context"
	"io"
	"time"

	"atomic-explorer/aihub/pkg/cli"
	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/gateway"
	"atomic-explorer/aihub/pkg/telemetry"
)

// telemetryFlushTimeout bounds the final span export.
const telemetryFlushTimeout = 5 * time.Second

// loadConfig loads the config file named by --config with environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", "failed to load config", err)
	}
	return cfg, nil
}

// newTelemetry builds telemetry writing logs to w. One-shot commands only
// show warnings unless --verbose is set.
func newTelemetry(cfg *config.Config, w io.Writer, oneShot bool) (*telemetry.Telemetry, error) {
	tcfg := cfg.Telemetry
	switch {
	case verbose:
		tcfg.Logging.Level = "debug"
	case oneShot:
		tcfg.Logging.Level = "warn"
	}
	if oneShot {
		tcfg.Metrics.Enabled = false
	}
	return telemetry.New(&tcfg, w)
}

// session is the gateway and telemetry used by one command invocation.
type session struct {
	cfg       *config.Config
	telemetry *telemetry.Telemetry
	gateway   *gateway.Gateway
}

// newSession loads configuration and builds a gateway for a one-shot command.
func newSession(logOut io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tel, err := newTelemetry(cfg, logOut, true)
	if err != nil {
		return nil, cli.NewConfigError("telemetry", "failed to initialize telemetry", err)
	}

	gw, err := gateway.NewFromConfig(&cfg.Gateway, tel)
	if err != nil {
		return nil, cli.NewConfigError("gateway", "failed to build gateway", err)
	}

	return &session{cfg: cfg, telemetry: tel, gateway: gw}, nil
}

// Close releases the gateway's connections and flushes telemetry.
func (s *session) Close() {
	_ = s.gateway.Close()

	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	_ = s.telemetry.Shutdown(ctx)
}

// newSpinner returns a spinner on w, or nil when --quiet is set.
func newSpinner(w io.Writer) *cli.Spinner {
	if quiet {
		return nil
	}
	return cli.NewSpinner(w)
}
