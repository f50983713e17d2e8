package main

import (
	"context"
	"fmt"

	"atomic-explorer/aihub/pkg/cli"
	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/gateway"
	"atomic-explorer/aihub/pkg/server"
	"atomic-explorer/aihub/pkg/telemetry"
	"atomic-explorer/aihub/pkg/telemetry/logging"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AI hub HTTP API",
	Long: `Start the HTTP API used by the Atomic Explorer front end.

With --watch (the default when --config is given) edits to the config file
rebuild the gateway without a restart. Only the gateway section is reloaded;
server and telemetry settings need a restart.

Examples:
  # Start with defaults and environment
  aihub serve

  # Start with a config file and override the listen address
  aihub serve --config aihub.yaml --listen 0.0.0.0:8787

  # Validate config without starting the server
  aihub serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", true, "reload the gateway when the config file changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", "invalid flag override", err)
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	tel, err := newTelemetry(cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return cli.NewConfigError("telemetry", "failed to initialize telemetry", err)
	}
	logger := tel.Logger()

	gw, err := gateway.NewFromConfig(&cfg.Gateway, tel)
	if err != nil {
		return cli.NewConfigError("gateway", "failed to build gateway", err)
	}
	if !gw.HasCredential() {
		logger.Warn("no API key configured; requests will fail until one is set",
			"env", config.APIKeyEnvVars,
		)
	}

	holder := gateway.NewHolder(gw)
	srv := server.NewServer(cfg, holder, tel, versionInfo())

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if cfgFile != "" && serveFlags.watch {
		watcher, err := config.NewWatcher(cfgFile, 0, logger.Slog())
		if err != nil {
			logger.Error("config watching disabled", "error", err)
		} else {
			g.Go(func() error {
				// A broken watcher only stops reloads; the server keeps running.
				if err := watcher.Watch(gctx, func(next *config.Config) {
					reloadGateway(holder, next, tel, logger)
				}); err != nil {
					logger.Error("config watcher stopped", "error", err)
				}
				return nil
			})
		}
	}

	logger.Info("aihub started",
		"version", Version,
		"address", cfg.Server.ListenAddress,
		"providers", gw.Registry().Len(),
	)

	runErr := g.Wait()

	_ = holder.Load().Close()
	flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	if err := tel.Shutdown(flushCtx); err != nil {
		logger.Warn("telemetry shutdown failed", "error", err)
	}

	if runErr != nil {
		return cli.NewCommandError("serve", runErr)
	}
	return nil
}

// reloadGateway builds a gateway from next and publishes it. In-flight
// requests finish on the previous gateway, whose idle connections are then
// released. A config that cannot build a gateway leaves the current one.
func reloadGateway(holder *gateway.Holder, next *config.Config, tel *telemetry.Telemetry, logger *logging.Logger) bool {
	gw, err := gateway.NewFromConfig(&next.Gateway, tel)
	if err != nil {
		logger.Error("gateway reload failed, keeping previous gateway", "error", err)
		return false
	}

	prev := holder.Swap(gw)
	if prev != nil {
		_ = prev.Close()
	}

	logger.Info("gateway reloaded",
		"providers", gw.Registry().Len(),
		"has_credential", gw.HasCredential(),
	)
	return true
}
