package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vpatch/internal/config"
	"github.com/vango-dev/vpatch/pkg/patch"
	"github.com/vango-dev/vpatch/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live patch server",
		Long: `Run the HTTP and WebSocket patch server.

Configuration is read from vpatch.json or vpatch.toml in the current
directory, or from the file given with --config.

Endpoints:
  POST /patch     one-shot {old, new} patch, replies with ops and HTML
  GET  /ws        live session, each message is a tree document
  GET  /metrics   Prometheus metrics (when metrics.enabled)
  GET  /healthz   liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			srvCfg, err := serverConfig(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.NewHandler(srvCfg).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load(".")
	}
	return config.LoadFile(path)
}

// serverConfig translates a validated file configuration.
func serverConfig(cfg *config.Config) (server.Config, error) {
	diag, err := patch.ParseDiagnostics(cfg.Diagnostics)
	if err != nil {
		return server.Config{}, err
	}
	writeTimeout, err := cfg.Server.WriteDeadline()
	if err != nil {
		return server.Config{}, err
	}

	out := server.DefaultConfig()
	out.Logger = cfg.NewLogger(os.Stderr)
	out.Diagnostics = diag
	out.IsolateHooks = cfg.IsolateHooks
	out.Tracing = cfg.Tracing.Enabled
	out.TracerName = cfg.Tracing.TracerName
	out.ReadLimit = cfg.Server.ReadLimit
	out.WriteTimeout = writeTimeout
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		out.Registry = reg
		out.Namespace = cfg.Metrics.Namespace
		out.Subsystem = cfg.Metrics.Subsystem
	}
	return out, nil
}

