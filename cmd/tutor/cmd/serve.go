package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/api"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the tutor API server.

The server exposes session management over REST plus an SSE stream of
lifecycle events for frontend consumption.

Examples:
  # Start with defaults (127.0.0.1:8787)
  tutor serve

  # Start on a custom host and port
  tutor serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "",
		"Host address to bind to (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger

	host := rt.cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := rt.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	server := api.NewServer(rt.engine, rt.bus,
		api.WithLogger(logger),
		api.WithAllowedOrigins(rt.cfg.Server.AllowedOrigins))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx, addr, rt.cfg.Server.ShutdownTimeout)
	})

	// Live-reload the log level when the config file changes.
	if configFile := configFileInUse(); configFile != "" {
		watcher := config.NewWatcher(configFile, logger, func(fresh *config.Config) {
			logger.SetLevel(fresh.Log.Level)
			logger.Info("configuration reloaded", "log_level", fresh.Log.Level)
		})
		g.Go(func() error {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("config watcher stopped", "error", err.Error())
			}
			return nil
		})
	}

	logger.Info("server running", "addr", addr)
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// configFileInUse reports the config file viper resolved, explicit flag
// first.
func configFileInUse() string {
	if cfgFile != "" {
		return cfgFile
	}
	return viper.GetViper().ConfigFileUsed()
}
