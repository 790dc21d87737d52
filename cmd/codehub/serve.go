package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caffeineduck/codehub/config"
	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/logging"
	"github.com/caffeineduck/codehub/metrics"
	"github.com/caffeineduck/codehub/natshandler"
	"github.com/caffeineduck/codehub/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the playground HTTP server",
	Long: `Start the playground: the web editor at / and the JSON API under /api.

Endpoints:
  GET    /api/languages              Supported languages
  GET    /api/samples/{lang}         Starter sample
  POST   /api/samples/switch         Switch language, keeping edited code
  POST   /api/execute                Run with queued inputs
  POST   /api/runs                   Start an interactive run
  GET    /api/runs/{id}              Run state (?wait=true blocks)
  POST   /api/runs/{id}/input        Answer the pending prompt
  DELETE /api/runs/{id}              Cancel a run
  GET    /api/runs/{id}/ws           Run updates over WebSocket
  POST   /api/share                  Build a share link
  GET    /api/share                  Decode ?code=
  POST   /api/share/decode           Decode a full link
  POST   /api/download               Download code.<ext>
  GET    /metrics                    Prometheus metrics
  GET    /health                     Health check

Settings come from --config (YAML), .env and the environment; flags win.
When NATS_URL is set, run and share requests are also served over NATS.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "YAML config file")
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().String("base-url", "", "Public playground address used in share links")
	serveCmd.Flags().String("nats-url", "", "NATS server URL (overrides NATS_URL)")
	serveCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().Bool("trust-proxy", false, "Rate limit on X-Forwarded-For (only behind a reverse proxy)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		fail(cmd, err)
		return
	}
	applyServeFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		fail(cmd, err)
		return
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fail(cmd, err)
		return
	}
	defer logger.Sync()

	collector := metrics.New()
	exec := executor.New(
		executor.WithLatency(cfg.RunLatency),
		executor.WithMaxCodeLength(cfg.MaxCodeLength),
		executor.WithObserver(collector),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			logger.Fatal("Failed to connect to NATS",
				zap.String("url", cfg.NatsURL),
				zap.Error(err))
		}
		defer nc.Close()

		h := natshandler.New(exec, cfg.BaseURL, cfg.RunTimeout, logger, collector)
		if _, err := h.Subscribe(ctx, nc); err != nil {
			logger.Fatal("Failed to subscribe", zap.Error(err))
		}
		// Runs in flight reply before the connection closes.
		defer h.Wait()
		logger.Info("nats handler ready",
			zap.String("url", cfg.NatsURL),
			zap.Strings("subjects", []string{natshandler.RunSubject, natshandler.ShareSubject}))
	}

	srv := server.New(exec,
		server.WithLogger(logger),
		server.WithMetrics(collector),
		server.WithBaseURL(cfg.BaseURL),
		server.WithRunTimeout(cfg.RunTimeout),
		server.WithSessionTTL(cfg.SessionTTL),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		server.WithTrustProxy(cfg.TrustProxy),
	)
	defer srv.Close()

	if err := srv.ListenAndServe(ctx, cfg.Addr()); err != nil {
		logger.Error("server stopped", zap.Error(err))
		fail(cmd, err)
	}
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	if u, _ := cmd.Flags().GetString("base-url"); u != "" {
		cfg.BaseURL = u
	}
	if u, _ := cmd.Flags().GetString("nats-url"); u != "" {
		cfg.NatsURL = u
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if cmd.Flags().Changed("trust-proxy") {
		cfg.TrustProxy, _ = cmd.Flags().GetBool("trust-proxy")
	}
}
