package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/internal/presentation/tui"
	httpAdapter "github.com/aretw0/navbridge/pkg/adapters/http"
	"github.com/aretw0/navbridge/pkg/adapters/mcp"
	"github.com/aretw0/navbridge/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/navbridge/pkg/adapters/redis"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/observability"
	"github.com/aretw0/navbridge/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP bridge over the in-memory engine",
	Long: `Starts the bridge over the in-memory navigation engine and exposes it as a
JSON API with SSE and WebSocket event streams. When redis.addr is set every
navigation event is also published to Redis; lock.key additionally guards
the session with a Redis lock. mcp.enabled serves MCP over SSE alongside.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.ErrOrStderr(), navbridge.Version)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		engine := memory.NewEngine()
		opts := []navbridge.Option{
			navbridge.WithLogger(logger),
			navbridge.WithMetrics(metrics),
		}

		var consumers []events.Consumer
		if cfg.Redis.Addr != "" {
			pub := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				redisAdapter.WithPrefix(cfg.Redis.Prefix),
				redisAdapter.WithHistory(cfg.Redis.History),
				redisAdapter.WithTTL(cfg.Redis.TTL),
				redisAdapter.WithLogger(logger.With("component", "redis")),
			)
			defer pub.Close()
			consumers = append(consumers, pub.Consumer(cfg.Redis.Topic))
			logger.Info("publishing events to redis", "channel", pub.Channel(cfg.Redis.Topic))

			if cfg.Lock.Key != "" {
				locker := redisAdapter.NewLocker(pub.Client(), cfg.Redis.Prefix)
				opts = append(opts, navbridge.WithSessionOptions(session.WithLocker(locker, cfg.Lock.Key, cfg.Lock.TTL)))
			}
		}

		bridge := navbridge.New(engine, opts...)
		srv := httpAdapter.NewServer(bridge,
			httpAdapter.WithLogger(logger.With("component", "http")),
			httpAdapter.WithSurfaceFactory(engine),
			httpAdapter.WithGatherer(reg),
		)
		consumers = append(consumers, srv.Consumer())

		mcpErrors := make(chan error, 1)
		if cfg.MCP.Enabled {
			mcpSrv := mcp.NewServer(bridge,
				mcp.WithLogger(logger.With("component", "mcp")),
				mcp.WithSurfaceFactory(engine),
			)
			consumers = append(consumers, mcpSrv.Consumer())
			go func() { mcpErrors <- mcpSrv.ServeSSE(ctx, cfg.MCP.Port) }()
		}
		bridge.Events().Register(events.Tee(consumers...))

		go engine.Drive(ctx, cfg.Sim.Interval)

		httpServer := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("navbridge server listening", "address", httpServer.Addr)
			serverErrors <- httpServer.ListenAndServe()
		}()

		var runErr error
		select {
		case err := <-serverErrors:
			runErr = fmt.Errorf("http server: %w", err)
		case err := <-mcpErrors:
			if err != nil {
				runErr = fmt.Errorf("mcp server: %w", err)
			}
		case <-ctx.Done():
			logger.Info("shutdown requested")
		}
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			_ = httpServer.Close()
		}
		if err := bridge.Close(shutdownCtx); err != nil {
			logger.Warn("bridge close", "err", err)
		}
		logger.Info("navbridge server stopped")
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides http.addr)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
