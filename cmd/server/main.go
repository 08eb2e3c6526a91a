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

	"go.uber.org/zap"

	"github.com/defford/Epic/internal/config"
	"github.com/defford/Epic/internal/handler"
	"github.com/defford/Epic/internal/hub"
	"github.com/defford/Epic/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	gameHub := hub.NewHub(cfg.MaxMatches, cfg.MatchIdleTimeout, log.Named("hub"))
	defer gameHub.Stop()

	wsHandler := handler.NewWebSocketHandler(gameHub, handler.Options{
		ReadLimit:      cfg.ReadLimit,
		PongWait:       cfg.PongWait,
		PingPeriod:     cfg.PingPeriod(),
		WriteWait:      cfg.WriteWait,
		MessageRate:    cfg.MessageRate,
		MessageBurst:   cfg.MessageBurst,
		AllowedOrigins: cfg.AllowedOrigins,
	}, log.Named("ws"))

	limiter := handler.NewIPRateLimiter(cfg.ConnectRate, cfg.ConnectRateWindow)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", limiter.Middleware(wsHandler.Handle))
	mux.HandleFunc("GET /healthz", wsHandler.Health)

	// WriteTimeout stays unset: it would cut long-lived websocket writes.
	server := &http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
		Handler:           loggingMiddleware(log.Named("http"), mux),
	}

	go gameHub.MaintainGames(ctx, cfg.SweepInterval)
	go limiter.Run(ctx, cfg.ConnectRateWindow)

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr), zap.Int("max_matches", cfg.MaxMatches))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown, so peers
	// are notified through the hub first.
	gameHub.Stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown", zap.Error(err))
	}
	log.Info("server stopped gracefully")
	return nil
}

func loggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}
