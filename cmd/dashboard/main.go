// cmd/dashboard/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"productdash/internal/catalog"
	"productdash/internal/config"
	"productdash/internal/dashboard"
	"productdash/internal/obs"
	"syscall"
	"time"

	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.Logger.Error("config_error", "error", err)
		os.Exit(1)
	}
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting", "addr", cfg.HTTPAddr, "catalog_size", cfg.CatalogSize)

	ctx := context.Background()
	shutdownTracing, err := obs.SetupTracing(ctx, "productdash", cfg.OTelEndpoint)
	if err != nil {
		obs.Logger.Error("tracing_setup_error", "error", err)
		os.Exit(1)
	}
	shutdownMetrics, err := obs.SetupMetrics(ctx, "productdash", cfg.OTelEndpoint)
	if err != nil {
		obs.Logger.Error("metrics_setup_error", "error", err)
		os.Exit(1)
	}

	svc, err := dashboard.NewService(
		catalog.Generate(cfg.CatalogSize, cfg.CatalogSeed),
		dashboard.WithSearchDebounce(cfg.SearchDebounce),
		dashboard.WithLogger(obs.Logger),
	)
	if err != nil {
		obs.Logger.Error("session_error", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	handler := dashboard.NewHandler(svc, limiter, obs.Logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	if err := shutdownTracing(ctxSrv); err != nil {
		obs.Logger.Error("tracing_shutdown_error", "error", err)
	}
	if err := shutdownMetrics(ctxSrv); err != nil {
		obs.Logger.Error("metrics_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
