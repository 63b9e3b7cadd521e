package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kittipatc/opsdesk/internal/adapters/http"
	"github.com/kittipatc/opsdesk/internal/bootstrap"
	"github.com/kittipatc/opsdesk/internal/config"
	"github.com/kittipatc/opsdesk/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "api")
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app.RetrieveUC.SetRerankFallbackHook(func() {
		httpMetrics.RecordRerankFallback("api")
	})

	router := httpadapter.NewRouter(cfg, httpadapter.Deps{
		Ingestor:  app.IngestUC,
		Chat:      app.ChatUC,
		Retriever: app.RetrieveUC,
		Documents: app.Documents,
		Dashboard: app.DashboardUC,
		Metrics:   httpMetrics,
	})
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		app.Logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("api_shutdown_failed", "error", err)
	}
}
