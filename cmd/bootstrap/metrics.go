package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pos-catalog/internal/pkg/config"
	"pos-catalog/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewRegistry,
		NewRecorder,
	),
	fx.Invoke(StartMetricsServer),
)

func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func NewRecorder(reg *prometheus.Registry) *metrics.Recorder {
	return metrics.NewRecorder(reg)
}

// StartMetricsServer exposes /metrics and /healthz on the operational port.
func StartMetricsServer(lc fx.Lifecycle, cfg config.Config, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting metrics server", "address", cfg.Metrics.Addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
