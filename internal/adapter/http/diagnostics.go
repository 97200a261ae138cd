package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickeats/courier-client/pkg/logger"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
)

// Diagnostics is the client's internal HTTP listener: health and
// Prometheus metrics only, never part of the product API.
type Diagnostics struct {
	srv *http.Server
	log logger.Logger
}

func NewDiagnostics(port string, log logger.Logger) *Diagnostics {
	d := &Diagnostics{log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", d.healthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	d.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return d
}

// Run serves in the background and reports a failed listen on errCh.
func (d *Diagnostics) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		d.log.Info(ctx, "diagnostics listener started", "addr", d.srv.Addr)
		if err := d.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("diagnostics listener: %w", err)
		}
	}()
}

func (d *Diagnostics) Stop(ctx context.Context) error {
	return d.srv.Shutdown(ctx)
}

// healthCheck - returns system information.
func (d *Diagnostics) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	response := map[string]any{
		"status": "available",
		"system_info": map[string]string{
			"service-name": "courier-client",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		d.log.Error(ctx, "healthcheck", err)
	}
}
