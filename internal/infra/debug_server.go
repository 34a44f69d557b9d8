package infra

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugServer serves pprof and the feed metrics. Bind it to localhost only.
type DebugServer struct {
	server *http.Server
}

// NewDebugServer creates a server for addr. Metrics may be nil, in which case /metrics is not mounted.
func NewDebugServer(addr string, metrics *Metrics) *DebugServer {
	mux := http.NewServeMux()
	if reg := metrics.Registry(); reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &DebugServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the mux for tests.
func (d *DebugServer) Handler() http.Handler {
	return d.server.Handler
}

// Start listens in the background.
func (d *DebugServer) Start() {
	go func() {
		slog.Info("🕵️ Debug server started", slog.String("addr", d.server.Addr))
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Debug server failed", slog.Any("error", err))
		}
	}()
}

// Shutdown stops the server, waiting for open requests until ctx is done.
func (d *DebugServer) Shutdown(ctx context.Context) error {
	return d.server.Shutdown(ctx)
}
