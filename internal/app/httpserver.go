package app

import (
	"context"
	"net/http"
	"time"

	"github.com/mparedes/rollbook/internal/metrics"
)

// Pinger is what the health probe needs from the API client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPServer struct {
	srv *http.Server
}

// StartHTTP serves /metrics and /healthz. Health means the remote store
// answers at all; authorization state is not health.
func StartHTTP(ctx context.Context, addr string, remote Pinger) *HTTPServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := remote.Ping(ctx); err != nil {
			http.Error(w, "api not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe()
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}
