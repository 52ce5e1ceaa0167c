// Package metrics exposes Prometheus counters for the game engine and a
// lightweight ops HTTP server serving /metrics and /healthz.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BetsPlaced counts accepted bets by game type.
	BetsPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_bets_placed_total",
		Help: "Accepted bets by game type",
	}, []string{"game"})

	// BetsSettled counts settled bets by game type and result.
	BetsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_bets_settled_total",
		Help: "Settled bets by game type and result",
	}, []string{"game", "result"})

	// PayoutCents accumulates total payouts in cents by game type.
	PayoutCents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_payout_cents_total",
		Help: "Total payout in cents by game type",
	}, []string{"game"})

	// RoundsCompleted counts finished crash rounds.
	RoundsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casino_crash_rounds_total",
		Help: "Completed crash rounds",
	})
)

func init() {
	prometheus.MustRegister(BetsPlaced, BetsSettled, PayoutCents, RoundsCompleted)
}

// HealthFunc reports readiness of a backing dependency.
type HealthFunc func(ctx context.Context) error

// StartServer starts an HTTP server serving /metrics and /healthz on the
// given port. Run it from a goroutine in main; the returned server can be
// shut down on exit.
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if healthFn != nil {
			if err := healthFn(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = fmt.Fprintf(w, "unhealthy: %v", err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
