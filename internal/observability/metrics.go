package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/roastmycode-backend/internal/platform/envutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
)

// Metrics holds the process counters exposed in Prometheus text format.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	upstreamRequests *CounterVec
	upstreamLatency  *HistogramVec
	upstreamInflight *Gauge

	roastOutcomes *CounterVec
	quizOutcomes  *CounterVec
	challengeDone *Counter

	sessionsCached *Gauge
	kvUp           *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current returns the process metrics, or nil when metrics are disabled.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		if !Enabled() {
			return
		}
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds an unregistered set; Init is the process-wide entry point.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("roast_api_requests_total", "HTTP requests by route and status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("roast_api_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight: NewGauge("roast_api_inflight_requests", "HTTP requests being served."),

		upstreamRequests: NewCounterVec("roast_upstream_requests_total", "Upstream model calls by mode and outcome.", []string{"mode", "outcome"}),
		upstreamLatency:  NewHistogramVec("roast_upstream_request_duration_seconds", "Upstream model call latency.", []string{"mode"}, []float64{0.5, 1, 2, 5, 10, 20, 40, 90}),
		upstreamInflight: NewGauge("roast_upstream_inflight", "Upstream model calls in flight."),

		roastOutcomes: NewCounterVec("roast_workflow_submissions_total", "Workflow submissions by result kind.", []string{"kind"}),
		quizOutcomes:  NewCounterVec("roast_quiz_results_total", "Scored quizzes by score and pass.", []string{"score", "passed"}),
		challengeDone: NewCounter("roast_daily_challenges_completed_total", "Daily challenges marked complete."),

		sessionsCached: NewGauge("roast_sessions_cached", "Workflow controllers held in the session cache."),
		kvUp:           NewGauge("roast_kv_up", "1 when the last kv readiness ping succeeded."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.upstreamRequests, m.upstreamLatency, m.upstreamInflight,
		m.roastOutcomes, m.quizOutcomes, m.challengeDone,
		m.sessionsCached, m.kvUp,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

// ObserveUpstream records one gateway call; outcome is "ok" or an error kind.
func (m *Metrics) ObserveUpstream(mode, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.Inc(mode, outcome)
	m.upstreamLatency.Observe(dur.Seconds(), mode)
}

func (m *Metrics) UpstreamInflightInc() {
	if m != nil {
		m.upstreamInflight.Inc()
	}
}

func (m *Metrics) UpstreamInflightDec() {
	if m != nil {
		m.upstreamInflight.Dec()
	}
}

func (m *Metrics) IncSubmission(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "ok"
	}
	m.roastOutcomes.Inc(kind)
}

func (m *Metrics) ObserveQuiz(score int, passed bool) {
	if m == nil {
		return
	}
	m.quizOutcomes.Inc(strconv.Itoa(score), strconv.FormatBool(passed))
}

func (m *Metrics) IncChallengeCompleted() {
	if m != nil {
		m.challengeDone.Inc()
	}
}

func (m *Metrics) SetSessionsCached(n int) {
	if m != nil {
		m.sessionsCached.Set(float64(n))
	}
}

func (m *Metrics) SetKVUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.kvUp.Set(1)
	} else {
		m.kvUp.Set(0)
	}
}
