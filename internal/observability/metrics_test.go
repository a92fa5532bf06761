package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/healthz", 200, time.Millisecond)
	m.ObserveUpstream("roast", "ok", time.Second)
	m.ObserveQuiz(7, true)
	m.SetKVUp(true)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/roast-code", 429, 120*time.Millisecond)
	m.ObserveUpstream("roast", "rate_limited", 3*time.Second)
	m.ObserveQuiz(7, true)
	m.IncChallengeCompleted()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`roast_api_requests_total{method="POST",route="/roast-code",status="429"} 1`,
		`roast_upstream_requests_total{mode="roast",outcome="rate_limited"} 1`,
		`roast_upstream_request_duration_seconds_bucket{mode="roast",le="5"} 1`,
		`roast_upstream_request_duration_seconds_bucket{mode="roast",le="2"} 0`,
		`roast_quiz_results_total{score="7",passed="true"} 1`,
		`roast_daily_challenges_completed_total 1`,
		"# TYPE roast_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a"}, []string{"x\"y\n"})
	if got != `{a="x\"y\n"}` {
		t.Fatalf("got %s", got)
	}
}
