package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg).(*PrometheusRecorder)

	rec.IncCounter(EventSessionFailed, map[string]string{"provider": "phantom", "reason": "USER_REJECTED"})
	rec.IncCounter(EventSessionFailed, map[string]string{"provider": "phantom", "reason": "USER_REJECTED"})
	rec.IncCounter(EventSessionSucceeded, map[string]string{"provider": "solflare"})

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.counters.WithLabelValues(EventSessionFailed, "phantom", "USER_REJECTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.counters.WithLabelValues(EventSessionSucceeded, "solflare", "")))
}

func TestPrometheusRecorder_Latency(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObserveLatency(OpSubmission, 1500*time.Millisecond, map[string]string{"provider": "phantom"})

	expected := `
# HELP walletpay_latency_seconds walletpay operation latency
# TYPE walletpay_latency_seconds histogram
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="0.1"} 0
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="0.5"} 0
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="1"} 0
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="2.5"} 1
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="5"} 1
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="10"} 1
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="30"} 1
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="60"} 1
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="120"} 1
walletpay_latency_seconds_bucket{operation="submission",provider="phantom",le="+Inf"} 1
walletpay_latency_seconds_sum{operation="submission",provider="phantom"} 1.5
walletpay_latency_seconds_count{operation="submission",provider="phantom"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "walletpay_latency_seconds"))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncCounter(EventPayClicked, nil)
	r.ObserveLatency(OpWalletConnect, time.Second, nil)
}
