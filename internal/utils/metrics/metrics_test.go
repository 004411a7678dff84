package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := NewWith(prometheus.NewRegistry(), "test")

	m.RecordHTTPRequest("POST", "/ai/enhance-prompt", 200, 120*time.Millisecond)
	m.RecordHTTPRequest("POST", "/ai/enhance-prompt", 402, 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("POST", "/ai/enhance-prompt", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("POST", "/ai/enhance-prompt", "4xx")))
}

func TestRecordOperation(t *testing.T) {
	m := NewWith(prometheus.NewRegistry(), "test")

	m.RecordOperation("enhance", "ok", time.Second)
	m.RecordOperation("enhance", "insufficient_balance", time.Millisecond)
	m.RecordOperation("generate", "ok", time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.OperationsTotal.WithLabelValues("enhance", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.OperationsTotal.WithLabelValues("enhance", "insufficient_balance")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.OperationsTotal.WithLabelValues("generate", "ok")))
}

func TestRecordSpend(t *testing.T) {
	m := NewWith(prometheus.NewRegistry(), "test")

	m.RecordSpend("ok")
	m.RecordSpend("ok")
	m.RecordSpend("insufficient_balance")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.LedgerSpendsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LedgerSpendsTotal.WithLabelValues("insufficient_balance")))
}

func TestSetBreakerOpen(t *testing.T) {
	m := NewWith(prometheus.NewRegistry(), "test")

	m.SetBreakerOpen(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CapabilityBreakerOpen))

	m.SetBreakerOpen(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CapabilityBreakerOpen))
}

func TestStatusCodeToString(t *testing.T) {
	assert.Equal(t, "2xx", statusCodeToString(204))
	assert.Equal(t, "3xx", statusCodeToString(302))
	assert.Equal(t, "4xx", statusCodeToString(429))
	assert.Equal(t, "5xx", statusCodeToString(503))
	assert.Equal(t, "unknown", statusCodeToString(99))
}
