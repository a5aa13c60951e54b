package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestMetricsCollector_RecordDeposit(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.RecordDeposit(decimal.RequireFromString("1000.50"))
	m.RecordDeposit(decimal.NewFromInt(250))

	if got := testutil.ToFloat64(m.depositsCreated); got != 2 {
		t.Errorf("expected 2 deposits, got %v", got)
	}
	if got := testutil.ToFloat64(m.depositedAmount); got != 1250.5 {
		t.Errorf("expected 1250.5 deposited, got %v", got)
	}
}

func TestMetricsCollector_RecordRejectedDeposit(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.RecordRejectedDeposit("forbidden")
	m.RecordRejectedDeposit("forbidden")
	m.RecordRejectedDeposit("not_found")

	if got := testutil.ToFloat64(m.depositsRejected.WithLabelValues("forbidden")); got != 2 {
		t.Errorf("expected 2 forbidden, got %v", got)
	}
	if got := testutil.ToFloat64(m.depositsRejected.WithLabelValues("not_found")); got != 1 {
		t.Errorf("expected 1 not_found, got %v", got)
	}
}

func TestMetricsCollector_RecordRequest(t *testing.T) {
	m := NewMetricsCollector(nil)

	m.RecordRequest("deposit", http.StatusCreated, 15*time.Millisecond)

	if got := testutil.CollectAndCount(m.requestDuration); got != 1 {
		t.Errorf("expected one request series, got %d", got)
	}
}
