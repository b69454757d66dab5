package stats

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics() // second call must not panic.

	before := testutil.ToFloat64(IntakeDecisionsTotal.WithLabelValues("accepted"))
	IncIntakeDecision("accepted")
	if got := testutil.ToFloat64(IntakeDecisionsTotal.WithLabelValues("accepted")); got != before+1 {
		t.Fatalf("expected intake counter %v; got %v", before+1, got)
	}

	IncReplicationTable("dev", Status(false))
	if got := testutil.ToFloat64(ReplicationTablesTotal.WithLabelValues("dev", StatusFailure)); got < 1 {
		t.Fatalf("expected failed table counter to be incremented; got %v", got)
	}

	ObserveReplicationRun("dev", Status(true), 2*time.Second)
	if got := testutil.ToFloat64(ReplicationRunsTotal.WithLabelValues("dev", StatusSuccess)); got < 1 {
		t.Fatalf("expected run counter to be incremented; got %v", got)
	}
}
