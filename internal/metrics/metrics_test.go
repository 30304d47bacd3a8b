package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(JobsSubmitted)
	JobsSubmitted.Inc()
	if got := testutil.ToFloat64(JobsSubmitted); got != before+1 {
		t.Errorf("JobsSubmitted = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(JanitorFilesReaped)
	JanitorFilesReaped.Add(3)
	if got := testutil.ToFloat64(JanitorFilesReaped); got != before+3 {
		t.Errorf("JanitorFilesReaped = %v, want %v", got, before+3)
	}
}

func TestGaugeUpDown(t *testing.T) {
	before := testutil.ToFloat64(JobsActive)
	JobsActive.Inc()
	JobsActive.Inc()
	JobsActive.Dec()
	if got := testutil.ToFloat64(JobsActive); got != before+1 {
		t.Errorf("JobsActive = %v, want %v", got, before+1)
	}
}

func TestLabeledCounters(t *testing.T) {
	c := JobsFinished.WithLabelValues("completed")
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("JobsFinished{completed} = %v, want %v", got, before+1)
	}

	r := SubmitRejections.WithLabelValues("invalid_url")
	before = testutil.ToFloat64(r)
	r.Inc()
	if got := testutil.ToFloat64(r); got != before+1 {
		t.Errorf("SubmitRejections{invalid_url} = %v, want %v", got, before+1)
	}
}
