package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/pedigree/pkg/observability"
)

func TestMetrics_Engine(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OnMutation("add person", time.Millisecond, nil)
	m.OnMutation("add person", time.Millisecond, nil)
	m.OnMutation("add partnership", time.Millisecond, errors.New("rejected"))
	m.OnQueued("remove node")
	m.OnRelayout(observability.StageRank, 4, time.Millisecond)
	m.OnCrossings(2, 3)
	m.OnPublish(7, 12)

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("add person", "ok")); got != 2 {
		t.Errorf("ok mutations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("add partnership", "error")); got != 1 {
		t.Errorf("failed mutations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Queued); got != 1 {
		t.Errorf("Queued = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Crossings); got != 2 {
		t.Errorf("Crossings = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Nodes); got != 12 {
		t.Errorf("Nodes = %v, want 12", got)
	}
	if got := testutil.ToFloat64(m.Published); got != 1 {
		t.Errorf("Published = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RelayoutDuration); got != 1 {
		t.Errorf("RelayoutDuration series = %d, want 1", got)
	}
}

func TestMetrics_Documents(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OnRead("snapshot", 3, time.Millisecond, nil)
	m.OnWrite("layout", 100, time.Millisecond, nil)
	m.OnWrite("layout", 50, time.Millisecond, errors.New("disk full"))

	if got := testutil.ToFloat64(m.Documents.WithLabelValues("read", "snapshot", "ok")); got != 1 {
		t.Errorf("reads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Documents.WithLabelValues("write", "layout", "error")); got != 1 {
		t.Errorf("failed writes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DocumentBytes.WithLabelValues("layout")); got != 100 {
		t.Errorf("bytes = %v, want 100", got)
	}
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("second New on the same registry should panic")
		}
	}()
	New(reg)
}
