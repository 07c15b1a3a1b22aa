package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/geobench/tiffbench/internal/stats"
)

func TestCollectorEmitsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(zap.New(core))

	c.IncCounter(stats.MetricEncodes, 2)
	c.SetGauge(stats.MetricScratchFiles, 7)
	c.ObserveHistogram(stats.MetricEncodeSeconds, 0.25)

	entries := logs.All()
	if got, want := len(entries), 3; got != want {
		t.Fatalf("got %d log entries, want %d", got, want)
	}

	wantMsgs := []string{"metric counter", "metric gauge", "metric sample"}
	wantMetrics := []string{stats.MetricEncodes, stats.MetricScratchFiles, stats.MetricEncodeSeconds}
	for i, e := range entries {
		if e.Message != wantMsgs[i] {
			t.Errorf("entry %d message = %q, want %q", i, e.Message, wantMsgs[i])
		}
		fields := e.ContextMap()
		if got := fields["metric"]; got != wantMetrics[i] {
			t.Errorf("entry %d metric = %v, want %q", i, got, wantMetrics[i])
		}
	}

	if got := entries[0].ContextMap()["delta"]; got != int64(2) {
		t.Errorf("counter delta = %v, want 2", got)
	}
	if got := entries[1].ContextMap()["value"]; got != int64(7) {
		t.Errorf("gauge value = %v, want 7", got)
	}
	if got := entries[2].ContextMap()["value"]; got != 0.25 {
		t.Errorf("sample value = %v, want 0.25", got)
	}
}

func TestNewNilLogger(t *testing.T) {
	c := New(nil)
	// Must not panic.
	c.IncCounter(stats.MetricDecodes, 1)
	c.SetGauge(stats.MetricScratchFiles, 0)
	c.ObserveHistogram(stats.MetricDecodeSeconds, 0.1)
}
