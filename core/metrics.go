package core

import (
	"context"
	"maps"
	"strings"
)

// Gate, filter and event fan-out counters. Per-operation counters and
// histograms are named by operationMetric.
const (
	metricGateQueued       = "linkbridge.gate.queued"
	metricGateRejected     = "linkbridge.gate.rejected"
	metricGateReplayed     = "linkbridge.gate.replayed"
	metricGateAbandoned    = "linkbridge.gate.abandoned"
	metricFilterSuppressed = "linkbridge.filter.suppressed"
	metricEventsEmitted    = "linkbridge.events.emitted"
	metricListenerFailures = "linkbridge.events.listener_failures"
)

var operationNameReplacer = strings.NewReplacer(" ", "_", "-", "_")

// operationName folds spaces and dashes to underscores.
func operationName(operation string) string {
	name := operationNameReplacer.Replace(strings.ToLower(strings.TrimSpace(operation)))
	if name == "" {
		return "unknown"
	}
	return name
}

func operationMetric(operation string, suffix string) string {
	return "linkbridge." + operationName(operation) + "." + suffix
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func cloneTags(tags map[string]string) map[string]string {
	copied := make(map[string]string, len(tags))
	maps.Copy(copied, tags)
	return copied
}
