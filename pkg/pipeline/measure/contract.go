package measure

import "time"

// Measure collects one Metric per pipeline step.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates durations observed for a step.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddTransportDuration(inputStepName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]*TransportInfo
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	AllTransports() map[string]*TransportInfo
	Total() int64
}
