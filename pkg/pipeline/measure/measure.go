package measure

import (
	"sort"
	"sync"
	"time"
)

// DefaultMeasure is an in-memory Measure.
type DefaultMeasure struct {
	mu    sync.RWMutex
	Steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string, concurrent int) Metric {
	if concurrent < 1 {
		concurrent = 1
	}
	mt := &DefaultMetric{
		mu:            &sync.Mutex{},
		allTransports: make(map[string]*TransportInfo),
		concurrent:    concurrent,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[string]Metric, len(m.Steps))
	for name, mt := range m.Steps {
		res[name] = mt
	}

	return res
}

// StepSummary is a flattened view of a step metric.
type StepSummary struct {
	Name    string
	Items   int64
	Average time.Duration
	Total   time.Duration
}

// Summarize returns one summary per step with at least one processed item, sorted by name.
func Summarize(m Measure) []StepSummary {
	res := []StepSummary{}
	for name, mt := range m.AllMetrics() {
		if mt.Total() == 0 {
			continue
		}
		res = append(res, StepSummary{
			Name:    name,
			Items:   mt.Total(),
			Average: mt.AVGDuration(),
			Total:   mt.GetTotalDuration(),
		})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})

	return res
}

var _ Measure = (*DefaultMeasure)(nil)
