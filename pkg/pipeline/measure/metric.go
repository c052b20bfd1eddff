package measure

import (
	"sync"
	"time"
)

// TransportInfo is the time items spent travelling from an input step.
type TransportInfo struct {
	Elapsed time.Duration
	count   int64
}

// DefaultMetric is an in-memory Metric safe for concurrent use.
type DefaultMetric struct {
	mu            *sync.Mutex
	allTransports map[string]*TransportInfo
	computation   time.Duration
	count         int64
	totalDuration time.Duration
	concurrent    int
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.count++
	mt.computation += elapsed
}

// Total returns the number of items the step processed.
func (mt *DefaultMetric) Total() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.count
}

func (mt *DefaultMetric) SetTotalDuration(totalDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.totalDuration = totalDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.totalDuration
}

func (mt *DefaultMetric) AddTransportDuration(inputStepName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	info, ok := mt.allTransports[inputStepName]
	if !ok {
		info = &TransportInfo{}
		mt.allTransports[inputStepName] = info
	}
	info.Elapsed += elapsed
	info.count++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return average(mt.computation, mt.count, 1)
}

// AVGTransportDuration returns, per input step, the average time an item spent between the
// two steps divided by the step concurrency.
func (mt *DefaultMetric) AVGTransportDuration() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]*TransportInfo, len(mt.allTransports))
	for name, info := range mt.allTransports {
		res[name] = &TransportInfo{
			Elapsed: average(info.Elapsed, info.count, mt.concurrent),
			count:   info.count,
		}
	}

	return res
}

// AllTransports returns a copy of the summed transport durations.
func (mt *DefaultMetric) AllTransports() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]*TransportInfo, len(mt.allTransports))
	for name, info := range mt.allTransports {
		cp := *info
		res[name] = &cp
	}

	return res
}

func average(sum time.Duration, count int64, concurrent int) time.Duration {
	if count == 0 || concurrent < 1 {
		return 0
	}

	return round(time.Duration(float64(sum) / float64(count) / float64(concurrent)))
}

// round rounds d to the largest unit it exceeds.
func round(d time.Duration) time.Duration {
	for _, unit := range []time.Duration{time.Hour, time.Minute, time.Second, time.Millisecond, time.Microsecond} {
		if d > unit {
			return d.Round(unit)
		}
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
