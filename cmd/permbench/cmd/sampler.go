package cmd

import (
	"runtime/metrics"
	"sync/atomic"
	"time"
)

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// peakSampler polls live heap bytes on a ticker and keeps the maximum.
// Uses runtime/metrics instead of ReadMemStats to avoid stop-the-world pauses
// while a timed run is in progress.
type peakSampler struct {
	peak atomic.Uint64
	done chan struct{}
	exit chan struct{}
}

func startPeakSampler(interval time.Duration) *peakSampler {
	s := &peakSampler{
		done: make(chan struct{}),
		exit: make(chan struct{}),
	}
	samples := []metrics.Sample{{Name: heapObjectsMetric}}
	s.record(samples)

	go func() {
		defer close(s.exit)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.record(samples)
			}
		}
	}()
	return s
}

func (s *peakSampler) record(samples []metrics.Sample) {
	metrics.Read(samples)
	if samples[0].Value.Kind() != metrics.KindUint64 {
		return
	}
	v := samples[0].Value.Uint64()
	for {
		old := s.peak.Load()
		if v <= old || s.peak.CompareAndSwap(old, v) {
			return
		}
	}
}

// stop ends sampling and returns the peak observed.
func (s *peakSampler) stop() uint64 {
	close(s.done)
	<-s.exit
	return s.peak.Load()
}
