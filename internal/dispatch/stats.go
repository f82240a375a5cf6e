package dispatch

import (
	"sync"
	"time"
)

// Stats tracks activation outcomes.
type Stats struct {
	TotalActivations     int64         `json:"total" yaml:"total"`
	Completed            int64         `json:"completed" yaml:"completed"`
	Cancelled            int64         `json:"cancelled" yaml:"cancelled"`
	Failed               int64         `json:"failed" yaml:"failed"`
	AverageExecutionTime time.Duration `json:"average_execution_time" yaml:"average_execution_time"`
	mu                   sync.RWMutex
}

func NewStats() *Stats {
	return &Stats{}
}

// Record adds one outcome. Cancelled activations do not affect the average.
func (s *Stats) Record(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalActivations++
	switch outcome.Status {
	case StatusCompleted:
		s.Completed++
	case StatusCancelled:
		s.Cancelled++
		return
	case StatusFailed:
		s.Failed++
	}

	timed := s.Completed + s.Failed
	if timed == 1 {
		s.AverageExecutionTime = outcome.Duration
	} else {
		// Weighted toward recent runs; float64 avoids int64 overflow
		currentAvg := float64(s.AverageExecutionTime)
		s.AverageExecutionTime = time.Duration(currentAvg*0.99 + float64(outcome.Duration)*0.01)
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TotalActivations:     s.TotalActivations,
		Completed:            s.Completed,
		Cancelled:            s.Cancelled,
		Failed:               s.Failed,
		AverageExecutionTime: s.AverageExecutionTime,
	}
}
