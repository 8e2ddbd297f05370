package sheets

import (
	"sync/atomic"
	"time"
)

// Stats is a snapshot of the adapter's call telemetry. It is
// observability only and never drives flow control.
type Stats struct {
	TotalCalls int64     `json:"total_calls"`
	ErrorCount int64     `json:"error_count"`
	LastCall   time.Time `json:"last_call"`
}

type tracker struct {
	totalCalls   atomic.Int64
	errorCount   atomic.Int64
	lastCallUnix atomic.Int64
}

func (t *tracker) record(err error) {
	t.totalCalls.Add(1)
	t.lastCallUnix.Store(time.Now().Unix())
	if err != nil {
		t.errorCount.Add(1)
	}
}

func (t *tracker) snapshot() Stats {
	s := Stats{
		TotalCalls: t.totalCalls.Load(),
		ErrorCount: t.errorCount.Load(),
	}
	if unix := t.lastCallUnix.Load(); unix > 0 {
		s.LastCall = time.Unix(unix, 0)
	}
	return s
}
