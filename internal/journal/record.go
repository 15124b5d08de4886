package journal

import (
	"os"
	"time"

	"github.com/yndnr/exitguard/pkg/shutdown"
)

// Record is the stored form of a shutdown.Report.
type Record struct {
	ID        string          `json:"id"`
	PID       int             `json:"pid"`
	Host      string          `json:"host,omitempty"`
	Trigger   string          `json:"trigger"`
	Signal    string          `json:"signal,omitempty"`
	Started   time.Time       `json:"started"`
	Duration  time.Duration   `json:"duration"`
	Listeners int             `json:"listeners"`
	Finished  bool            `json:"finished"`
	Failures  []FailureRecord `json:"failures,omitempty"`
}

// FailureRecord is the stored form of a shutdown.Failure.
type FailureRecord struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

func newRecord(r *shutdown.Report, finished bool) Record {
	host, _ := os.Hostname()
	rec := Record{
		ID:        r.ID,
		PID:       os.Getpid(),
		Host:      host,
		Trigger:   string(r.Trigger),
		Signal:    string(r.Signal),
		Started:   r.Started,
		Duration:  r.Duration,
		Listeners: r.Listeners,
		Finished:  finished,
	}
	for _, f := range r.Failures {
		rec.Failures = append(rec.Failures, FailureRecord{
			Index: f.Index,
			Kind:  string(f.Kind),
			Error: f.Err.Error(),
		})
	}
	return rec
}
