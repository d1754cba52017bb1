package services

import (
	"sync"
	"time"
)

type ScanSummary struct {
	ScanID      string    `json:"scanId"`
	UID         string    `json:"uid,omitempty"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
	ProcessedAt time.Time `json:"processedAt"`
}

type ScanCounters struct {
	Scans        int64 `json:"scans"`
	Successes    int64 `json:"successes"`
	Rejections   int64 `json:"rejections"`
	SystemErrors int64 `json:"systemErrors"`
}

// TerminalStatus is the snapshot served on /status.
type TerminalStatus struct {
	TerminalID string       `json:"terminalId"`
	Role       string       `json:"role"`
	StartedAt  time.Time    `json:"startedAt"`
	LastScan   *ScanSummary `json:"lastScan,omitempty"`
	Counters   ScanCounters `json:"counters"`
}

// StatusRecorder is written by the scanner goroutine and read by HTTP handlers.
type StatusRecorder struct {
	mu     sync.RWMutex
	status TerminalStatus
}

// NewStatusRecorder creates a recorder stamped with the start time.
func NewStatusRecorder(terminalID, role string) *StatusRecorder {
	return &StatusRecorder{
		status: TerminalStatus{
			TerminalID: terminalID,
			Role:       role,
			StartedAt:  time.Now().UTC(),
		},
	}
}

// Record stores result as the last scan and bumps the counters.
func (r *StatusRecorder) Record(result ScanResult) {
	summary := &ScanSummary{
		ScanID:      result.ScanID,
		UID:         result.UID,
		Outcome:     result.Outcome.String(),
		ProcessedAt: result.ProcessedAt,
	}
	if result.Reason != nil {
		summary.Reason = result.Reason.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.LastScan = summary
	r.status.Counters.Scans++
	switch result.Outcome {
	case OutcomeSuccess:
		r.status.Counters.Successes++
	case OutcomeRejected:
		r.status.Counters.Rejections++
	default:
		r.status.Counters.SystemErrors++
	}
}

// Snapshot returns a copy safe to serialize.
func (r *StatusRecorder) Snapshot() TerminalStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := r.status
	if status.LastScan != nil {
		last := *status.LastScan
		status.LastScan = &last
	}
	return status
}
