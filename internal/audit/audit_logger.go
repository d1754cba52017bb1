package audit

import (
	"encoding/json"
	"log"
	"time"
)

type AuditEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	EventType  string    `json:"event_type"`
	ScanID     string    `json:"scan_id"`
	TerminalID string    `json:"terminal_id"`
	AccountID  string    `json:"account_id,omitempty"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Details    any       `json:"details,omitempty"`
}

// Logger writes one JSON line per scan outcome.
type Logger struct {
	terminalID string
	out        *log.Logger
	now        func() time.Time
}

// NewLogger creates an audit logger writing to the standard logger.
func NewLogger(terminalID string) *Logger {
	return &Logger{
		terminalID: terminalID,
		out:        log.Default(),
		now:        time.Now,
	}
}

// WithOutput redirects audit lines, mainly for tests.
func (a *Logger) WithOutput(out *log.Logger) *Logger {
	a.out = out
	return a
}

func (a *Logger) LogTransition(scanID, accountID, action string, amount, balance int64) {
	a.log(AuditEvent{
		EventType: "TRANSITION",
		ScanID:    scanID,
		AccountID: accountID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details: map[string]any{
			"action":  action,
			"balance": balance,
		},
	})
}

func (a *Logger) LogRejection(scanID, accountID string, reason error) {
	a.log(AuditEvent{
		EventType: "REJECTED",
		ScanID:    scanID,
		AccountID: accountID,
		Status:    "REJECTED",
		Details:   map[string]string{"reason": reason.Error()},
	})
}

func (a *Logger) LogError(scanID, accountID string, err error) {
	a.log(AuditEvent{
		EventType: "ERROR",
		ScanID:    scanID,
		AccountID: accountID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event AuditEvent) {
	event.Timestamp = a.now()
	event.TerminalID = a.terminalID
	data, _ := json.Marshal(event)
	a.out.Printf("AUDIT: %s", string(data))
}
