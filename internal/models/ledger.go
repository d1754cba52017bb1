package models

import (
	"time"
)

type QueueAction string

const (
	ActionJoin  QueueAction = "join"
	ActionLeave QueueAction = "leave"
)

const (
	DescriptionQueueEntry = "Queue Entry"
	DescriptionLeftQueue  = "Left Queue"
)

// LedgerTransaction is the per-account append-only row written by every transition.
type LedgerTransaction struct {
	ID          string    `json:"id" db:"id"`
	UID         string    `json:"uid" db:"uid"`
	Amount      int64     `json:"amount" db:"amount"` // in centavos
	Description string    `json:"description" db:"description"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
}

// HistoryRecord is the global append-only queueing history row.
type HistoryRecord struct {
	ID           string      `json:"id" db:"id"`
	DriverID     string      `json:"driverId" db:"driver_id"`
	Name         string      `json:"name" db:"name"`
	BarangayName string      `json:"barangayName" db:"barangay_name"`
	Action       QueueAction `json:"action" db:"action"`
	Amount       *int64      `json:"amount,omitempty" db:"amount"` // nil for leave
	Timestamp    time.Time   `json:"timestamp" db:"created_at"`
}
