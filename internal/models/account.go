package models

import (
	"time"
)

// DefaultBarangay is used for accounts registered without a barangay.
const DefaultBarangay = "default_barangay"

// Account is the persisted driver record shared by every terminal.
type Account struct {
	UID            string    `json:"uid" db:"uid"`
	Name           string    `json:"name" db:"name"`
	BarangayName   string    `json:"barangayName" db:"barangay_name"`
	TricycleNumber string    `json:"tricycleNumber" db:"tricycle_number"`
	Balance        int64     `json:"balance" db:"balance"` // in centavos
	InQueue        bool      `json:"inQueue" db:"in_queue"`
	Version        int       `json:"version" db:"version"` // for optimistic locking
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Barangay returns the queue partition the account belongs to.
func (a Account) Barangay() string {
	if a.BarangayName == "" {
		return DefaultBarangay
	}
	return a.BarangayName
}

// QueueEntry exists exactly while the owning Account has InQueue set.
type QueueEntry struct {
	BarangayName   string    `json:"barangayName" db:"barangay_name"`
	UID            string    `json:"uid" db:"uid"`
	Name           string    `json:"name" db:"name"`
	TricycleNumber string    `json:"tricycleNumber" db:"tricycle_number"`
	JoinTime       time.Time `json:"joinTime" db:"join_time"`
}
