package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/todamoon/terminal/internal/config"
	"github.com/todamoon/terminal/internal/models"
)

const terminalFeeID = "terminal-fee"

const (
	selectFeeQuery = `SELECT fee FROM dashboard_counts WHERE id = $1`

	lockAccountQuery = `
		SELECT uid, name, barangay_name, tricycle_number, balance, in_queue, version, now()
		FROM users
		WHERE uid = $1
		FOR UPDATE`

	joinAccountQuery = `
		UPDATE users
		SET balance = balance - $1, in_queue = TRUE, version = version + 1, updated_at = now()
		WHERE uid = $2 AND in_queue = FALSE AND balance >= $1 AND version = $3`

	leaveAccountQuery = `
		UPDATE users
		SET in_queue = FALSE, version = version + 1, updated_at = now()
		WHERE uid = $1 AND in_queue = TRUE AND version = $2`

	insertQueueEntryQuery = `
		INSERT INTO barangay_queue (barangay_name, uid, name, tricycle_number, join_time)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (uid)
		DO UPDATE SET barangay_name = EXCLUDED.barangay_name, name = EXCLUDED.name,
			tricycle_number = EXCLUDED.tricycle_number, join_time = now()`

	// An account holds at most one queue row, whichever barangay it joined under.
	deleteQueueEntryQuery = `DELETE FROM barangay_queue WHERE uid = $1`

	insertLedgerQuery = `
		INSERT INTO queueing_transactions (id, uid, amount, description, created_at)
		VALUES ($1, $2, $3, $4, now())`

	insertHistoryQuery = `
		INSERT INTO queueing_history (id, driver_id, name, barangay_name, action, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
)

// Transition is a committed JOIN or LEAVE together with the rows it wrote.
type Transition struct {
	Action      models.QueueAction
	Account     models.Account // state after commit
	Fee         int64
	Ledger      models.LedgerTransaction
	History     models.HistoryRecord
	CommittedAt time.Time
}

// QueueService moves accounts in and out of their barangay queue. Every
// transition is one SQL transaction that locks the account row, re-checks
// eligibility and writes the account, queue entry, ledger row and history
// row together.
type QueueService struct {
	db    *sql.DB
	retry RetryPolicy
	newID func() string
}

// NewQueueService creates a queue service over the account store.
func NewQueueService(db *sql.DB, retry RetryPolicy) *QueueService {
	return &QueueService{
		db:    db,
		retry: retry,
		newID: uuid.NewString,
	}
}

// Apply runs the transition belonging to the terminal role.
func (s *QueueService) Apply(ctx context.Context, role, uid string) (*Transition, error) {
	switch role {
	case config.RoleEntry:
		return s.Join(ctx, uid)
	case config.RoleExit:
		return s.Leave(ctx, uid)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}

// Join charges the terminal fee and adds the account to its barangay queue.
func (s *QueueService) Join(ctx context.Context, uid string) (*Transition, error) {
	return withRetry(ctx, s.retry, "QUEUE", func(ctx context.Context) (*Transition, error) {
		return s.join(ctx, uid)
	})
}

// Leave clears the in-queue flag and removes the account's queue row.
func (s *QueueService) Leave(ctx context.Context, uid string) (*Transition, error) {
	return withRetry(ctx, s.retry, "QUEUE", func(ctx context.Context) (*Transition, error) {
		return s.leave(ctx, uid)
	})
}

func (s *QueueService) join(ctx context.Context, uid string) (*Transition, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	fee, err := s.terminalFee(ctx, tx)
	if err != nil {
		return nil, err
	}

	account, now, err := s.lockAccount(ctx, tx, uid)
	if err != nil {
		return nil, err
	}

	if account.InQueue {
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrAlreadyInQueue, uid))
	}
	if account.Balance < fee {
		return nil, backoff.Permanent(fmt.Errorf("%w: balance %d, fee %d", ErrInsufficientBalance, account.Balance, fee))
	}

	result, err := tx.ExecContext(ctx, joinAccountQuery, fee, uid, account.Version)
	if err := checkUpdated(result, err, uid); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, insertQueueEntryQuery,
		account.Barangay(), uid, account.Name, account.TricycleNumber); err != nil {
		return nil, fmt.Errorf("%w: queue entry: %v", ErrStoreUnavailable, err)
	}

	amount := fee
	t := s.newTransition(models.ActionJoin, account, fee, &amount, models.DescriptionQueueEntry, now)
	t.Account.Balance -= fee
	t.Account.InQueue = true

	if err := s.appendLedger(ctx, tx, t); err != nil {
		return nil, err
	}

	// The transition only counts once the commit is acknowledged.
	if err := tx.Commit(); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrStoreWrite, err))
	}

	log.Printf("[QUEUE] %s joined %s queue, fee %d, balance %d", uid, account.Barangay(), fee, t.Account.Balance)
	return t, nil
}

func (s *QueueService) leave(ctx context.Context, uid string) (*Transition, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	account, now, err := s.lockAccount(ctx, tx, uid)
	if err != nil {
		return nil, err
	}

	if !account.InQueue {
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrNotInQueue, uid))
	}

	result, err := tx.ExecContext(ctx, leaveAccountQuery, uid, account.Version)
	if err := checkUpdated(result, err, uid); err != nil {
		return nil, err
	}

	deleted, err := tx.ExecContext(ctx, deleteQueueEntryQuery, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: queue entry: %v", ErrStoreUnavailable, err)
	}
	if n, err := deleted.RowsAffected(); err == nil && n == 0 {
		log.Printf("[QUEUE] %s was flagged in queue without a queue entry", uid)
	}

	t := s.newTransition(models.ActionLeave, account, 0, nil, models.DescriptionLeftQueue, now)
	t.Account.InQueue = false

	if err := s.appendLedger(ctx, tx, t); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrStoreWrite, err))
	}

	log.Printf("[QUEUE] %s left %s queue", uid, account.Barangay())
	return t, nil
}

func (s *QueueService) terminalFee(ctx context.Context, tx *sql.Tx) (int64, error) {
	var fee int64
	err := tx.QueryRowContext(ctx, selectFeeQuery, terminalFeeID).Scan(&fee)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, backoff.Permanent(ErrFeeNotConfigured)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: fee: %v", ErrStoreUnavailable, err)
	}
	return fee, nil
}

// lockAccount re-reads the account under a row lock; the snapshot the
// pipeline resolved earlier is never trusted for eligibility.
func (s *QueueService) lockAccount(ctx context.Context, tx *sql.Tx, uid string) (models.Account, time.Time, error) {
	var (
		account models.Account
		now     time.Time
	)
	err := tx.QueryRowContext(ctx, lockAccountQuery, uid).Scan(
		&account.UID,
		&account.Name,
		&account.BarangayName,
		&account.TricycleNumber,
		&account.Balance,
		&account.InQueue,
		&account.Version,
		&now,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, time.Time{}, backoff.Permanent(fmt.Errorf("%w: %s", ErrAccountNotFound, uid))
	}
	if err != nil {
		return models.Account{}, time.Time{}, fmt.Errorf("%w: lock account: %v", ErrStoreUnavailable, err)
	}
	return account, now, nil
}

func (s *QueueService) newTransition(action models.QueueAction, account models.Account, fee int64, historyAmount *int64, description string, now time.Time) *Transition {
	t := &Transition{
		Action:      action,
		Account:     account,
		Fee:         fee,
		CommittedAt: now,
		Ledger: models.LedgerTransaction{
			ID:          s.newID(),
			UID:         account.UID,
			Amount:      fee,
			Description: description,
			Timestamp:   now,
		},
		History: models.HistoryRecord{
			ID:           s.newID(),
			DriverID:     account.UID,
			Name:         account.Name,
			BarangayName: account.Barangay(),
			Action:       action,
			Amount:       historyAmount,
			Timestamp:    now,
		},
	}
	t.Account.Version++
	t.Account.UpdatedAt = now
	return t
}

func (s *QueueService) appendLedger(ctx context.Context, tx *sql.Tx, t *Transition) error {
	l := t.Ledger
	if _, err := tx.ExecContext(ctx, insertLedgerQuery, l.ID, l.UID, l.Amount, l.Description); err != nil {
		return fmt.Errorf("%w: ledger: %v", ErrStoreUnavailable, err)
	}

	h := t.History
	if _, err := tx.ExecContext(ctx, insertHistoryQuery,
		h.ID, h.DriverID, h.Name, h.BarangayName, string(h.Action), h.Amount); err != nil {
		return fmt.Errorf("%w: history: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// checkUpdated turns a conditional UPDATE that matched nothing into a
// retryable conflict: another terminal moved the account after our read.
func checkUpdated(result sql.Result, err error, uid string) error {
	if err != nil {
		return fmt.Errorf("%w: update account: %v", ErrStoreUnavailable, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update account: %v", ErrStoreUnavailable, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrConcurrentUpdate, uid)
	}
	return nil
}
