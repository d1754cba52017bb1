package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/todamoon/terminal/internal/models"
)

const selectAccountQuery = `
	SELECT uid, name, barangay_name, tricycle_number, balance, in_queue, version, updated_at
	FROM users
	WHERE uid = $1`

// AccountResolver is the read-only account lookup used before a transition
// and by token issuing.
type AccountResolver struct {
	db    *sql.DB
	retry RetryPolicy
}

// NewAccountResolver creates a read-only account lookup.
func NewAccountResolver(db *sql.DB, retry RetryPolicy) *AccountResolver {
	return &AccountResolver{
		db:    db,
		retry: retry,
	}
}

// Resolve returns ErrAccountNotFound when no such uid exists and
// ErrStoreUnavailable when the store could not answer within the retry budget.
func (r *AccountResolver) Resolve(ctx context.Context, uid string) (models.Account, error) {
	return withRetry(ctx, r.retry, "RESOLVER", func(ctx context.Context) (models.Account, error) {
		var account models.Account
		err := r.db.QueryRowContext(ctx, selectAccountQuery, uid).Scan(
			&account.UID,
			&account.Name,
			&account.BarangayName,
			&account.TricycleNumber,
			&account.Balance,
			&account.InQueue,
			&account.Version,
			&account.UpdatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, backoff.Permanent(fmt.Errorf("%w: %s", ErrAccountNotFound, uid))
		}
		if err != nil {
			return models.Account{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return account, nil
	})
}
