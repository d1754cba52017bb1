package services

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"uid", "name", "barangay_name", "tricycle_number", "balance", "in_queue", "version", "updated_at"}

func TestAccountResolver_Resolve(t *testing.T) {
	updatedAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("existing account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(selectAccountQuery)).
			WithArgs("driver-1").
			WillReturnRows(sqlmock.NewRows(accountColumns).
				AddRow("driver-1", "Juan", "San Roque", "TRC-12", 10000, false, 3, updatedAt))

		account, err := NewAccountResolver(db, testRetryPolicy()).Resolve(t.Context(), "driver-1")
		require.NoError(t, err)
		assert.Equal(t, "Juan", account.Name)
		assert.Equal(t, int64(10000), account.Balance)
		assert.Equal(t, 3, account.Version)
		assert.False(t, account.InQueue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account is not retried", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(selectAccountQuery)).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err = NewAccountResolver(db, testRetryPolicy()).Resolve(t.Context(), "ghost")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NotErrorIs(t, err, ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(selectAccountQuery)).
			WithArgs("driver-1").
			WillReturnError(errors.New("connection reset by peer"))
		mock.ExpectQuery(regexp.QuoteMeta(selectAccountQuery)).
			WithArgs("driver-1").
			WillReturnRows(sqlmock.NewRows(accountColumns).
				AddRow("driver-1", "Juan", "", "", 500, true, 1, updatedAt))

		account, err := NewAccountResolver(db, testRetryPolicy()).Resolve(t.Context(), "driver-1")
		require.NoError(t, err)
		assert.True(t, account.InQueue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outage exhausts attempts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for i := 0; i < 3; i++ {
			mock.ExpectQuery(regexp.QuoteMeta(selectAccountQuery)).
				WithArgs("driver-1").
				WillReturnError(errors.New("connection refused"))
		}

		_, err = NewAccountResolver(db, testRetryPolicy()).Resolve(t.Context(), "driver-1")
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
