package services

import (
	"errors"

	"github.com/todamoon/terminal/internal/token"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAlreadyInQueue      = errors.New("already in queue")
	ErrNotInQueue          = errors.New("not in queue")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStoreWrite          = errors.New("store write failed")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrConcurrentUpdate    = errors.New("account changed concurrently")
	ErrFeeNotConfigured    = errors.New("terminal fee not configured")
	ErrUnknownRole         = errors.New("unknown terminal role")
)

// Outcome is what the driver at the terminal is told.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRejected
	OutcomeSystemError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	default:
		return "system_error"
	}
}

// Classify maps a pipeline error onto the feedback outcome. Rejections are
// about the bearer; everything else is a fault on our side.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrAlreadyInQueue),
		errors.Is(err, ErrNotInQueue),
		errors.Is(err, ErrInsufficientBalance):
		return OutcomeRejected
	default:
		return OutcomeSystemError
	}
}
