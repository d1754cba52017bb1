package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/todamoon/terminal/internal/models"
	"github.com/todamoon/terminal/internal/token"
)

// Indicator is the buzzer/LED/display hardware at a terminal.
type Indicator interface {
	Buzzer(ctx context.Context) error
	GreenLED(ctx context.Context) error
	RedLED(ctx context.Context) error
	DisplayMessage(ctx context.Context, message string) error
}

// FeedbackDispatcher turns a scan result into indicator calls. Every call is
// attempted once; failures are logged and never reach the caller.
type FeedbackDispatcher struct {
	indicator      Indicator
	displayEnabled bool
}

// NewFeedbackDispatcher creates a dispatcher driving indicator.
func NewFeedbackDispatcher(indicator Indicator, displayEnabled bool) *FeedbackDispatcher {
	return &FeedbackDispatcher{
		indicator:      indicator,
		displayEnabled: displayEnabled,
	}
}

// Signal drives the indicator for result. Device failures are logged only.
func (d *FeedbackDispatcher) Signal(ctx context.Context, result ScanResult) {
	if result.Outcome == OutcomeSuccess {
		d.call(ctx, "green_led", d.indicator.GreenLED)
	} else {
		d.call(ctx, "red_led", d.indicator.RedLED)
	}
	d.call(ctx, "buzzer", d.indicator.Buzzer)

	if d.displayEnabled {
		message := displayMessage(result)
		d.call(ctx, "display_message", func(ctx context.Context) error {
			return d.indicator.DisplayMessage(ctx, message)
		})
	}
}

func (d *FeedbackDispatcher) call(ctx context.Context, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		log.Printf("[FEEDBACK] %s failed: %v", name, err)
	}
}

func displayMessage(result ScanResult) string {
	if result.Outcome == OutcomeSuccess && result.Transition != nil {
		if result.Transition.Action == models.ActionJoin {
			return "Joined! Balance: " + formatAmount(result.Transition.Account.Balance)
		}
		return "Left queue. Ingat!"
	}

	switch err := result.Reason; {
	case errors.Is(err, token.ErrInvalidToken):
		return "Invalid QR code"
	case errors.Is(err, ErrAccountNotFound):
		return "Driver not registered"
	case errors.Is(err, ErrAlreadyInQueue):
		return "Already in queue"
	case errors.Is(err, ErrNotInQueue):
		return "Not in queue"
	case errors.Is(err, ErrInsufficientBalance):
		return "Insufficient balance"
	default:
		return "System error, try again"
	}
}

// formatAmount renders centavos as pesos, e.g. 8050 -> "80.50".
func formatAmount(centavos int64) string {
	sign := ""
	if centavos < 0 {
		sign = "-"
		centavos = -centavos
	}
	return fmt.Sprintf("%s%d.%02d", sign, centavos/100, centavos%100)
}
