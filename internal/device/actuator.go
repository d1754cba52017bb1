package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrActuatorUnreachable = errors.New("actuator unreachable")

// Actuator drives the buzzer, LEDs and display on the terminal board.
type Actuator struct {
	baseURL string
	client  *http.Client
}

// NewActuator creates an actuator client for the device at baseURL.
func NewActuator(baseURL string, timeout time.Duration) *Actuator {
	return &Actuator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *Actuator) Buzzer(ctx context.Context) error {
	return a.call(ctx, http.MethodGet, "/activate_buzzer", "")
}

func (a *Actuator) GreenLED(ctx context.Context) error {
	return a.call(ctx, http.MethodGet, "/green_led", "")
}

func (a *Actuator) RedLED(ctx context.Context) error {
	return a.call(ctx, http.MethodGet, "/red_led", "")
}

func (a *Actuator) DisplayMessage(ctx context.Context, message string) error {
	return a.call(ctx, http.MethodPost, "/display_message", message)
}

func (a *Actuator) call(ctx context.Context, method, path, body string) error {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrActuatorUnreachable, path, err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "text/plain")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrActuatorUnreachable, path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", ErrActuatorUnreachable, path, resp.StatusCode)
	}
	return nil
}
