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

var ErrImageSourceUnavailable = errors.New("image source unavailable")

// maxFrameBytes caps a single capture; ESP32 JPEG frames are well below this.
const maxFrameBytes = 8 << 20

// Camera polls the device-local capture endpoint.
type Camera struct {
	baseURL  string
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// NewCamera creates a camera client for the device at baseURL.
func NewCamera(baseURL string, timeout time.Duration) *Camera {
	return &Camera{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{},
		timeout:  timeout,
		maxBytes: maxFrameBytes,
	}
}

// Capture fetches one encoded frame. Any failure, including a non-200 reply,
// an oversized frame or the per-request timeout, is reported as
// ErrImageSourceUnavailable.
func (c *Camera) Capture(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/capture", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageSourceUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrImageSourceUnavailable, resp.StatusCode)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading frame: %v", ErrImageSourceUnavailable, err)
	}
	if int64(len(frame)) > c.maxBytes {
		return nil, fmt.Errorf("%w: frame exceeds %d bytes", ErrImageSourceUnavailable, c.maxBytes)
	}
	return frame, nil
}
