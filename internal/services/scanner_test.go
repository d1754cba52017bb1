package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/todamoon/terminal/internal/config"
	"github.com/todamoon/terminal/internal/device"
)

// scriptedCamera replays a fixed sequence of captures and cancels the run
// once it is exhausted.
type scriptedCamera struct {
	frames []string
	errs   []error
	cancel context.CancelFunc
	next   int
}

func (c *scriptedCamera) Capture(ctx context.Context) ([]byte, error) {
	if c.next >= len(c.frames) {
		c.cancel()
		return nil, ctx.Err()
	}
	i := c.next
	c.next++
	if c.errs != nil && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	return []byte(c.frames[i]), nil
}

// frameDetector treats the frame bytes as the decoded QR text.
type frameDetector struct{}

func (frameDetector) Detect(frame []byte) (string, error) {
	if string(frame) == "garbage" {
		return "", device.ErrUndecodableFrame
	}
	return string(frame), nil
}

func newTestScanner(camera FrameSource, processor Processor) (*Scanner, *[]time.Duration) {
	scanner := NewScanner(camera, frameDetector{}, processor, config.CameraConfig{
		PollInterval: 100 * time.Millisecond,
		BackoffMin:   time.Second,
		BackoffMax:   4 * time.Second,
	})
	var sleeps []time.Duration
	scanner.sleep = func(ctx context.Context, d time.Duration) {
		sleeps = append(sleeps, d)
	}
	return scanner, &sleeps
}

func TestScanner_Run(t *testing.T) {
	t.Run("each presentation is processed once", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		camera := &scriptedCamera{frames: []string{"A", "", "A", "B", "B", "", "A"}, cancel: cancel}
		processor := new(MockProcessor)
		var seen []string
		processor.On("Process", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { seen = append(seen, args.String(1)) }).
			Return(ScanResult{})

		scanner, _ := newTestScanner(camera, processor)
		err := scanner.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"A", "B", "A"}, seen)
	})

	t.Run("undecodable frames count as blank", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		camera := &scriptedCamera{frames: []string{"garbage", "A", "garbage", "A"}, cancel: cancel}
		processor := new(MockProcessor)
		processor.On("Process", mock.Anything, "A").Return(ScanResult{}).Once()

		scanner, _ := newTestScanner(camera, processor)
		assert.ErrorIs(t, scanner.Run(ctx), context.Canceled)
		processor.AssertExpectations(t)
	})

	t.Run("capture failures back off and recover", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		unavailable := device.ErrImageSourceUnavailable
		camera := &scriptedCamera{
			frames: []string{"", "", "", "A"},
			errs:   []error{unavailable, unavailable, unavailable, nil},
			cancel: cancel,
		}
		processor := new(MockProcessor)
		processor.On("Process", mock.Anything, "A").Return(ScanResult{}).Once()

		scanner, sleeps := newTestScanner(camera, processor)
		assert.ErrorIs(t, scanner.Run(ctx), context.Canceled)

		processor.AssertExpectations(t)
		if assert.Len(t, *sleeps, 4) {
			for _, d := range (*sleeps)[:3] {
				assert.GreaterOrEqual(t, d, 500*time.Millisecond)
				assert.LessOrEqual(t, d, 4*time.Second)
			}
			assert.Equal(t, 100*time.Millisecond, (*sleeps)[3])
		}
	})

	t.Run("admitted scan survives cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		camera := &scriptedCamera{frames: []string{"A"}, cancel: cancel}
		processor := new(MockProcessor)
		processor.On("Process", mock.Anything, "A").
			Run(func(args mock.Arguments) {
				cancel()
				assert.NoError(t, args.Get(0).(context.Context).Err())
			}).
			Return(ScanResult{}).Once()

		scanner, _ := newTestScanner(camera, processor)
		assert.ErrorIs(t, scanner.Run(ctx), context.Canceled)
		processor.AssertExpectations(t)
	})

	t.Run("stops immediately when already cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		camera := new(MockFrameSource)
		scanner, _ := newTestScanner(camera, new(MockProcessor))

		assert.ErrorIs(t, scanner.Run(ctx), context.Canceled)
		camera.AssertNotCalled(t, "Capture", mock.Anything)
	})
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}
