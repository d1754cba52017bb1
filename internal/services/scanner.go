package services

import (
	"context"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/todamoon/terminal/internal/config"
)

type FrameSource interface {
	Capture(ctx context.Context) ([]byte, error)
}

// Detector returns the first QR payload in a frame, or "" if there is none.
type Detector interface {
	Detect(frame []byte) (string, error)
}

type Processor interface {
	Process(ctx context.Context, raw string) ScanResult
}

// Scanner is the acquisition loop: one frame per cycle, at most one pipeline
// run per cycle, and never two scans in flight.
type Scanner struct {
	camera       FrameSource
	detector     Detector
	processor    Processor
	dedupe       *DedupeFilter
	pollInterval time.Duration
	backoffMin   time.Duration
	backoffMax   time.Duration
	sleep        func(ctx context.Context, d time.Duration)
}

// NewScanner creates the acquisition loop for one camera.
func NewScanner(camera FrameSource, detector Detector, processor Processor, cfg config.CameraConfig) *Scanner {
	return &Scanner{
		camera:       camera,
		detector:     detector,
		processor:    processor,
		dedupe:       NewDedupeFilter(),
		pollInterval: cfg.PollInterval,
		backoffMin:   cfg.BackoffMin,
		backoffMax:   cfg.BackoffMax,
		sleep:        sleepContext,
	}
}

// Run polls until ctx is cancelled and then returns ctx.Err(). A scan that
// has been admitted always runs to completion first.
func (s *Scanner) Run(ctx context.Context) error {
	retry := s.newBackOff()
	log.Printf("[SCANNER] Started, polling every %s", s.pollInterval)

	for {
		if err := ctx.Err(); err != nil {
			log.Printf("[SCANNER] Stopping: %v", err)
			return err
		}

		frame, err := s.camera.Capture(ctx)
		if err != nil {
			if ctx.Err() == nil {
				wait := retry.NextBackOff()
				log.Printf("[SCANNER] Capture failed, retrying in %s: %v", wait, err)
				s.sleep(ctx, wait)
			}
			continue
		}
		retry.Reset()

		s.scan(ctx, frame)
		s.sleep(ctx, s.pollInterval)
	}
}

func (s *Scanner) scan(ctx context.Context, frame []byte) {
	raw, err := s.detector.Detect(frame)
	if err != nil {
		log.Printf("[SCANNER] Skipping frame: %v", err)
		return
	}
	if raw == "" || !s.dedupe.ShouldProcess(raw) {
		return
	}

	s.processor.Process(context.WithoutCancel(ctx), raw)
}

func (s *Scanner) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if s.backoffMin > 0 {
		b.InitialInterval = s.backoffMin
	}
	if s.backoffMax > 0 {
		b.MaxInterval = s.backoffMax
	}
	b.Reset()
	return b
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
