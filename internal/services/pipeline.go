package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/todamoon/terminal/internal/audit"
	"github.com/todamoon/terminal/internal/models"
)

type TokenDecoder interface {
	Decode(raw string) (models.Payload, error)
}

type AccountLookup interface {
	Resolve(ctx context.Context, uid string) (models.Account, error)
}

type Transitioner interface {
	Apply(ctx context.Context, role, uid string) (*Transition, error)
}

type Notifier interface {
	Signal(ctx context.Context, result ScanResult)
}

type TransitionPublisher interface {
	Publish(ctx context.Context, t *Transition)
}

// ScanResult is the outcome of one admitted token.
type ScanResult struct {
	ScanID      string
	Raw         string
	UID         string
	Name        string
	Role        string
	Outcome     Outcome
	Reason      error
	Transition  *Transition
	ProcessedAt time.Time
}

// ScanPipeline runs decode, resolve, transition and feedback for a single
// raw token, strictly in that order.
type ScanPipeline struct {
	role      string
	decoder   TokenDecoder
	accounts  AccountLookup
	queue     Transitioner
	notifier  Notifier
	publisher TransitionPublisher
	audit     *audit.Logger
	status    *StatusRecorder
	now       func() time.Time
}

// PipelineDeps are the collaborators of a ScanPipeline. Publisher, Audit and
// Status may be nil.
type PipelineDeps struct {
	Decoder   TokenDecoder
	Accounts  AccountLookup
	Queue     Transitioner
	Notifier  Notifier
	Publisher TransitionPublisher
	Audit     *audit.Logger
	Status    *StatusRecorder
}

// NewScanPipeline creates a pipeline for one terminal role.
func NewScanPipeline(role string, deps PipelineDeps) *ScanPipeline {
	return &ScanPipeline{
		role:      role,
		decoder:   deps.Decoder,
		accounts:  deps.Accounts,
		queue:     deps.Queue,
		notifier:  deps.Notifier,
		publisher: deps.Publisher,
		audit:     deps.Audit,
		status:    deps.Status,
		now:       time.Now,
	}
}

// Process runs one raw token through the pipeline. It never returns an
// error; the outcome and reason are carried on the ScanResult.
func (p *ScanPipeline) Process(ctx context.Context, raw string) ScanResult {
	result := ScanResult{
		ScanID: uuid.NewString(),
		Raw:    raw,
		Role:   p.role,
	}

	transition, err := p.run(ctx, &result)
	result.Transition = transition
	result.Reason = err
	result.Outcome = Classify(err)
	result.ProcessedAt = p.now().UTC()

	if result.Outcome == OutcomeSuccess && p.publisher != nil {
		p.publisher.Publish(ctx, transition)
	}

	p.record(result)

	p.notifier.Signal(ctx, result)

	return result
}

func (p *ScanPipeline) run(ctx context.Context, result *ScanResult) (*Transition, error) {
	payload, err := p.decoder.Decode(result.Raw)
	if err != nil {
		return nil, err
	}
	result.UID = payload.UID
	result.Name = payload.Name

	account, err := p.accounts.Resolve(ctx, payload.UID)
	if err != nil {
		return nil, err
	}
	result.Name = account.Name

	return p.queue.Apply(ctx, p.role, account.UID)
}

func (p *ScanPipeline) record(result ScanResult) {
	switch result.Outcome {
	case OutcomeSuccess:
		t := result.Transition
		log.Printf("[PIPELINE] %s %s %s: balance %d", result.ScanID, t.Action, result.UID, t.Account.Balance)
		if p.audit != nil {
			p.audit.LogTransition(result.ScanID, result.UID, string(t.Action), t.Fee, t.Account.Balance)
		}
	case OutcomeRejected:
		log.Printf("[PIPELINE] %s rejected %q: %v", result.ScanID, result.UID, result.Reason)
		if p.audit != nil {
			p.audit.LogRejection(result.ScanID, result.UID, result.Reason)
		}
	default:
		log.Printf("[PIPELINE] %s failed for %q: %v", result.ScanID, result.UID, result.Reason)
		if p.audit != nil {
			p.audit.LogError(result.ScanID, result.UID, result.Reason)
		}
	}

	if p.status != nil {
		p.status.Record(result)
	}
}
