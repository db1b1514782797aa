package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/veridoc/doc-custody/internal/audit"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/store"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

// Status is a snapshot of the ingestion loop's state
type Status struct {
	Running         bool       `json:"running"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	LastEventAt     *time.Time `json:"lastEventAt,omitempty"`
	EventsProcessed uint64     `json:"eventsProcessed"`
	LastError       string     `json:"lastError,omitempty"`
}

// Service is the contract event ingestion loop. It subscribes to the custody
// contract's event stream and folds each event into the approval ledger and
// NFT lifecycle records. Every handler is best effort: a failure on one event
// never stops the loop.
//
//go:generate mockgen -source=ingest.go -destination=../mocks/ingest.go -package=mocks -mock_names=Service=MockIngestService
type Service interface {
	// Start launches the subscription loop. Calling Start while already
	// running is a no-op.
	Start(ctx context.Context) error
	// Stop terminates the loop and waits for it to wind down
	Stop()
	// Status reports whether the loop is running and what it has processed
	Status() Status
}

type service struct {
	gateway chain.Gateway
	store   store.Store
	audit   audit.Logger

	running   atomic.Bool
	mu        sync.Mutex
	cancel    context.CancelFunc
	stoppedCh chan struct{}

	startedAt   atomic.Pointer[time.Time]
	lastEventAt atomic.Pointer[time.Time]
	processed   atomic.Uint64
	lastError   atomic.Pointer[string]
}

// NewService creates the event ingestion service
func NewService(gw chain.Gateway, st store.Store, auditLogger audit.Logger) Service {
	return &service{
		gateway: gw,
		store:   st,
		audit:   auditLogger,
	}
}

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.CompareAndSwap(false, true) {
		logger.InfoCtx(ctx, "Event ingestion already running")
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stoppedCh = make(chan struct{})
	now := time.Now()
	s.startedAt.Store(&now)

	go s.run(loopCtx)

	logger.InfoCtx(ctx, "Event ingestion started")
	return nil
}

func (s *service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return
	}

	s.cancel()
	<-s.stoppedCh
	s.running.Store(false)
	s.startedAt.Store(nil)
	logger.Info("Event ingestion stopped")
}

func (s *service) Status() Status {
	st := Status{
		Running:         s.running.Load(),
		StartedAt:       s.startedAt.Load(),
		LastEventAt:     s.lastEventAt.Load(),
		EventsProcessed: s.processed.Load(),
	}
	if e := s.lastError.Load(); e != nil {
		st.LastError = *e
	}
	return st
}

// run keeps the subscription alive until the context is cancelled,
// reconnecting with exponential backoff on subscription failures
func (s *service) run(ctx context.Context) {
	defer close(s.stoppedCh)

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = 0

	for {
		err := s.gateway.SubscribeEvents(ctx, s.handleEvent)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		if err != nil {
			msg := err.Error()
			s.lastError.Store(&msg)
			logger.ErrorCtx(ctx, err, zap.String("message", "Subscription lost, reconnecting"))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(bo.NextBackOff()):
		}
	}
}

func (s *service) handleEvent(event *domain.ContractEvent) error {
	ctx := context.Background()

	now := time.Now()
	s.lastEventAt.Store(&now)
	s.processed.Add(1)

	logger.InfoCtx(ctx, "Handling contract event",
		zap.String("kind", string(event.Kind)),
		zap.String("txHash", event.TxHash),
		zap.Uint64("blockNumber", event.BlockNumber))

	switch event.Kind {
	case domain.EventKindApprovalForAll:
		return s.handleApprovalForAll(ctx, event)
	case domain.EventKindTransfer:
		return s.handleTransfer(ctx, event)
	case domain.EventKindTokenMinted:
		return s.handleTokenMinted(ctx, event)
	case domain.EventKindTokenPulledBack:
		return s.handleTokenPulledBack(ctx, event)
	default:
		logger.WarnCtx(ctx, "Unknown event kind", zap.String("kind", string(event.Kind)))
		return nil
	}
}

// handleApprovalForAll appends an approval ledger row for the observed
// grant or revocation. The tx hash unique index absorbs replays.
func (s *service) handleApprovalForAll(ctx context.Context, event *domain.ContractEvent) error {
	rec := &schema.ApprovalRecord{
		GrantorAddress:  event.Owner,
		OperatorAddress: event.Operator,
		IsApproved:      event.Approved,
		TxHash:          event.TxHash,
		BlockNumber:     event.BlockNumber,
		EventTimestamp:  event.Timestamp,
	}

	_, already, err := s.store.AppendApprovalRecord(ctx, rec)
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       audit.ActionApprovalRecorded,
		ActorAddress: event.Owner,
		TxHash:       event.TxHash,
		Metadata: map[string]interface{}{
			"operator":   event.Operator,
			"isApproved": event.Approved,
			"source":     "event",
		},
	})
	return nil
}

// handleTransfer marks a minted token as redeemed once it reaches its
// intended recipient. Transfers of unknown tokens or to other parties are
// recorded in the log only.
func (s *service) handleTransfer(ctx context.Context, event *domain.ContractEvent) error {
	rec, err := s.store.GetNFTRecordByTokenID(ctx, event.TokenID)
	if err != nil {
		return err
	}
	if rec == nil {
		logger.WarnCtx(ctx, "Transfer for unknown token",
			zap.String("tokenID", event.TokenID),
			zap.String("txHash", event.TxHash))
		return nil
	}

	if !domain.SameAddress(event.To, rec.RecipientAddress) {
		logger.InfoCtx(ctx, "Transfer to non-recipient, no status change",
			zap.String("tokenID", event.TokenID),
			zap.String("to", event.To))
		return nil
	}

	moved, err := s.store.TransitionNFTStatus(ctx, event.TokenID,
		[]domain.NFTStatus{domain.NFTStatusMinted}, domain.NFTStatusRedeemed, nil)
	if err != nil {
		return err
	}
	if moved {
		logger.InfoCtx(ctx, "Token redeemed",
			zap.String("tokenID", event.TokenID),
			zap.String("recipient", event.To))
	}
	return nil
}

// handleTokenMinted confirms a mint observed on chain, covering mints whose
// API-side confirmation was lost
func (s *service) handleTokenMinted(ctx context.Context, event *domain.ContractEvent) error {
	txHash := event.TxHash
	moved, err := s.store.TransitionNFTStatus(ctx, event.TokenID,
		[]domain.NFTStatus{domain.NFTStatusUploaded}, domain.NFTStatusMinted, &txHash)
	if err != nil {
		return err
	}
	if moved {
		s.audit.Record(ctx, audit.Entry{
			Action:  audit.ActionTokenMinted,
			TokenID: event.TokenID,
			TxHash:  event.TxHash,
			Metadata: map[string]interface{}{
				"to":     event.To,
				"source": "event",
			},
		})
	}
	return nil
}

// handleTokenPulledBack marks a token pulled from any prior state. Pulled is
// terminal so the transition never fires twice.
func (s *service) handleTokenPulledBack(ctx context.Context, event *domain.ContractEvent) error {
	txHash := event.TxHash
	moved, err := s.store.TransitionNFTStatus(ctx, event.TokenID,
		[]domain.NFTStatus{domain.NFTStatusUploaded, domain.NFTStatusMinted, domain.NFTStatusRedeemed},
		domain.NFTStatusPulled, &txHash)
	if err != nil {
		return err
	}
	if moved {
		s.audit.Record(ctx, audit.Entry{
			Action:  audit.ActionTokenPulled,
			TokenID: event.TokenID,
			TxHash:  event.TxHash,
			Metadata: map[string]interface{}{
				"from":   event.From,
				"source": "event",
			},
		})
	}
	return nil
}
