package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/veridoc/doc-custody/internal/adapter"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/store"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

// Sweeper defines the interface for sweeper implementations
// Sweepers are long-running background tasks that perform periodic maintenance
//
//go:generate mockgen -source=reconcile.go -destination=../mocks/reconcile.go -package=mocks -mock_names=Sweeper=MockSweeper,Reconciler=MockReconciler
type Sweeper interface {
	// Start begins the sweeper's main loop
	// This is a blocking call that runs until the context is canceled
	Start(ctx context.Context) error

	// Stop gracefully stops the sweeper
	// This should wait for any in-progress work to complete
	Stop(ctx context.Context) error

	// Name returns the sweeper's name for logging and identification
	Name() string
}

// Summary describes one completed reconciliation cycle
type Summary struct {
	Checked    int           `json:"checked"`
	Matched    int           `json:"matched"`
	Mismatched int           `json:"mismatched"`
	Missing    int           `json:"missing"`
	Errors     int           `json:"errors"`
	Duration   time.Duration `json:"duration"`
}

// Reconciler exposes an on-demand sweep for operator tooling
type Reconciler interface {
	Sweeper
	// ReconcileNow runs a single full cycle immediately and reports what it
	// found. Safe to call while the periodic loop is running.
	ReconcileNow(ctx context.Context) (*Summary, error)
}

// Config holds configuration for the custody reconciler
type Config struct {
	Interval       time.Duration // Time between sweep cycles
	BatchSize      int           // Records to load per page
	WorkerPoolSize int           // Concurrent ownership checks
}

// custodyReconciler compares ledger custody records against live chain
// ownership. Divergence is logged, never auto-corrected: a mismatch means a
// human needs to look, and a wrong automated fix is worse than a loud log line.
type custodyReconciler struct {
	config  *Config
	store   store.Store
	gateway chain.Gateway
	clock   adapter.Clock

	running   atomic.Bool
	sweepMu   sync.Mutex
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewReconciler creates a new custody reconciler
func NewReconciler(config *Config, st store.Store, gw chain.Gateway, clock adapter.Clock) Reconciler {
	return &custodyReconciler{
		config:    config,
		store:     st,
		gateway:   gw,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (r *custodyReconciler) Name() string {
	return "custody-reconciler"
}

// Start begins the periodic reconciliation loop
func (r *custodyReconciler) Start(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return fmt.Errorf("reconciler already running")
	}
	defer func() {
		r.running.Store(false)
		close(r.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting custody reconciler",
		zap.Duration("interval", r.config.Interval),
		zap.Int("batch_size", r.config.BatchSize),
		zap.Int("worker_pool_size", r.config.WorkerPoolSize),
	)

	for {
		if _, err := r.ReconcileNow(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err)
			}
		}

		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Custody reconciler stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-r.stopChan:
			logger.InfoCtx(ctx, "Custody reconciler stop requested")
			return nil
		case <-r.clock.After(r.config.Interval):
		}
	}
}

// Stop gracefully stops the reconciler with timeout support
func (r *custodyReconciler) Stop(ctx context.Context) error {
	if !r.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping custody reconciler")
	close(r.stopChan)

	select {
	case <-r.stoppedCh:
		logger.InfoCtx(ctx, "Custody reconciler stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Custody reconciler stop interrupted by context timeout")
		return ctx.Err()
	}
}

// ReconcileNow runs a single full reconciliation cycle
func (r *custodyReconciler) ReconcileNow(ctx context.Context) (*Summary, error) {
	// Cycles never overlap: an API-triggered sweep waits for a periodic one
	r.sweepMu.Lock()
	defer r.sweepMu.Unlock()

	startTime := r.clock.Now()
	logger.InfoCtx(ctx, "Starting reconciliation cycle")

	var matched, mismatched, missing, errCount atomic.Int32
	checked := 0

	pool := pond.NewPool(
		r.config.WorkerPoolSize,
		pond.WithQueueSize(r.config.BatchSize),
		pond.WithContext(ctx),
	)

	statuses := []domain.NFTStatus{domain.NFTStatusMinted, domain.NFTStatusRedeemed}
	for offset := 0; ; offset += r.config.BatchSize {
		if ctx.Err() != nil {
			pool.StopAndWait()
			return nil, ctx.Err()
		}

		records, err := r.store.ListNFTRecordsByStatus(ctx, statuses, r.config.BatchSize, offset)
		if err != nil {
			pool.StopAndWait()
			return nil, fmt.Errorf("failed to list custody records: %w", err)
		}
		if len(records) == 0 {
			break
		}
		checked += len(records)

		for _, record := range records {
			pool.Submit(func() {
				r.checkRecord(ctx, record, &matched, &mismatched, &missing, &errCount)
			})
		}
	}

	pool.StopAndWait()

	summary := &Summary{
		Checked:    checked,
		Matched:    int(matched.Load()),
		Mismatched: int(mismatched.Load()),
		Missing:    int(missing.Load()),
		Errors:     int(errCount.Load()),
		Duration:   r.clock.Since(startTime),
	}

	logger.InfoCtx(ctx, "Reconciliation cycle completed",
		zap.Int("checked", summary.Checked),
		zap.Int("matched", summary.Matched),
		zap.Int("mismatched", summary.Mismatched),
		zap.Int("missing", summary.Missing),
		zap.Int("errors", summary.Errors),
		zap.Duration("duration", summary.Duration),
	)

	return summary, nil
}

// checkRecord compares one record's expected holder against live ownership
func (r *custodyReconciler) checkRecord(ctx context.Context, record *schema.NFTRecord,
	matched, mismatched, missing, errCount *atomic.Int32) {
	owner, err := r.gateway.OwnerOf(ctx, record.TokenID)
	if err != nil {
		// A revert on ownerOf means the token does not exist on chain,
		// usually a burn that has not been ingested yet
		if isExecutionReverted(err) {
			missing.Add(1)
			logger.WarnCtx(ctx, "Token missing on chain",
				zap.String("token_id", record.TokenID),
				zap.String("status", string(record.Status)))
			return
		}
		errCount.Add(1)
		logger.ErrorCtx(ctx, fmt.Errorf("ownership check failed: %w", err),
			zap.String("token_id", record.TokenID))
		return
	}

	if domain.SameAddress(owner, record.RecipientAddress) {
		matched.Add(1)
		return
	}

	mismatched.Add(1)
	logger.WarnCtx(ctx, "Custody divergence detected",
		zap.String("token_id", record.TokenID),
		zap.String("status", string(record.Status)),
		zap.String("expected_holder", record.RecipientAddress),
		zap.String("actual_holder", owner))
}

// revertErrorCode is the JSON-RPC error code geth assigns to reverted
// eth_call executions.
const revertErrorCode = 3

// isExecutionReverted reports whether err is a contract revert rather than a
// transport or node failure. The string check covers clients that flatten
// the typed error before it reaches us.
func isExecutionReverted(err error) bool {
	if errors.Is(err, vm.ErrExecutionReverted) {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}
