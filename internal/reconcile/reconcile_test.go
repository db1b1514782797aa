package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/mocks"
	"github.com/veridoc/doc-custody/internal/reconcile"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

const recipientAddress = "0x4444444444444444444444444444444444444444"

type testReconcilerMocks struct {
	ctrl       *gomock.Controller
	store      *mocks.MockStore
	gateway    *mocks.MockGateway
	clock      *mocks.MockClock
	reconciler reconcile.Reconciler
}

func setupTestReconciler(t *testing.T) *testReconcilerMocks {
	err := logger.Initialize(logger.Config{Debug: true})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	tm := &testReconcilerMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		gateway: mocks.NewMockGateway(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(time.Now()).AnyTimes()
	tm.clock.EXPECT().Since(gomock.Any()).Return(time.Second).AnyTimes()

	tm.reconciler = reconcile.NewReconciler(&reconcile.Config{
		Interval:       time.Hour,
		BatchSize:      2,
		WorkerPoolSize: 2,
	}, tm.store, tm.gateway, tm.clock)
	return tm
}

func custodyRecord(tokenID string) *schema.NFTRecord {
	return &schema.NFTRecord{
		TokenID:          tokenID,
		RecipientAddress: recipientAddress,
		Status:           domain.NFTStatusRedeemed,
	}
}

func TestReconciler_Name(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	assert.Equal(t, "custody-reconciler", tm.reconciler.Name())
}

func TestReconcileNow_AllMatched(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	statuses := []domain.NFTStatus{domain.NFTStatusMinted, domain.NFTStatusRedeemed}

	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, statuses, 2, 0).
		Return([]*schema.NFTRecord{custodyRecord("1"), custodyRecord("2")}, nil)
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, statuses, 2, 2).
		Return(nil, nil)
	tm.gateway.EXPECT().OwnerOf(ctx, "1").Return(recipientAddress, nil)
	tm.gateway.EXPECT().OwnerOf(ctx, "2").Return(recipientAddress, nil)

	summary, err := tm.reconciler.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Checked)
	assert.Equal(t, 2, summary.Matched)
	assert.Zero(t, summary.Mismatched)
	assert.Zero(t, summary.Missing)
	assert.Zero(t, summary.Errors)
}

func TestReconcileNow_Divergence(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 0).
		Return([]*schema.NFTRecord{custodyRecord("1")}, nil)
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 2).
		Return(nil, nil)
	// The token moved to a wallet the ledger has never seen
	tm.gateway.EXPECT().OwnerOf(ctx, "1").Return("0x5555555555555555555555555555555555555555", nil)

	summary, err := tm.reconciler.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Mismatched)
	assert.Zero(t, summary.Matched)
}

// codedRPCError mimics the coded revert errors JSON-RPC clients surface
type codedRPCError struct {
	code int
	msg  string
}

func (e *codedRPCError) Error() string  { return e.msg }
func (e *codedRPCError) ErrorCode() int { return e.code }

func TestReconcileNow_MissingOnChain(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 0).
		Return([]*schema.NFTRecord{custodyRecord("1"), custodyRecord("2")}, nil)
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 2).
		Return([]*schema.NFTRecord{custodyRecord("3"), custodyRecord("4")}, nil)
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 4).
		Return(nil, nil)
	// Reverts arrive typed, coded, or flattened to a string depending on the
	// client; all three count as missing, anything else is an error
	tm.gateway.EXPECT().OwnerOf(ctx, "1").
		Return("", fmt.Errorf("ownerOf: %w", vm.ErrExecutionReverted))
	tm.gateway.EXPECT().OwnerOf(ctx, "2").
		Return("", &codedRPCError{code: 3, msg: "ERC721: invalid token ID"})
	tm.gateway.EXPECT().OwnerOf(ctx, "3").
		Return("", errors.New("execution reverted: ERC721: invalid token ID"))
	tm.gateway.EXPECT().OwnerOf(ctx, "4").Return("", errors.New("rpc timeout"))

	summary, err := tm.reconciler.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Missing)
	assert.Equal(t, 1, summary.Errors)
}

func TestReconcileNow_Pagination(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 0).
		Return([]*schema.NFTRecord{custodyRecord("1"), custodyRecord("2")}, nil)
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 2).
		Return([]*schema.NFTRecord{custodyRecord("3")}, nil)
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 4).
		Return(nil, nil)
	tm.gateway.EXPECT().OwnerOf(ctx, gomock.Any()).Return(recipientAddress, nil).Times(3)

	summary, err := tm.reconciler.ReconcileNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Checked)
	assert.Equal(t, 3, summary.Matched)
}

func TestReconcileNow_StoreError(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().ListNFTRecordsByStatus(ctx, gomock.Any(), 2, 0).
		Return(nil, errors.New("connection refused"))

	_, err := tm.reconciler.ReconcileNow(ctx)
	assert.ErrorContains(t, err, "failed to list custody records")
}

func TestReconciler_StartAndStop(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	// One empty cycle, then the loop parks on the interval timer
	cycled := make(chan struct{}, 1)
	tm.store.EXPECT().ListNFTRecordsByStatus(gomock.Any(), gomock.Any(), 2, 0).
		DoAndReturn(func(context.Context, []domain.NFTStatus, int, int) ([]*schema.NFTRecord, error) {
			select {
			case cycled <- struct{}{}:
			default:
			}
			return nil, nil
		}).AnyTimes()
	tm.clock.EXPECT().After(time.Hour).Return(make(chan time.Time)).AnyTimes()

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		done <- tm.reconciler.Start(ctx)
	}()

	select {
	case <-cycled:
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle never ran")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, tm.reconciler.Stop(stopCtx))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reconciler did not stop")
	}
}
