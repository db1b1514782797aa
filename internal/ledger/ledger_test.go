package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/ledger"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/mocks"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

const (
	grantorAddress  = "0x1111111111111111111111111111111111111111"
	operatorAddress = "0x2222222222222222222222222222222222222222"
	usdcContract    = "0x3333333333333333333333333333333333333333"
	approvalTxHash  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

type testLedgerMocks struct {
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	gateway *mocks.MockGateway
	audit   *mocks.MockAuditLogger
	service ledger.Service
}

func setupTestLedger(t *testing.T) *testLedgerMocks {
	err := logger.Initialize(logger.Config{Debug: true})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	tm := &testLedgerMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		gateway: mocks.NewMockGateway(ctrl),
		audit:   mocks.NewMockAuditLogger(ctrl),
	}

	registry := domain.NewTokenRegistry([]domain.SupportedToken{
		{ContractAddress: usdcContract, Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	})
	tm.service = ledger.NewService(tm.store, tm.gateway, registry, tm.audit)
	return tm
}

func TestRecordApproval(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	eventTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tm.store.EXPECT().GetApprovalByTxHash(ctx, approvalTxHash).Return(nil, nil)
	tm.gateway.EXPECT().GetTransactionReceipt(ctx, approvalTxHash).Return(&domain.TxReceipt{
		TxHash:      approvalTxHash,
		BlockNumber: 100,
		Success:     true,
		Timestamp:   eventTime,
	}, nil)
	tm.gateway.EXPECT().IsApprovedForAll(ctx, grantorAddress, operatorAddress).Return(true, nil)
	tm.store.EXPECT().AppendApprovalRecord(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *schema.ApprovalRecord) (*schema.ApprovalRecord, bool, error) {
			assert.Equal(t, grantorAddress, rec.GrantorAddress)
			assert.Equal(t, operatorAddress, rec.OperatorAddress)
			assert.True(t, rec.IsApproved)
			assert.Equal(t, uint64(100), rec.BlockNumber)
			assert.Equal(t, eventTime, rec.EventTimestamp)
			return rec, false, nil
		})
	tm.audit.EXPECT().Record(ctx, gomock.Any())

	result, err := tm.service.RecordApproval(ctx, grantorAddress, operatorAddress, approvalTxHash)
	require.NoError(t, err)
	assert.False(t, result.AlreadyRecorded)
	assert.True(t, result.Approval.IsApproved)
}

func TestRecordApproval_Replay(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	existing := &schema.ApprovalRecord{
		GrantorAddress:  grantorAddress,
		OperatorAddress: operatorAddress,
		IsApproved:      true,
		TxHash:          approvalTxHash,
	}

	// Replays short-circuit without touching the chain
	tm.store.EXPECT().GetApprovalByTxHash(ctx, approvalTxHash).Return(existing, nil)

	result, err := tm.service.RecordApproval(ctx, grantorAddress, operatorAddress, approvalTxHash)
	require.NoError(t, err)
	assert.True(t, result.AlreadyRecorded)
	assert.Equal(t, existing, result.Approval)
}

func TestRecordApproval_LiveRevoked(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	mixedCaseGrantor := "0xAbCdAbCdAbCdAbCdAbCdAbCdAbCdAbCdAbCdAbCd"
	normalizedGrantor := "0xabcdabcdabcdabcdabcdabcdabcdabcdabcdabcd"

	tm.store.EXPECT().GetApprovalByTxHash(ctx, approvalTxHash).Return(nil, nil)
	tm.gateway.EXPECT().GetTransactionReceipt(ctx, approvalTxHash).Return(&domain.TxReceipt{
		TxHash: approvalTxHash, Success: true, BlockNumber: 5, Timestamp: time.Now(),
	}, nil)
	// The mixed-case input reaches the gateway normalized
	tm.gateway.EXPECT().IsApprovedForAll(ctx, normalizedGrantor, operatorAddress).Return(false, nil)
	tm.store.EXPECT().AppendApprovalRecord(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *schema.ApprovalRecord) (*schema.ApprovalRecord, bool, error) {
			assert.Equal(t, normalizedGrantor, rec.GrantorAddress)
			assert.False(t, rec.IsApproved)
			return rec, false, nil
		})
	tm.audit.EXPECT().Record(ctx, gomock.Any())

	result, err := tm.service.RecordApproval(ctx, mixedCaseGrantor, operatorAddress, approvalTxHash)
	require.NoError(t, err)
	// Live state wins over whatever the client claims
	assert.False(t, result.Approval.IsApproved)
}

func TestRecordApproval_TransactionNotFound(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetApprovalByTxHash(ctx, approvalTxHash).Return(nil, nil)
	tm.gateway.EXPECT().GetTransactionReceipt(ctx, approvalTxHash).Return(nil, nil)

	_, err := tm.service.RecordApproval(ctx, grantorAddress, operatorAddress, approvalTxHash)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestRecordApproval_InvalidAddress(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	_, err := tm.service.RecordApproval(context.Background(), "not-an-address", operatorAddress, approvalTxHash)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordERC20Approval(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	eventTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tm.store.EXPECT().GetERC20ApprovalByTxHash(ctx, approvalTxHash, usdcContract).Return(nil, nil)
	tm.gateway.EXPECT().GetTransactionReceipt(ctx, approvalTxHash).Return(&domain.TxReceipt{
		TxHash:      approvalTxHash,
		BlockNumber: 200,
		Success:     true,
		Timestamp:   eventTime,
	}, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, grantorAddress).Return(&domain.ERC20Status{
		Balance:   "1000000",
		Allowance: "500000",
	}, nil)
	tm.store.EXPECT().AppendERC20ApprovalRecord(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *schema.ERC20ApprovalRecord) (*schema.ERC20ApprovalRecord, bool, error) {
			assert.Equal(t, usdcContract, rec.TokenContractAddress)
			assert.Equal(t, "USDC", rec.TokenSymbol)
			assert.True(t, rec.IsApproved)
			return rec, false, nil
		})
	tm.audit.EXPECT().Record(ctx, gomock.Any())

	result, err := tm.service.RecordERC20Approval(ctx, grantorAddress, operatorAddress, usdcContract, approvalTxHash)
	require.NoError(t, err)
	assert.False(t, result.AlreadyRecorded)
}

func TestRecordERC20Approval_Replay(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	existing := &schema.ERC20ApprovalRecord{
		TxHash:               approvalTxHash,
		TokenContractAddress: usdcContract,
		IsApproved:           true,
	}

	// The short-circuit fires before any receipt lookup
	tm.store.EXPECT().GetERC20ApprovalByTxHash(ctx, approvalTxHash, usdcContract).Return(existing, nil)

	result, err := tm.service.RecordERC20Approval(ctx, grantorAddress, operatorAddress, usdcContract, approvalTxHash)
	require.NoError(t, err)
	assert.True(t, result.AlreadyRecorded)
	assert.Equal(t, existing, result.Approval)
}

func TestRecordERC20Approval_UnsupportedToken(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	_, err := tm.service.RecordERC20Approval(context.Background(), grantorAddress, operatorAddress,
		"0x9999999999999999999999999999999999999999", approvalTxHash)
	assert.ErrorIs(t, err, domain.ErrUnsupportedToken)
}

func TestRecordERC20Approval_ZeroAllowance(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetERC20ApprovalByTxHash(ctx, approvalTxHash, usdcContract).Return(nil, nil)
	tm.gateway.EXPECT().GetTransactionReceipt(ctx, approvalTxHash).Return(&domain.TxReceipt{
		TxHash: approvalTxHash, Success: true, BlockNumber: 200, Timestamp: time.Now(),
	}, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, grantorAddress).Return(&domain.ERC20Status{
		Balance:   "1000000",
		Allowance: "0",
	}, nil)
	tm.store.EXPECT().AppendERC20ApprovalRecord(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *schema.ERC20ApprovalRecord) (*schema.ERC20ApprovalRecord, bool, error) {
			// A revoke transaction records as not approved
			assert.False(t, rec.IsApproved)
			return rec, false, nil
		})
	tm.audit.EXPECT().Record(ctx, gomock.Any())

	result, err := tm.service.RecordERC20Approval(ctx, grantorAddress, operatorAddress, usdcContract, approvalTxHash)
	require.NoError(t, err)
	assert.False(t, result.Approval.IsApproved)
}

func TestGetApprovalStatus_PersistenceError(t *testing.T) {
	tm := setupTestLedger(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().GetCurrentApproval(ctx, grantorAddress, operatorAddress).Return(nil, errors.New("connection reset"))

	_, err := tm.service.GetApprovalStatus(ctx, grantorAddress, operatorAddress)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
