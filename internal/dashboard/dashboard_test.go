package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/doc-custody/internal/dashboard"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/mocks"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

const (
	operatorAddress = "0x2222222222222222222222222222222222222222"
	usdcContract    = "0x3333333333333333333333333333333333333333"
	aliceAddress    = "0x1111111111111111111111111111111111111111"
	bobAddress      = "0x4444444444444444444444444444444444444444"
)

type testDashboardMocks struct {
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	gateway *mocks.MockGateway
	service dashboard.Service
}

func setupTestDashboard(t *testing.T) *testDashboardMocks {
	err := logger.Initialize(logger.Config{Debug: true})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	tm := &testDashboardMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		gateway: mocks.NewMockGateway(ctrl),
	}
	tm.gateway.EXPECT().OperatorAddress().Return(operatorAddress).AnyTimes()

	registry := domain.NewTokenRegistry([]domain.SupportedToken{
		{ContractAddress: usdcContract, Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	})
	tm.service = dashboard.NewService(tm.store, tm.gateway, registry, 2)
	return tm
}

func TestGetConnectedRecipients(t *testing.T) {
	tm := setupTestDashboard(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	aliceGrant := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	bobGrant := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	tm.store.EXPECT().ListApprovalsByOperator(ctx, operatorAddress).Return([]*schema.ApprovalRecord{
		{GrantorAddress: bobAddress, IsApproved: true, EventTimestamp: bobGrant},
		{GrantorAddress: aliceAddress, IsApproved: true, EventTimestamp: aliceGrant},
	}, nil)
	tm.store.EXPECT().ListERC20ApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListNFTRecordsByInvestor(ctx, operatorAddress).Return(nil, nil)

	tm.gateway.EXPECT().IsApprovedForAll(ctx, aliceAddress, operatorAddress).Return(true, nil)
	tm.gateway.EXPECT().IsApprovedForAll(ctx, bobAddress, operatorAddress).Return(false, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, aliceAddress).Return(&domain.ERC20Status{
		Balance: "1000000", Allowance: "500000",
	}, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, bobAddress).Return(&domain.ERC20Status{
		Balance: "0", Allowance: "0",
	}, nil)

	tm.store.EXPECT().ListNFTRecordsByRecipient(ctx, aliceAddress).Return([]*schema.NFTRecord{
		{TokenID: "1", RecipientAddress: aliceAddress, Status: domain.NFTStatusRedeemed},
	}, nil)
	tm.store.EXPECT().ListNFTRecordsByRecipient(ctx, bobAddress).Return(nil, nil)
	tm.store.EXPECT().ListPullbacksByFrom(ctx, aliceAddress).Return(nil, nil)
	tm.store.EXPECT().ListPullbacksByFrom(ctx, bobAddress).Return(nil, nil)

	recipients, err := tm.service.GetConnectedRecipients(ctx)
	require.NoError(t, err)
	require.Len(t, recipients, 2)

	// Newest first grant sorts first
	assert.Equal(t, bobAddress, recipients[0].Address)
	assert.Equal(t, aliceAddress, recipients[1].Address)

	alice := recipients[1]
	assert.True(t, alice.NFTApproved)
	assert.True(t, alice.HasAnyApproval)
	require.Len(t, alice.Tokens, 1)
	assert.Equal(t, "500000", alice.Tokens[0].Allowance)
	assert.Len(t, alice.NFTs, 1)

	// Bob's live reads are all zero but his latest stored approval is a
	// grant, so he stays connected
	bob := recipients[0]
	assert.False(t, bob.NFTApproved)
	assert.True(t, bob.HasAnyApproval)
}

func TestGetConnectedRecipients_NFTRecipientWithoutLedgerRow(t *testing.T) {
	tm := setupTestDashboard(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	// Alice never self-reported an approval but holds an issued NFT and her
	// live custody approval is on
	tm.store.EXPECT().ListApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListERC20ApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListNFTRecordsByInvestor(ctx, operatorAddress).Return([]*schema.NFTRecord{
		{TokenID: "7", RecipientAddress: aliceAddress, Status: domain.NFTStatusMinted},
	}, nil)

	tm.gateway.EXPECT().IsApprovedForAll(ctx, aliceAddress, operatorAddress).Return(true, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, aliceAddress).Return(&domain.ERC20Status{
		Balance: "0", Allowance: "0",
	}, nil)
	tm.store.EXPECT().ListNFTRecordsByRecipient(ctx, aliceAddress).Return([]*schema.NFTRecord{
		{TokenID: "7", RecipientAddress: aliceAddress, Status: domain.NFTStatusMinted},
	}, nil)
	tm.store.EXPECT().ListPullbacksByFrom(ctx, aliceAddress).Return(nil, nil)

	recipients, err := tm.service.GetConnectedRecipients(ctx)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, aliceAddress, recipients[0].Address)
	assert.True(t, recipients[0].NFTApproved)
	assert.True(t, recipients[0].HasAnyApproval)
	assert.Nil(t, recipients[0].FirstApprovalAt)
}

func TestGetConnectedRecipients_RevokedGrantorFiltered(t *testing.T) {
	tm := setupTestDashboard(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	// Only a revocation on record and nothing live: the address drops out of
	// the view
	tm.store.EXPECT().ListApprovalsByOperator(ctx, operatorAddress).Return([]*schema.ApprovalRecord{
		{GrantorAddress: aliceAddress, IsApproved: false, EventTimestamp: time.Now()},
	}, nil)
	tm.store.EXPECT().ListERC20ApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListNFTRecordsByInvestor(ctx, operatorAddress).Return(nil, nil)
	tm.gateway.EXPECT().IsApprovedForAll(ctx, aliceAddress, operatorAddress).Return(false, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, aliceAddress).Return(&domain.ERC20Status{
		Balance: "0", Allowance: "0",
	}, nil)
	tm.store.EXPECT().ListNFTRecordsByRecipient(ctx, aliceAddress).Return(nil, nil)
	tm.store.EXPECT().ListPullbacksByFrom(ctx, aliceAddress).Return(nil, nil)

	recipients, err := tm.service.GetConnectedRecipients(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipients)
}

func TestGetConnectedRecipients_RevokedButLiveApproved(t *testing.T) {
	tm := setupTestDashboard(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	// The ledger says revoked but the chain says approved: live wins and the
	// address stays connected, without a first grant timestamp
	tm.store.EXPECT().ListApprovalsByOperator(ctx, operatorAddress).Return([]*schema.ApprovalRecord{
		{GrantorAddress: aliceAddress, IsApproved: false, EventTimestamp: time.Now()},
	}, nil)
	tm.store.EXPECT().ListERC20ApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListNFTRecordsByInvestor(ctx, operatorAddress).Return(nil, nil)
	tm.gateway.EXPECT().IsApprovedForAll(ctx, aliceAddress, operatorAddress).Return(true, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, aliceAddress).Return(&domain.ERC20Status{
		Balance: "0", Allowance: "0",
	}, nil)
	tm.store.EXPECT().ListNFTRecordsByRecipient(ctx, aliceAddress).Return(nil, nil)
	tm.store.EXPECT().ListPullbacksByFrom(ctx, aliceAddress).Return(nil, nil)

	recipients, err := tm.service.GetConnectedRecipients(ctx)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Nil(t, recipients[0].FirstApprovalAt)
	assert.True(t, recipients[0].HasAnyApproval)
}

func TestGetConnectedRecipients_DegradesOnLiveReadFailure(t *testing.T) {
	tm := setupTestDashboard(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	grant := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	tm.store.EXPECT().ListApprovalsByOperator(ctx, operatorAddress).Return([]*schema.ApprovalRecord{
		{GrantorAddress: aliceAddress, IsApproved: true, EventTimestamp: grant},
	}, nil)
	tm.store.EXPECT().ListERC20ApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListNFTRecordsByInvestor(ctx, operatorAddress).Return(nil, nil)

	// Every live read fails; the stored grant keeps the row connected and
	// the live cells degrade to zero values
	tm.gateway.EXPECT().IsApprovedForAll(ctx, aliceAddress, operatorAddress).Return(false, errors.New("rpc timeout"))
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, aliceAddress).Return(nil, errors.New("rpc timeout"))
	tm.store.EXPECT().ListNFTRecordsByRecipient(ctx, aliceAddress).Return(nil, errors.New("db down"))
	tm.store.EXPECT().ListPullbacksByFrom(ctx, aliceAddress).Return(nil, errors.New("db down"))

	recipients, err := tm.service.GetConnectedRecipients(ctx)
	require.NoError(t, err)
	require.Len(t, recipients, 1)

	row := recipients[0]
	assert.False(t, row.NFTApproved)
	assert.True(t, row.HasAnyApproval)
	require.Len(t, row.Tokens, 1)
	assert.Equal(t, "0", row.Tokens[0].Balance)
	assert.Equal(t, "0", row.Tokens[0].Allowance)
	assert.Empty(t, row.NFTs)
	assert.Empty(t, row.Pullbacks)
}

func TestGetConnectedRecipients_ERC20OnlyGrantor(t *testing.T) {
	tm := setupTestDashboard(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	grant := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tm.store.EXPECT().ListApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListERC20ApprovalsByOperator(ctx, operatorAddress).Return([]*schema.ERC20ApprovalRecord{
		{GrantorAddress: bobAddress, IsApproved: true, EventTimestamp: grant, TokenContractAddress: usdcContract},
	}, nil)
	tm.store.EXPECT().ListNFTRecordsByInvestor(ctx, operatorAddress).Return(nil, nil)
	tm.gateway.EXPECT().IsApprovedForAll(ctx, bobAddress, operatorAddress).Return(false, nil)
	tm.gateway.EXPECT().CheckERC20Status(ctx, usdcContract, bobAddress).Return(&domain.ERC20Status{
		Balance: "250000", Allowance: "250000",
	}, nil)
	tm.store.EXPECT().ListNFTRecordsByRecipient(ctx, bobAddress).Return(nil, nil)
	tm.store.EXPECT().ListPullbacksByFrom(ctx, bobAddress).Return(nil, nil)

	recipients, err := tm.service.GetConnectedRecipients(ctx)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, bobAddress, recipients[0].Address)
	assert.True(t, recipients[0].HasAnyApproval)
	require.NotNil(t, recipients[0].FirstApprovalAt)
	assert.Equal(t, grant, *recipients[0].FirstApprovalAt)
}

func TestGetConnectedRecipients_EmptyLedger(t *testing.T) {
	tm := setupTestDashboard(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().ListApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListERC20ApprovalsByOperator(ctx, operatorAddress).Return(nil, nil)
	tm.store.EXPECT().ListNFTRecordsByInvestor(ctx, operatorAddress).Return(nil, nil)

	recipients, err := tm.service.GetConnectedRecipients(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipients)
}
