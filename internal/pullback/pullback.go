package pullback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/veridoc/doc-custody/internal/audit"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/store"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

// PullTokenResult is the outcome of a confirmed NFT pullback
type PullTokenResult struct {
	TxHash      string
	FromAddress string
}

// PullERC20Result is the outcome of a confirmed ERC-20 pullback
type PullERC20Result struct {
	TxHash      string
	BlockNumber uint64
}

// Service authorizes and executes operator pullbacks. Every pullback is
// gated on live on-chain reads at execution time; ledger rows are never
// sufficient authority to move assets.
//
//go:generate mockgen -source=pullback.go -destination=../mocks/pullback.go -package=mocks -mock_names=Service=MockPullbackService
type Service interface {
	// PullToken reclaims a custody token from its current holder.
	// Preconditions are checked in order: the record must exist, must be in
	// a pullable status, and the live approval for (holder, operator) must
	// hold. No transaction is sent when any precondition fails.
	PullToken(ctx context.Context, tokenID string) (*PullTokenResult, error)

	// PullBackERC20 transfers an approved ERC-20 amount from a holder to the
	// operator. Allowance is checked before balance so the caller learns the
	// narrower failure first. Amount is a decimal string in smallest units.
	PullBackERC20(ctx context.Context, tokenContract, from, amount string) (*PullERC20Result, error)

	// ListPullbacks returns the operator's ERC-20 pullback history newest-first
	ListPullbacks(ctx context.Context) ([]*schema.PullbackHistoryRecord, error)

	// ListPullbacksByHolder returns pullbacks taken from one holder
	ListPullbacksByHolder(ctx context.Context, from string) ([]*schema.PullbackHistoryRecord, error)
}

type service struct {
	store    store.Store
	gateway  chain.Gateway
	registry *domain.TokenRegistry
	audit    audit.Logger
}

// NewService creates the pullback service
func NewService(st store.Store, gw chain.Gateway, registry *domain.TokenRegistry, auditLogger audit.Logger) Service {
	return &service{
		store:    st,
		gateway:  gw,
		registry: registry,
		audit:    auditLogger,
	}
}

// PullToken reclaims a custody token from its current holder
func (s *service) PullToken(ctx context.Context, tokenID string) (*PullTokenResult, error) {
	record, err := s.store.GetNFTRecordByTokenID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: token %s", domain.ErrNotFound, tokenID)
	}

	switch record.Status {
	case domain.NFTStatusMinted, domain.NFTStatusRedeemed:
	default:
		return nil, fmt.Errorf("%w: token %s is %s, not pullable", domain.ErrInvalidState, tokenID, record.Status)
	}

	// The holder is whoever owns the token right now, not whoever the
	// ledger last saw
	holder, err := s.gateway.OwnerOf(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	operator := s.gateway.OperatorAddress()
	approved, err := s.gateway.IsApprovedForAll(ctx, holder, operator)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, fmt.Errorf("%w: holder %s has not approved operator %s", domain.ErrNotApproved, holder, operator)
	}

	txHash, err := s.gateway.PullBack(ctx, holder, tokenID)
	if err != nil {
		return nil, err
	}

	if _, err := s.gateway.WaitForTransaction(ctx, txHash); err != nil {
		return nil, err
	}

	moved, err := s.store.TransitionNFTStatus(ctx, tokenID,
		[]domain.NFTStatus{domain.NFTStatusUploaded, domain.NFTStatusMinted, domain.NFTStatusRedeemed},
		domain.NFTStatusPulled, &txHash)
	if err != nil {
		// The on-chain pull succeeded; the ingestion loop or reconciler will
		// converge the record. Surface the chain outcome regardless.
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mark token pulled: %w", err),
			zap.String("token_id", tokenID), zap.String("tx_hash", txHash))
	} else if !moved {
		logger.InfoCtx(ctx, "Token already marked pulled", zap.String("token_id", tokenID))
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       audit.ActionTokenPulled,
		ActorAddress: operator,
		TokenID:      tokenID,
		TxHash:       txHash,
		Metadata: map[string]interface{}{
			"from":   holder,
			"source": "operator_request",
		},
	})

	return &PullTokenResult{TxHash: txHash, FromAddress: holder}, nil
}

// PullBackERC20 transfers an approved ERC-20 amount from a holder to the operator
func (s *service) PullBackERC20(ctx context.Context, tokenContract, from, amount string) (*PullERC20Result, error) {
	token, ok := s.registry.Lookup(tokenContract)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedToken, tokenContract)
	}
	if !domain.ValidAddress(from) {
		return nil, fmt.Errorf("%w: invalid holder address %q", domain.ErrInvalidInput, from)
	}
	from = domain.NormalizeAddress(from)

	requested, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	status, err := s.gateway.CheckERC20Status(ctx, token.ContractAddress, from)
	if err != nil {
		return nil, err
	}
	allowance, err := domain.ParseAmount(status.Allowance)
	if err != nil {
		return nil, fmt.Errorf("invalid live allowance: %w", err)
	}
	balance, err := domain.ParseAmount(status.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid live balance: %w", err)
	}

	// Allowance before balance: both checks pass before any write call
	if allowance.Cmp(requested) < 0 {
		return nil, fmt.Errorf("%w: allowance %s < requested %s", domain.ErrInsufficientAllowance, allowance, requested)
	}
	if balance.Cmp(requested) < 0 {
		return nil, fmt.Errorf("%w: balance %s < requested %s", domain.ErrInsufficientBalance, balance, requested)
	}

	txHash, err := s.gateway.PullBackERC20(ctx, token.ContractAddress, from, requested.String())
	if err != nil {
		s.recordFailure(ctx, token, from, requested.String(), nil, err)
		return nil, err
	}

	receipt, err := s.gateway.WaitForTransaction(ctx, txHash)
	if err != nil {
		s.recordFailure(ctx, token, from, requested.String(), &txHash, err)
		return nil, err
	}

	operator := s.gateway.OperatorAddress()
	blockNumber := receipt.BlockNumber
	row := &schema.PullbackHistoryRecord{
		TokenContractAddress: token.ContractAddress,
		TokenSymbol:          token.Symbol,
		TokenName:            token.Name,
		TokenDecimals:        token.Decimals,
		FromAddress:          from,
		OperatorAddress:      operator,
		Amount:               requested.String(),
		TxHash:               &txHash,
		BlockNumber:          &blockNumber,
		EventTimestamp:       receipt.Timestamp,
		Status:               schema.PullbackStatusCompleted,
	}
	if err := s.store.CreatePullbackRecord(ctx, row); err != nil {
		// History is an audit concern; the transfer is already confirmed
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record pullback history: %w", err),
			zap.String("tx_hash", txHash))
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       audit.ActionERC20Pulled,
		ActorAddress: operator,
		TxHash:       txHash,
		Metadata: map[string]interface{}{
			"tokenContract": token.ContractAddress,
			"tokenSymbol":   token.Symbol,
			"from":          from,
			"amount":        requested.String(),
		},
	})

	return &PullERC20Result{TxHash: txHash, BlockNumber: receipt.BlockNumber}, nil
}

// recordFailure writes a best-effort failed history row. The write can
// itself fail; the original transfer error is what the caller sees either way.
func (s *service) recordFailure(ctx context.Context, token domain.SupportedToken, from, amount string, txHash *string, cause error) {
	msg := cause.Error()
	row := &schema.PullbackHistoryRecord{
		TokenContractAddress: token.ContractAddress,
		TokenSymbol:          token.Symbol,
		TokenName:            token.Name,
		TokenDecimals:        token.Decimals,
		FromAddress:          from,
		OperatorAddress:      s.gateway.OperatorAddress(),
		Amount:               amount,
		TxHash:               txHash,
		EventTimestamp:       time.Now(),
		Status:               schema.PullbackStatusFailed,
		ErrorMessage:         &msg,
	}
	if err := s.store.CreatePullbackRecord(ctx, row); err != nil {
		logger.WarnCtx(ctx, "Failed to record failed pullback",
			zap.String("from", from),
			zap.String("token_contract", token.ContractAddress),
			zap.Error(err))
	}
}

// ListPullbacks returns the operator's ERC-20 pullback history newest-first
func (s *service) ListPullbacks(ctx context.Context) ([]*schema.PullbackHistoryRecord, error) {
	recs, err := s.store.ListPullbacksByOperator(ctx, domain.NormalizeAddress(s.gateway.OperatorAddress()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return recs, nil
}

// ListPullbacksByHolder returns pullbacks taken from one holder
func (s *service) ListPullbacksByHolder(ctx context.Context, from string) ([]*schema.PullbackHistoryRecord, error) {
	recs, err := s.store.ListPullbacksByFrom(ctx, domain.NormalizeAddress(from))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return recs, nil
}
