package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/veridoc/doc-custody/internal/audit"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/store"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

// RecordResult is the outcome of recording an NFT-style approval
type RecordResult struct {
	Approval        *schema.ApprovalRecord
	AlreadyRecorded bool
}

// ERC20RecordResult is the outcome of recording an ERC-20 approval
type ERC20RecordResult struct {
	Approval        *schema.ERC20ApprovalRecord
	AlreadyRecorded bool
}

// ApprovalStatus is the current-state projection for a (grantor, operator)
// pair. Advisory only: authorization decisions always re-read the chain.
type ApprovalStatus struct {
	GrantorAddress  string
	OperatorAddress string
	IsApproved      bool
	TxHash          string
	RecordedAt      string
}

// Service is the approval ledger: the durable, append-only record of
// approval grants and revocations observed via events or client reports
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Service=MockLedgerService
type Service interface {
	// RecordApproval records a client-reported setApprovalForAll transaction.
	// The approval state is re-derived from a live on-chain read, never
	// trusted from client input. Idempotent on tx hash replays.
	RecordApproval(ctx context.Context, grantor, operator, txHash string) (*RecordResult, error)

	// RecordERC20Approval records a client-reported ERC-20 approve
	// transaction for an allow-listed token. Idempotent on
	// (txHash, tokenContract) replays, short-circuiting before any receipt
	// lookup.
	RecordERC20Approval(ctx context.Context, grantor, operator, tokenContract, txHash string) (*ERC20RecordResult, error)

	// GetApprovalStatus returns the latest ledger state for a pair, nil if
	// the pair was never observed
	GetApprovalStatus(ctx context.Context, grantor, operator string) (*schema.ApprovalRecord, error)

	// GetApprovalsByOperator lists NFT approval rows newest-first
	GetApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ApprovalRecord, error)

	// GetApprovalsByGrantor lists NFT approval rows newest-first
	GetApprovalsByGrantor(ctx context.Context, grantor string) ([]*schema.ApprovalRecord, error)

	// GetERC20ApprovalsByOperator lists ERC-20 approval rows newest-first
	GetERC20ApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ERC20ApprovalRecord, error)
}

type service struct {
	store    store.Store
	gateway  chain.Gateway
	registry *domain.TokenRegistry
	audit    audit.Logger
}

// NewService creates the approval ledger service
func NewService(st store.Store, gw chain.Gateway, registry *domain.TokenRegistry, auditLogger audit.Logger) Service {
	return &service{
		store:    st,
		gateway:  gw,
		registry: registry,
		audit:    auditLogger,
	}
}

// RecordApproval records a client-reported setApprovalForAll transaction
func (s *service) RecordApproval(ctx context.Context, grantor, operator, txHash string) (*RecordResult, error) {
	if !domain.ValidAddress(grantor) || !domain.ValidAddress(operator) {
		return nil, fmt.Errorf("%w: invalid grantor or operator address", domain.ErrInvalidInput)
	}
	grantor = domain.NormalizeAddress(grantor)
	operator = domain.NormalizeAddress(operator)

	existing, err := s.store.GetApprovalByTxHash(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if existing != nil {
		return &RecordResult{Approval: existing, AlreadyRecorded: true}, nil
	}

	receipt, err := s.gateway.GetTransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt == nil || !receipt.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, txHash)
	}

	// Live read, not client input: a malicious client must not be able to
	// record a false approval state
	approved, err := s.gateway.IsApprovedForAll(ctx, grantor, operator)
	if err != nil {
		return nil, err
	}

	rec := &schema.ApprovalRecord{
		GrantorAddress:  grantor,
		OperatorAddress: operator,
		IsApproved:      approved,
		TxHash:          txHash,
		BlockNumber:     receipt.BlockNumber,
		EventTimestamp:  receipt.Timestamp,
	}

	stored, already, err := s.store.AppendApprovalRecord(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	if !already {
		s.audit.Record(ctx, audit.Entry{
			Action:       audit.ActionApprovalRecorded,
			ActorAddress: grantor,
			TxHash:       txHash,
			Metadata: map[string]interface{}{
				"operator":   operator,
				"isApproved": approved,
				"source":     "client_report",
			},
		})
	}

	return &RecordResult{Approval: stored, AlreadyRecorded: already}, nil
}

// RecordERC20Approval records a client-reported ERC-20 approve transaction
func (s *service) RecordERC20Approval(ctx context.Context, grantor, operator, tokenContract, txHash string) (*ERC20RecordResult, error) {
	token, ok := s.registry.Lookup(tokenContract)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedToken, tokenContract)
	}
	grantor = domain.NormalizeAddress(grantor)
	operator = domain.NormalizeAddress(operator)

	// Explicit idempotent short-circuit: avoids a duplicate receipt lookup
	// when the event loop already recorded this transaction
	existing, err := s.store.GetERC20ApprovalByTxHash(ctx, txHash, token.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if existing != nil {
		return &ERC20RecordResult{Approval: existing, AlreadyRecorded: true}, nil
	}

	receipt, err := s.gateway.GetTransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt == nil || !receipt.Success {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, txHash)
	}

	status, err := s.gateway.CheckERC20Status(ctx, token.ContractAddress, grantor)
	if err != nil {
		return nil, err
	}
	allowance, err := domain.ParseAmount(status.Allowance)
	if err != nil {
		return nil, fmt.Errorf("invalid live allowance: %w", err)
	}

	blockNumber := receipt.BlockNumber
	rec := &schema.ERC20ApprovalRecord{
		GrantorAddress:       grantor,
		OperatorAddress:      operator,
		TokenContractAddress: token.ContractAddress,
		TokenSymbol:          token.Symbol,
		TxHash:               txHash,
		BlockNumber:          &blockNumber,
		IsApproved:           allowance.Cmp(big.NewInt(0)) > 0,
		EventTimestamp:       receipt.Timestamp,
	}

	stored, already, err := s.store.AppendERC20ApprovalRecord(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	if !already {
		s.audit.Record(ctx, audit.Entry{
			Action:       audit.ActionERC20ApprovalRecorded,
			ActorAddress: grantor,
			TxHash:       txHash,
			Metadata: map[string]interface{}{
				"operator":      operator,
				"tokenContract": token.ContractAddress,
				"tokenSymbol":   token.Symbol,
				"isApproved":    rec.IsApproved,
				"source":        "client_report",
			},
		})
	}

	return &ERC20RecordResult{Approval: stored, AlreadyRecorded: already}, nil
}

// GetApprovalStatus returns the latest ledger state for a pair
func (s *service) GetApprovalStatus(ctx context.Context, grantor, operator string) (*schema.ApprovalRecord, error) {
	rec, err := s.store.GetCurrentApproval(ctx, domain.NormalizeAddress(grantor), domain.NormalizeAddress(operator))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return rec, nil
}

// GetApprovalsByOperator lists NFT approval rows newest-first
func (s *service) GetApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ApprovalRecord, error) {
	recs, err := s.store.ListApprovalsByOperator(ctx, domain.NormalizeAddress(operator))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return recs, nil
}

// GetApprovalsByGrantor lists NFT approval rows newest-first
func (s *service) GetApprovalsByGrantor(ctx context.Context, grantor string) ([]*schema.ApprovalRecord, error) {
	recs, err := s.store.ListApprovalsByGrantor(ctx, domain.NormalizeAddress(grantor))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return recs, nil
}

// GetERC20ApprovalsByOperator lists ERC-20 approval rows newest-first
func (s *service) GetERC20ApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ERC20ApprovalRecord, error) {
	recs, err := s.store.ListERC20ApprovalsByOperator(ctx, domain.NormalizeAddress(operator))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return recs, nil
}
