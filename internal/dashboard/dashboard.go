package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/store"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

// TokenHolding is one supported token's live position for a recipient
type TokenHolding struct {
	ContractAddress string `json:"contractAddress"`
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	Decimals        uint8  `json:"decimals"`
	// Balance and Allowance are decimal strings in smallest units; "0" when
	// the live read failed
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// RecipientSummary is one connected recipient's aggregate view
type RecipientSummary struct {
	Address string `json:"address"`
	// FirstApprovalAt is the earliest recorded grant toward the operator,
	// nil when the ledger only holds revocations
	FirstApprovalAt *time.Time `json:"firstApprovalAt,omitempty"`
	// NFTApproved is the live custody-contract approval state; false when
	// the read failed
	NFTApproved bool `json:"nftApproved"`
	// HasAnyApproval is true when the latest stored approval is a grant,
	// the live NFT approval holds, or any live allowance is positive
	HasAnyApproval bool                            `json:"hasAnyApproval"`
	Tokens         []TokenHolding                  `json:"tokens"`
	NFTs           []*schema.NFTRecord             `json:"nfts"`
	Pullbacks      []*schema.PullbackHistoryRecord `json:"pullbacks"`
}

// Service builds the connected-recipients operator view. The view is
// deliberately tolerant: a failed read for one recipient or one token
// degrades that cell to its zero value instead of failing the whole page.
//
//go:generate mockgen -source=dashboard.go -destination=../mocks/dashboard.go -package=mocks -mock_names=Service=MockDashboardService
type Service interface {
	// GetConnectedRecipients returns every ledger grantor or NFT recipient
	// that currently holds some approval toward the operator, newest first
	// grant first
	GetConnectedRecipients(ctx context.Context) ([]*RecipientSummary, error)
}

type service struct {
	store          store.Store
	gateway        chain.Gateway
	registry       *domain.TokenRegistry
	workerPoolSize int
}

// NewService creates the dashboard service
func NewService(st store.Store, gw chain.Gateway, registry *domain.TokenRegistry, workerPoolSize int) Service {
	if workerPoolSize <= 0 {
		workerPoolSize = 10
	}
	return &service{
		store:          st,
		gateway:        gw,
		registry:       registry,
		workerPoolSize: workerPoolSize,
	}
}

// GetConnectedRecipients returns every ledger grantor or NFT recipient that
// currently holds some approval toward the operator
func (s *service) GetConnectedRecipients(ctx context.Context) ([]*RecipientSummary, error) {
	operator := domain.NormalizeAddress(s.gateway.OperatorAddress())

	nftApprovals, err := s.store.ListApprovalsByOperator(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	erc20Approvals, err := s.store.ListERC20ApprovalsByOperator(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	issued, err := s.store.ListNFTRecordsByInvestor(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	// Union of every grantor the ledger has ever seen plus every NFT
	// recipient this operator issued to, keeping the earliest grant
	// timestamp per address. The ledger lists are newest-first, so the
	// first row per pair is the current stored approval state.
	firstGrant := make(map[string]*time.Time)
	seen := make(map[string]struct{})
	storedApproved := make(map[string]bool)
	latestNFTSeen := make(map[string]struct{})
	for _, rec := range nftApprovals {
		addr := domain.NormalizeAddress(rec.GrantorAddress)
		seen[addr] = struct{}{}
		if _, ok := latestNFTSeen[addr]; !ok {
			latestNFTSeen[addr] = struct{}{}
			if rec.IsApproved {
				storedApproved[addr] = true
			}
		}
		if rec.IsApproved {
			noteFirstGrant(firstGrant, addr, rec.EventTimestamp)
		}
	}
	latestERC20Seen := make(map[string]struct{})
	for _, rec := range erc20Approvals {
		addr := domain.NormalizeAddress(rec.GrantorAddress)
		seen[addr] = struct{}{}
		pair := addr + "|" + domain.NormalizeAddress(rec.TokenContractAddress)
		if _, ok := latestERC20Seen[pair]; !ok {
			latestERC20Seen[pair] = struct{}{}
			if rec.IsApproved {
				storedApproved[addr] = true
			}
		}
		if rec.IsApproved {
			noteFirstGrant(firstGrant, addr, rec.EventTimestamp)
		}
	}
	for _, rec := range issued {
		seen[domain.NormalizeAddress(rec.RecipientAddress)] = struct{}{}
	}

	addresses := make([]string, 0, len(seen))
	for addr := range seen {
		addresses = append(addresses, addr)
	}

	summaries := make([]*RecipientSummary, len(addresses))
	pool := pond.NewPool(s.workerPoolSize, pond.WithContext(ctx))
	for i, addr := range addresses {
		pool.Submit(func() {
			summaries[i] = s.buildSummary(ctx, addr, operator, firstGrant[addr], storedApproved[addr])
		})
	}
	pool.StopAndWait()

	// Only recipients with some form of approval make the view
	result := make([]*RecipientSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary != nil && summary.HasAnyApproval {
			result = append(result, summary)
		}
	}

	// Newest first grant first; never-granted addresses sort last
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].FirstApprovalAt, result[j].FirstApprovalAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return result, nil
}

// buildSummary aggregates one recipient's live and recorded state. Failed
// reads degrade to zero values so one bad RPC call cannot hide the rest of
// the row.
func (s *service) buildSummary(ctx context.Context, addr, operator string, firstApprovalAt *time.Time, storedApproval bool) *RecipientSummary {
	summary := &RecipientSummary{
		Address:         addr,
		FirstApprovalAt: firstApprovalAt,
		HasAnyApproval:  storedApproval,
	}

	nftApproved, err := s.gateway.IsApprovedForAll(ctx, addr, operator)
	if err != nil {
		logger.WarnCtx(ctx, "Live approval read failed, defaulting to false",
			zap.String("address", addr), zap.Error(err))
		nftApproved = false
	}
	summary.NFTApproved = nftApproved

	for _, token := range s.registry.All() {
		holding := TokenHolding{
			ContractAddress: token.ContractAddress,
			Symbol:          token.Symbol,
			Name:            token.Name,
			Decimals:        token.Decimals,
			Balance:         "0",
			Allowance:       "0",
		}
		status, err := s.gateway.CheckERC20Status(ctx, token.ContractAddress, addr)
		if err != nil {
			logger.WarnCtx(ctx, "Live token read failed, defaulting to zero",
				zap.String("address", addr),
				zap.String("token_contract", token.ContractAddress),
				zap.Error(err))
		} else {
			holding.Balance = status.Balance
			holding.Allowance = status.Allowance
			if allowance, err := domain.ParseAmount(status.Allowance); err == nil && allowance.Sign() > 0 {
				summary.HasAnyApproval = true
			}
		}
		summary.Tokens = append(summary.Tokens, holding)
	}
	if nftApproved {
		summary.HasAnyApproval = true
	}

	nfts, err := s.store.ListNFTRecordsByRecipient(ctx, addr)
	if err != nil {
		logger.WarnCtx(ctx, "NFT record list failed, defaulting to empty",
			zap.String("address", addr), zap.Error(err))
		nfts = nil
	}
	summary.NFTs = nfts

	pullbacks, err := s.store.ListPullbacksByFrom(ctx, addr)
	if err != nil {
		logger.WarnCtx(ctx, "Pullback list failed, defaulting to empty",
			zap.String("address", addr), zap.Error(err))
		pullbacks = nil
	}
	summary.Pullbacks = pullbacks

	return summary
}

func noteFirstGrant(firstGrant map[string]*time.Time, addr string, ts time.Time) {
	if existing, ok := firstGrant[addr]; !ok || ts.Before(*existing) {
		t := ts
		firstGrant[addr] = &t
	}
}
