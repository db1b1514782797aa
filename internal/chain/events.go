package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
)

// Event signatures for the four monitored custody contract events
var (
	// ERC721 Transfer(address indexed from, address indexed to, uint256 indexed tokenId)
	transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

	// ApprovalForAll(address indexed owner, address indexed operator, bool approved)
	approvalForAllEventSignature = crypto.Keccak256Hash([]byte("ApprovalForAll(address,address,bool)"))

	// TokenPulledBack(address indexed from, uint256 indexed tokenId)
	tokenPulledBackEventSignature = crypto.Keccak256Hash([]byte("TokenPulledBack(address,uint256)"))

	// TokenMinted(address indexed to, uint256 indexed tokenId)
	tokenMintedEventSignature = crypto.Keccak256Hash([]byte("TokenMinted(address,uint256)"))
)

// SubscribeEvents subscribes to the four custody contract event kinds and
// delivers parsed events to the handler. Handler errors are logged, never
// fatal to the subscription; the loop exits on context cancellation or a
// subscription failure.
func (g *ethGateway) SubscribeEvents(ctx context.Context, handler EventHandler) error {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{g.contract},
		Topics: [][]common.Hash{
			{
				transferEventSignature,
				approvalForAllEventSignature,
				tokenPulledBackEventSignature,
				tokenMintedEventSignature,
			},
		},
	}

	logs := make(chan types.Log)
	sub, err := g.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("%w: failed to subscribe to filter logs: %w", domain.ErrChainGateway, err)
	}
	defer func() {
		sub.Unsubscribe()
		logger.InfoCtx(ctx, "Unsubscribed from custody contract events")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("%w: subscription error: %w", domain.ErrChainGateway, err)
		case vLog := <-logs:
			event, err := g.ParseEventLog(ctx, vLog)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error parsing log"))
				continue
			}

			if event == nil {
				continue
			}

			if err := handler(event); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error handling event"),
					zap.String("kind", string(event.Kind)),
					zap.String("txHash", event.TxHash))
			}
		}
	}
}

// ParseEventLog parses a custody contract log into a ContractEvent
func (g *ethGateway) ParseEventLog(ctx context.Context, vLog types.Log) (*domain.ContractEvent, error) {
	header, err := g.client.HeaderByNumber(ctx, new(big.Int).SetUint64(vLog.BlockNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to get block header: %w", err)
	}

	event := &domain.ContractEvent{
		TxHash:      vLog.TxHash.Hex(),
		BlockNumber: vLog.BlockNumber,
		Timestamp:   g.clock.Unix(int64(header.Time), 0), //nolint:gosec,G115 // header.Time is a geth uint64, safe to cast
	}

	switch vLog.Topics[0] {
	case transferEventSignature:
		// ERC20 transfers share this signature with 3 topics; the custody
		// contract is ERC721 so anything else is skipped
		if len(vLog.Topics) != 4 {
			return nil, nil
		}
		event.Kind = domain.EventKindTransfer
		event.From = domain.NormalizeAddress(common.BytesToAddress(vLog.Topics[1].Bytes()).Hex())
		event.To = domain.NormalizeAddress(common.BytesToAddress(vLog.Topics[2].Bytes()).Hex())
		event.TokenID = new(big.Int).SetBytes(vLog.Topics[3].Bytes()).String()

	case approvalForAllEventSignature:
		// ApprovalForAll(address indexed owner, address indexed operator, bool approved)
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("invalid ApprovalForAll event: expected 3 topics, got %d", len(vLog.Topics))
		}
		if len(vLog.Data) < 32 {
			return nil, fmt.Errorf("invalid ApprovalForAll event: insufficient data")
		}
		event.Kind = domain.EventKindApprovalForAll
		event.Owner = domain.NormalizeAddress(common.BytesToAddress(vLog.Topics[1].Bytes()).Hex())
		event.Operator = domain.NormalizeAddress(common.BytesToAddress(vLog.Topics[2].Bytes()).Hex())
		event.Approved = new(big.Int).SetBytes(vLog.Data[0:32]).Sign() != 0

	case tokenPulledBackEventSignature:
		// TokenPulledBack(address indexed from, uint256 indexed tokenId)
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("invalid TokenPulledBack event: expected 3 topics, got %d", len(vLog.Topics))
		}
		event.Kind = domain.EventKindTokenPulledBack
		event.From = domain.NormalizeAddress(common.BytesToAddress(vLog.Topics[1].Bytes()).Hex())
		event.TokenID = new(big.Int).SetBytes(vLog.Topics[2].Bytes()).String()

	case tokenMintedEventSignature:
		// TokenMinted(address indexed to, uint256 indexed tokenId)
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("invalid TokenMinted event: expected 3 topics, got %d", len(vLog.Topics))
		}
		event.Kind = domain.EventKindTokenMinted
		event.To = domain.NormalizeAddress(common.BytesToAddress(vLog.Topics[1].Bytes()).Hex())
		event.TokenID = new(big.Int).SetBytes(vLog.Topics[2].Bytes()).String()

	default:
		return nil, fmt.Errorf("unknown event signature: %s", vLog.Topics[0].Hex())
	}

	return event, nil
}
