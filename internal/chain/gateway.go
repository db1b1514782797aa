package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/veridoc/doc-custody/internal/adapter"
	"github.com/veridoc/doc-custody/internal/domain"
)

// Config holds the chain gateway configuration
type Config struct {
	ChainID             int64
	ContractAddress     string
	OperatorAddress     string
	OperatorPrivateKey  string
	Confirmations       uint64
	ConfirmationTimeout time.Duration
}

// Gateway wraps the remote node: read calls, signed write calls, receipt
// lookup and confirmation waiting, and the custody contract event feed
//
//go:generate mockgen -source=gateway.go -destination=../mocks/gateway.go -package=mocks -mock_names=Gateway=MockGateway
type Gateway interface {
	// OperatorAddress returns this system's privileged address
	OperatorAddress() string

	// MintTo mints a custody token to a recipient and returns the tx hash
	MintTo(ctx context.Context, recipient, tokenID, tokenURI string) (string, error)

	// OwnerOf fetches the current owner of a custody token
	OwnerOf(ctx context.Context, tokenID string) (string, error)

	// IsApprovedForAll fetches the live NFT approval state for (owner, operator)
	IsApprovedForAll(ctx context.Context, owner, operator string) (bool, error)

	// PullBack transfers a custody token from its holder to the operator
	PullBack(ctx context.Context, from, tokenID string) (string, error)

	// PullBackERC20 transfers an approved ERC-20 balance from a holder to the
	// operator
	PullBackERC20(ctx context.Context, tokenContract, from, amount string) (string, error)

	// CheckERC20Status fetches live balance and allowance (against the
	// operator) for a holder
	CheckERC20Status(ctx context.Context, tokenContract, holder string) (*domain.ERC20Status, error)

	// ERC20TokenInfo fetches name/symbol/decimals from a token contract
	ERC20TokenInfo(ctx context.Context, tokenContract string) (*domain.ERC20TokenInfo, error)

	// GetTransactionReceipt returns the receipt for a tx hash, nil if the
	// transaction is unknown or unmined
	GetTransactionReceipt(ctx context.Context, txHash string) (*domain.TxReceipt, error)

	// WaitForTransaction blocks until the transaction has the configured
	// confirmations, bounded by the configured confirmation timeout
	WaitForTransaction(ctx context.Context, txHash string) (*domain.TxReceipt, error)

	// SubscribeEvents subscribes to the four custody contract event kinds and
	// delivers parsed events to the handler; blocks until the context is
	// canceled or the subscription fails
	SubscribeEvents(ctx context.Context, handler EventHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the underlying connection
	Close()
}

// EventHandler processes one parsed custody contract event
type EventHandler func(event *domain.ContractEvent) error

type ethGateway struct {
	client   adapter.EthClient
	clock    adapter.Clock
	cfg      Config
	contract common.Address
	operator common.Address
	key      *ecdsa.PrivateKey
	signer   types.Signer

	// writeMu serializes nonce acquisition and submission for operator writes
	writeMu sync.Mutex
}

// NewGateway creates a gateway against the configured custody contract.
// The operator private key is optional for read-only deployments (sweeper).
func NewGateway(cfg Config, client adapter.EthClient, clock adapter.Clock) (Gateway, error) {
	g := &ethGateway{
		client:   client,
		clock:    clock,
		cfg:      cfg,
		contract: common.HexToAddress(cfg.ContractAddress),
		operator: common.HexToAddress(cfg.OperatorAddress),
		signer:   types.LatestSignerForChainID(big.NewInt(cfg.ChainID)),
	}

	if cfg.OperatorPrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.OperatorPrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid operator private key: %w", err)
		}
		keyAddr := crypto.PubkeyToAddress(key.PublicKey)
		if !domain.SameAddress(keyAddr.Hex(), cfg.OperatorAddress) {
			return nil, fmt.Errorf("operator private key does not match operator address %s", cfg.OperatorAddress)
		}
		g.key = key
	}

	return g, nil
}

// OperatorAddress returns this system's privileged address
func (g *ethGateway) OperatorAddress() string {
	return domain.NormalizeAddress(g.cfg.OperatorAddress)
}

// callContract packs a call with the given ABI fragment and unpacks the result
func (g *ethGateway) callContract(ctx context.Context, to common.Address, abiJSON, method string, result interface{}, args ...interface{}) error {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack data: %w", err)
	}

	out, err := g.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to call %s: %w", domain.ErrChainGateway, method, err)
	}

	if err := parsed.UnpackIntoInterface(result, method, out); err != nil {
		return fmt.Errorf("failed to unpack result: %w", err)
	}

	return nil
}

// OwnerOf fetches the current owner of a custody token
func (g *ethGateway) OwnerOf(ctx context.Context, tokenID string) (string, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return "", fmt.Errorf("invalid token id: %s", tokenID)
	}

	var owner common.Address
	err := g.callContract(ctx, g.contract,
		`[{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}]`,
		"ownerOf", &owner, id)
	if err != nil {
		return "", err
	}

	return owner.Hex(), nil
}

// IsApprovedForAll fetches the live NFT approval state for (owner, operator)
func (g *ethGateway) IsApprovedForAll(ctx context.Context, owner, operator string) (bool, error) {
	var approved bool
	err := g.callContract(ctx, g.contract,
		`[{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"name":"isApprovedForAll","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"}]`,
		"isApprovedForAll", &approved, common.HexToAddress(owner), common.HexToAddress(operator))
	if err != nil {
		return false, err
	}

	return approved, nil
}

// CheckERC20Status fetches live balance and allowance for a holder.
// Allowance is always read against the operator address.
func (g *ethGateway) CheckERC20Status(ctx context.Context, tokenContract, holder string) (*domain.ERC20Status, error) {
	token := common.HexToAddress(tokenContract)
	holderAddr := common.HexToAddress(holder)

	var balance *big.Int
	err := g.callContract(ctx, token,
		`[{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`,
		"balanceOf", &balance, holderAddr)
	if err != nil {
		return nil, err
	}

	var allowance *big.Int
	err = g.callContract(ctx, token,
		`[{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`,
		"allowance", &allowance, holderAddr, g.operator)
	if err != nil {
		return nil, err
	}

	return &domain.ERC20Status{
		Balance:   balance.String(),
		Allowance: allowance.String(),
	}, nil
}

// ERC20TokenInfo fetches name/symbol/decimals from a token contract
func (g *ethGateway) ERC20TokenInfo(ctx context.Context, tokenContract string) (*domain.ERC20TokenInfo, error) {
	token := common.HexToAddress(tokenContract)

	var name string
	err := g.callContract(ctx, token,
		`[{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}]`,
		"name", &name)
	if err != nil {
		return nil, err
	}

	var symbol string
	err = g.callContract(ctx, token,
		`[{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}]`,
		"symbol", &symbol)
	if err != nil {
		return nil, err
	}

	var decimals uint8
	err = g.callContract(ctx, token,
		`[{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}]`,
		"decimals", &decimals)
	if err != nil {
		return nil, err
	}

	return &domain.ERC20TokenInfo{
		ContractAddress: domain.NormalizeAddress(tokenContract),
		Name:            name,
		Symbol:          symbol,
		Decimals:        decimals,
	}, nil
}

// MintTo mints a custody token to a recipient
func (g *ethGateway) MintTo(ctx context.Context, recipient, tokenID, tokenURI string) (string, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return "", fmt.Errorf("invalid token id: %s", tokenID)
	}

	return g.submit(ctx, g.contract,
		`[{"inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"uri","type":"string"}],"name":"safeMint","outputs":[],"stateMutability":"nonpayable","type":"function"}]`,
		"safeMint", common.HexToAddress(recipient), id, tokenURI)
}

// PullBack transfers a custody token from its holder to the operator.
// Authorization is the on-chain setApprovalForAll grant; the contract itself
// rejects unapproved transfers.
func (g *ethGateway) PullBack(ctx context.Context, from, tokenID string) (string, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return "", fmt.Errorf("invalid token id: %s", tokenID)
	}

	return g.submit(ctx, g.contract,
		`[{"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"transferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"}]`,
		"transferFrom", common.HexToAddress(from), g.operator, id)
}

// PullBackERC20 transfers an approved ERC-20 balance from a holder to the
// operator via the token contract's transferFrom
func (g *ethGateway) PullBackERC20(ctx context.Context, tokenContract, from, amount string) (string, error) {
	value, err := domain.ParseAmount(amount)
	if err != nil {
		return "", err
	}

	return g.submit(ctx, common.HexToAddress(tokenContract),
		`[{"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}]`,
		"transferFrom", common.HexToAddress(from), g.operator, value)
}

// submit signs and broadcasts an operator transaction and returns its hash
func (g *ethGateway) submit(ctx context.Context, to common.Address, abiJSON, method string, args ...interface{}) (string, error) {
	if g.key == nil {
		return "", fmt.Errorf("gateway has no operator key configured")
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	nonce, err := g.client.PendingNonceAt(ctx, g.operator)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get nonce: %w", domain.ErrChainGateway, err)
	}

	gasPrice, err := g.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get gas price: %w", domain.ErrChainGateway, err)
	}

	gasLimit, err := g.client.EstimateGas(ctx, ethereum.CallMsg{
		From: g.operator,
		To:   &to,
		Data: data,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to estimate gas: %w", domain.ErrChainGateway, err)
	}

	tx, err := types.SignNewTx(g.key, g.signer, &types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := g.client.SendTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("%w: failed to send transaction: %w", domain.ErrChainGateway, err)
	}

	return tx.Hash().Hex(), nil
}

// GetTransactionReceipt returns the receipt for a tx hash, nil if unknown
func (g *ethGateway) GetTransactionReceipt(ctx context.Context, txHash string) (*domain.TxReceipt, error) {
	receipt, err := g.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get receipt: %w", domain.ErrChainGateway, err)
	}

	return g.toReceipt(ctx, receipt)
}

// toReceipt converts a raw receipt, resolving the block timestamp
func (g *ethGateway) toReceipt(ctx context.Context, receipt *types.Receipt) (*domain.TxReceipt, error) {
	header, err := g.client.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get block header: %w", domain.ErrChainGateway, err)
	}

	return &domain.TxReceipt{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
		Timestamp:   g.clock.Unix(int64(header.Time), 0), //nolint:gosec,G115 // header.Time is a geth uint64, safe to cast
	}, nil
}

// WaitForTransaction polls for the receipt until the configured confirmations
// are reached. The wait is bounded by the configured confirmation timeout;
// there is no unbounded block.
func (g *ethGateway) WaitForTransaction(ctx context.Context, txHash string) (*domain.TxReceipt, error) {
	timeout := g.cfg.ConfirmationTimeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	hash := common.HexToHash(txHash)
	var receipt *types.Receipt

	operation := func() error {
		r, err := g.client.TransactionReceipt(waitCtx, hash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return fmt.Errorf("transaction not yet mined: %s", txHash)
			}
			return backoff.Permanent(fmt.Errorf("%w: failed to get receipt: %w", domain.ErrChainGateway, err))
		}

		if g.cfg.Confirmations > 1 {
			head, err := g.client.HeaderByNumber(waitCtx, nil)
			if err != nil {
				return fmt.Errorf("failed to get head: %w", err)
			}
			confirmed := head.Number.Uint64() - r.BlockNumber.Uint64() + 1
			if confirmed < g.cfg.Confirmations {
				return fmt.Errorf("waiting for confirmations: %d/%d", confirmed, g.cfg.Confirmations)
			}
		}

		receipt = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = timeout

	if err := backoff.Retry(operation, backoff.WithContext(b, waitCtx)); err != nil {
		return nil, fmt.Errorf("confirmation wait failed for %s: %w", txHash, err)
	}

	return g.toReceipt(ctx, receipt)
}

// GetLatestBlock returns the latest block number
func (g *ethGateway) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := g.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get latest block: %w", domain.ErrChainGateway, err)
	}
	return header.Number.Uint64(), nil
}

// Close closes the underlying connection
func (g *ethGateway) Close() {
	g.client.Close()
}
