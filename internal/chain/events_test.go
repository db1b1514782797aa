package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/doc-custody/internal/adapter"
	"github.com/veridoc/doc-custody/internal/domain"
)

// fakeEthClient stubs the node for log parsing tests. The gateway mock in
// internal/mocks cannot be used here without an import cycle.
type fakeEthClient struct {
	adapter.EthClient
	headerTime uint64
}

func (c *fakeEthClient) HeaderByNumber(_ context.Context, _ *big.Int) (*types.Header, error) {
	return &types.Header{Time: c.headerTime}, nil
}

func newTestGateway(t *testing.T) *ethGateway {
	gw, err := NewGateway(Config{
		ChainID:         11155111,
		ContractAddress: "0x7777777777777777777777777777777777777777",
		OperatorAddress: "0x2222222222222222222222222222222222222222",
	}, &fakeEthClient{headerTime: 1764576000}, adapter.NewClock())
	require.NoError(t, err)
	return gw.(*ethGateway)
}

func addressTopic(addr string) common.Hash {
	return common.BytesToHash(common.HexToAddress(addr).Bytes())
}

func uint256Topic(v int64) common.Hash {
	return common.BigToHash(big.NewInt(v))
}

func TestParseEventLog_Transfer(t *testing.T) {
	g := newTestGateway(t)

	event, err := g.ParseEventLog(context.Background(), types.Log{
		BlockNumber: 123,
		TxHash:      common.HexToHash("0x01"),
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
			addressTopic("0x1111111111111111111111111111111111111111"),
			addressTopic("0x4444444444444444444444444444444444444444"),
			uint256Topic(42),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.EventKindTransfer, event.Kind)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", event.From)
	assert.Equal(t, "0x4444444444444444444444444444444444444444", event.To)
	assert.Equal(t, "42", event.TokenID)
	assert.Equal(t, uint64(123), event.BlockNumber)
	assert.Equal(t, int64(1764576000), event.Timestamp.Unix())
}

func TestParseEventLog_ERC20TransferSkipped(t *testing.T) {
	g := newTestGateway(t)

	// An ERC-20 Transfer has the same signature but only 3 topics
	event, err := g.ParseEventLog(context.Background(), types.Log{
		BlockNumber: 123,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
			addressTopic("0x1111111111111111111111111111111111111111"),
			addressTopic("0x4444444444444444444444444444444444444444"),
		},
	})
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestParseEventLog_ApprovalForAll(t *testing.T) {
	g := newTestGateway(t)

	approved := make([]byte, 32)
	approved[31] = 1
	event, err := g.ParseEventLog(context.Background(), types.Log{
		BlockNumber: 124,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("ApprovalForAll(address,address,bool)")),
			addressTopic("0x1111111111111111111111111111111111111111"),
			addressTopic("0x2222222222222222222222222222222222222222"),
		},
		Data: approved,
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.EventKindApprovalForAll, event.Kind)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", event.Owner)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", event.Operator)
	assert.True(t, event.Approved)
}

func TestParseEventLog_ApprovalForAllRevoke(t *testing.T) {
	g := newTestGateway(t)

	event, err := g.ParseEventLog(context.Background(), types.Log{
		BlockNumber: 125,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("ApprovalForAll(address,address,bool)")),
			addressTopic("0x1111111111111111111111111111111111111111"),
			addressTopic("0x2222222222222222222222222222222222222222"),
		},
		Data: make([]byte, 32),
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.False(t, event.Approved)
}

func TestParseEventLog_TokenPulledBack(t *testing.T) {
	g := newTestGateway(t)

	event, err := g.ParseEventLog(context.Background(), types.Log{
		BlockNumber: 126,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("TokenPulledBack(address,uint256)")),
			addressTopic("0x4444444444444444444444444444444444444444"),
			uint256Topic(42),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.EventKindTokenPulledBack, event.Kind)
	assert.Equal(t, "0x4444444444444444444444444444444444444444", event.From)
	assert.Equal(t, "42", event.TokenID)
}

func TestParseEventLog_TokenMinted(t *testing.T) {
	g := newTestGateway(t)

	event, err := g.ParseEventLog(context.Background(), types.Log{
		BlockNumber: 127,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("TokenMinted(address,uint256)")),
			addressTopic("0x4444444444444444444444444444444444444444"),
			uint256Topic(42),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.EventKindTokenMinted, event.Kind)
	assert.Equal(t, "0x4444444444444444444444444444444444444444", event.To)
	assert.Equal(t, "42", event.TokenID)
}

func TestParseEventLog_UnknownSignature(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.ParseEventLog(context.Background(), types.Log{
		BlockNumber: 128,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte("Approval(address,address,uint256)")),
		},
	})
	assert.ErrorContains(t, err, "unknown event signature")
}

func TestNewGateway_KeyAddressMismatch(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = NewGateway(Config{
		ChainID:            11155111,
		ContractAddress:    "0x7777777777777777777777777777777777777777",
		OperatorAddress:    "0x2222222222222222222222222222222222222222",
		OperatorPrivateKey: common.Bytes2Hex(crypto.FromECDSA(key)),
	}, &fakeEthClient{}, adapter.NewClock())
	assert.ErrorContains(t, err, "does not match operator address")
}
