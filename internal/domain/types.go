package domain

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// ZERO_ADDRESS is the Ethereum zero address
const ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

// NormalizeAddress lowercases a hex address so comparisons and store keys are
// case-insensitive. On-chain reads may return checksummed addresses while
// clients submit lowercase ones.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// SameAddress compares two hex addresses case-insensitively
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}

// ValidAddress reports whether s looks like a 0x-prefixed 20-byte hex address
func ValidAddress(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// ParseAmount parses a decimal-string token amount in smallest units.
// Amounts are arbitrary-precision integers end to end; floating point is
// never involved.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %s", s)
	}
	return v, nil
}

// TxReceipt is the gateway's view of a confirmed transaction
type TxReceipt struct {
	TxHash      string
	BlockNumber uint64
	// Success is true when the transaction executed without revert
	Success   bool
	Timestamp time.Time
}

// ERC20Status holds live balance and allowance reads for a holder.
// Allowance is against this system's operator address.
type ERC20Status struct {
	Balance   string
	Allowance string
}

// ERC20TokenInfo holds the standard metadata reads for a token contract
type ERC20TokenInfo struct {
	ContractAddress string
	Name            string
	Symbol          string
	Decimals        uint8
}

// NFTStatus is the lifecycle status of a custody NFT record
type NFTStatus string

const (
	// NFTStatusUploaded means the document is stored and the record exists,
	// but no token has been minted yet
	NFTStatusUploaded NFTStatus = "uploaded"
	// NFTStatusMinted means the mint transaction is confirmed
	NFTStatusMinted NFTStatus = "minted"
	// NFTStatusRedeemed means the token was transferred to its recipient
	NFTStatusRedeemed NFTStatus = "redeemed"
	// NFTStatusPulled means the operator reclaimed the token (terminal)
	NFTStatusPulled NFTStatus = "pulled"
	// NFTStatusRevoked is a reserved terminal state; no transition currently
	// sets it
	NFTStatusRevoked NFTStatus = "revoked"
)

// ContractEventKind identifies one of the four monitored event kinds
type ContractEventKind string

const (
	EventKindTransfer        ContractEventKind = "Transfer"
	EventKindApprovalForAll  ContractEventKind = "ApprovalForAll"
	EventKindTokenPulledBack ContractEventKind = "TokenPulledBack"
	EventKindTokenMinted     ContractEventKind = "TokenMinted"
)

// ContractEvent is a parsed event from the custody contract
type ContractEvent struct {
	Kind        ContractEventKind
	TxHash      string
	BlockNumber uint64
	Timestamp   time.Time

	// Transfer / TokenMinted / TokenPulledBack
	From    string
	To      string
	TokenID string

	// ApprovalForAll
	Owner    string
	Operator string
	Approved bool
}
