package auth

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/veridoc/doc-custody/internal/domain"
)

// ErrInvalidSignature is returned when a signature does not recover to the
// claimed address
var ErrInvalidSignature = errors.New("invalid signature")

// RecoverSigner recovers the address that produced an EIP-191 personal_sign
// signature over message
func RecoverSigner(message string, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("%w: malformed signature: %w", ErrInvalidSignature, err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("%w: expected 65 bytes, got %d", ErrInvalidSignature, len(sig))
	}

	// Wallets produce v as 27/28; go-ethereum wants 0/1
	if sig[64] >= 27 {
		sig = append([]byte{}, sig...)
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return "", fmt.Errorf("%w: invalid recovery id %d", ErrInvalidSignature, sig[64])
	}

	// EIP-191 personal message hash
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	hash := crypto.Keccak256Hash([]byte(prefixed))

	pubKey, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return domain.NormalizeAddress(crypto.PubkeyToAddress(*pubKey).Hex()), nil
}

// VerifySignature checks that signature over message was produced by address
func VerifySignature(message, signature, address string) error {
	signer, err := RecoverSigner(message, signature)
	if err != nil {
		return err
	}
	if !domain.SameAddress(signer, address) {
		return fmt.Errorf("%w: signed by %s, expected %s", ErrInvalidSignature, signer, domain.NormalizeAddress(address))
	}
	return nil
}
