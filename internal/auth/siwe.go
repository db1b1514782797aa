package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/veridoc/doc-custody/internal/domain"
)

// ErrInvalidSIWEMessage is returned when a sign-in message fails parsing or
// verification
var ErrInvalidSIWEMessage = errors.New("invalid sign-in message")

const siweHeaderSuffix = " wants you to sign in with your Ethereum account:"

// SIWEMessage is a parsed EIP-4361 sign-in message
type SIWEMessage struct {
	Domain   string
	Address  string
	URI      string
	Version  string
	ChainID  string
	Nonce    string
	IssuedAt time.Time
}

// ParseSIWEMessage parses an EIP-4361 message. Only the fields this system
// verifies are extracted; unknown fields are ignored.
func ParseSIWEMessage(raw string) (*SIWEMessage, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: too short", ErrInvalidSIWEMessage)
	}

	if !strings.HasSuffix(lines[0], siweHeaderSuffix) {
		return nil, fmt.Errorf("%w: malformed header", ErrInvalidSIWEMessage)
	}
	msg := &SIWEMessage{
		Domain: strings.TrimSuffix(lines[0], siweHeaderSuffix),
	}

	if !domain.ValidAddress(lines[1]) {
		return nil, fmt.Errorf("%w: malformed address %q", ErrInvalidSIWEMessage, lines[1])
	}
	msg.Address = domain.NormalizeAddress(lines[1])

	for _, line := range lines[2:] {
		key, value, found := strings.Cut(line, ": ")
		if !found {
			continue
		}
		switch key {
		case "URI":
			msg.URI = value
		case "Version":
			msg.Version = value
		case "Chain ID":
			msg.ChainID = value
		case "Nonce":
			msg.Nonce = value
		case "Issued At":
			issuedAt, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed Issued At: %w", ErrInvalidSIWEMessage, err)
			}
			msg.IssuedAt = issuedAt
		}
	}

	if msg.Nonce == "" {
		return nil, fmt.Errorf("%w: missing nonce", ErrInvalidSIWEMessage)
	}
	if msg.IssuedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing Issued At", ErrInvalidSIWEMessage)
	}

	return msg, nil
}

// Verify checks the message against the expected domain and freshness window
func (m *SIWEMessage) Verify(expectedDomain string, maxAge time.Duration, now time.Time) error {
	if expectedDomain != "" && m.Domain != expectedDomain {
		return fmt.Errorf("%w: domain %q, expected %q", ErrInvalidSIWEMessage, m.Domain, expectedDomain)
	}
	if m.IssuedAt.After(now.Add(time.Minute)) {
		return fmt.Errorf("%w: issued in the future", ErrInvalidSIWEMessage)
	}
	if now.Sub(m.IssuedAt) > maxAge {
		return fmt.Errorf("%w: message expired", ErrInvalidSIWEMessage)
	}
	return nil
}
