package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/veridoc/doc-custody/internal/adapter"
	"github.com/veridoc/doc-custody/internal/domain"
)

// Config holds the wallet authentication settings
type Config struct {
	JWTSecret  string
	SessionTTL time.Duration
	NonceTTL   time.Duration
	SIWEDomain string
}

// Session is an authenticated wallet session
type Session struct {
	Address   string    `json:"address"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service authenticates wallets by signature. Two flows are supported: a
// plain nonce signature and an EIP-4361 sign-in message. Both consume the
// nonce on first attempt regardless of outcome.
//
//go:generate mockgen -source=auth.go -destination=../mocks/auth.go -package=mocks -mock_names=Service=MockAuthService
type Service interface {
	// IssueNonce creates a one-time login nonce for an address
	IssueNonce(ctx context.Context, address string) (string, error)

	// VerifyNonce checks a plain personal_sign signature over the issued
	// nonce and opens a session
	VerifyNonce(ctx context.Context, address, nonce, signature string) (*Session, error)

	// VerifySIWE checks a signed EIP-4361 message and opens a session for
	// the address embedded in the message
	VerifySIWE(ctx context.Context, message, signature string) (*Session, error)

	// ValidateToken checks a session token and returns the wallet address
	ValidateToken(token string) (string, error)
}

type service struct {
	config Config
	nonces NonceStore
	tokens *TokenManager
	clock  adapter.Clock
}

// NewService creates the wallet authentication service
func NewService(config Config, nonces NonceStore, clock adapter.Clock) Service {
	return &service{
		config: config,
		nonces: nonces,
		tokens: NewTokenManager(config.JWTSecret, config.SessionTTL),
		clock:  clock,
	}
}

func (s *service) IssueNonce(ctx context.Context, address string) (string, error) {
	if !domain.ValidAddress(address) {
		return "", fmt.Errorf("%w: invalid address %q", domain.ErrInvalidInput, address)
	}
	return s.nonces.Issue(ctx, address)
}

func (s *service) VerifyNonce(ctx context.Context, address, nonce, signature string) (*Session, error) {
	// Burn the nonce before checking the signature so a failed attempt
	// cannot be retried against the same nonce
	if !s.nonces.Consume(ctx, address, nonce) {
		return nil, fmt.Errorf("%w: unknown or expired nonce", ErrInvalidSignature)
	}
	if err := VerifySignature(nonce, signature, address); err != nil {
		return nil, err
	}
	return s.openSession(domain.NormalizeAddress(address))
}

func (s *service) VerifySIWE(ctx context.Context, message, signature string) (*Session, error) {
	msg, err := ParseSIWEMessage(message)
	if err != nil {
		return nil, err
	}
	if err := msg.Verify(s.config.SIWEDomain, s.config.NonceTTL, s.clock.Now()); err != nil {
		return nil, err
	}
	if !s.nonces.Consume(ctx, msg.Address, msg.Nonce) {
		return nil, fmt.Errorf("%w: unknown or expired nonce", ErrInvalidSIWEMessage)
	}
	if err := VerifySignature(message, signature, msg.Address); err != nil {
		return nil, err
	}
	return s.openSession(msg.Address)
}

func (s *service) ValidateToken(token string) (string, error) {
	return s.tokens.Validate(token)
}

func (s *service) openSession(address string) (*Session, error) {
	now := s.clock.Now()
	token, err := s.tokens.Issue(address, now)
	if err != nil {
		return nil, err
	}
	return &Session{
		Address:   address,
		Token:     token,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}, nil
}
