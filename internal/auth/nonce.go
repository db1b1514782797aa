package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/veridoc/doc-custody/internal/adapter"
	"github.com/veridoc/doc-custody/internal/domain"
)

// NonceStore issues and consumes one-time login nonces. A nonce is bound to
// the address that requested it and is invalidated on first use, successful
// or not.
//
//go:generate mockgen -source=nonce.go -destination=../mocks/nonce.go -package=mocks -mock_names=NonceStore=MockNonceStore
type NonceStore interface {
	// Issue creates a fresh nonce for an address, replacing any outstanding one
	Issue(ctx context.Context, address string) (string, error)

	// Consume atomically validates and invalidates the nonce for an address.
	// Returns false for an unknown, mismatched, or expired nonce.
	Consume(ctx context.Context, address, nonce string) bool
}

type nonceEntry struct {
	nonce    string
	issuedAt time.Time
}

// memoryNonceStore is an in-process nonce store. Sessions are short-lived
// and losing nonces on restart only forces a re-request, so process memory
// is sufficient.
type memoryNonceStore struct {
	mu      sync.Mutex
	entries map[string]nonceEntry
	ttl     time.Duration
	clock   adapter.Clock
	done    chan struct{}
}

// NewMemoryNonceStore creates an in-process nonce store with background
// eviction of expired entries
func NewMemoryNonceStore(ttl time.Duration, clock adapter.Clock) NonceStore {
	s := &memoryNonceStore{
		entries: make(map[string]nonceEntry),
		ttl:     ttl,
		clock:   clock,
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *memoryNonceStore) Issue(_ context.Context, address string) (string, error) {
	nonce := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[domain.NormalizeAddress(address)] = nonceEntry{
		nonce:    nonce,
		issuedAt: s.clock.Now(),
	}
	return nonce, nil
}

func (s *memoryNonceStore) Consume(_ context.Context, address, nonce string) bool {
	addr := domain.NormalizeAddress(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[addr]
	if !ok {
		return false
	}
	// One shot either way: a failed attempt burns the nonce too
	delete(s.entries, addr)

	if entry.nonce != nonce {
		return false
	}
	return s.clock.Since(entry.issuedAt) <= s.ttl
}

// janitor evicts expired nonces so abandoned login attempts do not
// accumulate
func (s *memoryNonceStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			for addr, entry := range s.entries {
				if s.clock.Since(entry.issuedAt) > s.ttl {
					delete(s.entries, addr)
				}
			}
			s.mu.Unlock()
		}
	}
}
