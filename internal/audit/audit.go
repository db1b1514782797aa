package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/store"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

// Action names emitted by the core
const (
	ActionApprovalRecorded      = "approval_recorded"
	ActionERC20ApprovalRecorded = "erc20_approval_recorded"
	ActionTokenMinted           = "token_minted"
	ActionTokenPulled           = "token_pulled"
	ActionERC20Pulled           = "erc20_pulled"
	ActionDocumentCreated       = "document_created"
)

// Entry is one audit trail event
type Entry struct {
	Action       string
	ActorAddress string
	TokenID      string
	TxHash       string
	// Metadata describes before/after-relevant fields
	Metadata map[string]interface{}
}

// Logger records core mutations for operational forensics. Audit is
// diagnostic, never authoritative: Record never returns an error and never
// blocks the primary operation's outcome.
//
//go:generate mockgen -source=audit.go -destination=../mocks/audit.go -package=mocks -mock_names=Logger=MockAuditLogger
type Logger interface {
	Record(ctx context.Context, entry Entry)
}

type auditLogger struct {
	store store.Store
}

// NewLogger creates an audit logger backed by the store
func NewLogger(st store.Store) Logger {
	return &auditLogger{store: st}
}

// Record writes one audit entry. Failures are logged and swallowed.
func (a *auditLogger) Record(ctx context.Context, entry Entry) {
	raw, err := json.Marshal(entry.Metadata)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to marshal audit metadata",
			zap.String("action", entry.Action), zap.Error(err))
		raw = []byte("{}")
	}

	// Canonical form (RFC 8785) so the digest is stable across re-encodings
	canonical, err := jcs.Transform(raw)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to canonicalize audit metadata",
			zap.String("action", entry.Action), zap.Error(err))
		canonical = raw
	}
	digest := sha256.Sum256(canonical)

	row := &schema.AuditLog{
		ID:             ulid.Make().String(),
		Action:         entry.Action,
		ActorAddress:   entry.ActorAddress,
		Metadata:       raw,
		MetadataDigest: hex.EncodeToString(digest[:]),
	}
	if entry.TokenID != "" {
		tokenID := entry.TokenID
		row.TokenID = &tokenID
	}
	if entry.TxHash != "" {
		txHash := entry.TxHash
		row.TxHash = &txHash
	}

	if err := a.store.CreateAuditLog(ctx, row); err != nil {
		logger.WarnCtx(ctx, "Failed to write audit log",
			zap.String("action", entry.Action),
			zap.String("actor", entry.ActorAddress),
			zap.Error(err))
	}
}
