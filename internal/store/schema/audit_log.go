package schema

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents the audit_logs table - fire-and-forget trail of every
// state-changing core action. Diagnostic, never authoritative: writes that
// fail are logged and swallowed.
type AuditLog struct {
	// ID is a ULID, sortable by creation time
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Action is the machine-stable action name (e.g. "token_pulled",
	// "erc20_pulled", "approval_recorded")
	Action string `gorm:"column:action;not null;type:text;index:idx_audit_action"`
	// ActorAddress is the wallet that performed the action
	ActorAddress string `gorm:"column:actor_address;not null;type:text;index:idx_audit_actor"`
	// TokenID is set for NFT-scoped actions
	TokenID *string `gorm:"column:token_id;type:text;index:idx_audit_token"`
	// TxHash is set when the action produced an on-chain transaction
	TxHash *string `gorm:"column:tx_hash;type:text"`
	// Metadata describes before/after-relevant fields as JSON
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// MetadataDigest is the hex SHA-256 of the canonical (RFC 8785) form of
	// Metadata, for tamper-evidence
	MetadataDigest string `gorm:"column:metadata_digest;not null;type:text"`
	// CreatedAt is when the entry was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz;index:idx_audit_created_at,sort:desc"`
}

// TableName specifies the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
