package schema

import "time"

// ApprovalRecord represents the approval_records table - one row per observed
// setApprovalForAll transaction or event. The ledger is append-only: the
// latest row by EventTimestamp for a (grantor, operator) pair is the
// last-known-good off-chain mirror. It is advisory only and never a
// substitute for a live read before money movement.
type ApprovalRecord struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// GrantorAddress is the wallet that granted or revoked the approval
	GrantorAddress string `gorm:"column:grantor_address;not null;type:text;index:idx_approval_pair,priority:1"`
	// OperatorAddress is the privileged address the approval was granted to
	OperatorAddress string `gorm:"column:operator_address;not null;type:text;index:idx_approval_pair,priority:2;index:idx_approval_operator"`
	// IsApproved is the approval state carried by this transaction, re-derived
	// from a live on-chain read at record time
	IsApproved bool `gorm:"column:is_approved;not null"`
	// TxHash is the approval transaction; uniqueness here is the idempotency
	// guard against double-processing the same event or client report
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_approval_tx_hash"`
	// BlockNumber is the block the transaction was mined in
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// EventTimestamp is the blockchain timestamp of the approval
	EventTimestamp time.Time `gorm:"column:event_timestamp;not null;type:timestamptz;index:idx_approval_event_ts,sort:desc"`
	// RecordedAt is when this row was written
	RecordedAt time.Time `gorm:"column:recorded_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ApprovalRecord model
func (ApprovalRecord) TableName() string {
	return "approval_records"
}
