package schema

import "time"

// ERC20ApprovalRecord represents the erc20_approval_records table - one row
// per observed ERC-20 approve transaction against the operator. Unique on
// (tx_hash, token_contract_address): the same approval transaction must not
// be recorded twice even if reported by both the event loop and a client call.
type ERC20ApprovalRecord struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// GrantorAddress is the token holder that granted the allowance
	GrantorAddress string `gorm:"column:grantor_address;not null;type:text;index:idx_erc20_approval_pair,priority:1"`
	// OperatorAddress is the spender the allowance was granted to
	OperatorAddress string `gorm:"column:operator_address;not null;type:text;index:idx_erc20_approval_pair,priority:2;index:idx_erc20_approval_operator"`
	// TokenContractAddress is the ERC-20 contract (allow-listed)
	TokenContractAddress string `gorm:"column:token_contract_address;not null;type:text;uniqueIndex:idx_erc20_approval_tx_contract,priority:2"`
	// TokenSymbol is the allow-list symbol at record time
	TokenSymbol string `gorm:"column:token_symbol;not null;type:text"`
	// TxHash is the approval transaction
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_erc20_approval_tx_contract,priority:1"`
	// BlockNumber is the block the transaction was mined in (nil if unknown)
	BlockNumber *uint64 `gorm:"column:block_number;type:bigint"`
	// IsApproved records whether the live allowance was positive at record time
	IsApproved bool `gorm:"column:is_approved;not null"`
	// EventTimestamp is the blockchain timestamp of the approval
	EventTimestamp time.Time `gorm:"column:event_timestamp;not null;type:timestamptz;index:idx_erc20_approval_event_ts,sort:desc"`
	// RecordedAt is when this row was written
	RecordedAt time.Time `gorm:"column:recorded_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ERC20ApprovalRecord model
func (ERC20ApprovalRecord) TableName() string {
	return "erc20_approval_records"
}
