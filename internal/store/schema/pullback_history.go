package schema

import "time"

// PullbackStatus is the outcome of an ERC-20 pull attempt
type PullbackStatus string

const (
	// PullbackStatusPending means the transaction was submitted but not yet confirmed
	PullbackStatusPending PullbackStatus = "pending"
	// PullbackStatusCompleted means the pull confirmed on-chain
	PullbackStatusCompleted PullbackStatus = "completed"
	// PullbackStatusFailed means the attempt failed; TxHash is empty when the
	// failure happened before submission
	PullbackStatusFailed PullbackStatus = "failed"
)

// PullbackHistoryRecord represents the pullback_history table - append-only
// audit of every ERC-20 pull attempt, successful or not. TxHash uniqueness is
// sparse: the unique index only bites for non-empty hashes, so multiple
// failed-before-submission rows (empty hash) can coexist.
type PullbackHistoryRecord struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenContractAddress is the ERC-20 contract pulled from
	TokenContractAddress string `gorm:"column:token_contract_address;not null;type:text;index:idx_pullback_contract"`
	// TokenSymbol and TokenName are captured at attempt time for forensics
	TokenSymbol string `gorm:"column:token_symbol;not null;type:text"`
	TokenName   string `gorm:"column:token_name;not null;type:text"`
	// TokenDecimals is the token's decimals at attempt time
	TokenDecimals uint8 `gorm:"column:token_decimals;not null"`
	// FromAddress is the holder the balance was pulled from
	FromAddress string `gorm:"column:from_address;not null;type:text;index:idx_pullback_from"`
	// OperatorAddress is the privileged address that initiated the pull
	OperatorAddress string `gorm:"column:operator_address;not null;type:text;index:idx_pullback_operator"`
	// Amount is the pulled amount in smallest units (decimal string)
	Amount string `gorm:"column:amount;not null;type:numeric(78,0)"`
	// TxHash is empty for attempts that failed before submission
	TxHash *string `gorm:"column:tx_hash;type:text;uniqueIndex:idx_pullback_tx_hash"`
	// BlockNumber is the confirmation block (nil unless completed)
	BlockNumber *uint64 `gorm:"column:block_number;type:bigint"`
	// EventTimestamp is when the attempt happened
	EventTimestamp time.Time `gorm:"column:event_timestamp;not null;type:timestamptz;index:idx_pullback_event_ts,sort:desc"`
	// Status is pending, completed or failed
	Status PullbackStatus `gorm:"column:status;not null;type:text"`
	// ErrorMessage captures the failure cause for failed attempts
	ErrorMessage *string `gorm:"column:error_message;type:text"`
	// CreatedAt is when this row was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the PullbackHistoryRecord model
func (PullbackHistoryRecord) TableName() string {
	return "pullback_history"
}
