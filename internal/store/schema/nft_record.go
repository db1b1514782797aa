package schema

import (
	"time"

	"github.com/veridoc/doc-custody/internal/domain"
)

// NFTRecord represents the nft_records table - one row per custody document
// NFT. Status is a forward-moving state machine:
//
//	uploaded -> minted -> redeemed, any -> pulled
//
// pulled and revoked are terminal; revoked is reserved and never set by any
// current code path.
type NFTRecord struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID is the on-chain token number (string to support large numbers)
	TokenID string `gorm:"column:token_id;not null;type:text;uniqueIndex:idx_nft_token_id"`
	// RecipientAddress is the wallet the document was issued to
	RecipientAddress string `gorm:"column:recipient_address;not null;type:text;index:idx_nft_recipient"`
	// InvestorAddress is the operator/issuer that created the document
	InvestorAddress string `gorm:"column:investor_address;not null;type:text;index:idx_nft_investor"`
	// TokenURI is the content reference; a placeholder until the background
	// upload attaches the final reference
	TokenURI string `gorm:"column:token_uri;not null;type:text"`
	// Status is the lifecycle status
	Status domain.NFTStatus `gorm:"column:status;not null;type:text;index:idx_nft_status"`
	// MintTxHash is the confirmed mint transaction (nil before minting)
	MintTxHash *string `gorm:"column:mint_tx_hash;type:text"`
	// PullTxHash is the confirmed pull-back transaction (nil unless pulled)
	PullTxHash *string `gorm:"column:pull_tx_hash;type:text"`
	// CreatedAt is when the document record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when the record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the NFTRecord model
func (NFTRecord) TableName() string {
	return "nft_records"
}
