package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the schema for all custody tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.ApprovalRecord{},
		&schema.ERC20ApprovalRecord{},
		&schema.NFTRecord{},
		&schema.PullbackHistoryRecord{},
		&schema.AuditLog{},
		&schema.Document{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// AppendApprovalRecord appends an approval ledger row, resolving tx-hash
// duplicates through the unique index
func (s *pgStore) AppendApprovalRecord(ctx context.Context, rec *schema.ApprovalRecord) (*schema.ApprovalRecord, bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to append approval record: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// Lost the insert race or replayed tx hash; return the winner
		existing, err := s.GetApprovalByTxHash(ctx, rec.TxHash)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("approval record vanished after conflict: %s", rec.TxHash)
		}
		return existing, true, nil
	}

	return rec, false, nil
}

// GetApprovalByTxHash retrieves an approval row by transaction hash
func (s *pgStore) GetApprovalByTxHash(ctx context.Context, txHash string) (*schema.ApprovalRecord, error) {
	var rec schema.ApprovalRecord
	err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approval record: %w", err)
	}
	return &rec, nil
}

// GetCurrentApproval returns the latest ledger row for a pair
func (s *pgStore) GetCurrentApproval(ctx context.Context, grantor, operator string) (*schema.ApprovalRecord, error) {
	var rec schema.ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("grantor_address = ? AND operator_address = ?", grantor, operator).
		Order("event_timestamp DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current approval: %w", err)
	}
	return &rec, nil
}

// ListApprovalsByGrantor returns approval rows newest-first
func (s *pgStore) ListApprovalsByGrantor(ctx context.Context, grantor string) ([]*schema.ApprovalRecord, error) {
	var recs []*schema.ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("grantor_address = ?", grantor).
		Order("event_timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals by grantor: %w", err)
	}
	return recs, nil
}

// ListApprovalsByOperator returns approval rows newest-first
func (s *pgStore) ListApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ApprovalRecord, error) {
	var recs []*schema.ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("operator_address = ?", operator).
		Order("event_timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals by operator: %w", err)
	}
	return recs, nil
}

// ListApprovalsByPair returns approval rows for a pair newest-first
func (s *pgStore) ListApprovalsByPair(ctx context.Context, grantor, operator string) ([]*schema.ApprovalRecord, error) {
	var recs []*schema.ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("grantor_address = ? AND operator_address = ?", grantor, operator).
		Order("event_timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals by pair: %w", err)
	}
	return recs, nil
}

// AppendERC20ApprovalRecord appends an ERC-20 approval row, resolving
// (tx_hash, token_contract_address) duplicates through the unique index
func (s *pgStore) AppendERC20ApprovalRecord(ctx context.Context, rec *schema.ERC20ApprovalRecord) (*schema.ERC20ApprovalRecord, bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "token_contract_address"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to append erc20 approval record: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		existing, err := s.GetERC20ApprovalByTxHash(ctx, rec.TxHash, rec.TokenContractAddress)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("erc20 approval record vanished after conflict: %s", rec.TxHash)
		}
		return existing, true, nil
	}

	return rec, false, nil
}

// GetERC20ApprovalByTxHash retrieves a row by (txHash, tokenContract)
func (s *pgStore) GetERC20ApprovalByTxHash(ctx context.Context, txHash, tokenContract string) (*schema.ERC20ApprovalRecord, error) {
	var rec schema.ERC20ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("tx_hash = ? AND token_contract_address = ?", txHash, tokenContract).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get erc20 approval record: %w", err)
	}
	return &rec, nil
}

// ListERC20ApprovalsByOperator returns rows newest-first
func (s *pgStore) ListERC20ApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ERC20ApprovalRecord, error) {
	var recs []*schema.ERC20ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("operator_address = ?", operator).
		Order("event_timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list erc20 approvals by operator: %w", err)
	}
	return recs, nil
}

// ListERC20ApprovalsByPair returns rows for a pair newest-first
func (s *pgStore) ListERC20ApprovalsByPair(ctx context.Context, grantor, operator string) ([]*schema.ERC20ApprovalRecord, error) {
	var recs []*schema.ERC20ApprovalRecord
	err := s.db.WithContext(ctx).
		Where("grantor_address = ? AND operator_address = ?", grantor, operator).
		Order("event_timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list erc20 approvals by pair: %w", err)
	}
	return recs, nil
}

// CreateNFTRecord inserts a new NFT record
func (s *pgStore) CreateNFTRecord(ctx context.Context, rec *schema.NFTRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create nft record: %w", err)
	}
	return nil
}

// GetNFTRecordByTokenID retrieves an NFT record, nil if absent
func (s *pgStore) GetNFTRecordByTokenID(ctx context.Context, tokenID string) (*schema.NFTRecord, error) {
	var rec schema.NFTRecord
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nft record: %w", err)
	}
	return &rec, nil
}

// ListNFTRecordsByInvestor returns records issued by an operator
func (s *pgStore) ListNFTRecordsByInvestor(ctx context.Context, investor string) ([]*schema.NFTRecord, error) {
	var recs []*schema.NFTRecord
	err := s.db.WithContext(ctx).
		Where("investor_address = ?", investor).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list nft records by investor: %w", err)
	}
	return recs, nil
}

// ListNFTRecordsByRecipient returns records issued to a wallet
func (s *pgStore) ListNFTRecordsByRecipient(ctx context.Context, recipient string) ([]*schema.NFTRecord, error) {
	var recs []*schema.NFTRecord
	err := s.db.WithContext(ctx).
		Where("recipient_address = ?", recipient).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list nft records by recipient: %w", err)
	}
	return recs, nil
}

// ListNFTRecordsByStatus pages records in the given statuses
func (s *pgStore) ListNFTRecordsByStatus(ctx context.Context, statuses []domain.NFTStatus, limit, offset int) ([]*schema.NFTRecord, error) {
	var recs []*schema.NFTRecord
	q := s.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list nft records by status: %w", err)
	}
	return recs, nil
}

// TransitionNFTStatus conditionally moves a record between statuses. The
// WHERE clause on the current status makes the update atomic: concurrent
// handlers cannot move a pulled record back to an earlier state.
func (s *pgStore) TransitionNFTStatus(ctx context.Context, tokenID string, from []domain.NFTStatus, to domain.NFTStatus, txHash *string) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": gorm.Expr("now()"),
	}
	if txHash != nil {
		switch to {
		case domain.NFTStatusMinted:
			updates["mint_tx_hash"] = *txHash
		case domain.NFTStatusPulled:
			updates["pull_tx_hash"] = *txHash
		}
	}

	res := s.db.WithContext(ctx).
		Model(&schema.NFTRecord{}).
		Where("token_id = ? AND status IN ?", tokenID, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition nft status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AttachTokenURI idempotently sets the final content reference
func (s *pgStore) AttachTokenURI(ctx context.Context, tokenID, tokenURI string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.NFTRecord{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"token_uri":  tokenURI,
			"updated_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to attach token uri: %w", err)
	}
	return nil
}

// CreatePullbackRecord appends an ERC-20 pull attempt row
func (s *pgStore) CreatePullbackRecord(ctx context.Context, rec *schema.PullbackHistoryRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create pullback record: %w", err)
	}
	return nil
}

// ListPullbacksByOperator returns pull attempts newest-first
func (s *pgStore) ListPullbacksByOperator(ctx context.Context, operator string) ([]*schema.PullbackHistoryRecord, error) {
	var recs []*schema.PullbackHistoryRecord
	err := s.db.WithContext(ctx).
		Where("operator_address = ?", operator).
		Order("event_timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pullbacks by operator: %w", err)
	}
	return recs, nil
}

// ListPullbacksByFrom returns pull attempts against a holder newest-first
func (s *pgStore) ListPullbacksByFrom(ctx context.Context, from string) ([]*schema.PullbackHistoryRecord, error) {
	var recs []*schema.PullbackHistoryRecord
	err := s.db.WithContext(ctx).
		Where("from_address = ?", from).
		Order("event_timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pullbacks by from: %w", err)
	}
	return recs, nil
}

// CreateAuditLog inserts an audit entry
func (s *pgStore) CreateAuditLog(ctx context.Context, entry *schema.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// CreateDocument inserts a document intake row
func (s *pgStore) CreateDocument(ctx context.Context, doc *schema.Document) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocumentByTokenID retrieves a document row, nil if absent
func (s *pgStore) GetDocumentByTokenID(ctx context.Context, tokenID string) (*schema.Document, error) {
	var doc schema.Document
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// SetDocumentContentRef attaches the content-addressed reference
func (s *pgStore) SetDocumentContentRef(ctx context.Context, tokenID, ref string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Document{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"content_ref": ref,
			"updated_at":  gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set document content ref: %w", err)
	}
	return nil
}
