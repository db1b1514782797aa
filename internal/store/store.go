package store

import (
	"context"

	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// AppendApprovalRecord appends an approval ledger row. If a row with the
	// same tx hash already exists the existing row is returned with true;
	// the insert-vs-fetch race is resolved by the unique index, not by
	// application locking.
	AppendApprovalRecord(ctx context.Context, rec *schema.ApprovalRecord) (*schema.ApprovalRecord, bool, error)
	// GetApprovalByTxHash retrieves an approval row by transaction hash
	GetApprovalByTxHash(ctx context.Context, txHash string) (*schema.ApprovalRecord, error)
	// GetCurrentApproval returns the latest row by event timestamp for a
	// (grantor, operator) pair - the "current state" projection over the
	// append-only ledger
	GetCurrentApproval(ctx context.Context, grantor, operator string) (*schema.ApprovalRecord, error)
	// ListApprovalsByGrantor returns approval rows newest-first
	ListApprovalsByGrantor(ctx context.Context, grantor string) ([]*schema.ApprovalRecord, error)
	// ListApprovalsByOperator returns approval rows newest-first
	ListApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ApprovalRecord, error)
	// ListApprovalsByPair returns approval rows for a pair newest-first
	ListApprovalsByPair(ctx context.Context, grantor, operator string) ([]*schema.ApprovalRecord, error)

	// AppendERC20ApprovalRecord appends an ERC-20 approval row; duplicate
	// (txHash, tokenContract) returns the existing row with true
	AppendERC20ApprovalRecord(ctx context.Context, rec *schema.ERC20ApprovalRecord) (*schema.ERC20ApprovalRecord, bool, error)
	// GetERC20ApprovalByTxHash retrieves a row by (txHash, tokenContract)
	GetERC20ApprovalByTxHash(ctx context.Context, txHash, tokenContract string) (*schema.ERC20ApprovalRecord, error)
	// ListERC20ApprovalsByOperator returns rows newest-first
	ListERC20ApprovalsByOperator(ctx context.Context, operator string) ([]*schema.ERC20ApprovalRecord, error)
	// ListERC20ApprovalsByPair returns rows for a pair newest-first
	ListERC20ApprovalsByPair(ctx context.Context, grantor, operator string) ([]*schema.ERC20ApprovalRecord, error)

	// CreateNFTRecord inserts a new NFT record
	CreateNFTRecord(ctx context.Context, rec *schema.NFTRecord) error
	// GetNFTRecordByTokenID retrieves an NFT record, nil if absent
	GetNFTRecordByTokenID(ctx context.Context, tokenID string) (*schema.NFTRecord, error)
	// ListNFTRecordsByInvestor returns records issued by an operator
	ListNFTRecordsByInvestor(ctx context.Context, investor string) ([]*schema.NFTRecord, error)
	// ListNFTRecordsByRecipient returns records issued to a wallet
	ListNFTRecordsByRecipient(ctx context.Context, recipient string) ([]*schema.NFTRecord, error)
	// ListNFTRecordsByStatus pages records in the given statuses
	ListNFTRecordsByStatus(ctx context.Context, statuses []domain.NFTStatus, limit, offset int) ([]*schema.NFTRecord, error)
	// TransitionNFTStatus conditionally moves a record from one of the given
	// statuses to a new status. Returns false without error when the current
	// status was not in from - the guard that keeps the state machine
	// forward-moving under concurrent handlers.
	TransitionNFTStatus(ctx context.Context, tokenID string, from []domain.NFTStatus, to domain.NFTStatus, txHash *string) (bool, error)
	// AttachTokenURI idempotently sets the final content reference
	AttachTokenURI(ctx context.Context, tokenID, tokenURI string) error

	// CreatePullbackRecord appends an ERC-20 pull attempt row
	CreatePullbackRecord(ctx context.Context, rec *schema.PullbackHistoryRecord) error
	// ListPullbacksByOperator returns pull attempts newest-first
	ListPullbacksByOperator(ctx context.Context, operator string) ([]*schema.PullbackHistoryRecord, error)
	// ListPullbacksByFrom returns pull attempts against a holder newest-first
	ListPullbacksByFrom(ctx context.Context, from string) ([]*schema.PullbackHistoryRecord, error)

	// CreateAuditLog inserts an audit entry
	CreateAuditLog(ctx context.Context, entry *schema.AuditLog) error

	// CreateDocument inserts a document intake row
	CreateDocument(ctx context.Context, doc *schema.Document) error
	// GetDocumentByTokenID retrieves a document row, nil if absent
	GetDocumentByTokenID(ctx context.Context, tokenID string) (*schema.Document, error)
	// SetDocumentContentRef attaches the content-addressed reference
	SetDocumentContentRef(ctx context.Context, tokenID, ref string) error
}
