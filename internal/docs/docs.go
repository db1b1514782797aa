package docs

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/veridoc/doc-custody/internal/audit"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/logger"
	"github.com/veridoc/doc-custody/internal/store"
	"github.com/veridoc/doc-custody/internal/store/schema"
)

const pdfMimeType = "application/pdf"

// uploadTimeout bounds the background pin of accepted documents
const uploadTimeout = 2 * time.Minute

// CreateResult is the outcome of accepting a document upload
type CreateResult struct {
	Record   *schema.NFTRecord
	Document *schema.Document
}

// MintResult is the outcome of a confirmed mint
type MintResult struct {
	TxHash string
}

// Service owns the document intake and mint pipeline. Uploads are accepted
// synchronously with a placeholder content reference; the actual pin to
// content-addressed storage happens in the background.
//
//go:generate mockgen -source=docs.go -destination=../mocks/docs.go -package=mocks -mock_names=Service=MockDocsService
type Service interface {
	// CreateDocument validates and accepts a PDF upload, creating the NFT
	// record in uploaded status. The token ID is derived from the document
	// content, so uploading the same bytes twice is rejected as a duplicate.
	CreateDocument(ctx context.Context, recipient, fileName string, content []byte) (*CreateResult, error)

	// GetDocument returns the intake row for a token, nil if absent
	GetDocument(ctx context.Context, tokenID string) (*schema.Document, error)

	// MintToken mints the custody token for an uploaded document and waits
	// for confirmation
	MintToken(ctx context.Context, tokenID string) (*MintResult, error)
}

type service struct {
	store           store.Store
	gateway         chain.Gateway
	storage         Storage
	audit           audit.Logger
	maxDocumentSize int64
}

// NewService creates the document service
func NewService(st store.Store, gw chain.Gateway, storage Storage, auditLogger audit.Logger, maxDocumentSize int64) Service {
	return &service{
		store:           st,
		gateway:         gw,
		storage:         storage,
		audit:           auditLogger,
		maxDocumentSize: maxDocumentSize,
	}
}

// CreateDocument validates and accepts a PDF upload
func (s *service) CreateDocument(ctx context.Context, recipient, fileName string, content []byte) (*CreateResult, error) {
	if !domain.ValidAddress(recipient) {
		return nil, fmt.Errorf("%w: invalid recipient address %q", domain.ErrInvalidInput, recipient)
	}
	recipient = domain.NormalizeAddress(recipient)

	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}
	if s.maxDocumentSize > 0 && int64(len(content)) > s.maxDocumentSize {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrInvalidInput, s.maxDocumentSize)
	}

	// Sniff the content, never trust the upload's declared type
	detected := mimetype.Detect(content)
	if !detected.Is(pdfMimeType) {
		return nil, fmt.Errorf("%w: expected %s, got %s", domain.ErrInvalidInput, pdfMimeType, detected.String())
	}

	// Content-derived token ID: the keccak digest as a uint256 decimal
	tokenID := new(big.Int).SetBytes(crypto.Keccak256(content)).String()

	record := &schema.NFTRecord{
		TokenID:          tokenID,
		RecipientAddress: recipient,
		InvestorAddress:  domain.NormalizeAddress(s.gateway.OperatorAddress()),
		TokenURI:         "pending://" + tokenID,
		Status:           domain.NFTStatusUploaded,
	}
	if err := s.store.CreateNFTRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	doc := &schema.Document{
		TokenID:     tokenID,
		FileName:    fileName,
		ContentType: pdfMimeType,
		SizeBytes:   int64(len(content)),
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       audit.ActionDocumentCreated,
		ActorAddress: record.InvestorAddress,
		TokenID:      tokenID,
		Metadata: map[string]interface{}{
			"recipient": recipient,
			"fileName":  fileName,
			"sizeBytes": len(content),
		},
	})

	// Pin in the background; the placeholder URI stands until it lands
	go s.uploadContent(tokenID, fileName, content)

	return &CreateResult{Record: record, Document: doc}, nil
}

// uploadContent pins accepted content and attaches the final reference.
// Failures leave the placeholder in place; re-running the pin is an
// operational action, not a request-path concern.
func (s *service) uploadContent(tokenID, fileName string, content []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	ref, err := s.storage.Pin(ctx, fileName, pdfMimeType, content)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to pin document: %w", err),
			zap.String("token_id", tokenID))
		return
	}

	if err := s.store.SetDocumentContentRef(ctx, tokenID, ref); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to attach content ref: %w", err),
			zap.String("token_id", tokenID), zap.String("ref", ref))
		return
	}
	if err := s.store.AttachTokenURI(ctx, tokenID, s.storage.ResolveURL(ref)); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to attach token URI: %w", err),
			zap.String("token_id", tokenID), zap.String("ref", ref))
		return
	}

	logger.Info("Document content pinned",
		zap.String("token_id", tokenID), zap.String("ref", ref))
}

// GetDocument returns the intake row for a token
func (s *service) GetDocument(ctx context.Context, tokenID string) (*schema.Document, error) {
	doc, err := s.store.GetDocumentByTokenID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return doc, nil
}

// MintToken mints the custody token for an uploaded document
func (s *service) MintToken(ctx context.Context, tokenID string) (*MintResult, error) {
	record, err := s.store.GetNFTRecordByTokenID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: token %s", domain.ErrNotFound, tokenID)
	}
	if record.Status != domain.NFTStatusUploaded {
		return nil, fmt.Errorf("%w: token %s is %s, only uploaded documents can be minted", domain.ErrInvalidState, tokenID, record.Status)
	}

	txHash, err := s.gateway.MintTo(ctx, record.RecipientAddress, tokenID, record.TokenURI)
	if err != nil {
		return nil, err
	}
	if _, err := s.gateway.WaitForTransaction(ctx, txHash); err != nil {
		return nil, err
	}

	moved, err := s.store.TransitionNFTStatus(ctx, tokenID,
		[]domain.NFTStatus{domain.NFTStatusUploaded}, domain.NFTStatusMinted, &txHash)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to mark token minted: %w", err),
			zap.String("token_id", tokenID), zap.String("tx_hash", txHash))
	} else if !moved {
		// The event loop already observed TokenMinted
		logger.InfoCtx(ctx, "Token already marked minted", zap.String("token_id", tokenID))
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       audit.ActionTokenMinted,
		ActorAddress: domain.NormalizeAddress(s.gateway.OperatorAddress()),
		TokenID:      tokenID,
		TxHash:       txHash,
		Metadata: map[string]interface{}{
			"recipient": record.RecipientAddress,
			"source":    "operator_request",
		},
	})

	return &MintResult{TxHash: txHash}, nil
}
