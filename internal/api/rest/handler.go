package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veridoc/doc-custody/internal/api/middleware"
	"github.com/veridoc/doc-custody/internal/auth"
	"github.com/veridoc/doc-custody/internal/chain"
	"github.com/veridoc/doc-custody/internal/dashboard"
	"github.com/veridoc/doc-custody/internal/docs"
	"github.com/veridoc/doc-custody/internal/domain"
	"github.com/veridoc/doc-custody/internal/ingest"
	"github.com/veridoc/doc-custody/internal/ledger"
	"github.com/veridoc/doc-custody/internal/pullback"
	"github.com/veridoc/doc-custody/internal/reconcile"
	"github.com/veridoc/doc-custody/internal/store"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// IssueNonce issues a one-time login nonce
	// POST /api/v1/auth/nonce
	IssueNonce(c *gin.Context)

	// VerifyNonce opens a session from a plain nonce signature
	// POST /api/v1/auth/verify
	VerifyNonce(c *gin.Context)

	// VerifySIWE opens a session from a signed EIP-4361 message
	// POST /api/v1/auth/siwe
	VerifySIWE(c *gin.Context)

	// RecordApproval records the authenticated wallet's setApprovalForAll tx
	// POST /api/v1/approvals
	RecordApproval(c *gin.Context)

	// GetApprovalStatus returns the latest recorded state for the
	// authenticated wallet toward the operator
	// GET /api/v1/approvals/status
	GetApprovalStatus(c *gin.Context)

	// ListApprovals lists the operator's received approval history
	// GET /api/v1/approvals
	ListApprovals(c *gin.Context)

	// RecordERC20Approval records the authenticated wallet's ERC-20 approve tx
	// POST /api/v1/approvals/erc20
	RecordERC20Approval(c *gin.Context)

	// CreateDocument accepts a PDF upload (multipart: recipient, file)
	// POST /api/v1/documents
	CreateDocument(c *gin.Context)

	// GetDocument returns intake metadata for a token
	// GET /api/v1/documents/:token_id
	GetDocument(c *gin.Context)

	// GetToken returns one custody token record
	// GET /api/v1/tokens/:token_id
	GetToken(c *gin.Context)

	// ListTokens lists custody token records by recipient
	// GET /api/v1/tokens?recipient=<address>
	ListTokens(c *gin.Context)

	// MintToken mints the custody token for an uploaded document
	// POST /api/v1/tokens/:token_id/mint
	MintToken(c *gin.Context)

	// PullToken reclaims a custody token from its holder
	// POST /api/v1/tokens/:token_id/pull
	PullToken(c *gin.Context)

	// ListSupportedTokens returns the ERC-20 allow-list
	// GET /api/v1/erc20/tokens
	ListSupportedTokens(c *gin.Context)

	// GetERC20TokenInfo returns live name/symbol/decimals for a contract
	// GET /api/v1/erc20/tokens/:contract
	GetERC20TokenInfo(c *gin.Context)

	// GetERC20Status returns live balance and allowance for a holder
	// GET /api/v1/erc20/status?token_contract=<address>&address=<address>
	GetERC20Status(c *gin.Context)

	// PullERC20 pulls an approved ERC-20 amount from a holder
	// POST /api/v1/erc20/pull
	PullERC20(c *gin.Context)

	// ListPullbacks lists the operator's ERC-20 pullback history
	// GET /api/v1/erc20/pullbacks
	ListPullbacks(c *gin.Context)

	// GetConnectedRecipients returns the operator dashboard view
	// GET /api/v1/recipients/connected
	GetConnectedRecipients(c *gin.Context)

	// TriggerReconcile runs one reconciliation cycle synchronously
	// POST /api/v1/reconcile
	TriggerReconcile(c *gin.Context)

	// StartEvents starts the contract event ingestion loop
	// POST /api/v1/events/start
	StartEvents(c *gin.Context)

	// StopEvents stops the contract event ingestion loop
	// POST /api/v1/events/stop
	StopEvents(c *gin.Context)

	// EventsStatus reports the ingestion loop state
	// GET /api/v1/events/status
	EventsStatus(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// Deps bundles the services the handler dispatches to
type Deps struct {
	Auth       auth.Service
	Ledger     ledger.Service
	Docs       docs.Service
	Pullback   pullback.Service
	Dashboard  dashboard.Service
	Reconciler reconcile.Reconciler
	Ingest     ingest.Service
	Store      store.Store
	Gateway    chain.Gateway
	Registry   *domain.TokenRegistry
}

// handler implements the Handler interface
type handler struct {
	deps Deps
}

// NewHandler creates a new REST API handler
func NewHandler(deps Deps) Handler {
	return &handler{deps: deps}
}

// IssueNonce issues a one-time login nonce
func (h *handler) IssueNonce(c *gin.Context) {
	var req nonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	nonce, err := h.deps.Auth.IssueNonce(c.Request.Context(), req.Address)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonceResponse{Nonce: nonce})
}

// VerifyNonce opens a session from a plain nonce signature
func (h *handler) VerifyNonce(c *gin.Context) {
	var req verifyNonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	session, err := h.deps.Auth.VerifyNonce(c.Request.Context(), req.Address, req.Nonce, req.Signature)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// VerifySIWE opens a session from a signed EIP-4361 message
func (h *handler) VerifySIWE(c *gin.Context) {
	var req verifySIWERequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	session, err := h.deps.Auth.VerifySIWE(c.Request.Context(), req.Message, req.Signature)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RecordApproval records the authenticated wallet's setApprovalForAll tx
func (h *handler) RecordApproval(c *gin.Context) {
	var req recordApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	grantor := c.GetString(middleware.WALLET_ADDRESS_KEY)
	operator := h.deps.Gateway.OperatorAddress()

	result, err := h.deps.Ledger.RecordApproval(c.Request.Context(), grantor, operator, req.TxHash)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, recordApprovalResponse{
		Approval:        toApprovalDTO(result.Approval),
		AlreadyRecorded: result.AlreadyRecorded,
	})
}

// GetApprovalStatus returns the latest recorded state for the authenticated
// wallet toward the operator
func (h *handler) GetApprovalStatus(c *gin.Context) {
	grantor := c.GetString(middleware.WALLET_ADDRESS_KEY)
	operator := h.deps.Gateway.OperatorAddress()

	rec, err := h.deps.Ledger.GetApprovalStatus(c.Request.Context(), grantor, operator)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if rec == nil {
		respondNotFound(c, "No approval recorded")
		return
	}
	c.JSON(http.StatusOK, toApprovalDTO(rec))
}

// ListApprovals lists the operator's received approval history
func (h *handler) ListApprovals(c *gin.Context) {
	recs, err := h.deps.Ledger.GetApprovalsByOperator(c.Request.Context(), h.deps.Gateway.OperatorAddress())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approvals": toApprovalDTOs(recs)})
}

// RecordERC20Approval records the authenticated wallet's ERC-20 approve tx
func (h *handler) RecordERC20Approval(c *gin.Context) {
	var req recordERC20ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	grantor := c.GetString(middleware.WALLET_ADDRESS_KEY)
	operator := h.deps.Gateway.OperatorAddress()

	result, err := h.deps.Ledger.RecordERC20Approval(c.Request.Context(), grantor, operator, req.TokenContractAddress, req.TxHash)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, recordERC20ApprovalResponse{
		Approval:        toERC20ApprovalDTO(result.Approval),
		AlreadyRecorded: result.AlreadyRecorded,
	})
}

// CreateDocument accepts a PDF upload
func (h *handler) CreateDocument(c *gin.Context) {
	recipient := c.PostForm("recipient")
	if recipient == "" {
		respondBadRequest(c, "Recipient address is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "Document file is required", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "Failed to open upload", err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondInternalError(c, err, "Failed to read upload")
		return
	}

	result, err := h.deps.Docs.CreateDocument(c.Request.Context(), recipient, fileHeader.Filename, content)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createDocumentResponse{
		Record:   toNFTRecordDTO(result.Record),
		Document: toDocumentDTO(result.Document),
	})
}

// GetDocument returns intake metadata for a token
func (h *handler) GetDocument(c *gin.Context) {
	tokenID := c.Param("token_id")
	doc, err := h.deps.Docs.GetDocument(c.Request.Context(), tokenID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if doc == nil {
		respondNotFound(c, "Document not found")
		return
	}
	c.JSON(http.StatusOK, toDocumentDTO(doc))
}

// GetToken returns one custody token record
func (h *handler) GetToken(c *gin.Context) {
	tokenID := c.Param("token_id")
	rec, err := h.deps.Store.GetNFTRecordByTokenID(c.Request.Context(), tokenID)
	if err != nil {
		respondInternalError(c, err, "Failed to load token")
		return
	}
	if rec == nil {
		respondNotFound(c, "Token not found")
		return
	}
	c.JSON(http.StatusOK, toNFTRecordDTO(rec))
}

// ListTokens lists custody token records by recipient
func (h *handler) ListTokens(c *gin.Context) {
	recipient := c.Query("recipient")
	if !domain.ValidAddress(recipient) {
		respondValidationError(c, "recipient must be a valid address")
		return
	}

	recs, err := h.deps.Store.ListNFTRecordsByRecipient(c.Request.Context(), domain.NormalizeAddress(recipient))
	if err != nil {
		respondInternalError(c, err, "Failed to list tokens")
		return
	}

	out := make([]nftRecordDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toNFTRecordDTO(rec))
	}
	c.JSON(http.StatusOK, gin.H{"tokens": out})
}

// MintToken mints the custody token for an uploaded document
func (h *handler) MintToken(c *gin.Context) {
	tokenID := c.Param("token_id")
	result, err := h.deps.Docs.MintToken(c.Request.Context(), tokenID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, mintResponse{TxHash: result.TxHash})
}

// PullToken reclaims a custody token from its holder
func (h *handler) PullToken(c *gin.Context) {
	tokenID := c.Param("token_id")
	result, err := h.deps.Pullback.PullToken(c.Request.Context(), tokenID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, pullTokenResponse{
		TxHash:      result.TxHash,
		FromAddress: result.FromAddress,
	})
}

// ListSupportedTokens returns the ERC-20 allow-list
func (h *handler) ListSupportedTokens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tokens": h.deps.Registry.All()})
}

// GetERC20TokenInfo returns live name/symbol/decimals for a contract
func (h *handler) GetERC20TokenInfo(c *gin.Context) {
	tokenContract := c.Param("contract")
	if !domain.ValidAddress(tokenContract) {
		respondValidationError(c, "contract must be a valid address")
		return
	}

	info, err := h.deps.Gateway.ERC20TokenInfo(c.Request.Context(), tokenContract)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, erc20TokenInfoResponse{
		ContractAddress: domain.NormalizeAddress(tokenContract),
		Name:            info.Name,
		Symbol:          info.Symbol,
		Decimals:        info.Decimals,
	})
}

// GetERC20Status returns live balance and allowance for a holder
func (h *handler) GetERC20Status(c *gin.Context) {
	tokenContract := c.Query("token_contract")
	address := c.Query("address")
	if !h.deps.Registry.Supported(tokenContract) {
		respondValidationError(c, "token_contract is not a supported token")
		return
	}
	if !domain.ValidAddress(address) {
		respondValidationError(c, "address must be a valid address")
		return
	}

	status, err := h.deps.Gateway.CheckERC20Status(c.Request.Context(), tokenContract, address)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, erc20StatusResponse{
		TokenContractAddress: domain.NormalizeAddress(tokenContract),
		HolderAddress:        domain.NormalizeAddress(address),
		Balance:              status.Balance,
		Allowance:            status.Allowance,
	})
}

// PullERC20 pulls an approved ERC-20 amount from a holder
func (h *handler) PullERC20(c *gin.Context) {
	var req pullERC20Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.deps.Pullback.PullBackERC20(c.Request.Context(), req.TokenContractAddress, req.FromAddress, req.Amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, pullERC20Response{
		TxHash:      result.TxHash,
		BlockNumber: result.BlockNumber,
	})
}

// ListPullbacks lists the operator's ERC-20 pullback history
func (h *handler) ListPullbacks(c *gin.Context) {
	recs, err := h.deps.Pullback.ListPullbacks(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pullbacks": toPullbackDTOs(recs)})
}

// GetConnectedRecipients returns the operator dashboard view
func (h *handler) GetConnectedRecipients(c *gin.Context) {
	recipients, err := h.deps.Dashboard.GetConnectedRecipients(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipients": recipients})
}

// TriggerReconcile runs one reconciliation cycle synchronously
func (h *handler) TriggerReconcile(c *gin.Context) {
	summary, err := h.deps.Reconciler.ReconcileNow(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// StartEvents starts the contract event ingestion loop
func (h *handler) StartEvents(c *gin.Context) {
	if err := h.deps.Ingest.Start(c.Request.Context()); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.deps.Ingest.Status())
}

// StopEvents stops the contract event ingestion loop
func (h *handler) StopEvents(c *gin.Context) {
	h.deps.Ingest.Stop()
	c.JSON(http.StatusOK, h.deps.Ingest.Status())
}

// EventsStatus reports the ingestion loop state
func (h *handler) EventsStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Ingest.Status())
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
