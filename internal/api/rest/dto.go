package rest

import (
	"time"

	"github.com/veridoc/doc-custody/internal/store/schema"
)

// Request payloads

type nonceRequest struct {
	Address string `json:"address" binding:"required"`
}

type verifyNonceRequest struct {
	Address   string `json:"address" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type verifySIWERequest struct {
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type recordApprovalRequest struct {
	TxHash string `json:"txHash" binding:"required"`
}

type recordERC20ApprovalRequest struct {
	TxHash               string `json:"txHash" binding:"required"`
	TokenContractAddress string `json:"tokenContractAddress" binding:"required"`
}

type pullERC20Request struct {
	TokenContractAddress string `json:"tokenContractAddress" binding:"required"`
	FromAddress          string `json:"fromAddress" binding:"required"`
	Amount               string `json:"amount" binding:"required"`
}

// Response payloads

type nonceResponse struct {
	Nonce string `json:"nonce"`
}

type approvalDTO struct {
	GrantorAddress  string    `json:"grantorAddress"`
	OperatorAddress string    `json:"operatorAddress"`
	IsApproved      bool      `json:"isApproved"`
	TxHash          string    `json:"txHash"`
	BlockNumber     uint64    `json:"blockNumber"`
	EventTimestamp  time.Time `json:"eventTimestamp"`
	RecordedAt      time.Time `json:"recordedAt"`
}

type recordApprovalResponse struct {
	Approval        approvalDTO `json:"approval"`
	AlreadyRecorded bool        `json:"alreadyRecorded"`
}

type erc20ApprovalDTO struct {
	GrantorAddress       string    `json:"grantorAddress"`
	OperatorAddress      string    `json:"operatorAddress"`
	TokenContractAddress string    `json:"tokenContractAddress"`
	TokenSymbol          string    `json:"tokenSymbol"`
	TxHash               string    `json:"txHash"`
	BlockNumber          *uint64   `json:"blockNumber,omitempty"`
	IsApproved           bool      `json:"isApproved"`
	EventTimestamp       time.Time `json:"eventTimestamp"`
	RecordedAt           time.Time `json:"recordedAt"`
}

type recordERC20ApprovalResponse struct {
	Approval        erc20ApprovalDTO `json:"approval"`
	AlreadyRecorded bool             `json:"alreadyRecorded"`
}

type nftRecordDTO struct {
	TokenID          string    `json:"tokenId"`
	RecipientAddress string    `json:"recipientAddress"`
	InvestorAddress  string    `json:"investorAddress"`
	TokenURI         string    `json:"tokenUri"`
	Status           string    `json:"status"`
	MintTxHash       *string   `json:"mintTxHash,omitempty"`
	PullTxHash       *string   `json:"pullTxHash,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type documentDTO struct {
	TokenID     string    `json:"tokenId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	ContentRef  string    `json:"contentRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createDocumentResponse struct {
	Record   nftRecordDTO `json:"record"`
	Document documentDTO  `json:"document"`
}

type mintResponse struct {
	TxHash string `json:"txHash"`
}

type pullTokenResponse struct {
	TxHash      string `json:"txHash"`
	FromAddress string `json:"fromAddress"`
}

type pullERC20Response struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
}

type pullbackDTO struct {
	TokenContractAddress string    `json:"tokenContractAddress"`
	TokenSymbol          string    `json:"tokenSymbol"`
	TokenName            string    `json:"tokenName"`
	TokenDecimals        uint8     `json:"tokenDecimals"`
	FromAddress          string    `json:"fromAddress"`
	OperatorAddress      string    `json:"operatorAddress"`
	Amount               string    `json:"amount"`
	TxHash               *string   `json:"txHash,omitempty"`
	BlockNumber          *uint64   `json:"blockNumber,omitempty"`
	EventTimestamp       time.Time `json:"eventTimestamp"`
	Status               string    `json:"status"`
	ErrorMessage         *string   `json:"errorMessage,omitempty"`
}

type erc20TokenInfoResponse struct {
	ContractAddress string `json:"contractAddress"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        uint8  `json:"decimals"`
}

type erc20StatusResponse struct {
	TokenContractAddress string `json:"tokenContractAddress"`
	HolderAddress        string `json:"holderAddress"`
	Balance              string `json:"balance"`
	Allowance            string `json:"allowance"`
}

// Mappers

func toApprovalDTO(rec *schema.ApprovalRecord) approvalDTO {
	return approvalDTO{
		GrantorAddress:  rec.GrantorAddress,
		OperatorAddress: rec.OperatorAddress,
		IsApproved:      rec.IsApproved,
		TxHash:          rec.TxHash,
		BlockNumber:     rec.BlockNumber,
		EventTimestamp:  rec.EventTimestamp,
		RecordedAt:      rec.RecordedAt,
	}
}

func toApprovalDTOs(recs []*schema.ApprovalRecord) []approvalDTO {
	out := make([]approvalDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toApprovalDTO(rec))
	}
	return out
}

func toERC20ApprovalDTO(rec *schema.ERC20ApprovalRecord) erc20ApprovalDTO {
	return erc20ApprovalDTO{
		GrantorAddress:       rec.GrantorAddress,
		OperatorAddress:      rec.OperatorAddress,
		TokenContractAddress: rec.TokenContractAddress,
		TokenSymbol:          rec.TokenSymbol,
		TxHash:               rec.TxHash,
		BlockNumber:          rec.BlockNumber,
		IsApproved:           rec.IsApproved,
		EventTimestamp:       rec.EventTimestamp,
		RecordedAt:           rec.RecordedAt,
	}
}

func toNFTRecordDTO(rec *schema.NFTRecord) nftRecordDTO {
	return nftRecordDTO{
		TokenID:          rec.TokenID,
		RecipientAddress: rec.RecipientAddress,
		InvestorAddress:  rec.InvestorAddress,
		TokenURI:         rec.TokenURI,
		Status:           string(rec.Status),
		MintTxHash:       rec.MintTxHash,
		PullTxHash:       rec.PullTxHash,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func toDocumentDTO(doc *schema.Document) documentDTO {
	return documentDTO{
		TokenID:     doc.TokenID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		ContentRef:  doc.ContentRef,
		CreatedAt:   doc.CreatedAt,
	}
}

func toPullbackDTOs(recs []*schema.PullbackHistoryRecord) []pullbackDTO {
	out := make([]pullbackDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, pullbackDTO{
			TokenContractAddress: rec.TokenContractAddress,
			TokenSymbol:          rec.TokenSymbol,
			TokenName:            rec.TokenName,
			TokenDecimals:        rec.TokenDecimals,
			FromAddress:          rec.FromAddress,
			OperatorAddress:      rec.OperatorAddress,
			Amount:               rec.Amount,
			TxHash:               rec.TxHash,
			BlockNumber:          rec.BlockNumber,
			EventTimestamp:       rec.EventTimestamp,
			Status:               string(rec.Status),
			ErrorMessage:         rec.ErrorMessage,
		})
	}
	return out
}
