package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/veridoc/doc-custody/internal/api/middleware"
	"github.com/veridoc/doc-custody/internal/auth"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authService auth.Service, operatorAddress string) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	walletAuth := middleware.WalletAuth(authService)
	operatorAuth := middleware.OperatorAuth(operatorAddress)

	v1 := router.Group("/api/v1")
	{
		// Wallet login (open)
		v1.POST("/auth/nonce", handler.IssueNonce)
		v1.POST("/auth/verify", handler.VerifyNonce)
		v1.POST("/auth/siwe", handler.VerifySIWE)

		// Approval recording (authenticated wallet reports its own txs)
		v1.POST("/approvals", walletAuth, handler.RecordApproval)
		v1.GET("/approvals/status", walletAuth, handler.GetApprovalStatus)
		v1.POST("/approvals/erc20", walletAuth, handler.RecordERC20Approval)

		// Approval history (operator only)
		v1.GET("/approvals", walletAuth, operatorAuth, handler.ListApprovals)

		// Token reads (authenticated)
		v1.GET("/tokens/:token_id", walletAuth, handler.GetToken)
		v1.GET("/tokens", walletAuth, handler.ListTokens)
		v1.GET("/documents/:token_id", walletAuth, handler.GetDocument)

		// Document intake and custody actions (operator only)
		v1.POST("/documents", walletAuth, operatorAuth, handler.CreateDocument)
		v1.POST("/tokens/:token_id/mint", walletAuth, operatorAuth, handler.MintToken)
		v1.POST("/tokens/:token_id/pull", walletAuth, operatorAuth, handler.PullToken)

		// ERC-20 surface
		v1.GET("/erc20/tokens", handler.ListSupportedTokens)
		v1.GET("/erc20/tokens/:contract", handler.GetERC20TokenInfo)
		v1.GET("/erc20/status", walletAuth, handler.GetERC20Status)
		v1.POST("/erc20/pull", walletAuth, operatorAuth, handler.PullERC20)
		v1.GET("/erc20/pullbacks", walletAuth, operatorAuth, handler.ListPullbacks)

		// Operator dashboard
		v1.GET("/recipients/connected", walletAuth, operatorAuth, handler.GetConnectedRecipients)

		// Operational controls (operator only)
		v1.POST("/reconcile", walletAuth, operatorAuth, handler.TriggerReconcile)
		v1.POST("/events/start", walletAuth, operatorAuth, handler.StartEvents)
		v1.POST("/events/stop", walletAuth, operatorAuth, handler.StopEvents)
		v1.GET("/events/status", walletAuth, operatorAuth, handler.EventsStatus)
	}
}
