package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/veridoc/doc-custody/internal/api/shared/errors"
	"github.com/veridoc/doc-custody/internal/auth"
	"github.com/veridoc/doc-custody/internal/domain"
)

const (
	// WALLET_ADDRESS_KEY is the gin context key holding the authenticated
	// wallet address
	WALLET_ADDRESS_KEY = "wallet_address"
)

// WalletAuth validates the Bearer session token and stores the wallet
// address in the request context
func WalletAuth(authService auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Missing Authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Invalid Authorization header format"))
			return
		}

		address, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Invalid or expired session token"))
			return
		}

		c.Set(WALLET_ADDRESS_KEY, domain.NormalizeAddress(address))
		c.Next()
	}
}

// OperatorAuth requires the authenticated wallet to be the configured
// operator. Must run after WalletAuth.
func OperatorAuth(operatorAddress string) gin.HandlerFunc {
	operator := domain.NormalizeAddress(operatorAddress)
	return func(c *gin.Context) {
		address := c.GetString(WALLET_ADDRESS_KEY)
		if !domain.SameAddress(address, operator) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierrors.NewForbiddenError("Operator privileges required"))
			return
		}
		c.Next()
	}
}
