package domain

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when request parameters fail validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState is returned when an operation is not valid for the
	// entity's current status
	ErrInvalidState = errors.New("invalid state")

	// ErrNotApproved is returned when the live on-chain approval check fails
	ErrNotApproved = errors.New("operator not approved")

	// ErrInsufficientAllowance is returned when the live allowance is lower
	// than the requested amount
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrInsufficientBalance is returned when the live balance is lower than
	// the requested amount
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUnsupportedToken is returned when a token contract is not in the
	// configured allow-list
	ErrUnsupportedToken = errors.New("unsupported token")

	// ErrTransactionNotFound is returned when a transaction receipt cannot be
	// found (unconfirmed or unknown transaction)
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrChainGateway wraps any underlying RPC failure
	ErrChainGateway = errors.New("chain gateway error")

	// ErrPersistence wraps store write failures
	ErrPersistence = errors.New("persistence error")
)
