package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Operation errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidOperation = errors.New("unknown operation type")

	// ErrTransientStore marks infrastructure-level storage failures (lock
	// timeout, commit conflict, connectivity). Safe to retry the whole call.
	ErrTransientStore = errors.New("transient store error")
)
