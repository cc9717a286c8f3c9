package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// CreateWalletRequest represents a request to create a wallet. The initial
// balance is optional and defaults to zero.
type CreateWalletRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput() usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		InitialBalance: r.InitialBalance,
	}
}

// WalletOperationRequest represents a deposit or withdrawal against a wallet.
type WalletOperationRequest struct {
	OperationType string          `json:"operation_type"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the given wallet.
func (r *WalletOperationRequest) ToUseCaseInput(walletID string) usecase.ApplyOperationInput {
	return usecase.ApplyOperationInput{
		WalletID: walletID,
		Kind:     domain.OperationKind(r.OperationType),
		Amount:   r.Amount,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
