package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind identifies a balance mutation.
type OperationKind string

const (
	// OperationDeposit increases a wallet's balance.
	OperationDeposit OperationKind = "DEPOSIT"
	// OperationWithdraw decreases a wallet's balance.
	OperationWithdraw OperationKind = "WITHDRAW"
)

// Valid reports whether the kind is a known operation.
func (k OperationKind) Valid() bool {
	return k == OperationDeposit || k == OperationWithdraw
}

// Wallet is an account record holding a non-negative monetary balance.
// Balance is only ever written through the locked apply-operation path.
type Wallet struct {
	ID            string
	Balance       decimal.Decimal
	LastOperation OperationKind
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateWithdraw checks if the wallet can be debited by amount.
func (w *Wallet) ValidateWithdraw(amount decimal.Decimal) error {
	if w.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDeposit returns the balance after a deposit.
func (w *Wallet) ApplyDeposit(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Add(amount)
}

// ApplyWithdraw returns the balance after a withdrawal.
func (w *Wallet) ApplyWithdraw(amount decimal.Decimal) decimal.Decimal {
	return w.Balance.Sub(amount)
}
