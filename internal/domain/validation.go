package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	// BalanceScale is the fixed number of fractional digits for balances
	// and operation amounts.
	BalanceScale = 2
	// MaxOperationAmount bounds a single operation, matching the numeric(15,2)
	// column: 13 integer digits.
	MaxOperationAmount = "9999999999999.99"
)

var maxOperationAmount, _ = decimal.NewFromString(MaxOperationAmount)

// ValidateAmount validates an operation amount: strictly positive, at most
// BalanceScale fractional digits, bounded by MaxOperationAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.Exponent() < -BalanceScale {
		return fmt.Errorf("%w: at most %d decimal places allowed", ErrInvalidAmount, BalanceScale)
	}

	if amount.GreaterThan(maxOperationAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxOperationAmount)
	}

	return nil
}

// ValidateInitialBalance validates a wallet's starting balance: zero allowed,
// otherwise same scale and bound rules as operation amounts.
func ValidateInitialBalance(balance decimal.Decimal) error {
	if balance.IsZero() {
		return nil
	}

	if balance.IsNegative() {
		return fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidAmount)
	}

	return ValidateAmount(balance)
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 100
	const defaultPageSize = 20

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
