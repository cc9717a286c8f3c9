package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	// GetByIDForUpdate takes an exclusive row lock on the wallet. Valid only
	// inside an open transaction; the lock is held until commit or rollback.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	// UpdateBalance writes the new balance. Valid only inside the transaction
	// that holds the row lock.
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, lastOperation domain.OperationKind, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique wallet IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when it fails with a transient store error.
// The whole operation restarts on each attempt; nothing is resumed.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching for read-only wallet lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet claims key if unseen. Returns (seen, storedResponse, error);
	// storedResponse is nil while the first request is still in flight.
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, []byte, error)
	// Update records the final response for a claimed key.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
