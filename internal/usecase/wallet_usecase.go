package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// WalletUseCase is the balance mutation engine. It is stateless; all
// serialization of concurrent operations on the same wallet is delegated to
// the store's row lock, so the contract holds across multiple processes
// sharing one database.
type WalletUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	idGen      IDGenerator
	cache      Cache
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewWalletUseCase creates a new WalletUseCase. cache may be nil to disable
// read caching.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	idGen IDGenerator,
	cache Cache,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		idGen:      idGen,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	InitialBalance decimal.Decimal
}

// CreateWallet creates a new wallet with a generated ID and the given
// initial balance (zero by default).
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	wallet := &domain.Wallet{
		ID:        uc.idGen.Generate(),
		Balance:   input.InitialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// GetWallet retrieves a wallet by ID. The read is lock-free and may observe a
// balance that is concurrently being mutated; committed visibility only.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	if wallet, ok := uc.cachedWallet(ctx, id); ok {
		return wallet, nil
	}

	wallet, err := uc.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.storeInCache(ctx, wallet)

	return wallet, nil
}

// ListWalletsInput represents input for listing wallets.
type ListWalletsInput struct {
	Limit  int
	Offset int
}

// ListWallets lists wallets with pagination.
func (uc *WalletUseCase) ListWallets(ctx context.Context, input ListWalletsInput) ([]*domain.Wallet, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.walletRepo.List(ctx, limit, offset)
}

// ApplyOperationInput represents one balance mutation request.
type ApplyOperationInput struct {
	WalletID string
	Kind     domain.OperationKind
	Amount   decimal.Decimal
}

// ApplyOperation applies one operation to one wallet under an exclusive row
// lock. Two concurrent calls against the same wallet are linearized: the
// second call's locking read blocks until the first transaction ends, so it
// always observes the first's committed balance. The call owns exactly one
// transaction and never retries internally; domain.ErrTransientStore is
// returned to the caller, which restarts the whole call.
func (uc *WalletUseCase) ApplyOperation(ctx context.Context, input ApplyOperationInput) (*domain.Wallet, error) {
	// Pure validation, before any storage access.
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidOperation
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", domain.ErrTransientStore, err)
	}
	// Releases the row lock on every exit path. A no-op after commit.
	defer tx.Rollback(ctx)

	wallet, err := uc.walletRepo.GetByIDForUpdate(ctx, tx, input.WalletID)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal

	switch input.Kind {
	case domain.OperationDeposit:
		newBalance = wallet.ApplyDeposit(input.Amount)
	case domain.OperationWithdraw:
		if err := wallet.ValidateWithdraw(input.Amount); err != nil {
			return nil, err
		}
		newBalance = wallet.ApplyWithdraw(input.Amount)
	}

	now := time.Now().UTC()

	if err := uc.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance, input.Kind, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", domain.ErrTransientStore, err)
	}

	wallet.Balance = newBalance
	wallet.LastOperation = input.Kind
	wallet.UpdatedAt = now

	uc.invalidateCache(ctx, wallet.ID)

	return wallet, nil
}

func walletCacheKey(id string) string {
	return "wallet:" + id
}

func (uc *WalletUseCase) cachedWallet(ctx context.Context, id string) (*domain.Wallet, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, walletCacheKey(id))
	if err != nil {
		return nil, false
	}

	var wallet domain.Wallet
	if err := json.Unmarshal([]byte(raw), &wallet); err != nil {
		uc.logger.Warn().Err(err).Str("wallet_id", id).Msg("dropping corrupt cache entry")
		uc.invalidateCache(ctx, id)

		return nil, false
	}

	return &wallet, true
}

func (uc *WalletUseCase) storeInCache(ctx context.Context, wallet *domain.Wallet) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(wallet)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, walletCacheKey(wallet.ID), string(raw), uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("wallet_id", wallet.ID).Msg("wallet cache set failed")
	}
}

func (uc *WalletUseCase) invalidateCache(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, walletCacheKey(id)); err != nil {
		uc.logger.Warn().Err(err).Str("wallet_id", id).Msg("wallet cache invalidation failed")
	}
}
