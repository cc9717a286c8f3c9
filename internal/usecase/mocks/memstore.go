package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

var errTxClosed = errors.New("tx is closed")

// MemoryWalletStore implements WalletRepository and TransactionManager over a
// map, with a blocking per-wallet mutex standing in for the row lock and
// writes staged until commit. It lets usecase tests exercise real goroutine
// contention without a database.
type MemoryWalletStore struct {
	mu        sync.Mutex
	wallets   map[string]domain.Wallet
	locks     map[string]*sync.Mutex
	commitErr error
}

func NewMemoryWalletStore() *MemoryWalletStore {
	return &MemoryWalletStore{
		wallets: make(map[string]domain.Wallet),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Seed installs a wallet as committed state.
func (s *MemoryWalletStore) Seed(wallet domain.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.ID] = wallet
}

// FailNextCommit makes the next transaction's Commit return err. The staged
// writes are discarded, as a connection drop between flush and commit would.
func (s *MemoryWalletStore) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

func (s *MemoryWalletStore) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}

	return l
}

func (s *MemoryWalletStore) Create(ctx context.Context, wallet *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.ID] = *wallet
	return nil
}

func (s *MemoryWalletStore) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[id]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}

	return &w, nil
}

// GetByIDForUpdate blocks until the wallet's lock is free, then returns the
// most recent committed value. The lock is released by the transaction's
// commit or rollback.
func (s *MemoryWalletStore) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	mtx, ok := tx.(*MemoryTx)
	if !ok {
		return nil, errors.New("transaction does not belong to this store")
	}

	l := s.lockFor(id)
	l.Lock()
	mtx.addLock(l)

	return s.GetByID(ctx, id)
}

func (s *MemoryWalletStore) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, lastOperation domain.OperationKind, updatedAt time.Time) error {
	mtx, ok := tx.(*MemoryTx)
	if !ok {
		return errors.New("transaction does not belong to this store")
	}

	mtx.stage(id, stagedUpdate{
		balance:       balance,
		lastOperation: lastOperation,
		updatedAt:     updatedAt,
	})

	return nil
}

func (s *MemoryWalletStore) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var wallets []*domain.Wallet
	for _, w := range s.wallets {
		wallet := w
		wallets = append(wallets, &wallet)
	}

	return wallets, nil
}

// Begin starts a new staged transaction, consuming any pending commit error.
func (s *MemoryWalletStore) Begin(ctx context.Context) (usecase.Transaction, error) {
	s.mu.Lock()
	commitErr := s.commitErr
	s.commitErr = nil
	s.mu.Unlock()

	return &MemoryTx{
		store:     s,
		staged:    make(map[string]stagedUpdate),
		CommitErr: commitErr,
	}, nil
}

type stagedUpdate struct {
	updatedAt     time.Time
	lastOperation domain.OperationKind
	balance       decimal.Decimal
}

// MemoryTx stages writes until commit and owns the wallet locks it acquired.
type MemoryTx struct {
	store  *MemoryWalletStore
	mu     sync.Mutex
	locks  []*sync.Mutex
	staged map[string]stagedUpdate
	closed bool

	// CommitErr, when set, makes Commit fail after discarding staged writes.
	CommitErr error
}

func (t *MemoryTx) addLock(l *sync.Mutex) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locks = append(t.locks, l)
}

func (t *MemoryTx) stage(id string, update stagedUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staged[id] = update
}

func (t *MemoryTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errTxClosed
	}

	if t.CommitErr != nil {
		t.release()
		return t.CommitErr
	}

	t.store.mu.Lock()
	for id, update := range t.staged {
		w, ok := t.store.wallets[id]
		if !ok {
			continue
		}
		w.Balance = update.balance
		w.LastOperation = update.lastOperation
		w.UpdatedAt = update.updatedAt
		t.store.wallets[id] = w
	}
	t.store.mu.Unlock()

	t.release()

	return nil
}

func (t *MemoryTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.release()

	return nil
}

// release must be called with t.mu held.
func (t *MemoryTx) release() {
	t.closed = true
	for _, l := range t.locks {
		l.Unlock()
	}
	t.locks = nil
}
