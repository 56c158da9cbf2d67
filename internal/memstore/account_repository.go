package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bancodelsol/atmcore/internal/domain"
)

// AccountRepository implements domain.AccountRepository on the in-memory store.
type AccountRepository struct {
	store *Store
}

// GetByID retrieves a copy of the account so callers cannot mutate store
// state out of band.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// Update persists changes to an existing account. Inside a transaction the
// write is staged and applied on commit; outside one it applies immediately.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.store.mu.RLock()
	_, ok := r.store.accounts[account.ID]
	r.store.mu.RUnlock()
	if !ok {
		return domain.ErrAccountNotFound
	}

	cp := copyAccount(account)
	if tx := txFrom(ctx); tx != nil {
		tx.staged = append(tx.staged, func() {
			r.store.accounts[cp.ID] = cp
		})
		return nil
	}

	r.store.mu.Lock()
	r.store.accounts[cp.ID] = cp
	r.store.mu.Unlock()
	return nil
}

// Lock acquires the per-account mutex for the duration of the surrounding
// transaction and returns the current committed state of the account.
// Prevents the check-then-mutate sequence from interleaving with another
// operation on the same account.
func (r *AccountRepository) Lock(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	tx := txFrom(ctx)
	if tx == nil {
		return nil, fmt.Errorf("%w: Lock called outside a transaction", domain.ErrSystemError)
	}

	tx.lockAccount(r.store, id)
	return r.GetByID(ctx, id)
}
