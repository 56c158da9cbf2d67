package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// txKey is the key type for storing the transaction in the context.
type txKey struct{}

// memTx is one in-flight transaction. Writes issued through the
// repositories are staged and applied only on commit, so an error return
// from the transactional function discards them. Account locks acquired
// through Lock are held until the transaction finishes.
type memTx struct {
	lockedIDs map[uuid.UUID]bool
	locks     []*sync.Mutex
	staged    []func()
}

// TransactionManager implements domain.TransactionManager for the
// in-memory store.
type TransactionManager struct {
	store *Store
}

// WithTransaction executes fn with a transaction in the context. Staged
// writes are applied atomically under the store mutex when fn returns nil;
// they are dropped when fn returns an error. Locks are released last, in
// reverse acquisition order.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memTx{lockedIDs: make(map[uuid.UUID]bool)}
	defer tx.release()

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		return err
	}

	tm.store.mu.Lock()
	for _, apply := range tx.staged {
		apply()
	}
	tm.store.mu.Unlock()
	return nil
}

// lockAccount acquires the per-account mutex once per transaction.
func (tx *memTx) lockAccount(store *Store, id uuid.UUID) {
	if tx.lockedIDs[id] {
		return
	}
	mu := store.accountLock(id)
	mu.Lock()
	tx.lockedIDs[id] = true
	tx.locks = append(tx.locks, mu)
}

// release unlocks every held account lock in reverse acquisition order.
func (tx *memTx) release() {
	for i := len(tx.locks) - 1; i >= 0; i-- {
		tx.locks[i].Unlock()
	}
	tx.locks = nil
}

// txFrom retrieves the transaction from the context, or nil.
func txFrom(ctx context.Context) *memTx {
	if tx, ok := ctx.Value(txKey{}).(*memTx); ok {
		return tx
	}
	return nil
}
