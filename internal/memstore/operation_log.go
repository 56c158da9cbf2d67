package memstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bancodelsol/atmcore/internal/domain"
)

// OperationLog implements domain.OperationLog as an append-only slice.
type OperationLog struct {
	store *Store
}

// Append records a finalized operation. Entries are never edited afterward.
func (l *OperationLog) Append(ctx context.Context, op *domain.Operation) error {
	if !op.Finalized() {
		return fmt.Errorf("operation %s appended before finalization", op.ID)
	}

	cp := copyOperation(op)
	if tx := txFrom(ctx); tx != nil {
		tx.staged = append(tx.staged, func() {
			l.store.ops = append(l.store.ops, cp)
		})
		return nil
	}

	l.store.mu.Lock()
	l.store.ops = append(l.store.ops, cp)
	l.store.mu.Unlock()
	return nil
}

// List returns copies of the operations matching the filter, in append order.
func (l *OperationLog) List(ctx context.Context, filter domain.OperationFilter) ([]*domain.Operation, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	var out []*domain.Operation
	for _, op := range l.store.ops {
		if !matches(op, filter) {
			continue
		}
		out = append(out, copyOperation(op))
	}
	return out, nil
}

// matches applies the filter; zero-value fields are ignored.
func matches(op *domain.Operation, f domain.OperationFilter) bool {
	if f.AccountID != uuid.Nil && op.AccountID != f.AccountID {
		return false
	}
	if !f.From.IsZero() && op.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && op.Timestamp.After(f.To) {
		return false
	}
	if f.Kind != "" && op.Kind != f.Kind {
		return false
	}
	if f.Outcome != "" && op.Outcome != f.Outcome {
		return false
	}
	return true
}
