package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CardRepository defines the interface for card data access operations.
// This follows the Repository pattern to abstract data persistence logic.
type CardRepository interface {
	// GetByNumber retrieves a card by its card number.
	// Returns ErrCardNotFound if no card matches.
	GetByNumber(ctx context.Context, number string) (*Card, error)

	// Create persists a newly issued card.
	Create(ctx context.Context, card *Card) error

	// Update persists changes to an existing card (attempt counter, state).
	Update(ctx context.Context, card *Card) error

	// NumberExists reports whether a card number is already taken.
	// Used when issuing new cards.
	NumberExists(ctx context.Context, number string) (bool, error)
}

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	// GetByID retrieves an account by its unique identifier.
	// Returns ErrAccountNotFound if the account doesn't exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Update persists changes to an existing account.
	// Typically used to persist the balance after a withdrawal or deposit.
	Update(ctx context.Context, account *Account) error

	// Lock acquires exclusive access to the account for the duration of the
	// surrounding transaction, so a check-then-mutate sequence cannot
	// interleave with another operation on the same account.
	// Must be called within a transaction context.
	Lock(ctx context.Context, id uuid.UUID) (*Account, error)
}

// OperationFilter narrows an OperationLog listing. Zero-value fields are
// ignored. Timestamps are not assumed globally unique.
type OperationFilter struct {
	AccountID uuid.UUID        // Only operations on this account
	From      time.Time        // Inclusive lower time bound
	To        time.Time        // Inclusive upper time bound
	Kind      OperationKind    // Only operations of this kind
	Outcome   OperationOutcome // Only operations with this outcome
}

// OperationLog is the append-only record of executed operations shared
// across the bank. Entries are never edited after being appended.
type OperationLog interface {
	// Append records a finalized operation.
	Append(ctx context.Context, op *Operation) error

	// List returns the operations matching the filter, in append order.
	List(ctx context.Context, filter OperationFilter) ([]*Operation, error)
}

// TransactionManager defines the interface for running a function with
// transactional semantics. The engine works against this abstraction
// without being coupled to a specific storage implementation.
type TransactionManager interface {
	// WithTransaction executes the given function within a transaction.
	// If the function returns an error, the transaction's effects are
	// discarded. Locks acquired through Lock are released on return.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
