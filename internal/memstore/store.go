// Package memstore provides an in-memory implementation of the domain
// repositories. The engine treats storage as an external, transactional
// collaborator; this package is the reference implementation used by the
// demo binary and the tests.
package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bancodelsol/atmcore/internal/domain"
)

// Store is the shared backing state for all repositories. A single RWMutex
// guards the maps; per-account mutexes (handed out through Lock) serialize
// check-then-mutate sequences on one account across devices.
type Store struct {
	mu       sync.RWMutex
	cards    map[string]*domain.Card       // keyed by card number
	accounts map[uuid.UUID]*domain.Account // keyed by account ID
	ops      []*domain.Operation           // append-only

	lockMu   sync.Mutex
	accLocks map[uuid.UUID]*sync.Mutex
}

// New creates an empty store.
func New() *Store {
	return &Store{
		cards:    make(map[string]*domain.Card),
		accounts: make(map[uuid.UUID]*domain.Account),
		accLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Cards returns the card repository view of the store.
func (s *Store) Cards() *CardRepository {
	return &CardRepository{store: s}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

// Operations returns the operation log view of the store.
func (s *Store) Operations() *OperationLog {
	return &OperationLog{store: s}
}

// Transactions returns the transaction manager for the store.
func (s *Store) Transactions() *TransactionManager {
	return &TransactionManager{store: s}
}

// PutAccount seeds an account into the store. Intended for fixtures.
func (s *Store) PutAccount(account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.ID] = &cp
}

// accountLock returns the mutex guarding the given account, creating it on
// first use.
func (s *Store) accountLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	mu, ok := s.accLocks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.accLocks[id] = mu
	}
	return mu
}

func copyAccount(a *domain.Account) *domain.Account {
	cp := *a
	return &cp
}

func copyCard(c *domain.Card) *domain.Card {
	cp := *c
	return &cp
}

func copyOperation(o *domain.Operation) *domain.Operation {
	cp := *o
	if o.Amount != nil {
		amount := *o.Amount
		cp.Amount = &amount
	}
	return &cp
}
