package memstore

import (
	"context"
	"fmt"

	"github.com/bancodelsol/atmcore/internal/domain"
)

// CardRepository implements domain.CardRepository on the in-memory store.
type CardRepository struct {
	store *Store
}

// GetByNumber retrieves a copy of the card with the given number.
func (r *CardRepository) GetByNumber(ctx context.Context, number string) (*domain.Card, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	card, ok := r.store.cards[number]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	return copyCard(card), nil
}

// Create persists a newly issued card. The card number must be unused.
func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.cards[card.Number]; exists {
		return fmt.Errorf("card number %s already exists", card.Number)
	}
	r.store.cards[card.Number] = copyCard(card)
	return nil
}

// Update persists changes to an existing card (attempt counter, state).
func (r *CardRepository) Update(ctx context.Context, card *domain.Card) error {
	r.store.mu.RLock()
	_, ok := r.store.cards[card.Number]
	r.store.mu.RUnlock()
	if !ok {
		return domain.ErrCardNotFound
	}

	cp := copyCard(card)
	if tx := txFrom(ctx); tx != nil {
		tx.staged = append(tx.staged, func() {
			r.store.cards[cp.Number] = cp
		})
		return nil
	}

	r.store.mu.Lock()
	r.store.cards[cp.Number] = cp
	r.store.mu.Unlock()
	return nil
}

// NumberExists reports whether a card number is already taken.
func (r *CardRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.cards[number]
	return ok, nil
}
