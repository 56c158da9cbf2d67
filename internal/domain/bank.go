package domain

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bank owns the global transaction policy and the administrative card
// operations. Card and account lookups go through the repositories; the
// bank itself holds no in-memory registry.
type Bank struct {
	ID               uuid.UUID
	Name             string
	Code             string
	GlobalDailyLimit Amount // Bank-wide daily withdrawal ceiling per account

	cards CardRepository
}

// NewBank creates a bank with the given policy ceiling.
func NewBank(name, code string, globalDailyLimit Amount, cards CardRepository) *Bank {
	return &Bank{
		ID:               uuid.New(),
		Name:             name,
		Code:             code,
		GlobalDailyLimit: globalDailyLimit,
		cards:            cards,
	}
}

// ValidateWithdrawal is the bank-level policy pre-check layered in front of
// Account.Withdraw. Both must pass independently. Checks run in order:
// amount validity, funds, per-account daily limit, bank-wide ceiling.
func (b *Bank) ValidateWithdrawal(account *Account, amount Amount, now time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal must be positive", ErrInvalidAmount)
	}

	if amount.GreaterThan(account.Balance) {
		return ErrInsufficientFunds
	}

	projected := account.WithdrawnOn(now).Add(amount)
	if projected.GreaterThan(account.DailyLimit) {
		return ErrDailyLimitExceeded
	}
	if projected.GreaterThan(b.GlobalDailyLimit) {
		return ErrGlobalLimitExceeded
	}

	return nil
}

// BlockCard is the administrative forced transition to the locked state,
// bypassing attempt counting. The change is persisted immediately.
func (b *Bank) BlockCard(ctx context.Context, card *Card) error {
	card.Lock()
	if err := b.cards.Update(ctx, card); err != nil {
		return fmt.Errorf("failed to persist card block: %w", err)
	}
	return nil
}

// ReactivateCard unlocks a locked card and resets its attempt counter.
// Out-of-band administrative operation.
func (b *Bank) ReactivateCard(ctx context.Context, card *Card) error {
	card.Reactivate()
	if err := b.cards.Update(ctx, card); err != nil {
		return fmt.Errorf("failed to persist card reactivation: %w", err)
	}
	return nil
}

// IssueCard emits a new active card for the account with a generated,
// unique card number.
func (b *Bank) IssueCard(ctx context.Context, account *Account, pin string) (*Card, error) {
	number, err := b.generateCardNumber(ctx)
	if err != nil {
		return nil, err
	}

	card, err := NewCard(number, pin, account.ID)
	if err != nil {
		return nil, err
	}

	if err := b.cards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to persist issued card: %w", err)
	}
	return card, nil
}

// generateCardNumber produces an unused card number in the
// XXXX-XXXX-XXXX-XXXX format.
func (b *Bank) generateCardNumber(ctx context.Context) (string, error) {
	for {
		var groups [4]string
		for i := range groups {
			groups[i] = fmt.Sprintf("%04d", rand.Intn(10000))
		}
		number := strings.Join(groups[:], "-")

		exists, err := b.cards.NumberExists(ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check card number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
}
