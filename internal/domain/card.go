package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultMaxPINAttempts is the number of consecutive wrong PINs a card
// tolerates before it locks.
const DefaultMaxPINAttempts = 3

// CardState represents the possible states of a card.
type CardState string

const (
	// CardStateActive indicates the card can authenticate and operate.
	CardStateActive CardState = "ACTIVE"

	// CardStateLocked indicates the card was locked after exhausting PIN
	// attempts or by an administrative block. Terminal without Reactivate.
	CardStateLocked CardState = "LOCKED"

	// CardStateInactive indicates the card was issued but never activated.
	CardStateInactive CardState = "INACTIVE"

	// CardStateExpired indicates the card is past its validity.
	CardStateExpired CardState = "EXPIRED"
)

// Card owns the authentication state for exactly one account. The raw PIN
// is never retained; only a salted bcrypt hash is stored.
type Card struct {
	ID             uuid.UUID // Unique identifier of the card
	Number         string    // Card number, format XXXX-XXXX-XXXX-XXXX
	PINHash        string    // Salted one-way hash of the PIN
	State          CardState // Current card state
	FailedAttempts int       // Consecutive failed PIN attempts
	MaxAttempts    int       // Attempts allowed before the card locks
	AccountID      uuid.UUID // Linked account, resolved through the repository
	CreatedAt      time.Time // Timestamp when the card was issued
	UpdatedAt      time.Time // Timestamp of the last state change
}

// NewCard issues an active card for the given account with the given PIN.
func NewCard(number, pin string, accountID uuid.UUID) (*Card, error) {
	now := time.Now()
	c := &Card{
		ID:          uuid.New(),
		Number:      number,
		State:       CardStateActive,
		MaxAttempts: DefaultMaxPINAttempts,
		AccountID:   accountID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.SetPIN(pin); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPIN validates and stores a salted one-way hash of the PIN.
func (c *Card) SetPIN(pin string) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	c.PINHash = string(hash)
	c.UpdatedAt = time.Now()
	return nil
}

// VerifyPIN compares the entered PIN against the stored hash.
// The bcrypt comparison is constant-time with respect to the hash.
//
// On a match the attempt counter resets. On a mismatch the counter is
// incremented and the card locks when the post-increment count reaches
// MaxAttempts; the caller must detect that transition and trigger any
// bank-level side effect. Returns (false, nil) on a plain mismatch.
func (c *Card) VerifyPIN(pin string) (bool, error) {
	if c.State == CardStateLocked {
		return false, ErrCardLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PINHash), []byte(pin)); err != nil {
		c.FailedAttempts++
		if c.FailedAttempts >= c.MaxAttempts {
			c.State = CardStateLocked
		}
		c.UpdatedAt = time.Now()
		return false, nil
	}

	c.FailedAttempts = 0
	c.UpdatedAt = time.Now()
	return true, nil
}

// CanBeUsed gates every session action: it fails when the card or the
// linked account cannot operate.
func (c *Card) CanBeUsed(account *Account) error {
	switch c.State {
	case CardStateLocked:
		return ErrCardLocked
	case CardStateInactive:
		return ErrCardInactive
	case CardStateExpired:
		return ErrCardExpired
	}

	if account == nil || !account.Active {
		return ErrAccountInactive
	}
	return nil
}

// RemainingAttempts reports how many PIN attempts remain before the card locks.
func (c *Card) RemainingAttempts() int {
	remaining := c.MaxAttempts - c.FailedAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Lock forces the card into the locked state, bypassing attempt counting.
func (c *Card) Lock() {
	c.State = CardStateLocked
	c.UpdatedAt = time.Now()
}

// Reactivate unlocks a locked card and resets the attempt counter.
// Administrative operation, outside the engine's normal session flow.
func (c *Card) Reactivate() {
	if c.State != CardStateLocked {
		return
	}
	c.State = CardStateActive
	c.FailedAttempts = 0
	c.UpdatedAt = time.Now()
}

// validPIN reports whether pin is exactly 4 numeric digits.
func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
