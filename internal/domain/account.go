package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Account is the core domain entity holding a balance and the daily
// withdrawal accounting. Mutated only through Deposit/Withdraw/Charge
// under engine control.
type Account struct {
	ID                 uuid.UUID // Unique identifier of the account
	Number             string    // Human-facing account number
	Balance            Amount    // Current balance, never negative
	DailyLimit         Amount    // Maximum cumulative withdrawal per calendar day
	WithdrawnToday     Amount    // Amount withdrawn on LastWithdrawalDate
	LastWithdrawalDate time.Time // Calendar day of the last successful withdrawal
	Active             bool      // Inactive accounts reject every card session
	CreatedAt          time.Time // Timestamp when the account was opened
	UpdatedAt          time.Time // Timestamp of the last balance change
}

// NewAccount opens an account with the given number, opening balance and
// daily withdrawal limit.
func NewAccount(number string, balance, dailyLimit Amount) *Account {
	now := time.Now()
	return &Account{
		ID:             uuid.New(),
		Number:         number,
		Balance:        balance,
		DailyLimit:     dailyLimit,
		WithdrawnToday: ZeroAmount(),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Deposit credits the given amount to the balance.
func (a *Account) Deposit(amount Amount) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit must be positive", ErrInvalidAmount)
	}

	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// Withdraw debits the given amount and advances the daily withdrawal
// counter. The daily counter is rolled over before any check when the
// calendar date of now is past the last withdrawal date.
//
// The funds check runs strictly before the daily-limit check; callers rely
// on that order for error reporting.
func (a *Account) Withdraw(amount Amount, now time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal must be positive", ErrInvalidAmount)
	}

	a.rollDailyWindow(now)

	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	if a.WithdrawnToday.Add(amount).GreaterThan(a.DailyLimit) {
		return ErrDailyLimitExceeded
	}

	a.Balance = a.Balance.Sub(amount)
	a.WithdrawnToday = a.WithdrawnToday.Add(amount)
	a.LastWithdrawalDate = dayOf(now)
	a.UpdatedAt = time.Now()
	return nil
}

// Charge debits the given amount without touching the daily withdrawal
// counter. Used for non-cash debits such as bill payments and ticket
// purchases, which move no physical cash.
func (a *Account) Charge(amount Amount) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: charge must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// WithdrawnOn reports the cumulative amount withdrawn on the calendar day
// of now, without mutating the account. Returns zero when the date has
// advanced past the last withdrawal date.
func (a *Account) WithdrawnOn(now time.Time) Amount {
	if dayOf(now).After(a.LastWithdrawalDate) {
		return ZeroAmount()
	}
	return a.WithdrawnToday
}

// rollDailyWindow resets the daily counter exactly once when the calendar
// date advances past the last withdrawal date.
func (a *Account) rollDailyWindow(now time.Time) {
	if dayOf(now).After(a.LastWithdrawalDate) {
		a.WithdrawnToday = ZeroAmount()
		a.LastWithdrawalDate = dayOf(now)
	}
}

// dayOf truncates a timestamp to its calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
