package domain

import "errors"

var (
	// ErrCardNotFound is returned when no card matches the given number.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardLocked is returned when an operation is attempted with a locked card.
	ErrCardLocked = errors.New("card is locked")

	// ErrCardRetained is returned when the card became locked during PIN entry
	// and was retained by the device. Reported distinctly from ErrCardLocked so
	// the caller can tell a lockout that just happened from a card that was
	// already locked on insertion.
	ErrCardRetained = errors.New("card locked and retained by the device")

	// ErrCardInactive is returned when the card has not been activated.
	ErrCardInactive = errors.New("card is inactive")

	// ErrCardExpired is returned when the card is past its validity.
	ErrCardExpired = errors.New("card is expired")

	// ErrAccountNotFound is returned when an account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive is returned when the linked account is closed or suspended.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrWrongPIN is returned on a PIN mismatch that did not lock the card.
	ErrWrongPIN = errors.New("wrong PIN")

	// ErrInvalidPIN is returned when a PIN is not 4 numeric digits.
	ErrInvalidPIN = errors.New("PIN must be 4 numeric digits")

	// ErrInsufficientFunds is returned when the account balance doesn't cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDailyLimitExceeded is returned when a withdrawal would exceed the
	// account's daily withdrawal limit.
	ErrDailyLimitExceeded = errors.New("daily withdrawal limit exceeded")

	// ErrGlobalLimitExceeded is returned when a withdrawal would exceed the
	// bank-wide daily ceiling.
	ErrGlobalLimitExceeded = errors.New("bank global daily limit exceeded")

	// ErrInsufficientCashierFunds is returned when the device doesn't hold
	// enough cash to dispense the requested amount.
	ErrInsufficientCashierFunds = errors.New("cashier has insufficient cash")

	// ErrInvalidAmount is returned when an amount is malformed or not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSessionAlreadyActive is returned when a card is inserted while
	// another card is already in the device.
	ErrSessionAlreadyActive = errors.New("a card is already inserted")

	// ErrNoActiveSession is returned when an operation requires an
	// authenticated session and there is none.
	ErrNoActiveSession = errors.New("no active session")

	// ErrDeviceOutOfService is returned when the device is not operating.
	ErrDeviceOutOfService = errors.New("device out of service")

	// ErrSystemError wraps unexpected internal faults (e.g. storage failures)
	// so they are surfaced uniformly and never partially applied.
	ErrSystemError = errors.New("internal system error")
)
