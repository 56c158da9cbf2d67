// Package atm implements the cashier device: the session state machine that
// authorizes and executes operations against accounts through the bank's
// policy and the repository collaborators.
package atm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bancodelsol/atmcore/internal/domain"
)

// sessionState tracks the per-device session flow.
type sessionState string

const (
	stateIdle           sessionState = "IDLE"
	stateAuthenticating sessionState = "AUTHENTICATING"
	stateAuthenticated  sessionState = "AUTHENTICATED"
)

// SessionInfo is returned to the caller when a card is accepted.
type SessionInfo struct {
	CardNumber        string // masked card number
	RemainingAttempts int    // PIN attempts left before the card locks
}

// Cashier is one physical ATM device. A single mutex serializes every
// session transition and operation: one device serves one customer at a
// time. Cross-device contention on a shared account is handled by the
// per-account lock taken inside the transaction manager.
type Cashier struct {
	DeviceID string
	Location string

	mu         sync.Mutex
	active     bool
	cashOnHand domain.Amount
	state      sessionState
	card       *domain.Card // inserted card, nil when idle

	bank     *domain.Bank
	cards    domain.CardRepository
	accounts domain.AccountRepository
	oplog    domain.OperationLog
	txm      domain.TransactionManager

	now func() time.Time
}

// New creates a cashier device with the given cash float.
func New(
	deviceID, location string,
	cashOnHand domain.Amount,
	bank *domain.Bank,
	cards domain.CardRepository,
	accounts domain.AccountRepository,
	oplog domain.OperationLog,
	txm domain.TransactionManager,
) *Cashier {
	c := &Cashier{
		DeviceID:   deviceID,
		Location:   location,
		active:     true,
		cashOnHand: cashOnHand,
		state:      stateIdle,
		bank:       bank,
		cards:      cards,
		accounts:   accounts,
		oplog:      oplog,
		txm:        txm,
		now:        time.Now,
	}
	cashOnHandGauge.WithLabelValues(deviceID).Set(cashOnHand.InexactFloat64())
	return c
}

// InsertCard starts a session for the card with the given number.
// Transitions IDLE -> AUTHENTICATING on success.
func (c *Cashier) InsertCard(ctx context.Context, cardNumber string) (*SessionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return nil, domain.ErrDeviceOutOfService
	}
	if c.state != stateIdle {
		return nil, domain.ErrSessionAlreadyActive
	}

	card, err := c.cards.GetByNumber(ctx, cardNumber)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSystemError, err)
	}

	account, err := c.accounts.GetByID(ctx, card.AccountID)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrSystemError, err)
	}

	if err := card.CanBeUsed(account); err != nil {
		return nil, err
	}

	c.card = card
	c.state = stateAuthenticating
	return &SessionInfo{
		CardNumber:        maskNumber(card.Number),
		RemainingAttempts: card.RemainingAttempts(),
	}, nil
}

// SubmitPin verifies the PIN for the inserted card. On success the session
// becomes AUTHENTICATED. On a plain mismatch the session stays in
// AUTHENTICATING and ErrWrongPIN is returned. When the mismatch exhausts
// the attempt budget the bank is notified, the session is force-ejected and
// ErrCardRetained is returned.
func (c *Cashier) SubmitPin(ctx context.Context, pin string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateAuthenticating {
		return domain.ErrNoActiveSession
	}

	ok, err := c.card.VerifyPIN(pin)
	if err != nil {
		c.resetSession()
		return err
	}

	if updateErr := c.cards.Update(ctx, c.card); updateErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrSystemError, updateErr)
	}

	if ok {
		c.state = stateAuthenticated
		return nil
	}

	if c.card.State == domain.CardStateLocked {
		if blockErr := c.bank.BlockCard(ctx, c.card); blockErr != nil {
			return fmt.Errorf("%w: %v", domain.ErrSystemError, blockErr)
		}
		c.resetSession()
		return domain.ErrCardRetained
	}

	return domain.ErrWrongPIN
}

// Withdraw dispenses cash from the account. Requires an authenticated
// session. The cash float is checked first, then the bank policy, then the
// account's own enforcement; any failure leaves balance, daily counter and
// cash float unchanged. One operation record is appended per attempt that
// reaches execution, success or failure.
func (c *Cashier) Withdraw(ctx context.Context, amount domain.Amount) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}

	now := c.now()
	op := domain.NewOperation(domain.OperationWithdrawal, c.card.AccountID, c.DeviceID, &amount, now)
	timer := prometheus.NewTimer(operationDuration.WithLabelValues(string(op.Kind)))
	defer timer.ObserveDuration()

	var balanceAfter *domain.Amount
	execErr := func() error {
		if !amount.IsPositive() {
			return fmt.Errorf("%w: withdrawal must be positive", domain.ErrInvalidAmount)
		}
		if c.cashOnHand.LessThan(amount) {
			return domain.ErrInsufficientCashierFunds
		}
		return c.txm.WithTransaction(ctx, func(txCtx context.Context) error {
			account, err := c.accounts.Lock(txCtx, c.card.AccountID)
			if err != nil {
				return err
			}
			if err := c.bank.ValidateWithdrawal(account, amount, now); err != nil {
				return err
			}
			if err := account.Withdraw(amount, now); err != nil {
				return err
			}
			if err := c.accounts.Update(txCtx, account); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrSystemError, err)
			}
			balanceAfter = &account.Balance
			return nil
		})
	}()

	if execErr == nil {
		c.cashOnHand = c.cashOnHand.Sub(amount)
		cashOnHandGauge.WithLabelValues(c.DeviceID).Set(c.cashOnHand.InexactFloat64())
	}

	return c.finishOperation(ctx, op, execErr, balanceAfter)
}

// Deposit credits the account. Cash deposits feed the device float; cheque
// deposits do not.
func (c *Cashier) Deposit(ctx context.Context, amount domain.Amount, kind domain.DepositKind) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}
	if kind != domain.DepositCash && kind != domain.DepositCheque {
		return nil, fmt.Errorf("unknown deposit kind %q", kind)
	}

	now := c.now()
	op := domain.NewOperation(domain.OperationDeposit, c.card.AccountID, c.DeviceID, &amount, now)
	op.DepositKind = kind
	timer := prometheus.NewTimer(operationDuration.WithLabelValues(string(op.Kind)))
	defer timer.ObserveDuration()

	var balanceAfter *domain.Amount
	execErr := func() error {
		if !amount.IsPositive() {
			return fmt.Errorf("%w: deposit must be positive", domain.ErrInvalidAmount)
		}
		return c.txm.WithTransaction(ctx, func(txCtx context.Context) error {
			account, err := c.accounts.Lock(txCtx, c.card.AccountID)
			if err != nil {
				return err
			}
			if err := account.Deposit(amount); err != nil {
				return err
			}
			if err := c.accounts.Update(txCtx, account); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrSystemError, err)
			}
			balanceAfter = &account.Balance
			return nil
		})
	}()

	if execErr == nil && kind == domain.DepositCash {
		c.cashOnHand = c.cashOnHand.Add(amount)
		cashOnHandGauge.WithLabelValues(c.DeviceID).Set(c.cashOnHand.InexactFloat64())
	}

	return c.finishOperation(ctx, op, execErr, balanceAfter)
}

// InquireBalance reads the account balance and logs the inquiry.
func (c *Cashier) InquireBalance(ctx context.Context) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}

	now := c.now()
	op := domain.NewOperation(domain.OperationBalanceInquiry, c.card.AccountID, c.DeviceID, nil, now)
	timer := prometheus.NewTimer(operationDuration.WithLabelValues(string(op.Kind)))
	defer timer.ObserveDuration()

	var balance *domain.Amount
	execErr := func() error {
		account, err := c.accounts.GetByID(ctx, c.card.AccountID)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSystemError, err)
		}
		b := account.Balance
		balance = &b
		op.Amount = &b
		return nil
	}()

	return c.finishOperation(ctx, op, execErr, balance)
}

// PayBill debits the account for a service bill. No cash moves, so neither
// the device float nor the daily withdrawal counter is touched.
func (c *Cashier) PayBill(ctx context.Context, amount domain.Amount, serviceName, referenceNumber string) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}

	op := domain.NewOperation(domain.OperationBillPayment, c.card.AccountID, c.DeviceID, &amount, c.now())
	op.ServiceName = serviceName
	op.ReferenceNumber = referenceNumber

	balanceAfter, execErr := c.charge(ctx, amount)
	return c.finishOperation(ctx, op, execErr, balanceAfter)
}

// BuyTickets debits the account for event tickets and issues a ticket code
// on success.
func (c *Cashier) BuyTickets(ctx context.Context, amount domain.Amount, eventName string, count int) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAuthenticated(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("ticket count must be positive, got %d", count)
	}

	op := domain.NewOperation(domain.OperationTicketPurchase, c.card.AccountID, c.DeviceID, &amount, c.now())
	op.EventName = eventName
	op.TicketCount = count

	balanceAfter, execErr := c.charge(ctx, amount)
	if execErr == nil {
		op.TicketCode = fmt.Sprintf("TKT-%06d", rand.Intn(1000000))
	}
	return c.finishOperation(ctx, op, execErr, balanceAfter)
}

// charge runs a non-cash account debit inside a transaction.
func (c *Cashier) charge(ctx context.Context, amount domain.Amount) (*domain.Amount, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: charge must be positive", domain.ErrInvalidAmount)
	}

	var balanceAfter *domain.Amount
	err := c.txm.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := c.accounts.Lock(txCtx, c.card.AccountID)
		if err != nil {
			return err
		}
		if err := account.Charge(amount); err != nil {
			return err
		}
		if err := c.accounts.Update(txCtx, account); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSystemError, err)
		}
		balanceAfter = &account.Balance
		return nil
	})
	return balanceAfter, err
}

// EjectCard clears the session from any state. Always succeeds; idempotent.
// An in-flight operation can never be abandoned halfway because session
// operations are serialized on the device mutex.
func (c *Cashier) EjectCard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetSession()
}

// RefillCash tops up the device float. Service operation.
func (c *Cashier) RefillCash(amount domain.Amount) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: refill must be positive", domain.ErrInvalidAmount)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cashOnHand = c.cashOnHand.Add(amount)
	cashOnHandGauge.WithLabelValues(c.DeviceID).Set(c.cashOnHand.InexactFloat64())
	return nil
}

// SetOutOfService marks the device active or inactive. Inactive devices
// reject card insertion; an existing session is ejected.
func (c *Cashier) SetOutOfService(out bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = !out
	if out {
		c.resetSession()
	}
}

// CashOnHand reports the current cash float.
func (c *Cashier) CashOnHand() domain.Amount {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cashOnHand
}

// finishOperation finalizes the record, appends it to the log, updates the
// metrics and builds the receipt. Failed executions return both the receipt
// and the causing error; the caller decides how to display them.
func (c *Cashier) finishOperation(ctx context.Context, op *domain.Operation, execErr error, balance *domain.Amount) (*Receipt, error) {
	if execErr == nil {
		op.MarkSuccess()
	} else {
		op.MarkFailed(execErr.Error())
	}

	if err := c.oplog.Append(ctx, op); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSystemError, err)
	}
	operationsTotal.WithLabelValues(string(op.Kind), string(op.Outcome)).Inc()

	// An inquiry's amount is the inquired balance; the receipt shows it on
	// the balance line only.
	amount := op.Amount
	if op.Kind == domain.OperationBalanceInquiry {
		amount = nil
	}

	receipt := &Receipt{
		BankName:      c.bank.Name,
		DeviceID:      c.DeviceID,
		Location:      c.Location,
		Kind:          op.Kind,
		Timestamp:     op.Timestamp,
		CardNumber:    maskNumber(c.card.Number),
		Amount:        amount,
		Balance:       balance,
		TicketCode:    op.TicketCode,
		Outcome:       op.Outcome,
		FailureReason: op.FailureReason,
	}
	return receipt, execErr
}

// requireAuthenticated gates the monetary operations.
func (c *Cashier) requireAuthenticated() error {
	if c.state != stateAuthenticated || c.card == nil {
		return domain.ErrNoActiveSession
	}
	return nil
}

// resetSession returns the device to IDLE.
func (c *Cashier) resetSession() {
	c.card = nil
	c.state = stateIdle
}

// maskNumber hides all but the last four characters of a card number.
func maskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}
