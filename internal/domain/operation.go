package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind discriminates the variants of an operation record.
type OperationKind string

const (
	OperationWithdrawal     OperationKind = "WITHDRAWAL"
	OperationDeposit        OperationKind = "DEPOSIT"
	OperationBalanceInquiry OperationKind = "BALANCE_INQUIRY"
	OperationBillPayment    OperationKind = "BILL_PAYMENT"
	OperationTicketPurchase OperationKind = "TICKET_PURCHASE"
)

// OperationOutcome represents the final result of an executed operation.
type OperationOutcome string

const (
	OutcomeSuccess OperationOutcome = "SUCCESS"
	OutcomeFailure OperationOutcome = "FAILURE"
)

// DepositKind distinguishes cash deposits, which feed the device float,
// from cheque deposits, which do not.
type DepositKind string

const (
	DepositCash   DepositKind = "CASH"
	DepositCheque DepositKind = "CHEQUE"
)

// Operation is the record of one executed (or rejected) operation.
// It is created at execution start, finalized exactly once with MarkSuccess
// or MarkFailed, and never mutated after being appended to the log.
//
// Kind-specific payload fields live on the one struct and are meaningful
// only for their kind; dispatch is on the Kind discriminant.
type Operation struct {
	ID            uuid.UUID        // Unique identifier of the record
	Kind          OperationKind    // Variant discriminant
	Timestamp     time.Time        // When the operation was executed
	AccountID     uuid.UUID        // Account the operation targeted
	DeviceID      string           // Device that executed the operation
	Amount        *Amount          // Monetary amount; nil for an unfinished inquiry
	Outcome       OperationOutcome // Final result, set on finalization
	FailureReason string           // Non-empty iff Outcome is FAILURE

	// DEPOSIT payload
	DepositKind DepositKind

	// BILL_PAYMENT payload
	ServiceName     string
	ReferenceNumber string

	// TICKET_PURCHASE payload
	EventName   string
	TicketCount int
	TicketCode  string
}

// NewOperation starts an operation record of the given kind. The amount may
// be nil for a balance inquiry; it is filled in with the inquired balance on
// finalization.
func NewOperation(kind OperationKind, accountID uuid.UUID, deviceID string, amount *Amount, at time.Time) *Operation {
	return &Operation{
		ID:        uuid.New(),
		Kind:      kind,
		Timestamp: at,
		AccountID: accountID,
		DeviceID:  deviceID,
		Amount:    amount,
	}
}

// MarkSuccess finalizes the operation as successful.
func (o *Operation) MarkSuccess() {
	o.Outcome = OutcomeSuccess
	o.FailureReason = ""
}

// MarkFailed finalizes the operation as failed with the given reason.
func (o *Operation) MarkFailed(reason string) {
	o.Outcome = OutcomeFailure
	o.FailureReason = reason
}

// Finalized reports whether the outcome has been set.
func (o *Operation) Finalized() bool {
	return o.Outcome == OutcomeSuccess || o.Outcome == OutcomeFailure
}
