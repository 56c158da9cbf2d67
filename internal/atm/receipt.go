package atm

import (
	"strings"
	"time"

	"github.com/bancodelsol/atmcore/internal/domain"
)

const receiptRule = "=================================================="

// Receipt is the textual summary of a completed or failed operation.
// Render produces a fixed-order text block, stable across runs so callers
// and tests can rely on the layout.
type Receipt struct {
	BankName      string
	DeviceID      string
	Location      string
	Kind          domain.OperationKind
	Timestamp     time.Time
	CardNumber    string // masked
	Amount        *domain.Amount
	Balance       *domain.Amount
	TicketCode    string
	Outcome       domain.OperationOutcome
	FailureReason string
}

// Render formats the receipt. Field order: header, device, location, date,
// operation, card, amount (when applicable), balance (when applicable),
// ticket code (when applicable), result, reason (failures only).
func (r *Receipt) Render() string {
	var b strings.Builder

	b.WriteString(receiptRule + "\n")
	b.WriteString("  " + r.BankName + " - RECEIPT\n")
	b.WriteString(receiptRule + "\n")
	b.WriteString("Device:    " + r.DeviceID + "\n")
	b.WriteString("Location:  " + r.Location + "\n")
	b.WriteString("Date:      " + r.Timestamp.Format("02/01/2006 15:04:05") + "\n")
	b.WriteString("Operation: " + string(r.Kind) + "\n")
	b.WriteString("Card:      " + r.CardNumber + "\n")
	if r.Amount != nil {
		b.WriteString("Amount:    " + domain.FormatAmount(*r.Amount) + "\n")
	}
	if r.Balance != nil {
		b.WriteString("Balance:   " + domain.FormatAmount(*r.Balance) + "\n")
	}
	if r.TicketCode != "" {
		b.WriteString("Ticket:    " + r.TicketCode + "\n")
	}
	b.WriteString(receiptRule + "\n")
	b.WriteString("Result:    " + string(r.Outcome) + "\n")
	if r.FailureReason != "" {
		b.WriteString("Reason:    " + r.FailureReason + "\n")
	}
	b.WriteString(receiptRule + "\n")

	return b.String()
}
