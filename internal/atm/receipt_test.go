package atm

import (
	"strings"
	"testing"
	"time"

	"github.com/bancodelsol/atmcore/internal/domain"
)

func TestReceiptRender(t *testing.T) {
	at := time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC)
	amount := domain.MustAmount("200.00")
	balance := domain.MustAmount("5230.50")

	t.Run("successful withdrawal", func(t *testing.T) {
		r := &Receipt{
			BankName:   "Banco del Sol",
			DeviceID:   "ATM001",
			Location:   "Centro Comercial Plaza Mayor",
			Kind:       domain.OperationWithdrawal,
			Timestamp:  at,
			CardNumber: "****3456",
			Amount:     &amount,
			Balance:    &balance,
			Outcome:    domain.OutcomeSuccess,
		}

		want := strings.Join([]string{
			"==================================================",
			"  Banco del Sol - RECEIPT",
			"==================================================",
			"Device:    ATM001",
			"Location:  Centro Comercial Plaza Mayor",
			"Date:      10/03/2025 14:30:05",
			"Operation: WITHDRAWAL",
			"Card:      ****3456",
			"Amount:    $200.00",
			"Balance:   $5230.50",
			"==================================================",
			"Result:    SUCCESS",
			"==================================================",
			"",
		}, "\n")

		if got := r.Render(); got != want {
			t.Errorf("unexpected render:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("failure carries the reason", func(t *testing.T) {
		r := &Receipt{
			BankName:      "Banco del Sol",
			DeviceID:      "ATM001",
			Location:      "Centro Comercial Plaza Mayor",
			Kind:          domain.OperationWithdrawal,
			Timestamp:     at,
			CardNumber:    "****3456",
			Amount:        &amount,
			Outcome:       domain.OutcomeFailure,
			FailureReason: "daily withdrawal limit exceeded",
		}

		got := r.Render()
		if !strings.Contains(got, "Result:    FAILURE\n") {
			t.Errorf("missing FAILURE result line:\n%s", got)
		}
		if !strings.Contains(got, "Reason:    daily withdrawal limit exceeded\n") {
			t.Errorf("missing reason line:\n%s", got)
		}
		if strings.Contains(got, "Balance:") {
			t.Errorf("failed withdrawal must not print a balance:\n%s", got)
		}
	})

	t.Run("balance inquiry omits the amount line", func(t *testing.T) {
		r := &Receipt{
			BankName:   "Banco del Sol",
			DeviceID:   "ATM001",
			Location:   "Centro Comercial Plaza Mayor",
			Kind:       domain.OperationBalanceInquiry,
			Timestamp:  at,
			CardNumber: "****3456",
			Balance:    &balance,
			Outcome:    domain.OutcomeSuccess,
		}

		got := r.Render()
		if strings.Contains(got, "Amount:") {
			t.Errorf("inquiry receipt must not print an amount:\n%s", got)
		}
		if !strings.Contains(got, "Balance:   $5230.50\n") {
			t.Errorf("missing balance line:\n%s", got)
		}
	})

	t.Run("ticket purchase prints the code", func(t *testing.T) {
		r := &Receipt{
			BankName:   "Banco del Sol",
			DeviceID:   "ATM001",
			Location:   "Centro Comercial Plaza Mayor",
			Kind:       domain.OperationTicketPurchase,
			Timestamp:  at,
			CardNumber: "****3456",
			Amount:     &amount,
			Balance:    &balance,
			TicketCode: "TKT-004217",
			Outcome:    domain.OutcomeSuccess,
		}

		if got := r.Render(); !strings.Contains(got, "Ticket:    TKT-004217\n") {
			t.Errorf("missing ticket line:\n%s", got)
		}
	})
}
