package main

import (
	"context"
	"fmt"
	"log"

	"github.com/bancodelsol/atmcore/internal/atm"
	"github.com/bancodelsol/atmcore/internal/config"
	"github.com/bancodelsol/atmcore/internal/domain"
	"github.com/bancodelsol/atmcore/internal/memstore"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	store := memstore.New()
	cards := store.Cards()
	accounts := store.Accounts()
	oplog := store.Operations()
	txm := store.Transactions()

	globalLimit, err := domain.ParseAmount(cfg.Bank.GlobalDailyLimit)
	if err != nil {
		log.Fatalf("invalid BANK_GLOBAL_DAILY_LIMIT: %v", err)
	}
	cashFloat, err := domain.ParseAmount(cfg.Device.CashFloat)
	if err != nil {
		log.Fatalf("invalid ATM_CASH_FLOAT: %v", err)
	}

	bank := domain.NewBank(cfg.Bank.Name, cfg.Bank.Code, globalLimit, cards)
	log.Printf("bank %s (%s) initialized, global daily limit %s",
		bank.Name, bank.Code, domain.FormatAmount(bank.GlobalDailyLimit))

	// Demo fixtures.
	account := domain.NewAccount("0001-0001-0001", domain.MustAmount("5430.50"), domain.MustAmount("3000.00"))
	store.PutAccount(account)

	card, err := domain.NewCard("1234-5678-9012-3456", "1234", account.ID)
	if err != nil {
		log.Fatalf("failed to create card: %v", err)
	}
	if err := cards.Create(ctx, card); err != nil {
		log.Fatalf("failed to store card: %v", err)
	}
	log.Printf("seeded account %s with balance %s and card %s",
		account.Number, domain.FormatAmount(account.Balance), card.Number)

	cashier := atm.New(cfg.Device.ID, cfg.Device.Location, cashFloat, bank, cards, accounts, oplog, txm)
	log.Printf("device %s at %q ready with cash float %s",
		cashier.DeviceID, cashier.Location, domain.FormatAmount(cashier.CashOnHand()))

	// Scripted session.
	session, err := cashier.InsertCard(ctx, card.Number)
	if err != nil {
		log.Fatalf("insert card: %v", err)
	}
	log.Printf("card %s inserted, %d attempts available", session.CardNumber, session.RemainingAttempts)

	if err := cashier.SubmitPin(ctx, "0000"); err != nil {
		log.Printf("first PIN attempt rejected: %v", err)
	}
	if err := cashier.SubmitPin(ctx, "1234"); err != nil {
		log.Fatalf("submit pin: %v", err)
	}
	log.Println("PIN accepted, session authenticated")

	receipt, err := cashier.InquireBalance(ctx)
	if err != nil {
		log.Fatalf("balance inquiry: %v", err)
	}
	fmt.Print(receipt.Render())

	receipt, err = cashier.Withdraw(ctx, domain.MustAmount("200.00"))
	if err != nil {
		log.Fatalf("withdrawal: %v", err)
	}
	fmt.Print(receipt.Render())

	receipt, err = cashier.Deposit(ctx, domain.MustAmount("150.00"), domain.DepositCash)
	if err != nil {
		log.Fatalf("deposit: %v", err)
	}
	fmt.Print(receipt.Render())

	receipt, err = cashier.PayBill(ctx, domain.MustAmount("85.30"), "Electricidad Plaza", "REF-20091")
	if err != nil {
		log.Fatalf("bill payment: %v", err)
	}
	fmt.Print(receipt.Render())

	// A withdrawal over the remaining daily allowance is rejected and still
	// produces a logged record with its reason.
	receipt, err = cashier.Withdraw(ctx, domain.MustAmount("2900.00"))
	if err != nil {
		log.Printf("withdrawal rejected as expected: %v", err)
		fmt.Print(receipt.Render())
	}

	cashier.EjectCard()
	log.Println("card ejected")

	ops, err := oplog.List(ctx, domain.OperationFilter{AccountID: account.ID})
	if err != nil {
		log.Fatalf("list operations: %v", err)
	}
	stats := domain.Report(ops)
	log.Printf("session summary: %d operations, %d successful, %d failed, success rate %.0f%%",
		stats.TotalOperations, stats.Successful, stats.Failed, stats.SuccessRate*100)
	log.Printf("totals: withdrawn %s, deposited %s, device cash %s",
		domain.FormatAmount(stats.TotalWithdrawn),
		domain.FormatAmount(stats.TotalDeposited),
		domain.FormatAmount(cashier.CashOnHand()))
}
