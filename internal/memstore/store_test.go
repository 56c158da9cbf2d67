package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bancodelsol/atmcore/internal/domain"
)

func seedAccount(t *testing.T, store *Store) *domain.Account {
	t.Helper()
	account := domain.NewAccount("0001-0001-0001", domain.MustAmount("100.00"), domain.MustAmount("50.00"))
	store.PutAccount(account)
	return account
}

func TestAccountRepository_GetByID(t *testing.T) {
	store := New()
	account := seedAccount(t, store)
	ctx := context.Background()

	got, err := store.Accounts().GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Balance.Equal(account.Balance) {
		t.Errorf("expected balance %s, got %s", account.Balance, got.Balance)
	}

	// Mutating the returned copy must not touch store state.
	got.Balance = domain.MustAmount("9999.00")
	again, _ := store.Accounts().GetByID(ctx, account.ID)
	if !again.Balance.Equal(domain.MustAmount("100.00")) {
		t.Errorf("store state mutated through a returned copy: %s", again.Balance)
	}

	if _, err := store.Accounts().GetByID(ctx, uuid.New()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepository_Update(t *testing.T) {
	store := New()
	account := seedAccount(t, store)
	ctx := context.Background()

	account.Balance = domain.MustAmount("75.00")
	if err := store.Accounts().Update(ctx, account); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := store.Accounts().GetByID(ctx, account.ID)
	if !got.Balance.Equal(domain.MustAmount("75.00")) {
		t.Errorf("expected balance 75.00, got %s", got.Balance)
	}

	unknown := domain.NewAccount("0002", domain.MustAmount("1.00"), domain.MustAmount("1.00"))
	if err := store.Accounts().Update(ctx, unknown); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepository_LockRequiresTransaction(t *testing.T) {
	store := New()
	account := seedAccount(t, store)

	_, err := store.Accounts().Lock(context.Background(), account.ID)
	if !errors.Is(err, domain.ErrSystemError) {
		t.Errorf("expected ErrSystemError outside a transaction, got %v", err)
	}
}

func TestTransactionManager_RollbackDiscardsWrites(t *testing.T) {
	store := New()
	account := seedAccount(t, store)
	ctx := context.Background()

	wantErr := errors.New("validation failed")
	err := store.Transactions().WithTransaction(ctx, func(txCtx context.Context) error {
		acct, err := store.Accounts().Lock(txCtx, account.ID)
		if err != nil {
			return err
		}
		acct.Balance = domain.MustAmount("1.00")
		if err := store.Accounts().Update(txCtx, acct); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the function error back, got %v", err)
	}

	got, _ := store.Accounts().GetByID(ctx, account.ID)
	if !got.Balance.Equal(domain.MustAmount("100.00")) {
		t.Errorf("staged write survived a rollback: balance %s", got.Balance)
	}
}

func TestTransactionManager_CommitAppliesWrites(t *testing.T) {
	store := New()
	account := seedAccount(t, store)
	ctx := context.Background()

	err := store.Transactions().WithTransaction(ctx, func(txCtx context.Context) error {
		acct, err := store.Accounts().Lock(txCtx, account.ID)
		if err != nil {
			return err
		}
		if err := acct.Withdraw(domain.MustAmount("30.00"), time.Now()); err != nil {
			return err
		}
		return store.Accounts().Update(txCtx, acct)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := store.Accounts().GetByID(ctx, account.ID)
	if !got.Balance.Equal(domain.MustAmount("70.00")) {
		t.Errorf("expected balance 70.00 after commit, got %s", got.Balance)
	}
}

func TestCardRepository(t *testing.T) {
	store := New()
	ctx := context.Background()
	account := seedAccount(t, store)

	card, err := domain.NewCard("1234-5678-9012-3456", "1234", account.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Cards().Create(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Cards().Create(ctx, card); err == nil {
		t.Error("expected duplicate card number to be rejected")
	}

	got, err := store.Cards().GetByNumber(ctx, card.Number)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccountID != account.ID {
		t.Error("stored card lost its account link")
	}

	got.FailedAttempts = 2
	if err := store.Cards().Update(ctx, got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, _ := store.Cards().GetByNumber(ctx, card.Number)
	if again.FailedAttempts != 2 {
		t.Errorf("expected 2 failed attempts persisted, got %d", again.FailedAttempts)
	}

	exists, err := store.Cards().NumberExists(ctx, card.Number)
	if err != nil || !exists {
		t.Errorf("expected number to exist, got exists=%v err=%v", exists, err)
	}

	if _, err := store.Cards().GetByNumber(ctx, "0000-0000-0000-0000"); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}

func TestOperationLog(t *testing.T) {
	store := New()
	ctx := context.Background()
	accountID := uuid.New()
	otherID := uuid.New()
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	record := func(kind domain.OperationKind, at time.Time, accID uuid.UUID, success bool) {
		t.Helper()
		amount := domain.MustAmount("10.00")
		op := domain.NewOperation(kind, accID, "ATM001", &amount, at)
		if success {
			op.MarkSuccess()
		} else {
			op.MarkFailed("rejected")
		}
		if err := store.Operations().Append(ctx, op); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	record(domain.OperationWithdrawal, base, accountID, true)
	record(domain.OperationWithdrawal, base.Add(time.Hour), accountID, false)
	record(domain.OperationDeposit, base.Add(2*time.Hour), accountID, true)
	record(domain.OperationWithdrawal, base, otherID, true)

	t.Run("rejects unfinalized operations", func(t *testing.T) {
		amount := domain.MustAmount("10.00")
		op := domain.NewOperation(domain.OperationWithdrawal, accountID, "ATM001", &amount, base)
		if err := store.Operations().Append(ctx, op); err == nil {
			t.Error("expected an error for an unfinalized operation")
		}
	})

	t.Run("filter by account", func(t *testing.T) {
		ops, err := store.Operations().List(ctx, domain.OperationFilter{AccountID: accountID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ops) != 3 {
			t.Errorf("expected 3 operations, got %d", len(ops))
		}
	})

	t.Run("filter by kind and outcome", func(t *testing.T) {
		ops, err := store.Operations().List(ctx, domain.OperationFilter{
			AccountID: accountID,
			Kind:      domain.OperationWithdrawal,
			Outcome:   domain.OutcomeFailure,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ops) != 1 {
			t.Fatalf("expected 1 operation, got %d", len(ops))
		}
		if ops[0].FailureReason == "" {
			t.Error("failed operation must carry a reason")
		}
	})

	t.Run("filter by date range", func(t *testing.T) {
		ops, err := store.Operations().List(ctx, domain.OperationFilter{
			AccountID: accountID,
			From:      base.Add(30 * time.Minute),
			To:        base.Add(90 * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ops) != 1 {
			t.Errorf("expected 1 operation in range, got %d", len(ops))
		}
	})
}
