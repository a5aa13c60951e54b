package memory

import (
	"context"
	"errors"
	"savingsbank/internal/domain"
	"savingsbank/internal/repository"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAccountRepository_SaveAndGetByIBAN(t *testing.T) {
	repo := NewAccountRepository()
	account := &domain.Account{ID: "acc1", CustomerID: "cust1", IBAN: "TR330006100519786457841326"}

	err := repo.Save(context.Background(), account)
	if err != nil {
		t.Fatalf("unexpected error on Save: %v", err)
	}
	got, err := repo.GetByIBAN(context.Background(), account.IBAN)

	if err != nil {
		t.Fatalf("unexpected error on GetByIBAN: %v", err)
	}
	if got.ID != account.ID || got.CustomerID != account.CustomerID {
		t.Errorf("expected account %+v, got %+v", account, got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set on save")
	}
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountRepository()
	_ = repo.Save(context.Background(), &domain.Account{ID: "acc1", CustomerID: "cust1", IBAN: "X1"})

	first, _ := repo.GetByID(context.Background(), "acc1")
	second, _ := repo.GetByID(context.Background(), "acc1")
	first.CustomerID = "changed"

	if first == second {
		t.Fatal("expected distinct values for each load")
	}
	if second.CustomerID != "cust1" {
		t.Errorf("expected stored account to be untouched, got %s", second.CustomerID)
	}
}

func TestAccountRepository_DuplicateIBAN(t *testing.T) {
	repo := NewAccountRepository()
	_ = repo.Save(context.Background(), &domain.Account{ID: "acc1", IBAN: "X1"})

	err := repo.Save(context.Background(), &domain.Account{ID: "acc2", IBAN: "X1"})

	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAccountRepository_StoresCanonicalIBAN(t *testing.T) {
	repo := NewAccountRepository()
	if err := repo.Save(context.Background(), &domain.Account{ID: "acc1", IBAN: "nl91 abna 0417 1643 00"}); err != nil {
		t.Fatalf("unexpected error on Save: %v", err)
	}

	for _, iban := range []string{"NL91ABNA0417164300", "nl91 abna 0417 1643 00"} {
		got, err := repo.GetByIBAN(context.Background(), iban)
		if err != nil {
			t.Fatalf("lookup %q: unexpected error: %v", iban, err)
		}
		if got.IBAN != "NL91ABNA0417164300" {
			t.Errorf("expected canonical iban to be stored, got %s", got.IBAN)
		}
	}

	err := repo.Save(context.Background(), &domain.Account{ID: "acc2", IBAN: "NL91ABNA0417164300"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for the same iban in another spelling, got %v", err)
	}
}

func TestAccountRepository_GetByIDNotFound(t *testing.T) {
	repo := NewAccountRepository()

	_, err := repo.GetByID(context.Background(), "missing")

	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCustomerRepository_SaveAndGetByID(t *testing.T) {
	repo := NewCustomerRepository()
	_ = repo.Save(context.Background(), &domain.Customer{ID: "cust1", UserID: "user1", Email: "a@b.c"})

	got, err := repo.GetByID(context.Background(), "cust1")

	if err != nil {
		t.Fatalf("unexpected error on GetByID: %v", err)
	}
	if got.UserID != "user1" {
		t.Errorf("expected user1, got %s", got.UserID)
	}
}

func TestMaturityRepository_ListByAccountIDInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	savings := NewSavingsAccountRepository()
	maturities := NewMaturityRepository(savings)
	_ = savings.Save(ctx, &domain.SavingsAccount{ID: "s1", AccountID: "acc1"})
	_ = savings.Save(ctx, &domain.SavingsAccount{ID: "s2", AccountID: "acc2"})
	_ = savings.Save(ctx, &domain.SavingsAccount{ID: "s3", AccountID: "acc1"})

	now := time.Now()
	for i, sid := range []string{"s1", "s2", "s3", "s1"} {
		m := &domain.SavingsAccountMaturity{
			ID:               string(rune('a' + i)),
			SavingsAccountID: sid,
			Amount:           decimal.NewFromInt(int64(100 * (i + 1))),
			Month:            i + 1,
			StartDate:        now,
			Status:           domain.MaturityPending,
		}
		if err := maturities.Save(ctx, m); err != nil {
			t.Fatalf("unexpected error on Save: %v", err)
		}
	}

	got, err := maturities.ListByAccountID(ctx, "acc1")

	if err != nil {
		t.Fatalf("unexpected error on ListByAccountID: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 maturities, got %d", len(got))
	}
	wantIDs := []string{"a", "c", "d"}
	for i, m := range got {
		if m.ID != wantIDs[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantIDs[i], m.ID)
		}
	}
	if maturities.Count() != 4 {
		t.Errorf("expected 4 stored maturities, got %d", maturities.Count())
	}
}

func TestMaturityRepository_ListByAccountIDEmpty(t *testing.T) {
	maturities := NewMaturityRepository(NewSavingsAccountRepository())

	got, err := maturities.ListByAccountID(context.Background(), "acc1")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
