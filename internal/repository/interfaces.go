package repository

import (
	"context"
	"errors"
	"savingsbank/internal/domain"
)

type AccountRepository interface {
	Save(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIBAN(ctx context.Context, iban string) (*domain.Account, error)
}

type CustomerRepository interface {
	Save(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type SavingsAccountRepository interface {
	Save(ctx context.Context, savingsAccount *domain.SavingsAccount) error
	GetByID(ctx context.Context, id string) (*domain.SavingsAccount, error)
}

// MaturityRepository lists maturities in insertion order.
type MaturityRepository interface {
	Save(ctx context.Context, maturity *domain.SavingsAccountMaturity) error
	ListByAccountID(ctx context.Context, accountID string) ([]*domain.SavingsAccountMaturity, error)
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)
