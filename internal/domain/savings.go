package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MaturityStatus string

const (
	MaturityPending MaturityStatus = "PENDING"

	// Declared for settlement, which nothing in this module performs yet.
	MaturityMatured   MaturityStatus = "MATURED"
	MaturityWithdrawn MaturityStatus = "WITHDRAWN"
)

type SavingsAccount struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SavingsAccountMaturity is a single fixed-term deposit. It is written once
// and never updated.
type SavingsAccountMaturity struct {
	ID                 string          `json:"id"`
	SavingsAccountID   string          `json:"savings_account_id"`
	Amount             decimal.Decimal `json:"amount"`
	Month              int             `json:"month"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	AmountWithInterest decimal.Decimal `json:"amount_with_interest"`
	Status             MaturityStatus  `json:"status"`
}

func NewSavingsAccount(accountID string, createdAt time.Time) *SavingsAccount {
	return &SavingsAccount{
		ID:        uuid.NewString(),
		AccountID: accountID,
		CreatedAt: createdAt,
	}
}

func NewPendingMaturity(savingsAccountID string, amount decimal.Decimal, month int) *SavingsAccountMaturity {
	return &SavingsAccountMaturity{
		ID:               uuid.NewString(),
		SavingsAccountID: savingsAccountID,
		Amount:           amount,
		Month:            month,
		Status:           MaturityPending,
	}
}

func (m *SavingsAccountMaturity) WithTerm(start, end time.Time) *SavingsAccountMaturity {
	m.StartDate = start
	m.EndDate = end
	return m
}

func (m *SavingsAccountMaturity) WithAmountWithInterest(amount decimal.Decimal) *SavingsAccountMaturity {
	m.AmountWithInterest = amount
	return m
}
