package postgres

import (
	"savingsbank/internal/domain"
	"time"

	"github.com/shopspring/decimal"
)

type customerModel struct {
	ID     string `gorm:"primaryKey;size:36"`
	UserID string `gorm:"size:36;index;not null"`
	Name   string `gorm:"size:255"`
	Email  string `gorm:"size:255"`
}

func (customerModel) TableName() string {
	return "customers"
}

type accountModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	CustomerID string    `gorm:"size:36;index;not null"`
	IBAN       string    `gorm:"column:iban;size:34;uniqueIndex;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (accountModel) TableName() string {
	return "accounts"
}

type savingsAccountModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	AccountID string    `gorm:"size:36;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (savingsAccountModel) TableName() string {
	return "savings_accounts"
}

// maturityModel keeps an auto-increment sequence so listings follow
// insertion order.
type maturityModel struct {
	Seq                uint64          `gorm:"primaryKey;autoIncrement"`
	ID                 string          `gorm:"size:36;uniqueIndex;not null"`
	SavingsAccountID   string          `gorm:"size:36;index;not null"`
	Amount             decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Month              int             `gorm:"not null"`
	StartDate          time.Time       `gorm:"not null"`
	EndDate            time.Time       `gorm:"not null"`
	AmountWithInterest decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Status             string          `gorm:"size:16;not null"`
}

func (maturityModel) TableName() string {
	return "savings_account_maturities"
}

func toCustomerModel(c *domain.Customer) *customerModel {
	return &customerModel{ID: c.ID, UserID: c.UserID, Name: c.Name, Email: c.Email}
}

func (m *customerModel) toDomain() *domain.Customer {
	return &domain.Customer{ID: m.ID, UserID: m.UserID, Name: m.Name, Email: m.Email}
}

func toAccountModel(a *domain.Account) *accountModel {
	return &accountModel{ID: a.ID, CustomerID: a.CustomerID, IBAN: a.IBAN, CreatedAt: a.CreatedAt}
}

func (m *accountModel) toDomain() *domain.Account {
	return &domain.Account{ID: m.ID, CustomerID: m.CustomerID, IBAN: m.IBAN, CreatedAt: m.CreatedAt}
}

func toSavingsAccountModel(s *domain.SavingsAccount) *savingsAccountModel {
	return &savingsAccountModel{ID: s.ID, AccountID: s.AccountID, CreatedAt: s.CreatedAt}
}

func (m *savingsAccountModel) toDomain() *domain.SavingsAccount {
	return &domain.SavingsAccount{ID: m.ID, AccountID: m.AccountID, CreatedAt: m.CreatedAt}
}

func toMaturityModel(s *domain.SavingsAccountMaturity) *maturityModel {
	return &maturityModel{
		ID:                 s.ID,
		SavingsAccountID:   s.SavingsAccountID,
		Amount:             s.Amount,
		Month:              s.Month,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		AmountWithInterest: s.AmountWithInterest,
		Status:             string(s.Status),
	}
}

func (m *maturityModel) toDomain() *domain.SavingsAccountMaturity {
	return &domain.SavingsAccountMaturity{
		ID:                 m.ID,
		SavingsAccountID:   m.SavingsAccountID,
		Amount:             m.Amount,
		Month:              m.Month,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		AmountWithInterest: m.AmountWithInterest,
		Status:             domain.MaturityStatus(m.Status),
	}
}
