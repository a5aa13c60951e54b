package postgres

import (
	"context"
	"fmt"
	"savingsbank/internal/domain"
	"savingsbank/pkg/validator"
	"time"

	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	account.IBAN = validator.CanonicalIBAN(account.IBAN)
	err := r.db.WithContext(ctx).Create(toAccountModel(account)).Error
	return translate(err, fmt.Sprintf("account %s", account.ID))
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var model accountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("account %s", id))
	}
	return model.toDomain(), nil
}

func (r *AccountRepository) GetByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	var model accountModel
	if err := r.db.WithContext(ctx).First(&model, "iban = ?", validator.CanonicalIBAN(iban)).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("account with iban %s", iban))
	}
	return model.toDomain(), nil
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	err := r.db.WithContext(ctx).Create(toCustomerModel(customer)).Error
	return translate(err, fmt.Sprintf("customer %s", customer.ID))
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	var model customerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("customer %s", id))
	}
	return model.toDomain(), nil
}

type SavingsAccountRepository struct {
	db *gorm.DB
}

func NewSavingsAccountRepository(db *gorm.DB) *SavingsAccountRepository {
	return &SavingsAccountRepository{db: db}
}

func (r *SavingsAccountRepository) Save(ctx context.Context, savingsAccount *domain.SavingsAccount) error {
	err := r.db.WithContext(ctx).Create(toSavingsAccountModel(savingsAccount)).Error
	return translate(err, fmt.Sprintf("savings account %s", savingsAccount.ID))
}

func (r *SavingsAccountRepository) GetByID(ctx context.Context, id string) (*domain.SavingsAccount, error) {
	var model savingsAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("savings account %s", id))
	}
	return model.toDomain(), nil
}

type MaturityRepository struct {
	db *gorm.DB
}

func NewMaturityRepository(db *gorm.DB) *MaturityRepository {
	return &MaturityRepository{db: db}
}

func (r *MaturityRepository) Save(ctx context.Context, maturity *domain.SavingsAccountMaturity) error {
	err := r.db.WithContext(ctx).Create(toMaturityModel(maturity)).Error
	return translate(err, fmt.Sprintf("maturity %s", maturity.ID))
}

func (r *MaturityRepository) ListByAccountID(ctx context.Context, accountID string) ([]*domain.SavingsAccountMaturity, error) {
	var models []maturityModel
	err := r.db.WithContext(ctx).
		Select("savings_account_maturities.*").
		Joins("JOIN savings_accounts ON savings_accounts.id = savings_account_maturities.savings_account_id").
		Where("savings_accounts.account_id = ?", accountID).
		Order("savings_account_maturities.seq").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.SavingsAccountMaturity, 0, len(models))
	for i := range models {
		result = append(result, models[i].toDomain())
	}
	return result, nil
}
