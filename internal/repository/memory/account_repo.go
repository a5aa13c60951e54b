package memory

import (
	"context"
	"fmt"
	"savingsbank/internal/domain"
	"savingsbank/internal/repository"
	"savingsbank/pkg/validator"
	"sync"
	"time"
)

// AccountRepository returns copies so callers never share an entity
// with the store or with each other.
type AccountRepository struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	ibanIndex map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts:  make(map[string]domain.Account),
		ibanIndex: make(map[string]string),
	}
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("%w: account %s", repository.ErrDuplicate, account.ID)
	}
	account.IBAN = validator.CanonicalIBAN(account.IBAN)
	if _, exists := r.ibanIndex[account.IBAN]; exists {
		return fmt.Errorf("%w: iban %s", repository.ErrDuplicate, account.IBAN)
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	r.accounts[account.ID] = *account
	r.ibanIndex[account.IBAN] = account.ID

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	return &account, nil
}

func (r *AccountRepository) GetByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.ibanIndex[validator.CanonicalIBAN(iban)]
	if !exists {
		return nil, fmt.Errorf("%w: account with iban %s", repository.ErrNotFound, iban)
	}
	account := r.accounts[id]
	return &account, nil
}
