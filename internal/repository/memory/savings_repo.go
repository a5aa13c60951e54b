package memory

import (
	"context"
	"fmt"
	"savingsbank/internal/domain"
	"savingsbank/internal/repository"
	"sync"
)

type SavingsAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.SavingsAccount
}

func NewSavingsAccountRepository() *SavingsAccountRepository {
	return &SavingsAccountRepository{
		accounts: make(map[string]domain.SavingsAccount),
	}
}

func (r *SavingsAccountRepository) Save(ctx context.Context, savingsAccount *domain.SavingsAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[savingsAccount.ID]; exists {
		return fmt.Errorf("%w: savings account %s", repository.ErrDuplicate, savingsAccount.ID)
	}
	r.accounts[savingsAccount.ID] = *savingsAccount

	return nil
}

func (r *SavingsAccountRepository) GetByID(ctx context.Context, id string) (*domain.SavingsAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	savingsAccount, exists := r.accounts[id]
	if !exists {
		return nil, fmt.Errorf("%w: savings account %s", repository.ErrNotFound, id)
	}
	return &savingsAccount, nil
}

func (r *SavingsAccountRepository) accountIDOf(savingsAccountID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	savingsAccount, exists := r.accounts[savingsAccountID]
	return savingsAccount.AccountID, exists
}
