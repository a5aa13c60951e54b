package memory

import (
	"context"
	"fmt"
	"savingsbank/internal/domain"
	"savingsbank/internal/repository"
	"sync"
)

type MaturityRepository struct {
	mu         sync.RWMutex
	maturities map[string]domain.SavingsAccountMaturity
	order      []string
	savings    *SavingsAccountRepository
}

// NewMaturityRepository resolves the owning account of each maturity
// through savings.
func NewMaturityRepository(savings *SavingsAccountRepository) *MaturityRepository {
	return &MaturityRepository{
		maturities: make(map[string]domain.SavingsAccountMaturity),
		savings:    savings,
	}
}

func (r *MaturityRepository) Save(ctx context.Context, maturity *domain.SavingsAccountMaturity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.maturities[maturity.ID]; exists {
		return fmt.Errorf("%w: maturity %s", repository.ErrDuplicate, maturity.ID)
	}
	r.maturities[maturity.ID] = *maturity
	r.order = append(r.order, maturity.ID)

	return nil
}

func (r *MaturityRepository) ListByAccountID(ctx context.Context, accountID string) ([]*domain.SavingsAccountMaturity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.SavingsAccountMaturity, 0)
	for _, id := range r.order {
		maturity := r.maturities[id]
		if owner, ok := r.savings.accountIDOf(maturity.SavingsAccountID); ok && owner == accountID {
			result = append(result, &maturity)
		}
	}

	return result, nil
}

// Count reports how many maturities have been written.
func (r *MaturityRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
