package memory

import (
	"context"
	"fmt"
	"savingsbank/internal/domain"
	"savingsbank/internal/repository"
	"sync"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[string]domain.Customer),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[customer.ID]; exists {
		return fmt.Errorf("%w: customer %s", repository.ErrDuplicate, customer.ID)
	}
	r.customers[customer.ID] = *customer

	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return nil, fmt.Errorf("%w: customer %s", repository.ErrNotFound, id)
	}
	return &customer, nil
}
