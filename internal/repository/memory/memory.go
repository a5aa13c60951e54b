package memory

import (
	"savingsbank/internal/repository"
)

var (
	_ repository.AccountRepository        = (*AccountRepository)(nil)
	_ repository.CustomerRepository       = (*CustomerRepository)(nil)
	_ repository.SavingsAccountRepository = (*SavingsAccountRepository)(nil)
	_ repository.MaturityRepository       = (*MaturityRepository)(nil)
)
