package postgres

import (
	"errors"
	"fmt"
	"savingsbank/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	_ repository.AccountRepository        = (*AccountRepository)(nil)
	_ repository.CustomerRepository       = (*CustomerRepository)(nil)
	_ repository.SavingsAccountRepository = (*SavingsAccountRepository)(nil)
	_ repository.MaturityRepository       = (*MaturityRepository)(nil)
)

type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (o Options) DSN() string {
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		o.Host, o.User, o.Password, o.Name, o.Port, sslMode)
}

func Open(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&customerModel{}, &accountModel{}, &savingsAccountModel{}, &maturityModel{})
}

// translate maps gorm errors onto the repository sentinels and leaves
// everything else untouched.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", repository.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, what)
	default:
		return err
	}
}
