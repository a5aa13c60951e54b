package savings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"savingsbank/internal/domain"
	"savingsbank/internal/repository"
	"savingsbank/pkg/validator"
	"time"

	"github.com/shopspring/decimal"
)

// IdentityProvider resolves the principal acting on the current request.
type IdentityProvider interface {
	Principal(ctx context.Context) (domain.Principal, error)
}

// Notifier delivers a confirmation for a deposit that has been persisted.
type Notifier interface {
	SendDepositConfirmation(ctx context.Context, recipient string, maturity *domain.SavingsAccountMaturity) error
}

type Recorder interface {
	RecordSavingsAccountCreated()
	RecordDeposit(principal decimal.Decimal)
	RecordRejectedDeposit(reason string)
}

type CreateSavingsAccountRequest struct {
	AccountID string
}

type DepositRequest struct {
	SavingsAccountID string
	Amount           decimal.Decimal
	Month            int
}

type MaturityView struct {
	ID                 string                `json:"id"`
	Amount             decimal.Decimal       `json:"amount"`
	Month              int                   `json:"month"`
	AmountWithInterest decimal.Decimal       `json:"amount_with_interest"`
	StartDate          time.Time             `json:"start_date"`
	EndDate            time.Time             `json:"end_date"`
	Status             domain.MaturityStatus `json:"status"`
}

type Service struct {
	accounts        repository.AccountRepository
	customers       repository.CustomerRepository
	savingsAccounts repository.SavingsAccountRepository
	maturities      repository.MaturityRepository
	identity        IdentityProvider
	ratePolicy      *RatePolicy
	validator       *validator.DepositValidator
	clock           Clock
	notifier        Notifier
	recorder        Recorder
	logger          *slog.Logger
}

func NewService(
	accounts repository.AccountRepository,
	customers repository.CustomerRepository,
	savingsAccounts repository.SavingsAccountRepository,
	maturities repository.MaturityRepository,
	identity IdentityProvider,
	ratePolicy *RatePolicy,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if ratePolicy == nil {
		ratePolicy = NewRatePolicy(DefaultBankRate)
	}

	return &Service{
		accounts:        accounts,
		customers:       customers,
		savingsAccounts: savingsAccounts,
		maturities:      maturities,
		identity:        identity,
		ratePolicy:      ratePolicy,
		validator:       validator.NewDepositValidator(),
		clock:           SystemClock{},
		logger:          logger,
	}
}

func (s *Service) WithClock(clock Clock) *Service {
	s.clock = clock
	return s
}

func (s *Service) WithNotifier(notifier Notifier) *Service {
	s.notifier = notifier
	return s
}

func (s *Service) WithRecorder(recorder Recorder) *Service {
	s.recorder = recorder
	return s
}

func (s *Service) Create(ctx context.Context, req CreateSavingsAccountRequest) (*domain.SavingsAccount, error) {
	account, err := s.accounts.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	savingsAccount := domain.NewSavingsAccount(account.ID, s.clock.Now())
	if err := s.savingsAccounts.Save(ctx, savingsAccount); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordSavingsAccountCreated()
	}
	s.logger.InfoContext(ctx, "Savings account created",
		slog.String("savings_account_id", savingsAccount.ID),
		slog.String("account_id", account.ID))
	return savingsAccount, nil
}

// DepositToSavingsAccount opens a PENDING maturity on the savings account.
// Every check runs before the single write, so a failed deposit writes
// nothing.
func (s *Service) DepositToSavingsAccount(ctx context.Context, req DepositRequest) (*domain.SavingsAccountMaturity, error) {
	if err := s.validator.ValidateDeposit(req.Amount, req.Month); err != nil {
		s.recordRejected("invalid")
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeposit, err)
	}

	savingsAccount, err := s.savingsAccounts.GetByID(ctx, req.SavingsAccountID)
	if err != nil {
		s.recordRejected(rejectReason(err))
		return nil, fmt.Errorf("deposit money failed: %w", err)
	}

	account, err := s.accounts.GetByID(ctx, savingsAccount.AccountID)
	if err != nil {
		s.recordRejected(rejectReason(err))
		return nil, fmt.Errorf("deposit money failed: failed to get account: %w", err)
	}

	customer, err := s.authorizeAccount(ctx, account)
	if err != nil {
		s.recordRejected(rejectReason(err))
		return nil, fmt.Errorf("deposit money failed: %w", err)
	}

	start := s.clock.Now()
	maturity := domain.NewPendingMaturity(savingsAccount.ID, req.Amount, req.Month).
		WithTerm(start, MaturityEndDate(start, req.Month)).
		WithAmountWithInterest(s.ratePolicy.AmountWithInterest(req.Amount, req.Month))

	if err := s.maturities.Save(ctx, maturity); err != nil {
		s.recordRejected("persistence")
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordDeposit(req.Amount)
	}
	s.logger.InfoContext(ctx, "Deposit to savings account completed",
		slog.String("maturity_id", maturity.ID),
		slog.String("savings_account_id", savingsAccount.ID),
		slog.String("amount", maturity.Amount.String()),
		slog.Int("month", maturity.Month),
		slog.String("amount_with_interest", maturity.AmountWithInterest.String()))

	s.notify(ctx, customer, maturity)
	return maturity, nil
}

func (s *Service) GetMaturitiesByIBAN(ctx context.Context, iban string) ([]MaturityView, error) {
	account, err := s.accounts.GetByIBAN(ctx, iban)
	if err != nil {
		return nil, fmt.Errorf("get savings account maturities failed: %w", err)
	}

	if _, err := s.authorizeAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("get savings account maturities failed: %w", err)
	}

	maturities, err := s.maturities.ListByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	views := make([]MaturityView, 0, len(maturities))
	for _, m := range maturities {
		views = append(views, toMaturityView(m))
	}
	return views, nil
}

// authorizeAccount resolves the customer owning account and checks the
// acting principal against that customer's user.
func (s *Service) authorizeAccount(ctx context.Context, account *domain.Account) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, account.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	principal, err := s.identity.Principal(ctx)
	if err != nil {
		return nil, err
	}

	if err := Authorize(principal.UserID, customer.UserID, principal.IsAdmin()); err != nil {
		s.logger.WarnContext(ctx, "Savings account access denied",
			slog.String("account_id", account.ID),
			slog.String("user_id", principal.UserID))
		return nil, err
	}

	return customer, nil
}

func (s *Service) notify(ctx context.Context, customer *domain.Customer, maturity *domain.SavingsAccountMaturity) {
	if s.notifier == nil || customer.Email == "" {
		return
	}
	if err := s.notifier.SendDepositConfirmation(ctx, customer.Email, maturity); err != nil {
		s.logger.ErrorContext(ctx, "Failed to queue deposit confirmation",
			slog.String("maturity_id", maturity.ID),
			slog.String("error", err.Error()))
	}
}

func (s *Service) recordRejected(reason string) {
	if s.recorder != nil {
		s.recorder.RecordRejectedDeposit(reason)
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

func toMaturityView(m *domain.SavingsAccountMaturity) MaturityView {
	return MaturityView{
		ID:                 m.ID,
		Amount:             m.Amount,
		Month:              m.Month,
		AmountWithInterest: m.AmountWithInterest,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		Status:             m.Status,
	}
}
