package main

import (
	"context"
	"fmt"
	"log/slog"
	"savingsbank/internal/domain"
	"savingsbank/pkg/auth"
	"time"

	"github.com/google/uuid"
)

const demoIBAN = "NL91ABNA0417164300"

// seedDemo creates one user with a customer, an account and an empty savings
// account, then logs a bearer token for that user.
func seedDemo(ctx context.Context, repos *repositories, tokens *auth.TokenService, logger *slog.Logger) error {
	user := domain.User{ID: uuid.New().String(), Username: "demo", Role: domain.RoleUser}
	customer := &domain.Customer{
		ID:     uuid.New().String(),
		UserID: user.ID,
		Name:   "Demo Customer",
		Email:  "demo@savingsbank.local",
	}
	if err := repos.customers.Save(ctx, customer); err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}

	account := &domain.Account{ID: uuid.New().String(), CustomerID: customer.ID, IBAN: demoIBAN}
	if err := repos.accounts.Save(ctx, account); err != nil {
		return fmt.Errorf("seed account: %w", err)
	}

	savingsAccount := domain.NewSavingsAccount(account.ID, time.Now())
	if err := repos.savingsAccounts.Save(ctx, savingsAccount); err != nil {
		return fmt.Errorf("seed savings account: %w", err)
	}

	token, err := tokens.Issue(user.Principal())
	if err != nil {
		return err
	}

	logger.Info("Demo data seeded",
		slog.String("user", user.Username),
		slog.String("iban", account.IBAN),
		slog.String("savings_account_id", savingsAccount.ID),
		slog.String("token", token))
	return nil
}
