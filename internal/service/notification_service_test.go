package service

import (
	"context"
	"errors"
	"savingsbank/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testMaturity() *domain.SavingsAccountMaturity {
	start := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	return domain.NewPendingMaturity("sav1", decimal.NewFromInt(1000), 12).
		WithTerm(start, start.AddDate(1, 0, 0)).
		WithAmountWithInterest(decimal.NewFromInt(1600))
}

func TestNotificationService_DeliversDepositConfirmation(t *testing.T) {
	email := &MockEmailService{}
	svc := NewNotificationService(email, 2, nil)

	err := svc.SendDepositConfirmation(context.Background(), "owner@example.com", testMaturity())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if email.Sent() != 1 {
		t.Fatalf("expected 1 email, got %d", email.Sent())
	}
	sent := email.SentEmails[0]
	if sent.To != "owner@example.com" {
		t.Errorf("expected recipient owner@example.com, got %s", sent.To)
	}
	if !strings.Contains(sent.Body, "1000.00") || !strings.Contains(sent.Body, "1600.00") || !strings.Contains(sent.Body, "2025-03-15") {
		t.Errorf("unexpected body: %s", sent.Body)
	}
}

func TestNotificationService_RejectsAfterShutdown(t *testing.T) {
	svc := NewNotificationService(&MockEmailService{}, 1, nil)
	_ = svc.Shutdown(context.Background())

	err := svc.SendDepositConfirmation(context.Background(), "owner@example.com", testMaturity())

	if !errors.Is(err, ErrServiceStopped) {
		t.Fatalf("expected ErrServiceStopped, got %v", err)
	}
	if err := svc.Shutdown(context.Background()); err != nil {
		t.Errorf("second shutdown should be a no-op, got %v", err)
	}
}
