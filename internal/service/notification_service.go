package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"savingsbank/internal/domain"
	"sync"
	"time"
)

var ErrServiceStopped = errors.New("notification service stopped")

type NotificationService struct {
	emailService EmailService
	messageQueue chan NotificationMessage
	workers      int
	shutdownChan chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	logger       *slog.Logger
}

type NotificationMessage struct {
	Recipient string
	Subject   string
	Message   string
	Metadata  map[string]string
	CreatedAt time.Time
}

type EmailService interface {
	SendEmail(to, subject, body string) error
}

func NewNotificationService(emailService EmailService, workers int, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}

	service := &NotificationService{
		emailService: emailService,
		messageQueue: make(chan NotificationMessage, 1000),
		workers:      workers,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}

	service.startWorkers()

	return service
}

// SendDepositConfirmation queues a confirmation e-mail; delivery happens on
// a worker.
func (s *NotificationService) SendDepositConfirmation(
	ctx context.Context,
	recipient string,
	maturity *domain.SavingsAccountMaturity,
) error {
	notification := NotificationMessage{
		Recipient: recipient,
		Subject:   "Savings Deposit Confirmed",
		Message: fmt.Sprintf(
			"Your deposit of %s for %d month(s) has been placed. It matures on %s with %s.",
			maturity.Amount.StringFixed(2),
			maturity.Month,
			maturity.EndDate.Format("2006-01-02"),
			maturity.AmountWithInterest.StringFixed(2),
		),
		Metadata: map[string]string{
			"maturity_id":        maturity.ID,
			"savings_account_id": maturity.SavingsAccountID,
			"status":             string(maturity.Status),
		},
		CreatedAt: time.Now(),
	}

	select {
	case <-s.shutdownChan:
		return ErrServiceStopped
	default:
	}

	select {
	case s.messageQueue <- notification:
		s.logger.Info("Notification queued",
			slog.String("recipient", recipient),
			slog.String("maturity_id", maturity.ID))
		return nil
	case <-s.shutdownChan:
		return ErrServiceStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) startWorkers() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

func (s *NotificationService) worker(id int) {
	defer s.wg.Done()

	s.logger.Info("Notification worker started", slog.Int("worker_id", id))

	for {
		select {
		case msg := <-s.messageQueue:
			s.processNotification(msg, id)
		case <-s.shutdownChan:
			s.drain(id)
			s.logger.Info("Notification worker stopping", slog.Int("worker_id", id))
			return
		}
	}
}

// drain delivers whatever is still queued so accepted confirmations are not
// lost on shutdown.
func (s *NotificationService) drain(workerID int) {
	for {
		select {
		case msg := <-s.messageQueue:
			s.processNotification(msg, workerID)
		default:
			return
		}
	}
}

func (s *NotificationService) processNotification(msg NotificationMessage, workerID int) {
	startTime := time.Now()
	err := s.emailService.SendEmail(msg.Recipient, msg.Subject, msg.Message)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Failed to send notification",
			slog.String("recipient", msg.Recipient),
			slog.String("maturity_id", msg.Metadata["maturity_id"]),
			slog.String("error", err.Error()),
			slog.Int("worker_id", workerID),
			slog.Duration("duration", duration))
	} else {
		s.logger.Info("Notification sent successfully",
			slog.String("recipient", msg.Recipient),
			slog.String("maturity_id", msg.Metadata["maturity_id"]),
			slog.Int("worker_id", workerID),
			slog.Duration("duration", duration))
	}
}

func (s *NotificationService) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.shutdownChan) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Notification service shutdown complete")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogEmailService writes e-mails to the log instead of an SMTP server.
type LogEmailService struct {
	Logger *slog.Logger
}

func (l LogEmailService) SendEmail(to, subject, body string) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Email", slog.String("to", to), slog.String("subject", subject), slog.String("body", body))
	return nil
}

type MockEmailService struct {
	mu         sync.Mutex
	SentEmails []struct {
		To      string
		Subject string
		Body    string
	}
}

func (m *MockEmailService) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = append(m.SentEmails, struct {
		To      string
		Subject string
		Body    string
	}{to, subject, body})
	return nil
}

func (m *MockEmailService) Sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEmails)
}
