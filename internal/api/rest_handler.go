package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"savingsbank/internal/repository"
	"savingsbank/internal/savings"
	"savingsbank/pkg/auth"
	"savingsbank/pkg/metrics"
	"savingsbank/pkg/validator"
	"time"

	"github.com/shopspring/decimal"
)

type APIHandler struct {
	savings        *savings.Service
	tokens         *auth.TokenService
	metrics        *metrics.MetricsCollector
	validator      *validator.DepositValidator
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	savingsService *savings.Service,
	tokens *auth.TokenService,
	metrics *metrics.MetricsCollector,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		savings:        savingsService,
		tokens:         tokens,
		metrics:        metrics,
		validator:      validator.NewDepositValidator(),
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

func (h *APIHandler) WithRequestTimeout(timeout time.Duration) *APIHandler {
	if timeout > 0 {
		h.requestTimeout = timeout
	}
	return h
}

type CreateSavingsAccountRequest struct {
	AccountID string `json:"account_id"`
}

type SavingsAccountResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

type DepositRequest struct {
	SavingsAccountID string          `json:"savings_account_id"`
	Amount           decimal.Decimal `json:"amount"`
	Month            int             `json:"month"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *APIHandler) CreateSavingsAccountHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req CreateSavingsAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		h.recordRequest("create_savings_account", http.StatusBadRequest, startTime)
		return
	}
	if req.AccountID == "" {
		h.sendError(w, "account_id is required", http.StatusBadRequest, "VALIDATION_ERROR")
		h.recordRequest("create_savings_account", http.StatusBadRequest, startTime)
		return
	}

	savingsAccount, err := h.savings.Create(ctx, savings.CreateSavingsAccountRequest{AccountID: req.AccountID})
	if err != nil {
		status := h.handleServiceError(w, err)
		h.recordRequest("create_savings_account", status, startTime)
		return
	}

	h.sendJSON(w, SavingsAccountResponse{
		ID:        savingsAccount.ID,
		AccountID: savingsAccount.AccountID,
		CreatedAt: savingsAccount.CreatedAt,
	}, http.StatusCreated)
	h.recordRequest("create_savings_account", http.StatusCreated, startTime)
}

func (h *APIHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		h.recordRequest("deposit", http.StatusBadRequest, startTime)
		return
	}
	if req.SavingsAccountID == "" {
		h.sendError(w, "savings_account_id is required", http.StatusBadRequest, "VALIDATION_ERROR")
		h.recordRequest("deposit", http.StatusBadRequest, startTime)
		return
	}

	maturity, err := h.savings.DepositToSavingsAccount(ctx, savings.DepositRequest{
		SavingsAccountID: req.SavingsAccountID,
		Amount:           req.Amount,
		Month:            req.Month,
	})
	if err != nil {
		status := h.handleServiceError(w, err)
		h.recordRequest("deposit", status, startTime)
		return
	}

	h.sendJSON(w, savings.MaturityView{
		ID:                 maturity.ID,
		Amount:             maturity.Amount,
		Month:              maturity.Month,
		AmountWithInterest: maturity.AmountWithInterest,
		StartDate:          maturity.StartDate,
		EndDate:            maturity.EndDate,
		Status:             maturity.Status,
	}, http.StatusCreated)
	h.recordRequest("deposit", http.StatusCreated, startTime)
}

func (h *APIHandler) GetMaturitiesHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	iban, err := h.validator.NormalizeIBAN(r.PathValue("iban"))
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		h.recordRequest("get_maturities", http.StatusBadRequest, startTime)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	views, err := h.savings.GetMaturitiesByIBAN(ctx, iban)
	if err != nil {
		status := h.handleServiceError(w, err)
		h.recordRequest("get_maturities", status, startTime)
		return
	}

	h.sendJSON(w, views, http.StatusOK)
	h.recordRequest("get_maturities", http.StatusOK, startTime)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

// handleServiceError writes the response for a failed service call and
// returns the status it used.
func (h *APIHandler) handleServiceError(w http.ResponseWriter, err error) int {
	switch {
	case errors.Is(err, savings.ErrInvalidDeposit), errors.Is(err, validator.ErrInvalidIBAN):
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		h.sendError(w, "Authentication required", http.StatusUnauthorized, "UNAUTHENTICATED")
		return http.StatusUnauthorized
	case errors.Is(err, savings.ErrForbidden):
		h.sendError(w, "Access to the account is not allowed", http.StatusForbidden, "FORBIDDEN")
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		h.sendError(w, err.Error(), http.StatusNotFound, "NOT_FOUND")
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		h.sendError(w, "Request timed out", http.StatusGatewayTimeout, "TIMEOUT")
		return http.StatusGatewayTimeout
	default:
		h.logger.Error("Savings request failed", slog.String("error", err.Error()))
		h.sendError(w, "Internal server error", http.StatusInternalServerError, "SERVER_ERROR")
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) recordRequest(operation string, status int, startTime time.Time) {
	if h.metrics != nil {
		h.metrics.RecordRequest(operation, status, time.Since(startTime))
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/savings-accounts", h.Authenticate(http.HandlerFunc(h.CreateSavingsAccountHandler)))
	mux.Handle("POST /api/v1/savings-accounts/deposits", h.Authenticate(http.HandlerFunc(h.DepositHandler)))
	mux.Handle("GET /api/v1/accounts/{iban}/savings-maturities", h.Authenticate(http.HandlerFunc(h.GetMaturitiesHandler)))
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}

