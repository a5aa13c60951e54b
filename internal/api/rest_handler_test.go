package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"savingsbank/internal/domain"
	"savingsbank/internal/repository/memory"
	"savingsbank/internal/savings"
	"savingsbank/pkg/auth"
	"savingsbank/pkg/metrics"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIBAN = "NL91ABNA0417164300"

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type handlerEnv struct {
	mux        *http.ServeMux
	tokens     *auth.TokenService
	metrics    *metrics.MetricsCollector
	maturities *memory.MaturityRepository
	savingsID  string
}

func setupHandler(t *testing.T) *handlerEnv {
	t.Helper()
	ctx := context.Background()

	accounts := memory.NewAccountRepository()
	customers := memory.NewCustomerRepository()
	savingsAccounts := memory.NewSavingsAccountRepository()
	maturities := memory.NewMaturityRepository(savingsAccounts)

	require.NoError(t, customers.Save(ctx, &domain.Customer{ID: "cust-1", UserID: "owner", Name: "Ada"}))
	require.NoError(t, accounts.Save(ctx, &domain.Account{ID: "acc-1", CustomerID: "cust-1", IBAN: testIBAN}))
	savingsAccount := domain.NewSavingsAccount("acc-1", time.Now())
	require.NoError(t, savingsAccounts.Save(ctx, savingsAccount))

	collector := metrics.NewMetricsCollector(nil)
	service := savings.NewService(accounts, customers, savingsAccounts, maturities,
		auth.ContextIdentity{}, savings.NewRatePolicy(decimal.NewFromInt(5)), nil).
		WithClock(fixedClock{now: time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)}).
		WithRecorder(collector)
	tokens := auth.NewTokenService("test-secret", time.Hour, nil)

	mux := http.NewServeMux()
	NewAPIHandler(service, tokens, collector, nil).RegisterRoutes(mux)

	return &handlerEnv{
		mux:        mux,
		tokens:     tokens,
		metrics:    collector,
		maturities: maturities,
		savingsID:  savingsAccount.ID,
	}
}

func (e *handlerEnv) do(t *testing.T, method, path string, body interface{}, principal *domain.Principal) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if principal != nil {
		token, err := e.tokens.Issue(*principal)
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)
	return w
}

func owner() *domain.Principal {
	return &domain.Principal{UserID: "owner", Role: domain.RoleUser}
}

func TestDepositHandler_Created(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, http.MethodPost, "/api/v1/savings-accounts/deposits", map[string]interface{}{
		"savings_account_id": env.savingsID,
		"amount":             "1000",
		"month":              12,
	}, owner())

	require.Equal(t, http.StatusCreated, w.Code)
	var view savings.MaturityView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.True(t, view.AmountWithInterest.Equal(decimal.RequireFromString("1600.00")), view.AmountWithInterest.String())
	assert.Equal(t, domain.MaturityPending, view.Status)
	assert.Equal(t, time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC), view.EndDate.UTC())
	assert.Equal(t, 1, env.maturities.Count())

	count, err := testutil.GatherAndCount(env.metrics.Registry(), "savings_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDepositHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      func(env *handlerEnv) interface{}
		principal *domain.Principal
		status    int
		code      string
	}{
		{
			name: "non-positive amount",
			body: func(env *handlerEnv) interface{} {
				return map[string]interface{}{"savings_account_id": env.savingsID, "amount": "0", "month": 12}
			},
			principal: owner(),
			status:    http.StatusBadRequest,
			code:      "VALIDATION_ERROR",
		},
		{
			name: "zero month",
			body: func(env *handlerEnv) interface{} {
				return map[string]interface{}{"savings_account_id": env.savingsID, "amount": "10", "month": 0}
			},
			principal: owner(),
			status:    http.StatusBadRequest,
			code:      "VALIDATION_ERROR",
		},
		{
			name: "term beyond maximum",
			body: func(env *handlerEnv) interface{} {
				return map[string]interface{}{"savings_account_id": env.savingsID, "amount": "10", "month": 1201}
			},
			principal: owner(),
			status:    http.StatusBadRequest,
			code:      "VALIDATION_ERROR",
		},
		{
			name: "amount beyond maximum",
			body: func(env *handlerEnv) interface{} {
				return map[string]interface{}{"savings_account_id": env.savingsID, "amount": "1000000000.01", "month": 12}
			},
			principal: owner(),
			status:    http.StatusBadRequest,
			code:      "VALIDATION_ERROR",
		},
		{
			name: "unknown savings account",
			body: func(env *handlerEnv) interface{} {
				return map[string]interface{}{"savings_account_id": "missing", "amount": "10", "month": 1}
			},
			principal: owner(),
			status:    http.StatusNotFound,
			code:      "NOT_FOUND",
		},
		{
			name: "other user",
			body: func(env *handlerEnv) interface{} {
				return map[string]interface{}{"savings_account_id": env.savingsID, "amount": "10", "month": 1}
			},
			principal: &domain.Principal{UserID: "intruder", Role: domain.RoleUser},
			status:    http.StatusForbidden,
			code:      "FORBIDDEN",
		},
		{
			name: "no token",
			body: func(env *handlerEnv) interface{} {
				return map[string]interface{}{"savings_account_id": env.savingsID, "amount": "10", "month": 1}
			},
			status: http.StatusUnauthorized,
			code:   "UNAUTHENTICATED",
		},
		{
			name:      "malformed body",
			body:      func(env *handlerEnv) interface{} { return "not an object" },
			principal: owner(),
			status:    http.StatusBadRequest,
			code:      "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupHandler(t)

			w := env.do(t, http.MethodPost, "/api/v1/savings-accounts/deposits", tt.body(env), tt.principal)

			require.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, 0, env.maturities.Count())
		})
	}
}

func TestDepositHandler_AdminMayDepositForAnyone(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, http.MethodPost, "/api/v1/savings-accounts/deposits", map[string]interface{}{
		"savings_account_id": env.savingsID,
		"amount":             "250.50",
		"month":              3,
	}, &domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, env.maturities.Count())
}

func TestCreateSavingsAccountHandler(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, http.MethodPost, "/api/v1/savings-accounts", map[string]string{"account_id": "acc-1"}, owner())
	require.Equal(t, http.StatusCreated, w.Code)
	var resp SavingsAccountResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "acc-1", resp.AccountID)

	w = env.do(t, http.MethodPost, "/api/v1/savings-accounts", map[string]string{"account_id": "nope"}, owner())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/savings-accounts", map[string]string{}, owner())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMaturitiesHandler(t *testing.T) {
	env := setupHandler(t)

	for _, amount := range []string{"100", "200"} {
		w := env.do(t, http.MethodPost, "/api/v1/savings-accounts/deposits", map[string]interface{}{
			"savings_account_id": env.savingsID,
			"amount":             amount,
			"month":              6,
		}, owner())
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/accounts/nl91%20abna%200417%20164300/savings-maturities", nil, owner())
	require.Equal(t, http.StatusOK, w.Code)
	var views []savings.MaturityView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&views))
	require.Len(t, views, 2)
	assert.True(t, views[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, views[1].Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, views[0].AmountWithInterest.Equal(decimal.RequireFromString("130.00")))

	w = env.do(t, http.MethodGet, "/api/v1/accounts/"+testIBAN+"/savings-maturities", nil,
		&domain.Principal{UserID: "intruder", Role: domain.RoleUser})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/accounts/DE89370400440532013000/savings-maturities", nil, owner())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/accounts/bogus/savings-maturities", nil, owner())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMaturitiesHandler_EmptyList(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, http.MethodGet, "/api/v1/accounts/"+testIBAN+"/savings-maturities", nil, owner())

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHealthCheckIsPublic(t *testing.T) {
	env := setupHandler(t)

	w := env.do(t, http.MethodGet, "/api/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
