package api

import (
	"log/slog"
	"net/http"
	"savingsbank/pkg/auth"
	"strings"
)

// Authenticate verifies the bearer token and stores the principal on the
// request context.
func (h *APIHandler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			h.sendError(w, "Authentication required", http.StatusUnauthorized, "UNAUTHENTICATED")
			return
		}

		principal, err := h.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			h.sendError(w, "Invalid token", http.StatusUnauthorized, "INVALID_TOKEN")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// RequireHTTPS redirects requests a proxy received over plain HTTP.
// Requests without X-Forwarded-Proto are served as is.
func RequireHTTPS(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proto := r.Header.Get("X-Forwarded-Proto")
		if proto == "" || strings.EqualFold(proto, "https") {
			next.ServeHTTP(w, r)
			return
		}

		target := "https://" + r.Host + r.URL.RequestURI()
		logger.Debug("Redirecting to HTTPS", slog.String("target", target))
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}
