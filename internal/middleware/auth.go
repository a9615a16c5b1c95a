package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"paint-advisor/internal/errs"
	"paint-advisor/internal/models"
)

// TokenParser validates an access token
type TokenParser interface {
	ParseToken(token string) (*models.TokenClaims, error)
}

const claimsKey contextKey = "claims"

// RequireToken rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the claims in the request context
func RequireToken(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				writeUnauthorized(w, errs.ErrMissingToken)
				return
			}

			claims, err := parser.ParseToken(strings.TrimSpace(token))
			if err != nil {
				AddSpanError(r.Context(), err)
				writeUnauthorized(w, errs.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by RequireToken
func ClaimsFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*models.TokenClaims)
	return claims, ok
}

func writeUnauthorized(w http.ResponseWriter, err *errs.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Message})
}
