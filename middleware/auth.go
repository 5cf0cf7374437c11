package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const TokenHolderKey contextKey = "token_holder"

// RequireToken rejects requests whose bearer token does not match the
// bcrypt hash. An empty hash disables the check.
func RequireToken(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tokenHash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				slog.Info("no bearer token found, not authorized")
				w.Header().Set("WWW-Authenticate", `Bearer realm="acasinha"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				slog.Info("invalid bearer token")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TokenHolderKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HashToken produces the value expected in the api_token_hash setting.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsAuthorized reports whether the request passed RequireToken with a token.
func IsAuthorized(ctx context.Context) bool {
	ok, _ := ctx.Value(TokenHolderKey).(bool)
	return ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
