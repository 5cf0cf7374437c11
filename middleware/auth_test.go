package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func okHandler(t *testing.T, wantAuthorized bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantAuthorized, IsAuthorized(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireTokenDisabled(t *testing.T) {
	h := RequireToken("")(okHandler(t, false))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"empty token", "Bearer  ", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusNoContent},
		{"scheme case", "bearer s3cret", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireToken(string(hash))(okHandler(t, true))
			req := httptest.NewRequest(http.MethodPost, "/expenses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHashToken(t *testing.T) {
	hash, err := HashToken("abc")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("abc")))
}
