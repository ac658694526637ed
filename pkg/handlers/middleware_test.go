package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmcouncil/go-llm-council/pkg/auth"
)

func protectedProbe(t *testing.T, validator auth.TokenValidator) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Subject", GetSubjectFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(validator)(next)
}

func signTestToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set(jwt.SubjectKey, "tester"))
	require.NoError(t, token.Set(jwt.ExpirationKey, time.Now().Add(time.Hour)))
	signed, err := jwt.Sign(token, jwa.HS256, []byte(secret))
	require.NoError(t, err)
	return string(signed)
}

func TestAuthMiddlewareOpenWithoutValidator(t *testing.T) {
	rec := httptest.NewRecorder()
	protectedProbe(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareValidatesTokens(t *testing.T) {
	validator, err := auth.NewLocalJWTValidator([]byte("secret"))
	require.NoError(t, err)
	probe := protectedProbe(t, validator)

	// missing token
	rec := httptest.NewRecorder()
	probe.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// bad token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	probe.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token in header
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "secret"))
	probe.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tester", rec.Header().Get("X-Subject"))

	// valid token as query parameter (WebSocket clients)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/?token="+signTestToken(t, "secret"), nil)
	probe.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
