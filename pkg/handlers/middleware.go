package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/llmcouncil/go-llm-council/pkg/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ContextKeySubject is the context key for the token subject
	ContextKeySubject ContextKey = "subject"
)

// AuthMiddleware verifies bearer tokens when a validator is configured.
// With a nil validator the API runs open and the middleware is a no-op.
// WebSocket clients may pass the token as a "token" query parameter
// since browser WebSocket APIs cannot set headers.
func AuthMiddleware(validator auth.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "Missing authorization token"})
				return
			}

			parsed, err := validator.ValidateJWT(token)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]string{"error": "Invalid or expired token"})
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, (*parsed).Subject())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return r.URL.Query().Get("token")
}

// GetSubjectFromContext retrieves the token subject from the request context
func GetSubjectFromContext(ctx context.Context) string {
	subject, ok := ctx.Value(ContextKeySubject).(string)
	if !ok {
		return ""
	}
	return subject
}
