package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"aruth-api/logger"
	"aruth-api/store"
	"aruth-api/utils"
)

// Key type for context
type contextKey string

// UserContextKey holds the authenticated email
const UserContextKey = contextKey("user")

// AuthHeader carries "Bearer <token>"; Authorization is accepted as well.
const AuthHeader = "auth"

// TokenVerifier validates a bearer token and returns the email it carries
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Identity returns the email Authenticate stored in ctx.
func Identity(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserContextKey).(string)
	return email, ok && email != ""
}

// WithIdentity stores email in ctx as the authenticated caller.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, UserContextKey, email)
}

func bearerToken(r *http.Request) (token string, present bool) {
	header := r.Header.Get(AuthHeader)
	if header == "" {
		header = r.Header.Get("Authorization")
	}
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// Authenticate requires a valid bearer token whose email matches the
// ?email= query of the request, binding the token to the requester.
func Authenticate(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorize access")
				return
			}
			if token == "" {
				utils.WriteError(w, http.StatusForbidden, "Forbidden access")
				return
			}

			email, err := tokens.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				utils.WriteError(w, http.StatusForbidden, "Forbidden access")
				return
			}
			if email != r.URL.Query().Get("email") {
				utils.WriteError(w, http.StatusForbidden, "Forbidden access")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), email)))
		})
	}
}

// RequireAdmin ensures the authenticated user holds the admin role. The role
// is read from the users store on every call.
func RequireAdmin(users store.Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := Identity(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorize access")
				return
			}

			user, err := users.ByEmail(r.Context(), email)
			if errors.Is(err, store.ErrNotFound) || (err == nil && !user.IsAdmin()) {
				utils.WriteError(w, http.StatusForbidden, "Forbidden access")
				return
			}
			if err != nil {
				logger.WithCtx(r.Context()).Error("admin lookup", "email", email, "error", err)
				utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
