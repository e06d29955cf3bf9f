package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-task-tracker/internal/model"
	"go-task-tracker/pkg/apierror"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

type contextKey string

const userContextKey contextKey = "auth_user"

type AuthMiddleware struct {
	auth authenticator
}

func NewAuthMiddleware(auth authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth answers 401 when no bearer token is sent and 403 when the token
// is rejected, mirroring how the API has always reported the two cases.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeProblem(w, r, http.StatusUnauthorized, "Full authentication is required to access this resource", "")
			return
		}

		user, err := m.auth.Authenticate(r.Context(), strings.TrimSpace(header[7:]))
		if err != nil {
			var apiErr *apierror.APIError
			if errors.As(err, &apiErr) {
				writeProblem(w, r, apiErr.HTTPStatus, apiErr.Message, apiErr.Details)
				return
			}
			slog.Error("authenticate request", "error", err)
			writeProblem(w, r, http.StatusInternalServerError, err.Error(), "Unknown internal server error.")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

// WithUser is used by handler tests to bypass RequireAuth.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
