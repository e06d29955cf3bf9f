package interceptor

import (
	"log/slog"
	"net/http"
	"time"

	"go-task-tracker/internal/model"
)

const (
	MessageSessionExpired = "Session expired. Please login again."
	MessageAccessDenied   = "Access denied. You don't have permission."
)

type TokenReader interface {
	Read() (token string, ok bool, err error)
}

type Notifier interface {
	Error(message string, duration ...time.Duration) model.Notification
}

type Terminator interface {
	Logout()
}

// LogoutFunc adapts a plain function into a Terminator. It lets the pipeline
// be built before the gateway that owns logout exists.
type LogoutFunc func()

func (f LogoutFunc) Logout() {
	if f != nil {
		f()
	}
}

// Auth attaches the stored bearer token. Responses to authenticated requests
// with 401 or 403 produce one error notification and one logout before the
// response is handed back; everything else passes through untouched.
// Requests made without a token are forwarded as they are.
func Auth(tokens TokenReader, notifier Notifier, terminator Terminator) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			token, ok, err := tokens.Read()
			if err != nil {
				slog.Warn("read token for request", "error", err, "path", req.URL.Path)
			}
			if err != nil || !ok || token == "" {
				return next.RoundTrip(req)
			}

			authed := req.Clone(req.Context())
			authed.Header.Set("Authorization", "Bearer "+token)

			resp, err := next.RoundTrip(authed)
			if err != nil {
				return resp, err
			}

			switch resp.StatusCode {
			case http.StatusUnauthorized:
				slog.Info("session rejected by server", "status", resp.StatusCode, "path", req.URL.Path)
				notifier.Error(MessageSessionExpired)
				terminator.Logout()
			case http.StatusForbidden:
				slog.Info("access denied by server", "status", resp.StatusCode, "path", req.URL.Path)
				notifier.Error(MessageAccessDenied)
				terminator.Logout()
			}

			return resp, nil
		})
	}
}
