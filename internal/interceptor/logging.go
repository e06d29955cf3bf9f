package interceptor

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Logging tags each request with an X-Request-ID and logs its outcome.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			requestID := req.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
				req = req.Clone(req.Context())
				req.Header.Set(requestIDHeader, requestID)
			}

			started := time.Now()
			resp, err := next.RoundTrip(req)
			duration := time.Since(started).Milliseconds()

			attrs := []any{
				"request_id", requestID,
				"method", req.Method,
				"path", req.URL.Path,
				"duration_ms", duration,
			}

			switch {
			case err != nil:
				logger.Warn("request failed", append(attrs, "error", err)...)
			case resp.StatusCode >= 500:
				logger.Error("request", append(attrs, "status", resp.StatusCode)...)
			case resp.StatusCode >= 400:
				logger.Warn("request", append(attrs, "status", resp.StatusCode)...)
			default:
				logger.Debug("request", append(attrs, "status", resp.StatusCode)...)
			}

			return resp, err
		})
	}
}

// UserAgent sets the User-Agent header when the caller did not.
func UserAgent(value string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if value == "" || req.Header.Get("User-Agent") != "" {
				return next.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set("User-Agent", value)
			return next.RoundTrip(req)
		})
	}
}
