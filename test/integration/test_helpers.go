//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-task-tracker/internal/app"
	"go-task-tracker/internal/config"
	"go-task-tracker/internal/model"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:              "0",
		ServerReadHeaderTimeout: 5 * time.Second,
		ServerWriteTimeout:      30 * time.Second,
		ServerIdleTimeout:       time.Minute,
		RequestTimeout:          10 * time.Second,
		JWTSecret:               "test-secret",
		JWTTTL:                  time.Hour,
		BcryptCost:              4,
		CORSOrigins:             []string{"*"},
		RateLimitRPM:            1000,
		AuthRateLimitRPM:        1000,
	}

	application, err := app.New(context.Background(), cfg)
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)
	return server
}

func register(t *testing.T, baseURL string, username string, email string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL+"/auth/register", "", model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "secret1",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func login(t *testing.T, baseURL string, email string) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL+"/auth/login", "", model.LoginRequest{Email: email, Password: "secret1"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed model.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Token)
	return parsed.Token
}

func doJSON(t *testing.T, method string, url string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
