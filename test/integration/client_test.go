//go:build integration

package integration

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/internal/cli"
	"go-task-tracker/internal/config"
	"go-task-tracker/internal/tokenstore"
)

type session struct {
	cfg    *config.ClientConfig
	store  tokenstore.Store
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newSession(t *testing.T, baseURL string) *session {
	t.Helper()

	store, err := tokenstore.NewFileStore(t.TempDir() + "/storage.json")
	require.NoError(t, err)

	return &session{
		cfg: &config.ClientConfig{
			APIBaseURL:     baseURL,
			TokenFile:      store.Path(),
			RequestTimeout: 5 * time.Second,
		},
		store: store,
	}
}

func (s *session) run(t *testing.T, args ...string) int {
	t.Helper()

	s.stdout.Reset()
	s.stderr.Reset()
	app, err := cli.New(s.cfg, &s.stdout, &s.stderr, cli.WithStore(s.store))
	require.NoError(t, err)
	defer app.Close()

	return app.Run(context.Background(), args)
}

func TestClientAgainstServer(t *testing.T) {
	server := newServer(t)
	ana := newSession(t, server.URL)

	require.Equal(t, cli.ExitSuccess, ana.run(t, "register", "-username", "ana", "-email", "ana@example.com", "-password", "secret1"))
	require.Equal(t, cli.ExitSuccess, ana.run(t, "login", "-email", "ana@example.com", "-password", "secret1"))
	require.Equal(t, cli.ExitSuccess, ana.run(t, "whoami"))
	assert.Equal(t, "ana@example.com\n", ana.stdout.String())

	require.Equal(t, cli.ExitSuccess, ana.run(t, "tasks", "add", "-title", "Write report"))
	id := strings.TrimSpace(ana.stdout.String())

	require.Equal(t, cli.ExitSuccess, ana.run(t, "tasks", "toggle", id))
	assert.Contains(t, ana.stdout.String(), "COMPLETED")

	require.Equal(t, cli.ExitSuccess, ana.run(t, "tasks", "list", "-status", "completed"))
	assert.Contains(t, ana.stdout.String(), "Write report")
	assert.Contains(t, ana.stdout.String(), "0 pending, 1 completed")

	// Another user touching ana's task is forbidden, which signs them out.
	bob := newSession(t, server.URL)
	require.Equal(t, cli.ExitSuccess, bob.run(t, "register", "-username", "bob", "-email", "bob@example.com", "-password", "secret1"))
	require.Equal(t, cli.ExitSuccess, bob.run(t, "login", "-email", "bob@example.com", "-password", "secret1"))
	require.Equal(t, cli.ExitUnauthorized, bob.run(t, "tasks", "rm", id))
	assert.Contains(t, bob.stderr.String(), "Access denied. You don't have permission.")
	assert.Contains(t, bob.stderr.String(), "Signed out.")
	require.Equal(t, cli.ExitUnauthorized, bob.run(t, "whoami"))

	require.Equal(t, cli.ExitSuccess, ana.run(t, "tasks", "rm", id))
	require.Equal(t, cli.ExitSuccess, ana.run(t, "logout"))
	_, ok, err := ana.store.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}
