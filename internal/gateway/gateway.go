// Package gateway owns the register, login and logout flows. It is the only
// writer of the token store besides the session's own clean-up of invalid
// tokens.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"go-task-tracker/internal/event"
	"go-task-tracker/internal/model"
	"go-task-tracker/internal/session"
	"go-task-tracker/internal/tokenstore"
)

type API interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
}

type Gateway struct {
	api    API
	tokens tokenstore.Store
	state  *session.State
	bus    event.Bus
}

func New(api API, tokens tokenstore.Store, state *session.State, bus event.Bus) *Gateway {
	return &Gateway{api: api, tokens: tokens, state: state, bus: bus}
}

// Restore recomputes the session from whatever token survived the last run.
func (g *Gateway) Restore() *model.Session {
	return g.state.Refresh()
}

func (g *Gateway) Session() *model.Session {
	return g.state.Current()
}

func (g *Gateway) IsAuthenticated() bool {
	return g.state.IsAuthenticated()
}

func (g *Gateway) Register(ctx context.Context, username string, email string, password string) (model.User, error) {
	user, err := g.api.Register(ctx, model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	g.bus.Publish(event.New(event.TypeRegistered, user.Email, user))
	return user, nil
}

// Login drops any stored token, authenticates, stores the new token and only
// then recomputes the session. The returned session is the one subscribers
// have just been given.
func (g *Gateway) Login(ctx context.Context, email string, password string) (*model.Session, error) {
	if err := g.tokens.Clear(); err != nil {
		return nil, fmt.Errorf("clear previous token: %w", err)
	}

	resp, err := g.api.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := g.tokens.Save(resp.Token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	current := g.state.Refresh()
	if current == nil {
		return nil, fmt.Errorf("login: %w: issued token is expired or unreadable", model.ErrTokenMalformed)
	}

	slog.Info("logged in", "subject", current.Email)
	g.bus.Publish(event.New(event.TypeLoggedIn, current.Email, nil))
	return current, nil
}

// Logout is safe to call any number of times.
func (g *Gateway) Logout() {
	if err := g.tokens.Clear(); err != nil {
		slog.Warn("clear token on logout", "error", err)
	}

	g.state.Reset()
	g.bus.Publish(event.New(event.TypeLoggedOut, "", nil))
	g.bus.Publish(event.Navigate(event.RouteLogin, "logout"))
}
