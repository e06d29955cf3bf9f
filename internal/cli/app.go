// Package cli is the taskctl command line client. New builds every client
// singleton once; Run dispatches one subcommand against them.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go-task-tracker/internal/apiclient"
	"go-task-tracker/internal/config"
	"go-task-tracker/internal/event"
	"go-task-tracker/internal/gateway"
	"go-task-tracker/internal/interceptor"
	"go-task-tracker/internal/model"
	"go-task-tracker/internal/notify"
	"go-task-tracker/internal/session"
	"go-task-tracker/internal/taskboard"
	"go-task-tracker/internal/tokenstore"
)

const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitUsage         = 2
	ExitUnauthorized  = 3
	ExitInternalError = 4
)

const userAgent = "taskctl/1.0"

type Option func(*options)

type options struct {
	store     tokenstore.Store
	transport http.RoundTripper
	now       func() time.Time
	scheduler notify.Scheduler
}

// WithStore replaces the token file configured in ClientConfig.
func WithStore(store tokenstore.Store) Option {
	return func(o *options) { o.store = store }
}

// WithTransport sets the innermost RoundTripper of the request pipeline.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithScheduler(s notify.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

type App struct {
	stdout io.Writer
	stderr io.Writer

	tokens  tokenstore.Store
	state   *session.State
	notes   *notify.Channel
	bus     *event.InMemoryBus
	events  <-chan event.Event
	api     *apiclient.Client
	gateway *gateway.Gateway
	board   *taskboard.Board

	closers []func()
}

func New(cfg *config.ClientConfig, stdout io.Writer, stderr io.Writer, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	tokens := o.store
	if tokens == nil {
		fileStore, err := tokenstore.NewFileStore(cfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
		tokens = fileStore
	}

	a := &App{
		stdout: stdout,
		stderr: stderr,
		tokens: tokens,
		bus:    event.NewBus(),
	}

	a.state = session.New(tokens, session.WithClock(o.now))
	a.notes = notify.New(notify.WithScheduler(o.scheduler), notify.WithClock(o.now))

	events, unsubscribe := a.bus.Subscribe()
	a.events = events
	a.closers = append(a.closers, unsubscribe)
	a.closers = append(a.closers, a.notes.Subscribe(newRenderer(stderr).render))
	a.closers = append(a.closers, a.state.Subscribe(func(current *model.Session) {
		if current == nil {
			slog.Debug("session cleared")
			return
		}
		slog.Debug("session active", "subject", current.Email)
	}))

	// The pipeline is built before the gateway; logout is bound late.
	var gw *gateway.Gateway
	pipeline := interceptor.Chain(o.transport,
		interceptor.Logging(slog.Default()),
		interceptor.UserAgent(userAgent),
		interceptor.RateLimit(interceptor.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)),
		interceptor.Auth(tokens, a.notes, interceptor.LogoutFunc(func() { gw.Logout() })),
	)

	a.api = apiclient.New(cfg.APIBaseURL, &http.Client{
		Transport: pipeline,
		Timeout:   cfg.RequestTimeout,
	})
	gw = gateway.New(a.api, tokens, a.state, a.bus)
	a.gateway = gw
	a.board = taskboard.New(a.api, a.notes)

	a.gateway.Restore()

	return a, nil
}

// Close stops pending notification timers and detaches subscribers.
func (a *App) Close() {
	a.notes.Clear()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run executes one command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return ExitUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown command %q\n", args[0])
		a.usage()
		return ExitUsage
	}

	code := cmd.run(a, ctx, args[1:])
	a.drainEvents()
	return code
}

func (a *App) usage() {
	fmt.Fprintln(a.stderr, "usage: taskctl <command> [flags]")
	fmt.Fprintln(a.stderr)
	for _, name := range commandOrder {
		fmt.Fprintf(a.stderr, "  %-9s %s\n", name, commands[name].summary)
	}
}

// drainEvents renders the navigation requests published during the command.
// Publishing is synchronous, so everything is already buffered.
func (a *App) drainEvents() {
	for {
		select {
		case e, ok := <-a.events:
			if !ok {
				return
			}
			nav, isNav := e.Payload.(event.Navigation)
			if e.Type != event.TypeNavigate || !isNav {
				continue
			}
			if nav.Route != event.RouteLogin {
				continue
			}
			if nav.Reason == "logout" {
				fmt.Fprintln(a.stderr, "Signed out. Run `taskctl login` to continue.")
			} else {
				fmt.Fprintln(a.stderr, "Login required. Run `taskctl login` first.")
			}
		default:
			return
		}
	}
}
