package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"go-task-tracker/internal/apiclient"
	"go-task-tracker/internal/event"
	"go-task-tracker/internal/model"
	"go-task-tracker/internal/taskboard"
)

type command struct {
	summary string
	run     func(a *App, ctx context.Context, args []string) int
}

var commandOrder = []string{"register", "login", "logout", "whoami", "tasks"}

var commands map[string]command

func init() {
	commands = map[string]command{
		"register": {summary: "create an account", run: (*App).register},
		"login":    {summary: "sign in and store the token", run: (*App).login},
		"logout":   {summary: "forget the stored token", run: (*App).logout},
		"whoami":   {summary: "show the signed-in user", run: (*App).whoami},
		"tasks":    {summary: "list|add|update|toggle|rm", run: (*App).tasks},
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *App) register(ctx context.Context, args []string) int {
	fs := a.flags("register")
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password, at least 6 characters")
	confirm := fs.String("confirm", "", "password confirmation (defaults to -password)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if *confirm != "" && *confirm != *password {
		a.notes.Warning("Passwords do not match")
		return ExitUsage
	}

	user, err := a.gateway.Register(ctx, *username, *email, *password)
	if err != nil {
		a.notes.Error(apiclient.UserMessage(err, "Registration failed. Please try again."))
		return exitCode(err)
	}

	a.notes.Success("Registration successful! Redirecting to login...")
	fmt.Fprintf(a.stdout, "registered %s <%s>\n", user.Username, user.Email)
	return ExitSuccess
}

func (a *App) login(ctx context.Context, args []string) int {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	current, err := a.gateway.Login(ctx, *email, *password)
	if err != nil {
		a.notes.Error(apiclient.UserMessage(err, "Login failed. Please check your credentials."))
		return exitCode(err)
	}

	a.notes.Success("Login successful! Welcome back.")
	fmt.Fprintf(a.stdout, "logged in as %s\n", current.Email)
	return ExitSuccess
}

func (a *App) logout(_ context.Context, args []string) int {
	if err := a.flags("logout").Parse(args); err != nil {
		return ExitUsage
	}

	a.gateway.Logout()
	return ExitSuccess
}

func (a *App) whoami(_ context.Context, args []string) int {
	if err := a.flags("whoami").Parse(args); err != nil {
		return ExitUsage
	}

	current := a.gateway.Restore()
	if current == nil {
		fmt.Fprintln(a.stderr, "not logged in")
		return ExitUnauthorized
	}

	fmt.Fprintln(a.stdout, current.Email)
	return ExitSuccess
}

func (a *App) tasks(ctx context.Context, args []string) int {
	if !a.gateway.IsAuthenticated() {
		a.bus.Publish(event.Navigate(event.RouteLogin, "login required"))
		return ExitUnauthorized
	}

	if len(args) == 0 {
		return a.listTasks(ctx, nil)
	}

	switch args[0] {
	case "list", "ls":
		return a.listTasks(ctx, args[1:])
	case "add":
		return a.addTask(ctx, args[1:])
	case "update":
		return a.updateTask(ctx, args[1:])
	case "toggle":
		return a.toggleTask(ctx, args[1:])
	case "rm", "delete":
		return a.deleteTask(ctx, args[1:])
	}

	fmt.Fprintf(a.stderr, "unknown tasks subcommand %q\n", args[0])
	return ExitUsage
}

func (a *App) listTasks(ctx context.Context, args []string) int {
	fs := a.flags("tasks list")
	status := fs.String("status", "ALL", "ALL, PENDING or COMPLETED")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	filter, err := taskboard.ParseFilter(*status)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return ExitUsage
	}

	if err := a.board.Load(ctx); err != nil {
		return exitCode(err)
	}
	a.board.SetFilter(filter)
	visible := a.board.Visible()

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(visible); err != nil {
			return ExitInternalError
		}
		return ExitSuccess
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tDESCRIPTION")
	for _, task := range visible {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", task.ID, task.Status, task.Title, task.Description)
	}
	_ = tw.Flush()

	pending, completed := a.board.Counts()
	fmt.Fprintf(a.stdout, "%d pending, %d completed\n", pending, completed)
	return ExitSuccess
}

func (a *App) addTask(ctx context.Context, args []string) int {
	fs := a.flags("tasks add")
	title := fs.String("title", "", "task title")
	description := fs.String("description", "", "optional description")
	status := fs.String("status", string(model.TaskStatusPending), "PENDING or COMPLETED")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if *title == "" && fs.NArg() > 0 {
		*title = strings.Join(fs.Args(), " ")
	}

	parsed, err := model.ParseTaskStatus(*status)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return ExitUsage
	}

	task, err := a.board.Create(ctx, *title, *description, parsed)
	if err != nil {
		return a.formFailure(err)
	}

	fmt.Fprintf(a.stdout, "%d\n", task.ID)
	return ExitSuccess
}

func (a *App) updateTask(ctx context.Context, args []string) int {
	id, rest, err := splitID(args)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return ExitUsage
	}

	fs := a.flags("tasks update")
	title := fs.String("title", "", "new title")
	description := fs.String("description", "", "new description")
	status := fs.String("status", "", "PENDING or COMPLETED")
	if err := fs.Parse(rest); err != nil {
		return ExitUsage
	}

	var req model.TaskUpdateRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			req.Title = title
		case "description":
			req.Description = description
		}
	})
	if *status != "" {
		parsed, err := model.ParseTaskStatus(*status)
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return ExitUsage
		}
		req.Status = &parsed
	}

	if _, err := a.board.Update(ctx, id, req); err != nil {
		return a.formFailure(err)
	}
	return ExitSuccess
}

func (a *App) toggleTask(ctx context.Context, args []string) int {
	id, _, err := splitID(args)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return ExitUsage
	}

	task, err := a.board.Toggle(ctx, id)
	if err != nil {
		return exitCode(err)
	}

	fmt.Fprintf(a.stdout, "%d %s\n", task.ID, task.Status)
	return ExitSuccess
}

func (a *App) deleteTask(ctx context.Context, args []string) int {
	id, _, err := splitID(args)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return ExitUsage
	}

	if err := a.board.Delete(ctx, id); err != nil {
		return exitCode(err)
	}
	return ExitSuccess
}

// formFailure prints a form error inline; the board does not raise a
// notification for those.
func (a *App) formFailure(err error) int {
	var formErr *taskboard.FormError
	if errors.As(err, &formErr) {
		fmt.Fprintln(a.stderr, formErr.Message)
	} else {
		fmt.Fprintln(a.stderr, err)
	}
	return exitCode(err)
}

func splitID(args []string) (int64, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return 0, nil, errors.New("task id is required")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("invalid task id %q", args[0])
	}

	return id, args[1:], nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrForbidden):
		return ExitUnauthorized
	case errors.Is(err, model.ErrInvalidInput):
		return ExitUsage
	default:
		return ExitFailure
	}
}
