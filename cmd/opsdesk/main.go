// Command opsdesk is the terminal client for the operations dashboard:
// session management, the HR and IT data sections, the overview tiles,
// and workbook export/import against the dashboard backend.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/opsdeskhq/opsdesk/config"
	"github.com/opsdeskhq/opsdesk/internal/bootstrap"
	"github.com/opsdeskhq/opsdesk/internal/section"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and persist the session token",
			run:         runLogin,
		},
		"signup": {
			name:        "signup",
			description: "Register a new account and sign in",
			run:         runSignup,
		},
		"logout": {
			name:        "logout",
			description: "Clear the persisted session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in account",
			run:         runWhoami,
		},
		"hr": {
			name:        "hr",
			description: "List or add HR rows (employees, benefits, onboarding, recruitment, absences)",
			run:         runHR,
		},
		"it": {
			name:        "it",
			description: "List IT rows and aggregates (devices, tickets, overview)",
			run:         runIT,
		},
		"export": {
			name:        "export",
			description: "Export every section to an xlsx workbook",
			run:         runExport,
		},
		"import": {
			name:        "import",
			description: "Bulk-create employees from an xlsx or xls roster",
			run:         runImport,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: opsdesk <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(os.Stdout, "  %-10s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

// openApp wires the full toolkit for one command invocation. Callers must
// close the returned app; closeApp logs instead of failing the command.
func openApp(cmdCtx *commandContext) (*bootstrap.App, error) {
	if cmdCtx.Config.Backend.URL == "" {
		cmdCtx.Logger.Warn("backend url is empty; requests use relative paths (set OPSDESK_BACKEND_URL)")
	}
	app, err := bootstrap.NewApp(cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return nil, fmt.Errorf("wire app: %w", err)
	}
	return app, nil
}

func closeApp(cmdCtx *commandContext, app *bootstrap.App) {
	if err := app.Close(); err != nil {
		cmdCtx.Logger.Warn("app close failed", "error", err)
	}
}

// requireSession restores the persisted session, letting a configured
// testing account auto-login first. Commands touching guarded resources
// call this before any request.
func requireSession(cmdCtx *commandContext, app *bootstrap.App) error {
	state := app.Session.Bootstrap(cmdCtx.Ctx)
	if !state.Authenticated {
		return errors.New(`not signed in (run "opsdesk login")`)
	}
	return nil
}

// sectionRows mounts a section, waits for its single fetch to settle, and
// returns the mapped rows.
func sectionRows[R, V any, Req section.Request](ctx context.Context, sec *section.Section[R, V, Req]) ([]V, error) {
	<-sec.Mount(ctx)
	defer sec.Unmount()

	snap := sec.Snapshot()
	if snap.Status != section.StatusReady {
		return nil, fmt.Errorf("load %s: %s", sec.Name(), snap.Message)
	}
	return snap.Rows, nil
}

func promptLine(label string) (string, error) {
	if err := writef(os.Stdout, "%s: ", label); err != nil {
		return "", err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
