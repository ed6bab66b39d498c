// Package app wires the client together: configuration, logging, the state
// database, the session store and the backend SDK, plus the command surface
// that stands in for the original web UI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/productrhq/productr/internal/client/domain"
	"github.com/productrhq/productr/internal/client/routeguard"
	"github.com/productrhq/productr/internal/client/session"
	"github.com/productrhq/productr/internal/client/store/drivers/sqlite"
	"github.com/productrhq/productr/pkg/productr"
	"github.com/productrhq/productr/pkg/slogx"
	"github.com/productrhq/productr/pkg/tokenx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the catalog client with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       *sqlite.Store
	sessions *session.Store
	sdk      *productr.SDKClient

	// Command I/O, swappable in tests.
	stdin  io.Reader
	stdout io.Writer
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "productr-client",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	if err := app.initStateDB(); err != nil {
		return nil, err
	}

	app.sessions = session.NewStore(app.db, app.logger)
	app.sdk = productr.NewSDKClient(cfg.APIBaseURL)
	app.sdk.HTTPClient.Timeout = cfg.HTTPTimeout

	return app, nil
}

// Run restores the persisted session and dispatches the command line.
func (app *Application) Run(ctx context.Context, args []string) error {
	defer app.Close()

	app.sessions.Restore(ctx)

	if len(args) == 0 {
		app.printUsage()
		return nil
	}

	switch args[0] {
	case "login":
		return app.cmdLogin(ctx)
	case "register":
		return app.cmdRegister(ctx)
	case "logout":
		return app.cmdLogout(ctx)
	case "whoami":
		return app.cmdWhoami(ctx)
	case "items":
		return app.cmdItems(ctx, args[1:])
	case "users":
		return app.cmdUsers(ctx, args[1:])
	case "version":
		fmt.Fprintln(app.stdout, BuildVersion)
		return nil
	default:
		app.printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// Close releases the state database.
func (app *Application) Close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing state database", "error", err)
		}
	}
}

// initStateDB opens the state database and applies migrations.
func (app *Application) initStateDB() error {
	if dir := filepath.Dir(app.cfg.StateFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	// modernc's driver takes pragmas in _pragma form; the mattn-style
	// _busy_timeout/_journal_mode params are silently ignored by it.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.StateFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply state migrations: %w", err)
	}

	return nil
}

// navigate gates a command behind the route guard, exactly as the web UI
// gates page navigation. It returns the session snapshot the decision was
// made against.
func (app *Application) navigate(target string) (domain.Session, error) {
	sess := app.sessions.GetSession()

	switch routeguard.Decide(sess, target) {
	case routeguard.Allow:
		return sess, nil
	case routeguard.Interstitial:
		// Restore has already run by the time commands dispatch; seeing
		// this means a programming error, not a user one.
		return sess, errors.New("session still restoring, try again")
	case routeguard.RedirectLogin:
		return sess, errors.New("not logged in: run `productr login` first")
	case routeguard.RedirectHome:
		return sess, errors.New("already logged in: run `productr logout` first")
	default:
		return sess, errors.New("navigation refused")
	}
}

func (app *Application) printUsage() {
	fmt.Fprint(app.stdout, `productr - catalog backend client

Usage:
  productr login                 Login with email + OTP
  productr register              Create an account
  productr logout                Clear the stored session
  productr whoami                Show the current session
  productr items list            List catalog items
  productr items get <id>        Show one item
  productr items create          Create an item interactively
  productr items delete <id>     Delete an item
  productr items status <id> <Active|Inactive>
  productr users list            List users (admin)
  productr version               Print version
`)
}

// sessionExpiry renders the token expiry for display, when the backend
// issued an inspectable token.
func sessionExpiry(token string) string {
	if exp, ok := tokenx.ExpiresAt(token); ok {
		return exp.Local().Format(time.RFC1123)
	}
	return "unknown (opaque token)"
}
