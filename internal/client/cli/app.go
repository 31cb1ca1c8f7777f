package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/authstate"
	"github.com/dmitrijs2005/adconnect/internal/client/catalog"
	"github.com/dmitrijs2005/adconnect/internal/client/config"
	"github.com/dmitrijs2005/adconnect/internal/client/payment"
	"github.com/dmitrijs2005/adconnect/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/adconnect/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/adconnect/internal/client/services"
	"github.com/dmitrijs2005/adconnect/internal/client/storage"
	"github.com/dmitrijs2005/adconnect/internal/client/tokens"
	"github.com/dmitrijs2005/adconnect/internal/filex"
	"github.com/dmitrijs2005/adconnect/internal/logging"
)

// dbFileName is the local store inside Config.DataDir.
const dbFileName = "adconnect.db"

// pingTimeout bounds a single connectivity probe.
const pingTimeout = 3 * time.Second

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// View is the screen the user is on; it only drives the prompt and
// redirects.
type View string

const (
	ViewLanding   View = "landing"
	ViewSignup    View = "signup"
	ViewLogin     View = "login"
	ViewForgot    View = "forgot-password"
	ViewDashboard View = "dashboard"
	ViewProfile   View = "profile"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	authService services.AuthService
	machine     *authstate.Machine
	catalog     catalog.Provider
	checkout    payment.Widget
	redirect    *redirector

	mu   sync.Mutex
	Mode Mode
	view View

	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// openStore returns the local key/value store: SQLite under DataDir, or an
// in-memory store for config.MemoryDataDir.
func openStore(ctx context.Context, c *config.Config) (storage.Store, func() error, error) {
	if c.DataDir == config.MemoryDataDir {
		return storage.NewMemoryStore(), func() error { return nil }, nil
	}

	dir, err := filex.EnsureDataDir(c.DataDir)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.OpenSQLite(ctx, filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	return storage.NewSQLiteStore(db), db.Close, nil
}

// openAccounts picks PostgreSQL when AccountsDSN is set, otherwise keeps
// accounts in the local store.
func openAccounts(ctx context.Context, c *config.Config, kv storage.Store) (accounts.Repository, func() error, error) {
	if c.AccountsDSN == "" {
		return accounts.NewKVStore(kv), func() error { return nil }, nil
	}
	db, err := accounts.OpenPostgres(ctx, c.AccountsDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to accounts database: %w", err)
	}
	return accounts.NewPostgresStore(db), db.Close, nil
}

// NewApp wires storage, services and the auth state machine from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)
	return newApp(ctx, c, log, bufio.NewReader(os.Stdin), os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, reader *bufio.Reader, out io.Writer) (*App, error) {
	a := &App{config: c, log: log, reader: reader, out: out, view: ViewLanding, redirect: &redirector{}}

	kv, closeKV, err := openStore(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening local store", "error", err.Error())
		return nil, err
	}
	a.closers = append(a.closers, closeKV)

	acc, closeAcc, err := openAccounts(ctx, c, kv)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeAcc)

	secret, err := tokens.LoadOrCreateSecret(ctx, kv, c.SecretKey)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.authService = services.NewAuthService(
		acc,
		sessions.NewKVStore(kv),
		tokens.NewIssuer(secret, c.SessionTTL),
		services.NewLogNotifier(log),
		log,
	)

	current, err := a.authService.CurrentSession(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.machine = authstate.New(current)
	if current != nil {
		a.view = ViewDashboard
	}

	a.catalog = catalog.NewCachedProvider(catalog.NewHTTPProvider(c.CatalogURL, c.CatalogTimeout), kv, log)
	a.checkout = payment.NewHostedCheckout(c.CheckoutURL, out, func(ctx context.Context, prompt string) (bool, error) {
		return getConfirm(a.reader, prompt, a.out)
	})

	return a, nil
}

// Close releases the stores. Safe to call more than once.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) setView(v View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = v
}

func (a *App) currentView() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Run starts the connectivity watcher and the REPL, and tears both down when
// the REPL exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.redirect.cancel()
		a.machine.Wait()
		if err := a.Close(); err != nil {
			a.log.Error(context.Background(), "error closing stores", "error", err.Error())
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.machine.State().LoggedIn()
}

// StartOnlineStatusWatcher pings the catalog every interval and flips Mode
// between online and offline. It returns when ctx is done. A non-positive
// interval disables probing.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.setMode(ModeDisabled)
		return
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.catalog.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}
