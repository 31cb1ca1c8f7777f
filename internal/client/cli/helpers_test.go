package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/authstate"
	"github.com/dmitrijs2005/adconnect/internal/client/config"
	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/client/payment"
	"github.com/dmitrijs2005/adconnect/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/adconnect/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/adconnect/internal/client/services"
	"github.com/dmitrijs2005/adconnect/internal/client/storage"
	"github.com/dmitrijs2005/adconnect/internal/client/tokens"
	"github.com/dmitrijs2005/adconnect/internal/common"
	"github.com/dmitrijs2005/adconnect/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// syncBuffer is written by redirect callbacks and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DataDir = config.MemoryDataDir
	c.RedirectDelay = 20 * time.Millisecond
	c.ResetRedirectDelay = 20 * time.Millisecond
	return c
}

// memoryAuth is the real auth service over an in-memory store.
func memoryAuth(t *testing.T) services.AuthService {
	t.Helper()
	kv := storage.NewMemoryStore()
	return services.NewAuthService(
		accounts.NewKVStore(kv),
		sessions.NewKVStore(kv),
		tokens.NewIssuer([]byte("test-secret-test-secret-test-sec"), time.Hour),
		services.NewLogNotifier(logging.Discard()),
		logging.Discard(),
	)
}

func newTestApp(t *testing.T, auth services.AuthService, cat *fakeCatalog) (*App, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	session, err := auth.CurrentSession(context.Background())
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	a := &App{
		config:      testConfig(),
		log:         logging.Discard(),
		authService: auth,
		machine:     authstate.New(session),
		catalog:     cat,
		checkout:    &fakeWidget{},
		redirect:    &redirector{},
		view:        ViewLanding,
		reader:      readerFromLines(),
		out:         out,
	}
	t.Cleanup(func() {
		a.redirect.cancel()
		a.machine.Wait()
	})
	return a, out
}

type fakeCatalog struct {
	mu       sync.Mutex
	listings []models.Listing
	err      error
	pingErr  error
	pings    int
}

func (f *fakeCatalog) FetchListings(context.Context) ([]models.Listing, error) {
	return f.listings, f.err
}

func (f *fakeCatalog) FetchListing(_ context.Context, id int64) (*models.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.listings {
		if f.listings[i].ID == id {
			return &f.listings[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeCatalog) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeCatalog) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

type fakeWidget struct {
	called  int
	req     payment.Request
	succeed bool
	err     error
}

func (f *fakeWidget) Open(_ context.Context, r payment.Request) error {
	f.called++
	f.req = r
	if f.err != nil {
		return f.err
	}
	if f.succeed {
		r.OnSuccess(payment.Receipt{Reference: "ref-1", AmountMinor: r.AmountMinor, Currency: r.Currency})
	} else {
		r.OnCancel()
	}
	return nil
}

// blockingAuth holds Login until release is closed.
type blockingAuth struct {
	services.AuthService
	started chan struct{}
	release chan struct{}
}

func (b *blockingAuth) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	close(b.started)
	<-b.release
	return b.AuthService.Login(ctx, email, password)
}
