package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// ---- getStatus ----

func TestGetStatus_Empty(t *testing.T) {
	a := &App{}
	got := a.getStatus()
	if got != "" {
		t.Fatalf("want empty status, got %q", got)
	}
}

func TestGetStatus_ViewAndMode(t *testing.T) {
	a := &App{view: ViewLanding, Mode: ModeOffline}
	got := a.getStatus()
	want := "(landing offline)"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestGetStatus_WithUser(t *testing.T) {
	auth := memoryAuth(t)
	_, err := auth.Signup(context.Background(), "alice@example.org", []byte("password1"))
	require.NoError(t, err)

	a, _ := newTestApp(t, auth, &fakeCatalog{})
	a.setView(ViewDashboard)
	a.setMode(ModeOnline)

	want := "(alice@example.org dashboard online)"
	if got := a.getStatus(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

// ---- Root (smoke) ----

func TestRoot_HelpThenQuit(t *testing.T) {
	capturePrintln(t)

	a, out := newTestApp(t, memoryAuth(t), &fakeCatalog{})
	a.config.OnlineCheckInterval = 0
	a.reader = readerFromLines("help", "quit")

	a.Root(context.Background())

	require.Contains(t, out.String(), "Welcome to AdConnect")
}
