package cli

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/authstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestSignup_SuccessRedirectsToDashboard(t *testing.T) {
	a, out := newTestApp(t, memoryAuth(t), &fakeCatalog{})
	a.config.RedirectDelay = 300 * time.Millisecond
	stubInputs(t, "Alice@Example.org", []byte("secret123"))

	require.NoError(t, a.Signup(context.Background()))

	assert.Contains(t, out.String(), "Signup successful!")
	assert.Equal(t, ViewSignup, a.currentView(), "redirect is delayed")
	assert.Equal(t, authstate.Succeeded, a.machine.State().Phase)
	assert.True(t, a.isLoggedIn())

	require.Eventually(t, func() bool { return a.currentView() == ViewDashboard }, waitFor, tick)
	require.Eventually(t, func() bool { return a.machine.State().Phase == authstate.Idle }, waitFor, tick)
	assert.True(t, a.isLoggedIn(), "reset keeps the session")
}

func TestSignup_WeakPassword(t *testing.T) {
	a, out := newTestApp(t, memoryAuth(t), &fakeCatalog{})
	stubInputs(t, "bob@example.org", []byte("short"))

	err := a.Signup(context.Background())
	require.Error(t, err)
	assert.Equal(t, "password must be at least 8 characters", err.Error())
	assert.Equal(t, authstate.Failed, a.machine.State().Phase)
	assert.NotContains(t, out.String(), "successful")
	assert.False(t, a.redirect.pending())
}

func TestLogin_WrongPasswordAndUnknownEmailLookTheSame(t *testing.T) {
	auth := memoryAuth(t)
	_, err := auth.Signup(context.Background(), "carol@example.org", []byte("password1"))
	require.NoError(t, err)
	require.NoError(t, auth.Logout(context.Background()))

	a, _ := newTestApp(t, auth, &fakeCatalog{})

	stubInputs(t, "carol@example.org", []byte("password2"))
	errWrong := a.Login(context.Background())
	require.Error(t, errWrong)

	stubInputs(t, "nobody@example.org", []byte("password1"))
	errUnknown := a.Login(context.Background())
	require.Error(t, errUnknown)

	assert.Equal(t, errWrong.Error(), errUnknown.Error())
	assert.Equal(t, "wrong email or password", errUnknown.Error())
	assert.False(t, a.isLoggedIn())
}

func TestLogin_SecondDispatchWhilePendingIsRejected(t *testing.T) {
	base := memoryAuth(t)
	_, err := base.Signup(context.Background(), "dan@example.org", []byte("password1"))
	require.NoError(t, err)

	auth := &blockingAuth{AuthService: base, started: make(chan struct{}), release: make(chan struct{})}
	a, _ := newTestApp(t, auth, &fakeCatalog{})
	stubInputs(t, "dan@example.org", []byte("password1"))

	done := make(chan error, 1)
	go func() { done <- a.Login(context.Background()) }()
	<-auth.started

	require.ErrorIs(t, a.Login(context.Background()), ErrOperationPending)
	assert.Equal(t, authstate.Pending, a.machine.State().Phase)

	close(auth.release)
	require.NoError(t, <-done)
}

func TestLogout(t *testing.T) {
	auth := memoryAuth(t)
	_, err := auth.Signup(context.Background(), "erin@example.org", []byte("password1"))
	require.NoError(t, err)

	a, out := newTestApp(t, auth, &fakeCatalog{})
	a.setView(ViewDashboard)
	require.True(t, a.isLoggedIn())

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, ViewLanding, a.currentView())
	assert.Equal(t, authstate.Idle, a.machine.State().Phase)
	assert.Contains(t, out.String(), "Logged out")

	// повторный logout не ошибка
	require.NoError(t, a.Logout(context.Background()))

	s, err := auth.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestForgotPassword(t *testing.T) {
	auth := memoryAuth(t)
	_, err := auth.Signup(context.Background(), "fay@example.org", []byte("password1"))
	require.NoError(t, err)
	a, out := newTestApp(t, auth, &fakeCatalog{})

	t.Run("unknown email", func(t *testing.T) {
		stubInputs(t, "ghost@example.org", nil)
		err := a.ForgotPassword(context.Background())
		require.Error(t, err)
		assert.Equal(t, "email not found", err.Error())
		assert.Equal(t, ViewForgot, a.currentView())
	})

	t.Run("known email redirects to login", func(t *testing.T) {
		stubInputs(t, "FAY@example.org", nil)
		require.NoError(t, a.ForgotPassword(context.Background()))
		assert.Contains(t, out.String(), "Password reset link sent")
		require.Eventually(t, func() bool { return a.currentView() == ViewLogin }, waitFor, tick)
	})
}

func TestRedirect_CancelledOnTeardown(t *testing.T) {
	a, _ := newTestApp(t, memoryAuth(t), &fakeCatalog{})
	a.config.RedirectDelay = time.Hour
	stubInputs(t, "gus@example.org", []byte("password1"))

	require.NoError(t, a.Signup(context.Background()))
	require.True(t, a.redirect.pending())

	a.redirect.cancel()
	assert.False(t, a.redirect.pending())
	assert.Equal(t, authstate.Succeeded, a.machine.State().Phase)
}
