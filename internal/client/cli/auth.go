package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/authstate"
	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/common"
)

// getSimpleText, getPassword and getConfirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirm = GetConfirm

// redirectTimeout bounds the session check done by a redirect.
const redirectTimeout = 5 * time.Second

// ErrOperationPending is returned when an auth command is issued while
// another one is still running.
var ErrOperationPending = errors.New("another operation is in progress")

// ErrOperationReset is returned when the operation was reset before it
// resolved.
var ErrOperationReset = errors.New("operation was interrupted")

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// credentialOp gives the operation its own copy of password, wiped when the
// call returns, so the caller can wipe its slice even if it stops waiting.
func credentialOp(name string, password []byte, call func(ctx context.Context, pw []byte) (*models.Session, error)) authstate.Operation {
	pw := bytes.Clone(password)
	return authstate.Operation{
		Name: name,
		Run: func(ctx context.Context) (*models.Session, error) {
			defer common.WipeByteArray(pw)
			return call(ctx, pw)
		},
	}
}

// runAuth dispatches op on the state machine and waits for it to resolve.
// On success it prints toast and schedules the dashboard redirect.
func (a *App) runAuth(ctx context.Context, op authstate.Operation, toast string) error {
	// a redirect left over from the previous success would Reset the new
	// operation away
	a.redirect.cancel()

	if !a.machine.Dispatch(ctx, op) {
		return ErrOperationPending
	}

	st, err := a.machine.Await(ctx)
	if err != nil {
		return err
	}
	switch st.Phase {
	case authstate.Failed:
		return errors.New(st.Error)
	case authstate.Idle:
		return ErrOperationReset
	}

	fmt.Fprintln(a.out, toast)
	a.redirect.schedule(a.config.RedirectDelay, a.completeAuthRedirect)
	return nil
}

// completeAuthRedirect confirms the session, moves to the dashboard and
// returns the machine to Idle.
func (a *App) completeAuthRedirect() {
	ctx, cancel := context.WithTimeout(context.Background(), redirectTimeout)
	defer cancel()

	session, err := a.authService.CurrentSession(ctx)
	switch {
	case err != nil:
		a.log.Error(ctx, "session check failed", "error", err.Error())
		a.setView(ViewLogin)
	case session == nil:
		a.setView(ViewLogin)
	default:
		a.setView(ViewDashboard)
	}
	a.machine.Reset()
}

// Signup prompts for an email and password and creates an account.
//
// The password byte slice is wiped once the operation has finished.
func (a *App) Signup(ctx context.Context) error {
	a.setView(ViewSignup)

	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	op := credentialOp("signup", password, func(ctx context.Context, pw []byte) (*models.Session, error) {
		return a.authService.Signup(ctx, email, pw)
	})
	return a.runAuth(ctx, op, "Signup successful! Redirecting to your dashboard...")
}

// Login prompts for credentials and authenticates against the credential
// store. Unknown email and wrong password produce the same message.
func (a *App) Login(ctx context.Context) error {
	a.setView(ViewLogin)

	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	op := credentialOp("login", password, func(ctx context.Context, pw []byte) (*models.Session, error) {
		return a.authService.Login(ctx, email, pw)
	})
	return a.runAuth(ctx, op, "Login successful! Redirecting to your dashboard...")
}

// Logout clears the session and returns to the landing view.
func (a *App) Logout(ctx context.Context) error {
	op := authstate.Operation{
		Name: "logout",
		Run: func(ctx context.Context) (*models.Session, error) {
			return nil, a.authService.Logout(ctx)
		},
	}
	a.redirect.cancel()

	if !a.machine.Dispatch(ctx, op) {
		return ErrOperationPending
	}
	st, err := a.machine.Await(ctx)
	if err != nil {
		return err
	}
	if st.Phase == authstate.Failed {
		return errors.New(st.Error)
	}

	a.machine.Reset()
	a.setView(ViewLanding)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// ForgotPassword asks for an email and requests a reset link. On success the
// user is sent back to the login view after ResetRedirectDelay.
func (a *App) ForgotPassword(ctx context.Context) error {
	a.setView(ViewForgot)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password reset link sent")
	a.redirect.schedule(a.config.ResetRedirectDelay, func() { a.setView(ViewLogin) })
	return nil
}
