// Package services contains the AdConnect client application services.
// This file defines the authentication service: signup, login, logout,
// password reset requests and session restore.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/adconnect/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/adconnect/internal/client/tokens"
	"github.com/dmitrijs2005/adconnect/internal/common"
	"github.com/dmitrijs2005/adconnect/internal/logging"
)

// MinPasswordLength is the minimum number of characters accepted at signup.
const MinPasswordLength = 8

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Signup: validate, create the account, start a session.
//   - Login: verify credentials and start a session. Unknown email and wrong
//     password both yield common.ErrInvalidCredentials.
//   - Logout: clear the session; calling it without a session is fine.
//   - ForgotPassword: common.ErrEmailNotFound when no account matches,
//     otherwise hand the account to the Notifier.
//   - CurrentSession: the stored session if its token still verifies.
//
// Store failures come back wrapped in common.ErrInternal.
type AuthService interface {
	Signup(ctx context.Context, email string, password []byte) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	CurrentSession(ctx context.Context) (*models.Session, error)
}

// TokenIssuer is satisfied by *tokens.Issuer.
type TokenIssuer interface {
	Issue(u models.User) (string, error)
	Parse(token string) (*tokens.Claims, error)
}

type authService struct {
	accounts accounts.Repository
	sessions sessions.Repository
	tokens   TokenIssuer
	notifier Notifier
	log      logging.Logger

	// signups of one email are serialized around find+create
	emailLocks *keyedMutex
}

// NewAuthService wires the service to its stores, token issuer and notifier.
func NewAuthService(acc accounts.Repository, sess sessions.Repository, issuer TokenIssuer, notifier Notifier, log logging.Logger) AuthService {
	return &authService{
		accounts:   acc,
		sessions:   sess,
		tokens:     issuer,
		notifier:   notifier,
		log:        log.With("module", "auth"),
		emailLocks: newKeyedMutex(),
	}
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", common.ErrInternal, err)
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return common.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password []byte) error {
	if utf8.RuneCount(password) < MinPasswordLength {
		return common.ErrWeakPassword
	}
	return nil
}

func (s *authService) Signup(ctx context.Context, email string, password []byte) (*models.Session, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	unlock := s.emailLocks.Lock(common.NormalizeEmail(email))
	defer unlock()

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, common.ErrDuplicateAccount
	}

	acc, err := s.accounts.Create(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, internal(err)
	}

	session, err := s.startSession(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "account created", "user_id", acc.ID)
	return session, nil
}

func (s *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	acc, err := s.accounts.Verify(ctx, email, password)
	if err != nil {
		return nil, internal(err)
	}
	if acc == nil {
		s.log.Debug(ctx, "login rejected")
		return nil, common.ErrInvalidCredentials
	}

	session, err := s.startSession(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "logged in", "user_id", acc.ID)
	return session, nil
}

func (s *authService) startSession(ctx context.Context, acc *models.Account) (*models.Session, error) {
	token, err := s.tokens.Issue(acc.User())
	if err != nil {
		return nil, internal(fmt.Errorf("issue token: %w", err))
	}

	session := &models.Session{User: acc.User(), Token: token}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, internal(err)
	}
	return session, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return internal(err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return internal(err)
	}
	if acc == nil {
		return common.ErrEmailNotFound
	}

	if err := s.notifier.SendPasswordReset(ctx, acc); err != nil {
		return internal(fmt.Errorf("password reset: %w", err))
	}
	return nil
}

// CurrentSession restores the stored session. A session whose token no
// longer verifies (expired, signed with another secret, or issued for a
// different user) is cleared and reported as absent.
func (s *authService) CurrentSession(ctx context.Context) (*models.Session, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if session == nil {
		return nil, nil
	}

	claims, err := s.tokens.Parse(session.Token)
	if err == nil && claims.Subject != session.User.ID {
		err = common.ErrInvalidToken
	}
	if err != nil {
		s.log.Warn(ctx, "dropping stored session", "user_id", session.User.ID, "reason", err.Error())
		if err := s.sessions.Clear(ctx); err != nil {
			return nil, internal(err)
		}
		return nil, nil
	}

	return session, nil
}
