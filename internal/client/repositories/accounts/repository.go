// Package accounts is the credential store: registered accounts keyed by
// normalized email, with salted password hashes.
package accounts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/cryptox"
)

// Repository looks up, creates and verifies accounts.
//
// FindByEmail and Verify return (nil, nil) when nothing matches; Verify does
// not distinguish an unknown email from a wrong password. Create fails with
// common.ErrDuplicateAccount when the normalized email is taken.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, email string, password []byte) (*models.Account, error)
	Verify(ctx context.Context, email string, password []byte) (*models.Account, error)
}

// dummyHash is checked against when the email is unknown, so Verify costs
// one argon2 run either way.
var dummyHash = sync.OnceValue(func() string {
	h, _ := cryptox.HashPassword([]byte("adconnect-placeholder"))
	return h
})

func verifyAccount(acc *models.Account, password []byte) (*models.Account, error) {
	if acc == nil {
		_, _ = cryptox.VerifyPassword(dummyHash(), password)
		return nil, nil
	}

	ok, err := cryptox.VerifyPassword(acc.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", acc.ID, err)
	}
	if !ok {
		return nil, nil
	}
	return acc, nil
}

func displayEmail(email string) string {
	return strings.TrimSpace(email)
}
