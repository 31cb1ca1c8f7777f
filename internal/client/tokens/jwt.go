// Package tokens issues and checks the HS256 session tokens stored in a
// Session.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/client/storage"
	"github.com/dmitrijs2005/adconnect/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the registered claims plus the account email. Subject holds the
// account id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for u that expires after the issuer TTL.
func (i *Issuer) Issue(u models.User) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: u.Email,
	})

	return token.SignedString(i.secret)
}

// Parse validates signature and expiry. Expired tokens yield
// common.ErrTokenExpired, anything else wrong yields common.ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// LoadOrCreateSecret returns configured when set. Otherwise it returns the
// signing secret persisted under storage.KeySessionSecret, generating and
// storing one on first use so tokens survive restarts.
func LoadOrCreateSecret(ctx context.Context, kv storage.Store, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	var secret []byte
	err := kv.Update(ctx, storage.KeySessionSecret, func(current []byte) ([]byte, error) {
		if len(current) > 0 {
			secret = current
			return current, nil
		}
		s, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, err
		}
		secret = []byte(s)
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session secret: %w", err)
	}
	return secret, nil
}
