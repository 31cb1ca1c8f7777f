package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/client/storage"
	"github.com/dmitrijs2005/adconnect/internal/common"
	"github.com/dmitrijs2005/adconnect/internal/cryptox"
	"github.com/google/uuid"
)

// KVStore keeps every account as one JSON array under storage.KeyUsers.
type KVStore struct {
	kv    storage.Store
	now   func() time.Time
	newID func() string
}

func NewKVStore(kv storage.Store) *KVStore {
	return &KVStore{kv: kv, now: time.Now, newID: uuid.NewString}
}

func decodeAccounts(b []byte) ([]models.Account, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var accounts []models.Account
	if err := json.Unmarshal(b, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", storage.KeyUsers, err)
	}
	return accounts, nil
}

func findAccount(accounts []models.Account, email string) *models.Account {
	key := common.NormalizeEmail(email)
	for i := range accounts {
		if common.NormalizeEmail(accounts[i].Email) == key {
			acc := accounts[i]
			return &acc
		}
	}
	return nil
}

func (s *KVStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	b, err := s.kv.Get(ctx, storage.KeyUsers)
	if err != nil {
		return nil, err
	}
	accounts, err := decodeAccounts(b)
	if err != nil {
		return nil, err
	}
	return findAccount(accounts, email), nil
}

func (s *KVStore) Create(ctx context.Context, email string, password []byte) (*models.Account, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	acc := models.Account{
		ID:           s.newID(),
		Email:        displayEmail(email),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	err = s.kv.Update(ctx, storage.KeyUsers, func(current []byte) ([]byte, error) {
		accounts, err := decodeAccounts(current)
		if err != nil {
			return nil, err
		}
		if findAccount(accounts, email) != nil {
			return nil, common.ErrDuplicateAccount
		}
		return json.Marshal(append(accounts, acc))
	})
	if err != nil {
		return nil, err
	}

	return &acc, nil
}

func (s *KVStore) Verify(ctx context.Context, email string, password []byte) (*models.Account, error) {
	acc, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return verifyAccount(acc, password)
}
