// Package sessions persists the single current Session.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/client/storage"
)

// Repository stores at most one Session. Save overwrites (last write wins),
// Current returns (nil, nil) when none is stored and Clear is idempotent.
type Repository interface {
	Save(ctx context.Context, s *models.Session) error
	Current(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// KVStore keeps the session as a JSON object under storage.KeyAuth.
type KVStore struct {
	kv storage.Store
}

func NewKVStore(kv storage.Store) *KVStore {
	return &KVStore{kv: kv}
}

func (r *KVStore) Save(ctx context.Context, s *models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return r.kv.Set(ctx, storage.KeyAuth, b)
}

func (r *KVStore) Current(ctx context.Context) (*models.Session, error) {
	b, err := r.kv.Get(ctx, storage.KeyAuth)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}

	s := &models.Session{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return s, nil
}

func (r *KVStore) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, storage.KeyAuth)
}
