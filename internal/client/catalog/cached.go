package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/client/storage"
	"github.com/dmitrijs2005/adconnect/internal/common"
	"github.com/dmitrijs2005/adconnect/internal/logging"
)

// CachedProvider keeps the last successful FetchListings result under
// storage.KeyListings and serves it while the remote is unreachable.
type CachedProvider struct {
	remote Provider
	kv     storage.Store
	log    logging.Logger
}

func NewCachedProvider(remote Provider, kv storage.Store, log logging.Logger) *CachedProvider {
	return &CachedProvider{remote: remote, kv: kv, log: log.With("module", "catalog")}
}

func (c *CachedProvider) cached(ctx context.Context) ([]models.Listing, bool, error) {
	b, err := c.kv.Get(ctx, storage.KeyListings)
	if err != nil || b == nil {
		return nil, false, err
	}
	var ls []models.Listing
	if err := json.Unmarshal(b, &ls); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached listings: %w", err)
	}
	return ls, true, nil
}

func (c *CachedProvider) FetchListings(ctx context.Context) ([]models.Listing, error) {
	ls, err := c.remote.FetchListings(ctx)
	if err == nil {
		if b, mErr := json.Marshal(ls); mErr == nil {
			if sErr := c.kv.Set(ctx, storage.KeyListings, b); sErr != nil {
				c.log.Warn(ctx, "failed to cache listings", "error", sErr.Error())
			}
		}
		return ls, nil
	}

	if !errors.Is(err, common.ErrUnavailable) {
		return nil, err
	}

	cached, ok, cErr := c.cached(ctx)
	if cErr != nil {
		c.log.Warn(ctx, "listing cache unreadable", "error", cErr.Error())
	}
	if !ok {
		return nil, err
	}
	c.log.Info(ctx, "serving cached listings", "count", len(cached))
	return cached, nil
}

func (c *CachedProvider) FetchListing(ctx context.Context, id int64) (*models.Listing, error) {
	l, err := c.remote.FetchListing(ctx, id)
	if err == nil || !errors.Is(err, common.ErrUnavailable) {
		return l, err
	}

	cached, ok, _ := c.cached(ctx)
	if ok {
		for i := range cached {
			if cached[i].ID == id {
				return &cached[i], nil
			}
		}
	}
	return nil, err
}

func (c *CachedProvider) Ping(ctx context.Context) error {
	return c.remote.Ping(ctx)
}
