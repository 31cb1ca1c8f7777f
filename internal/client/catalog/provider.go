// Package catalog fetches adverts from the remote listing provider and
// caches the last good copy for offline browsing.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/common"
	"github.com/dmitrijs2005/adconnect/internal/netx"
)

// Provider is the read-only listing source.
//
// Errors wrap common.ErrListingFetch, and additionally common.ErrUnavailable
// when the provider could not be reached or common.ErrNotFound for an
// unknown id.
type Provider interface {
	FetchListings(ctx context.Context) ([]models.Listing, error)
	FetchListing(ctx context.Context, id int64) (*models.Listing, error)
	Ping(ctx context.Context) error
}

// productPage is the envelope returned by GET /products.
type productPage struct {
	Products []models.Listing `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// HTTPProvider talks to a dummyjson-style product API.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	// page size per request; the provider caps it, so FetchListings pages
	pageSize int
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		pageSize: 100,
	}
}

func fetchError(ctx context.Context, op string, err error) error {
	var se *netx.StatusError
	var urlErr *url.Error
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %s: %w", common.ErrListingFetch, op, err)
	case errors.As(err, &se) && se.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %s: %w", common.ErrListingFetch, op, common.ErrNotFound)
	case errors.As(err, &se):
		return fmt.Errorf("%w: %s: %w", common.ErrListingFetch, op, err)
	case errors.As(err, &urlErr):
		return fmt.Errorf("%w: %s: %w: %w", common.ErrListingFetch, op, common.ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %s: %w", common.ErrListingFetch, op, err)
	}
}

func (p *HTTPProvider) pageURL(skip int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.pageSize))
	q.Set("skip", strconv.Itoa(skip))
	return p.baseURL + "/products?" + q.Encode()
}

// FetchListings walks every page of the catalog.
func (p *HTTPProvider) FetchListings(ctx context.Context) ([]models.Listing, error) {
	var all []models.Listing
	skip := 0
	for {
		var page productPage
		if err := netx.GetJSON(ctx, p.client, p.pageURL(skip), &page); err != nil {
			return nil, fetchError(ctx, "list", err)
		}
		all = append(all, page.Products...)
		skip += len(page.Products)

		if len(page.Products) == 0 || skip >= page.Total {
			break
		}
	}
	if all == nil {
		all = []models.Listing{}
	}
	return all, nil
}

func (p *HTTPProvider) FetchListing(ctx context.Context, id int64) (*models.Listing, error) {
	var l models.Listing
	u := p.baseURL + "/products/" + strconv.FormatInt(id, 10)
	if err := netx.GetJSON(ctx, p.client, u, &l); err != nil {
		return nil, fetchError(ctx, "get "+strconv.FormatInt(id, 10), err)
	}
	return &l, nil
}

// Ping asks for a single product, which is the cheapest request the
// provider serves.
func (p *HTTPProvider) Ping(ctx context.Context) error {
	var page productPage
	u := p.baseURL + "/products?limit=1&select=id"
	if err := netx.GetJSON(ctx, p.client, u, &page); err != nil {
		return fetchError(ctx, "ping", err)
	}
	return nil
}
