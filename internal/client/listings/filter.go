// Package listings filters the advert catalog for the browse and profile
// views. Everything here is pure and safe for concurrent use.
package listings

import (
	"strings"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
)

// Criteria narrows a listing sequence. Zero values impose no constraint.
//
// Text is the free-text search bar and Name the name filter; both match the
// title. Location matches the brand, so a listing without a brand never
// matches a non-empty Location. Price bounds are inclusive.
type Criteria struct {
	Text     string
	Name     string
	Location string
	PriceMin *float64
	PriceMax *float64
}

// IsEmpty reports whether c filters nothing out.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == "" &&
		strings.TrimSpace(c.Name) == "" &&
		strings.TrimSpace(c.Location) == "" &&
		c.PriceMin == nil && c.PriceMax == nil
}

func containsFold(s, substr string) bool {
	substr = strings.TrimSpace(substr)
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Match reports whether l satisfies every constraint in c.
func (c Criteria) Match(l models.Listing) bool {
	if !containsFold(l.Title, c.Text) || !containsFold(l.Title, c.Name) {
		return false
	}
	if !containsFold(l.Brand, c.Location) {
		return false
	}
	if c.PriceMin != nil && l.Price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && l.Price > *c.PriceMax {
		return false
	}
	return true
}

// Filter returns the listings matching c in their original order. The input
// slice is not modified.
func Filter(listings []models.Listing, c Criteria) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if c.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// OwnedBy returns the listings posted by userID. An empty userID owns nothing.
func OwnedBy(listings []models.Listing, userID string) []models.Listing {
	out := make([]models.Listing, 0)
	if userID == "" {
		return out
	}
	for _, l := range listings {
		if l.OwnerUserID == userID {
			out = append(out, l)
		}
	}
	return out
}

// Price is a convenience for building Criteria bounds.
func Price(v float64) *float64 {
	return &v
}
