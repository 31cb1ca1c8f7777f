package models

import (
	"math"
	"strconv"
	"strings"
)

// DefaultLocation is shown for listings that carry no brand/location.
const DefaultLocation = "Nigeria"

// Listing is an advert as served by the listing provider. Listings are
// read-only on the client. Brand doubles as the advert's location.
type Listing struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	OwnerUserID string   `json:"userId,omitempty"`
}

// Location is the brand or DefaultLocation when the listing has none.
func (l Listing) Location() string {
	if l.Brand == "" {
		return DefaultLocation
	}
	return l.Brand
}

// AmountMinor converts Price to minor currency units (kobo for NGN).
func (l Listing) AmountMinor() int64 {
	return int64(math.Round(l.Price * 100))
}

// FormatNaira renders price with a ₦ sign and grouped thousands,
// e.g. 1549.99 -> "₦1,549.99", 3000 -> "₦3,000".
func FormatNaira(price float64) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}

	s := strconv.FormatFloat(price, 'f', -1, 64)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		// at most two decimals, like a price tag
		s = strconv.FormatFloat(math.Round(price*100)/100, 'f', 2, 64)
		whole, frac, _ = strings.Cut(s, ".")
		frac = strings.TrimRight(frac, "0")
		hasFrac = frac != ""
		if hasFrac && len(frac) == 1 {
			frac += "0"
		}
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("₦")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
