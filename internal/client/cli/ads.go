package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/adconnect/internal/client/listings"
	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/client/payment"
)

var ErrLoginRequired = errors.New("please log in first")

// parseCriteria reads ads flags:
//
//	-text string    search in titles
//	-name string    filter by title
//	-location str   filter by location (brand)
//	-min float      lowest price, inclusive
//	-max float      highest price, inclusive
//
// Leftover positional words are joined into the search text.
func (a *App) parseCriteria(args []string) (listings.Criteria, error) {
	var c listings.Criteria

	fs := flag.NewFlagSet("ads", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&c.Text, "text", "", "search in titles")
	fs.StringVar(&c.Name, "name", "", "filter by title")
	fs.StringVar(&c.Location, "location", "", "filter by location")
	fs.Func("min", "lowest price", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		c.PriceMin = listings.Price(v)
		return nil
	})
	fs.Func("max", "highest price", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		c.PriceMax = listings.Price(v)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return listings.Criteria{}, err
	}
	if rest := fs.Args(); len(rest) > 0 && c.Text == "" {
		c.Text = strings.Join(rest, " ")
	}
	return c, nil
}

func (a *App) printListing(l models.Listing) {
	fmt.Fprintf(a.out, "%6d  %-40s %14s  %s\n", l.ID, l.Title, models.FormatNaira(l.Price), l.Location())
}

// Ads lists adverts matching the criteria given in args.
func (a *App) Ads(ctx context.Context, args []string) error {
	c, err := a.parseCriteria(args)
	if err != nil {
		return err
	}

	all, err := a.catalog.FetchListings(ctx)
	if err != nil {
		return err
	}

	found := listings.Filter(all, c)
	if len(found) == 0 {
		fmt.Fprintln(a.out, "No ads found")
		return nil
	}
	for _, l := range found {
		a.printListing(l)
	}
	fmt.Fprintf(a.out, "%d of %d ads\n", len(found), len(all))
	return nil
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ad id %q", args[0])
	}
	return id, nil
}

// Ad shows one advert in full.
func (a *App) Ad(ctx context.Context, args []string) error {
	id, err := parseID(args, "ad <id>")
	if err != nil {
		return err
	}

	l, err := a.catalog.FetchListing(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, l.Title)
	fmt.Fprintln(a.out, strings.Repeat("-", len([]rune(l.Title))))
	fmt.Fprintf(a.out, "Price:     %s\n", models.FormatNaira(l.Price))
	fmt.Fprintf(a.out, "Location:  %s\n", l.Location())
	if l.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n\n", l.Description)
	}
	if l.Thumbnail != "" {
		fmt.Fprintf(a.out, "Thumbnail: %s\n", l.Thumbnail)
	}
	for _, img := range l.Images {
		fmt.Fprintf(a.out, "Image:     %s\n", img)
	}
	return nil
}

// Buy hands the advert's price to the checkout widget. Needs a session for
// the customer email.
func (a *App) Buy(ctx context.Context, args []string) error {
	st := a.machine.State()
	if !st.LoggedIn() {
		return ErrLoginRequired
	}

	id, err := parseID(args, "buy <id>")
	if err != nil {
		return err
	}

	l, err := a.catalog.FetchListing(ctx, id)
	if err != nil {
		return err
	}

	return a.checkout.Open(ctx, payment.Request{
		AmountMinor: l.AmountMinor(),
		Currency:    a.config.Currency,
		Customer:    payment.Customer{Email: st.Session.User.Email},
		Title:       l.Title,
		OnSuccess: func(r payment.Receipt) {
			a.log.Info(ctx, "payment completed", "listing_id", l.ID, "reference", r.Reference)
			fmt.Fprintf(a.out, "Payment successful! Reference: %s\n", r.Reference)
		},
		OnCancel: func() {
			fmt.Fprintln(a.out, "Payment cancelled")
		},
	})
}

// Profile shows the current user and their own adverts.
func (a *App) Profile(ctx context.Context) error {
	st := a.machine.State()
	if !st.LoggedIn() {
		return ErrLoginRequired
	}
	a.setView(ViewProfile)

	u := st.Session.User
	fmt.Fprintf(a.out, "Email:  %s\nID:     %s\n", u.Email, u.ID)

	all, err := a.catalog.FetchListings(ctx)
	if err != nil {
		return err
	}
	own := listings.OwnedBy(all, u.ID)
	fmt.Fprintf(a.out, "My ads: %d\n", len(own))
	for _, l := range own {
		a.printListing(l)
	}
	return nil
}
