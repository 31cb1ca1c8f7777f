// Package payment hands a purchase off to a hosted checkout page.
//
// The client never sees card data. It builds the checkout link, shows it to
// the user and reports back through exactly one of the request callbacks.
package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid payment request")
)

// Customer identifies the payer on the checkout page.
type Customer struct {
	Email string
	Name  string
}

// Receipt is passed to OnSuccess.
type Receipt struct {
	Reference   string
	AmountMinor int64
	Currency    string
	CheckoutURL string
}

// Request describes a single purchase. AmountMinor is in the smallest
// currency unit (kobo for NGN).
type Request struct {
	AmountMinor int64
	Currency    string
	Customer    Customer
	// Reference is generated when empty.
	Reference string
	Title     string
	OnSuccess func(Receipt)
	OnCancel  func()
}

func (r *Request) validate() error {
	switch {
	case r.AmountMinor <= 0:
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	case strings.TrimSpace(r.Currency) == "":
		return fmt.Errorf("%w: currency is required", ErrInvalidRequest)
	case strings.TrimSpace(r.Customer.Email) == "":
		return fmt.Errorf("%w: customer email is required", ErrInvalidRequest)
	}
	return nil
}

// Widget opens a checkout for a request.
type Widget interface {
	Open(ctx context.Context, r Request) error
}

// ConfirmFunc asks the user whether the checkout was completed.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// HostedCheckout prints a link to a hosted payment page and waits for the
// user to confirm the outcome.
type HostedCheckout struct {
	baseURL string
	out     io.Writer
	confirm ConfirmFunc
	newRef  func() string
}

func NewHostedCheckout(baseURL string, out io.Writer, confirm ConfirmFunc) *HostedCheckout {
	return &HostedCheckout{
		baseURL: baseURL,
		out:     out,
		confirm: confirm,
		newRef:  func() string { return "adc-" + uuid.NewString() },
	}
}

// CheckoutURL returns the hosted page link for r.
func (h *HostedCheckout) CheckoutURL(r Request) (string, error) {
	u, err := url.Parse(h.baseURL)
	if err != nil {
		return "", fmt.Errorf("bad checkout url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("bad checkout url: unsupported scheme %q", u.Scheme)
	}

	q := u.Query()
	q.Set("amount", formatMinor(r.AmountMinor))
	q.Set("currency", strings.ToUpper(r.Currency))
	q.Set("email", r.Customer.Email)
	if r.Customer.Name != "" {
		q.Set("name", r.Customer.Name)
	}
	q.Set("tx_ref", r.Reference)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// formatMinor renders minor units as a decimal major amount, 154999 -> "1549.99".
func formatMinor(v int64) string {
	s := strconv.FormatInt(v/100, 10)
	return fmt.Sprintf("%s.%02d", s, v%100)
}

// Open shows the checkout link and calls OnSuccess or OnCancel once. A
// validation or link error returns before any callback fires; a confirm
// error or cancelled context counts as cancellation.
func (h *HostedCheckout) Open(ctx context.Context, r Request) error {
	if err := r.validate(); err != nil {
		return err
	}
	if r.Reference == "" {
		r.Reference = h.newRef()
	}

	link, err := h.CheckoutURL(r)
	if err != nil {
		return err
	}

	title := r.Title
	if title == "" {
		title = "your order"
	}
	fmt.Fprintf(h.out, "Pay for %s at:\n  %s\nReference: %s\n", title, link, r.Reference)

	ok, err := h.confirm(ctx, "Payment completed? [y/N]: ")
	if err != nil || ctx.Err() != nil || !ok {
		if r.OnCancel != nil {
			r.OnCancel()
		}
		if err != nil {
			return err
		}
		return ctx.Err()
	}

	if r.OnSuccess != nil {
		r.OnSuccess(Receipt{
			Reference:   r.Reference,
			AmountMinor: r.AmountMinor,
			Currency:    strings.ToUpper(r.Currency),
			CheckoutURL: link,
		})
	}
	return nil
}
