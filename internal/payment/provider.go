// Package payment delegates checkout to an external provider. The core never
// sees card data; it submits a booking summary and gets back a reference or a
// provider message to show the customer.
package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item is one booked line as the provider sees it.
type Item struct {
	VariantID string `json:"variantId"`
	Title     string `json:"title"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unitPriceCents"`
}

// Contact is the paying customer.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Request is the checkout submission.
type Request struct {
	SessionID  string     `json:"sessionId"`
	LocationID string     `json:"locationId"`
	Items      []Item     `json:"items"`
	Customer   Contact    `json:"customer"`
	TotalCents int64      `json:"totalCents"`
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
}

// Result is the provider's answer. OK false with a Message is a normal
// decline, not an error; errors are reserved for transport failures.
type Result struct {
	OK        bool   `json:"ok"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Provider is the external checkout contract.
type Provider interface {
	Submit(ctx context.Context, req Request) (Result, error)
}

// Sandbox approves every well-formed submission and mints a booking
// reference locally. It stands in for a real provider in development and in
// tests.
type Sandbox struct{}

// NewSandbox returns the development provider.
func NewSandbox() *Sandbox {
	return &Sandbox{}
}

// Submit declines zero and negative totals and empty baskets; everything else
// is approved with a fresh reference.
func (s *Sandbox) Submit(_ context.Context, req Request) (Result, error) {
	if req.TotalCents <= 0 {
		return Result{OK: false, Message: "nothing to charge"}, nil
	}
	if len(req.Items) == 0 {
		return Result{OK: false, Message: "no items to book"}, nil
	}
	return Result{OK: true, Reference: newReference()}, nil
}

func newReference() string {
	id := strings.ToUpper(uuid.NewString())
	return "BK-" + id[:8]
}
