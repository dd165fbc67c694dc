package checkout

import (
	"context"
	"time"
)

// Request is the cart snapshot handed to a transport.
type Request struct {
	ID          string         `json:"checkout_id"`
	Items       map[string]int `json:"items"`
	RequestedAt time.Time      `json:"requested_at"`
}

// Result is the completion signal a transport reports back.
type Result struct {
	Success bool `json:"success"`
}

// Transport completes a checkout. A returned error means the checkout failed
// and its message is surfaced to the shopper; Success=false means it was
// declined without detail.
type Transport interface {
	Checkout(ctx context.Context, req Request) (Result, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (Result, error)

func (fn TransportFunc) Checkout(ctx context.Context, req Request) (Result, error) {
	return fn(ctx, req)
}
