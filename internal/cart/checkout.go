package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-cart/internal/checkout"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

const (
	outcomeSuccess  = "success"
	outcomeDeclined = "declined"
	outcomeFailure  = "failure"
)

// Checkout moves the cart to LOADING, hands the transport the items as they
// were at that moment, and applies the outcome: READY with an empty cart on
// success, ERROR with items kept otherwise.
//
// Edits made while LOADING are applied as usual; a successful checkout still
// empties the whole cart, including lines added after the snapshot.
func (s *Store) Checkout(ctx context.Context) (Snapshot, error) {
	pending, err := s.dispatch(CheckoutPending{}, func(current State) error {
		if !current.CheckoutState.CanStartCheckout() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress").
				WithDetails(map[string]any{"checkout_state": current.CheckoutState.String()})
		}
		return nil
	})
	if err != nil {
		return pending, err
	}

	req := checkout.Request{
		ID:          uuid.NewString(),
		Items:       pending.Items,
		RequestedAt: time.Now().UTC(),
	}
	ctx = s.logg.WithFields(s.logg.WithCheckoutID(ctx, req.ID), map[string]any{
		"lines": len(req.Items),
	})
	s.logg.Info(ctx, "checkout.start")

	start := time.Now()
	result, err := s.callTransport(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		message := pkgerrors.Describe(err)
		snap := s.Dispatch(CheckoutRejected{Message: message})
		s.metrics.ObserveCheckout(outcomeFailure, elapsed)
		s.logg.Warn(s.logg.WithField(ctx, "error_message", message), "checkout.failed")
		return snap, pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "checkout failed").
			WithDetails(checkoutDetails(req.ID, snap))
	}

	snap := s.Dispatch(CheckoutFulfilled{Success: result.Success})
	if !result.Success {
		s.metrics.ObserveCheckout(outcomeDeclined, elapsed)
		s.logg.Warn(ctx, "checkout.declined")
		return snap, pkgerrors.New(pkgerrors.CodeCheckoutFailed, DeclinedMessage).
			WithDetails(checkoutDetails(req.ID, snap))
	}

	s.metrics.ObserveCheckout(outcomeSuccess, elapsed)
	s.logg.Info(s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds()), "checkout.complete")
	return snap, nil
}

// callTransport turns a transport panic into an error so the cart never
// stays LOADING.
func (s *Store) callTransport(ctx context.Context, req checkout.Request) (result checkout.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("checkout transport panic: %v", rec)
		}
	}()
	return s.transport.Checkout(ctx, req)
}

func checkoutDetails(checkoutID string, snap Snapshot) map[string]any {
	return map[string]any{
		"checkout_id":    checkoutID,
		"checkout_state": snap.CheckoutState.String(),
		"error_message":  snap.ErrorMessage,
	}
}

// IsCheckoutInProgress reports whether a checkout currently awaits its transport.
func (s *Store) IsCheckoutInProgress() bool {
	return s.Snapshot().CheckoutState == enums.CheckoutStateLoading
}
