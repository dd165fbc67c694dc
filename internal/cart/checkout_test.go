package cart

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-cart/internal/checkout"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

// blockingTransport parks every checkout until release receives a result.
type blockingTransport struct {
	started chan checkout.Request
	release chan checkout.Result
}

func newBlockingTransport() *blockingTransport {
	return &blockingTransport{
		started: make(chan checkout.Request, 1),
		release: make(chan checkout.Result, 1),
	}
}

func (b *blockingTransport) Checkout(ctx context.Context, req checkout.Request) (checkout.Result, error) {
	b.started <- req
	select {
	case res := <-b.release:
		return res, nil
	case <-ctx.Done():
		return checkout.Result{}, ctx.Err()
	}
}

func waitStarted(t *testing.T, b *blockingTransport) checkout.Request {
	t.Helper()
	select {
	case req := <-b.started:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("transport was never called")
		return checkout.Request{}
	}
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	t.Parallel()

	var got checkout.Request
	store := newTestStore(t, checkout.TransportFunc(func(_ context.Context, req checkout.Request) (checkout.Result, error) {
		got = req
		return checkout.Result{Success: true}, nil
	}), &State{Items: map[string]int{"1": 3}, CheckoutState: enums.CheckoutStateError, ErrorMessage: "old"})

	var states []enums.CheckoutState
	store.Subscribe(func(s Snapshot) { states = append(states, s.CheckoutState) })

	snap, err := store.Checkout(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []enums.CheckoutState{enums.CheckoutStateLoading, enums.CheckoutStateReady}, states)
	assert.Equal(t, enums.CheckoutStateReady, snap.CheckoutState)
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.ErrorMessage)

	assert.Equal(t, map[string]int{"1": 3}, got.Items)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.RequestedAt.IsZero())
}

func TestCheckoutTransportErrorKeepsItems(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, checkout.TransportFunc(func(context.Context, checkout.Request) (checkout.Result, error) {
		return checkout.Result{}, errors.New("Network error")
	}), &State{Items: map[string]int{"1": 2}})

	snap, err := store.Checkout(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCheckoutFailed))

	assert.Equal(t, enums.CheckoutStateError, snap.CheckoutState)
	assert.Equal(t, "Network error", snap.ErrorMessage)
	assert.Equal(t, map[string]int{"1": 2}, snap.Items)
	assert.Equal(t, snap.State, store.Snapshot().State)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "ERROR", typed.Details().(map[string]any)["checkout_state"])
}

func TestCheckoutDeclinedKeepsItems(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, checkout.TransportFunc(func(context.Context, checkout.Request) (checkout.Result, error) {
		return checkout.Result{Success: false}, nil
	}), &State{Items: map[string]int{"1": 2}})

	snap, err := store.Checkout(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCheckoutFailed))
	assert.Equal(t, enums.CheckoutStateError, snap.CheckoutState)
	assert.Equal(t, DeclinedMessage, snap.ErrorMessage)
	assert.Equal(t, map[string]int{"1": 2}, snap.Items)
}

func TestCheckoutRetryAfterError(t *testing.T) {
	t.Parallel()

	calls := 0
	store := newTestStore(t, checkout.TransportFunc(func(context.Context, checkout.Request) (checkout.Result, error) {
		calls++
		if calls == 1 {
			return checkout.Result{}, errors.New("Network error")
		}
		return checkout.Result{Success: true}, nil
	}), &State{Items: map[string]int{"1": 1}})

	_, err := store.Checkout(context.Background())
	require.Error(t, err)

	snap, err := store.Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateReady, snap.CheckoutState)
	assert.Empty(t, snap.ErrorMessage)
	assert.Equal(t, 2, calls)
}

func TestCheckoutWhileLoadingConflicts(t *testing.T) {
	t.Parallel()

	transport := newBlockingTransport()
	store := newTestStore(t, transport, &State{Items: map[string]int{"1": 1}})

	done := make(chan error, 1)
	go func() {
		_, err := store.Checkout(context.Background())
		done <- err
	}()
	waitStarted(t, transport)

	assert.True(t, store.IsCheckoutInProgress())
	snap, err := store.Checkout(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Equal(t, enums.CheckoutStateLoading, snap.CheckoutState)

	transport.release <- checkout.Result{Success: true}
	require.NoError(t, <-done)
	assert.False(t, store.IsCheckoutInProgress())
}

func TestCheckoutUsesItemsAtInitiation(t *testing.T) {
	t.Parallel()

	transport := newBlockingTransport()
	store := newTestStore(t, transport, &State{Items: map[string]int{"1": 1}})

	done := make(chan error, 1)
	go func() {
		_, err := store.Checkout(context.Background())
		done <- err
	}()
	req := waitStarted(t, transport)

	store.AddToCart("2")
	store.UpdateQuantity("1", 5)
	assert.Equal(t, map[string]int{"1": 1}, req.Items)
	assert.Equal(t, enums.CheckoutStateLoading, store.Snapshot().CheckoutState)

	transport.release <- checkout.Result{Success: true}
	require.NoError(t, <-done)
	assert.Empty(t, store.Snapshot().Items)
}

func TestCheckoutContextCancelled(t *testing.T) {
	t.Parallel()

	transport := newBlockingTransport()
	store := newTestStore(t, transport, &State{Items: map[string]int{"1": 1}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := store.Checkout(ctx)
		done <- err
	}()
	waitStarted(t, transport)
	cancel()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	snap := store.Snapshot()
	assert.Equal(t, enums.CheckoutStateError, snap.CheckoutState)
	assert.Equal(t, map[string]int{"1": 1}, snap.Items)
}

func TestCheckoutTransportPanicMovesToError(t *testing.T) {
	t.Parallel()

	var calls int32
	transport := checkout.TransportFunc(func(context.Context, checkout.Request) (checkout.Result, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("gateway exploded")
		}
		return checkout.Result{Success: true}, nil
	})
	store := newTestStore(t, transport, &State{Items: map[string]int{"1": 2}})

	snap, err := store.Checkout(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCheckoutFailed))
	assert.Equal(t, enums.CheckoutStateError, snap.CheckoutState)
	assert.Contains(t, snap.ErrorMessage, "gateway exploded")
	assert.Equal(t, map[string]int{"1": 2}, snap.Items)

	snap, err = store.Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateReady, snap.CheckoutState)
	assert.Empty(t, snap.Items)
}
