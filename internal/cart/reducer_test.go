package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

func TestAddToCartCountsCalls(t *testing.T) {
	t.Parallel()

	for _, calls := range []int{1, 2, 7} {
		state := NewState()
		for i := 0; i < calls; i++ {
			state = Reduce(state, AddToCart{ProductID: "1"})
		}
		assert.Equal(t, calls, state.Quantity("1"))
		assert.Len(t, state.Items, 1)
	}
}

func TestRemoveFromCart(t *testing.T) {
	t.Parallel()

	state := State{Items: map[string]int{"1": 2, "2": 1}, CheckoutState: enums.CheckoutStateReady}

	next, changed := reduce(state, RemoveFromCart{ProductID: "1"})
	assert.True(t, changed)
	assert.Equal(t, map[string]int{"2": 1}, next.Items)

	again, changed := reduce(next, RemoveFromCart{ProductID: "missing"})
	assert.False(t, changed)
	assert.Equal(t, next.Items, again.Items)
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		start    map[string]int
		quantity int
		want     map[string]int
		changed  bool
	}{
		{"absolute set", map[string]int{"1": 2}, 5, map[string]int{"1": 5}, true},
		{"insert absent", map[string]int{}, 3, map[string]int{"1": 3}, true},
		{"zero removes", map[string]int{"1": 2}, 0, map[string]int{}, true},
		{"negative removes", map[string]int{"1": 2}, -4, map[string]int{}, true},
		{"zero on absent", map[string]int{"2": 1}, 0, map[string]int{"2": 1}, false},
		{"same value", map[string]int{"1": 2}, 2, map[string]int{"1": 2}, false},
	}

	for _, tt := range tests {
		state := State{Items: tt.start, CheckoutState: enums.CheckoutStateReady}
		next, changed := reduce(state, UpdateQuantity{ProductID: "1", Quantity: tt.quantity})
		assert.Equal(t, tt.want, next.Items, tt.name)
		assert.Equal(t, tt.changed, changed, tt.name)
		for id, qty := range next.Items {
			assert.Positive(t, qty, "%s: %s holds non-positive quantity", tt.name, id)
		}
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	state := State{Items: map[string]int{"1": 1}, CheckoutState: enums.CheckoutStateReady}
	_ = Reduce(state, AddToCart{ProductID: "1"})
	_ = Reduce(state, UpdateQuantity{ProductID: "2", Quantity: 9})
	_ = Reduce(state, RemoveFromCart{ProductID: "1"})
	_ = Reduce(state, CheckoutFulfilled{Success: true})

	assert.Equal(t, map[string]int{"1": 1}, state.Items)
}

func TestCheckoutLifecycleActions(t *testing.T) {
	t.Parallel()

	state := State{Items: map[string]int{"1": 3}, CheckoutState: enums.CheckoutStateReady}

	loading := Reduce(state, CheckoutPending{})
	require.Equal(t, enums.CheckoutStateLoading, loading.CheckoutState)
	assert.Equal(t, state.Items, loading.Items)

	done := Reduce(loading, CheckoutFulfilled{Success: true})
	assert.Equal(t, enums.CheckoutStateReady, done.CheckoutState)
	assert.Empty(t, done.Items)
	assert.Empty(t, done.ErrorMessage)

	declined := Reduce(loading, CheckoutFulfilled{Success: false})
	assert.Equal(t, enums.CheckoutStateError, declined.CheckoutState)
	assert.Equal(t, DeclinedMessage, declined.ErrorMessage)
	assert.Equal(t, map[string]int{"1": 3}, declined.Items)

	failed := Reduce(loading, CheckoutRejected{Message: "Network error"})
	assert.Equal(t, enums.CheckoutStateError, failed.CheckoutState)
	assert.Equal(t, "Network error", failed.ErrorMessage)
	assert.Equal(t, map[string]int{"1": 3}, failed.Items)

	retry := Reduce(failed, CheckoutPending{})
	assert.Equal(t, enums.CheckoutStateLoading, retry.CheckoutState)
	assert.Equal(t, "Network error", retry.ErrorMessage)

	redeclined := Reduce(retry, CheckoutFulfilled{Success: false})
	assert.Equal(t, DeclinedMessage, redeclined.ErrorMessage)
}

type unknownAction struct{}

func (unknownAction) Type() string { return "cart/unknown" }

func TestReduceHandlesNilItems(t *testing.T) {
	t.Parallel()

	next := Reduce(State{}, AddToCart{ProductID: "1"})
	assert.Equal(t, 1, next.Quantity("1"))

	start := State{Items: map[string]int{"1": 1}, CheckoutState: enums.CheckoutStateError, ErrorMessage: "boom"}
	same, changed := reduce(start, unknownAction{})
	assert.False(t, changed)
	assert.Equal(t, start, same)
}
