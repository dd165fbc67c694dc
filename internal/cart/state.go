package cart

import (
	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

// DeclinedMessage is recorded when the transport reports success=false
// without further detail. It replaces any message left by an earlier failed
// checkout; a successful checkout clears the message.
const DeclinedMessage = "checkout declined"

// State is the cart record owned by a Store. Items never holds a
// non-positive quantity.
type State struct {
	Items         map[string]int      `json:"items"`
	CheckoutState enums.CheckoutState `json:"checkout_state"`
	ErrorMessage  string              `json:"error_message,omitempty"`
}

// NewState returns the initial cart: empty and READY.
func NewState() State {
	return State{
		Items:         map[string]int{},
		CheckoutState: enums.CheckoutStateReady,
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	s.Items = cloneItems(s.Items)
	return s
}

// Quantity returns the quantity held for productID, zero when absent.
func (s State) Quantity(productID string) int {
	return s.Items[productID]
}

// IsEmpty reports whether the cart holds no items.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Snapshot is a point-in-time copy of the store state. ItemsVersion changes
// whenever the item mapping changes, which lets derived views memoize.
type Snapshot struct {
	State
	ItemsVersion uint64 `json:"items_version"`
}

func cloneItems(items map[string]int) map[string]int {
	out := make(map[string]int, len(items))
	for id, qty := range items {
		out[id] = qty
	}
	return out
}
