package cart

import (
	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

// Reduce applies action to state and returns the next state. The input is
// never mutated; unknown actions return state unchanged.
func Reduce(state State, action Action) State {
	next, _ := reduce(state, action)
	return next
}

// reduce also reports whether the item mapping changed. A new Items map is
// only allocated when it did, so unchanged snapshots share the old map.
func reduce(state State, action Action) (State, bool) {
	if state.Items == nil {
		state.Items = map[string]int{}
	}

	switch a := action.(type) {
	case AddToCart:
		items := cloneItems(state.Items)
		items[a.ProductID]++
		state.Items = items
		return state, true

	case RemoveFromCart:
		if state.Quantity(a.ProductID) == 0 {
			return state, false
		}
		items := cloneItems(state.Items)
		delete(items, a.ProductID)
		state.Items = items
		return state, true

	case UpdateQuantity:
		current, ok := state.Items[a.ProductID]
		if a.Quantity <= 0 {
			if !ok {
				return state, false
			}
			items := cloneItems(state.Items)
			delete(items, a.ProductID)
			state.Items = items
			return state, true
		}
		if ok && current == a.Quantity {
			return state, false
		}
		items := cloneItems(state.Items)
		items[a.ProductID] = a.Quantity
		state.Items = items
		return state, true

	case CheckoutPending:
		state.CheckoutState = enums.CheckoutStateLoading
		return state, false

	case CheckoutFulfilled:
		if !a.Success {
			state.CheckoutState = enums.CheckoutStateError
			state.ErrorMessage = DeclinedMessage
			return state, false
		}
		changed := !state.IsEmpty()
		state.CheckoutState = enums.CheckoutStateReady
		state.ErrorMessage = ""
		state.Items = map[string]int{}
		return state, changed

	case CheckoutRejected:
		state.CheckoutState = enums.CheckoutStateError
		state.ErrorMessage = a.Message
		return state, false
	}

	return state, false
}
