package enums

import "fmt"

// CheckoutState tracks where the cart sits in the checkout lifecycle.
type CheckoutState string

const (
	CheckoutStateReady   CheckoutState = "READY"
	CheckoutStateLoading CheckoutState = "LOADING"
	CheckoutStateError   CheckoutState = "ERROR"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateReady,
	CheckoutStateLoading,
	CheckoutStateError,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanStartCheckout reports whether a checkout may be initiated from this state.
func (c CheckoutState) CanStartCheckout() bool {
	return c == CheckoutStateReady || c == CheckoutStateError
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
