package enums

import (
	"fmt"
	"strings"
)

// CheckoutMode selects the transport that completes a checkout.
type CheckoutMode string

const (
	CheckoutModeDelay  CheckoutMode = "delay"
	CheckoutModeHTTP   CheckoutMode = "http"
	CheckoutModePubSub CheckoutMode = "pubsub"
)

var validCheckoutModes = []CheckoutMode{
	CheckoutModeDelay,
	CheckoutModeHTTP,
	CheckoutModePubSub,
}

// String implements fmt.Stringer.
func (m CheckoutMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known CheckoutMode.
func (m CheckoutMode) IsValid() bool {
	for _, candidate := range validCheckoutModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseCheckoutMode converts raw input into a CheckoutMode, ignoring case.
func ParseCheckoutMode(value string) (CheckoutMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCheckoutModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout mode %q", value)
}
