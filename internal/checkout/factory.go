package checkout

import (
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

// New builds the transport selected by cfg. The publisher is only consulted
// in pubsub mode.
func New(cfg config.CheckoutConfig, pub *gcppubsub.Publisher) (Transport, error) {
	switch mode := cfg.ParsedMode(); mode {
	case enums.CheckoutModeDelay:
		return NewDelayTransport(cfg.Delay), nil
	case enums.CheckoutModeHTTP:
		return NewHTTPTransport(cfg.URL, WithTimeout(cfg.Timeout))
	case enums.CheckoutModePubSub:
		return NewPubSubTransport(pub, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported checkout mode %q", cfg.Mode)
	}
}
