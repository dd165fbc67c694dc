package cart

import (
	"context"
	"net/http"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// Store is the slice of *cart.Store the handlers drive.
type Store interface {
	Snapshot() cartsvc.Snapshot
	AddToCart(productID string) cartsvc.Snapshot
	RemoveFromCart(productID string) cartsvc.Snapshot
	UpdateQuantity(productID string, quantity int) cartsvc.Snapshot
	Checkout(ctx context.Context) (cartsvc.Snapshot, error)
}

// Deps bundles what every cart handler needs to render a CartView.
type Deps struct {
	Store     Store
	Selectors *cartsvc.Selectors
	Catalog   cartsvc.Catalog
}

func (d Deps) ready() error {
	if d.Store == nil || d.Selectors == nil || d.Catalog == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable")
	}
	return nil
}

// requireProduct rejects ids the catalog cannot price, so every stored line
// stays renderable.
func (d Deps) requireProduct(productID string) error {
	if _, ok := d.Catalog.Lookup(productID); !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %q not found", productID).
			WithDetails(map[string]any{"product_id": productID})
	}
	return nil
}

func writeCart(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, deps Deps, snap cartsvc.Snapshot) {
	view, err := newCartView(snap, deps.Selectors, deps.Catalog)
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}

// CartFetch renders the current cart with its derived totals.
func CartFetch(deps Deps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.ready(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(r.Context(), logg, w, deps, deps.Store.Snapshot())
	}
}

// CartAddItem adds one unit of the posted product.
func CartAddItem(deps Deps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.ready(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID := validators.SanitizeString(payload.ProductID, maxProductIDLength)
		if err := deps.requireProduct(productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(r.Context(), logg, w, deps, deps.Store.AddToCart(productID))
	}
}

// CartUpdateItem sets the absolute quantity of a line; zero or less removes it.
func CartUpdateItem(deps Deps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.ready(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cartdto.UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity := *payload.Quantity
		if quantity > 0 {
			if err := deps.requireProduct(productID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		writeCart(r.Context(), logg, w, deps, deps.Store.UpdateQuantity(productID, quantity))
	}
}

// CartRemoveItem drops a line; removing an absent product is not an error.
func CartRemoveItem(deps Deps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.ready(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(r.Context(), logg, w, deps, deps.Store.RemoveFromCart(productID))
	}
}

// CartCheckout runs a checkout and waits for the transport outcome. The
// checkout outlives a dropped client connection; transports bound their own
// duration.
func CartCheckout(deps Deps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.ready(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := deps.Store.Checkout(context.WithoutCancel(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(r.Context(), logg, w, deps, snap)
	}
}
