package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
)

func newCartView(snap cartsvc.Snapshot, selectors *cartsvc.Selectors, products cartsvc.Catalog) (cartdto.CartView, error) {
	total, err := selectors.TotalPrice(snap, products)
	if err != nil {
		return cartdto.CartView{}, err
	}

	ids := make([]string, 0, len(snap.Items))
	for id := range snap.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]cartdto.CartLine, 0, len(ids))
	for _, id := range ids {
		qty := snap.Items[id]
		// TotalPrice already failed for any id missing from the catalog.
		product, _ := products.Lookup(id)
		lines = append(lines, cartdto.CartLine{
			ProductID: id,
			Name:      product.Name,
			Quantity:  qty,
			UnitPrice: product.Price.StringFixed(2),
			LineTotal: product.Price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2),
		})
	}

	return cartdto.CartView{
		Lines:         lines,
		CheckoutState: snap.CheckoutState.String(),
		ErrorMessage:  snap.ErrorMessage,
		NumItems:      selectors.NumItems(snap),
		TotalPrice:    total,
		ItemsVersion:  snap.ItemsVersion,
	}, nil
}
