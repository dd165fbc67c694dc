package cart

import (
	"net/http"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// ProductLister is the catalog view behind GET /api/v1/products.
type ProductLister interface {
	List() []catalog.Product
}

// ProductList renders the products a cart line may reference, ordered by id.
func ProductList(products ProductLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		list := products.List()
		out := make([]cartdto.ProductView, 0, len(list))
		for _, p := range list {
			out = append(out, cartdto.ProductView{
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: p.Price.StringFixed(2),
			})
		}
		responses.WriteSuccess(w, out)
	}
}
