package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-cart/api/validators"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

const maxProductIDLength = 128

func productIDParam(r *http.Request) (string, error) {
	id := validators.SanitizeString(chi.URLParam(r, "productId"), 0)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if len(id) > maxProductIDLength {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "product id must be at most %d characters", maxProductIDLength)
	}
	return id, nil
}
