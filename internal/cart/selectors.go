package cart

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-cart/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

const (
	selectorNumItems   = "num_items"
	selectorTotalPrice = "total_price"
)

// Catalog is the read-only product lookup the derived view prices against.
type Catalog interface {
	Lookup(id string) (catalog.Product, bool)
	Version() uint64
}

// NumItems sums every quantity in the cart.
func NumItems(state State) int {
	total := 0
	for _, qty := range state.Items {
		total += qty
	}
	return total
}

// TotalPrice sums price*quantity over the cart, formatted with two decimals.
// A cart line without a catalog entry is a NOT_FOUND error.
func TotalPrice(state State, products Catalog) (string, error) {
	if products == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable")
	}
	ids := make([]string, 0, len(state.Items))
	for id := range state.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := decimal.Zero
	for _, id := range ids {
		product, ok := products.Lookup(id)
		if !ok {
			return "", missingProduct(id)
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(state.Items[id]))))
	}
	return total.StringFixed(2), nil
}

func missingProduct(id string) *pkgerrors.Error {
	return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %q missing from catalog", id).
		WithDetails(map[string]any{"product_id": id})
}

// Selectors memoizes NumItems and TotalPrice on the snapshot items version
// and, for prices, the catalog version. Items versions are per store, so a
// Selectors value must only see snapshots from one Store.
type Selectors struct {
	mu      sync.Mutex
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	count      cachedCount
	price      cachedPrice
	priceValid bool
	countValid bool
}

type cachedCount struct {
	itemsVersion uint64
	value        int
}

type cachedPrice struct {
	itemsVersion   uint64
	catalogVersion uint64
	value          string
}

func NewSelectors(logg *logger.Logger, m *metrics.CartMetrics) *Selectors {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Selectors{logg: logg, metrics: m}
}

func (s *Selectors) NumItems(snap Snapshot) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countValid && s.count.itemsVersion == snap.ItemsVersion {
		s.metrics.SelectorHit(selectorNumItems)
		return s.count.value
	}
	s.metrics.SelectorMiss(selectorNumItems)
	s.logg.Debug(s.logg.WithField(context.Background(), "items_version", snap.ItemsVersion), "selector.num_items.recompute")

	value := NumItems(snap.State)
	s.count = cachedCount{itemsVersion: snap.ItemsVersion, value: value}
	s.countValid = true
	return value
}

// TotalPrice returns the cached total when neither the items nor the catalog
// changed. Errors are never cached.
func (s *Selectors) TotalPrice(snap Snapshot, products Catalog) (string, error) {
	if products == nil {
		return TotalPrice(snap.State, nil)
	}
	catalogVersion := products.Version()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.priceValid && s.price.itemsVersion == snap.ItemsVersion && s.price.catalogVersion == catalogVersion {
		s.metrics.SelectorHit(selectorTotalPrice)
		return s.price.value, nil
	}
	s.metrics.SelectorMiss(selectorTotalPrice)

	value, err := TotalPrice(snap.State, products)
	if err != nil {
		return "", err
	}
	s.price = cachedPrice{itemsVersion: snap.ItemsVersion, catalogVersion: catalogVersion, value: value}
	s.priceValid = true
	return value, nil
}
