package cart

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-cart/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

func product(id, price string) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price)}
}

// countingCatalog records lookups so cache hits can be observed.
type countingCatalog struct {
	*catalog.Memory
	lookups int
}

func (c *countingCatalog) Lookup(id string) (catalog.Product, bool) {
	c.lookups++
	return c.Memory.Lookup(id)
}

func TestNumItems(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, NumItems(NewState()))
	assert.Equal(t, 5, NumItems(State{Items: map[string]int{"1": 2, "2": 3}}))
}

func TestTotalPrice(t *testing.T) {
	t.Parallel()

	products := catalog.NewMemory(product("1", "10.00"), product("2", "0.10"), product("3", "19.99"))

	tests := []struct {
		items map[string]int
		want  string
	}{
		{map[string]int{}, "0.00"},
		{map[string]int{"1": 3}, "30.00"},
		{map[string]int{"2": 3}, "0.30"},
		{map[string]int{"1": 1, "3": 2}, "49.98"},
	}
	for _, tt := range tests {
		got, err := TotalPrice(State{Items: tt.items}, products)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v", tt.items)
	}
}

func TestTotalPriceMissingProduct(t *testing.T) {
	t.Parallel()

	products := catalog.NewMemory(product("1", "10.00"))
	_, err := TotalPrice(State{Items: map[string]int{"1": 1, "7": 2}}, products)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Contains(t, err.Error(), `"7"`)

	_, err = TotalPrice(State{Items: map[string]int{"1": 1}}, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestSelectorsMemoizeOnItemsVersion(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	selectors := NewSelectors(nil, metrics.NewCartMetrics(reg))
	products := &countingCatalog{Memory: catalog.NewMemory(product("1", "10.00"), product("2", "2.50"))}

	store := newTestStore(t, succeed(), nil)
	snap := store.AddToCart("1")

	assert.Equal(t, 1, selectors.NumItems(snap))
	total, err := selectors.TotalPrice(snap, products)
	require.NoError(t, err)
	assert.Equal(t, "10.00", total)
	lookups := products.lookups

	// Same version: served from cache without touching the catalog.
	assert.Equal(t, 1, selectors.NumItems(store.Snapshot()))
	total, err = selectors.TotalPrice(store.Snapshot(), products)
	require.NoError(t, err)
	assert.Equal(t, "10.00", total)
	assert.Equal(t, lookups, products.lookups)

	snap = store.AddToCart("2")
	assert.Equal(t, 2, selectors.NumItems(snap))
	total, err = selectors.TotalPrice(snap, products)
	require.NoError(t, err)
	assert.Equal(t, "12.50", total)

	expected := `
# HELP cart_selector_cache_total Derived view lookups by selector and cache result.
# TYPE cart_selector_cache_total counter
cart_selector_cache_total{result="hit",selector="num_items"} 1
cart_selector_cache_total{result="hit",selector="total_price"} 1
cart_selector_cache_total{result="miss",selector="num_items"} 2
cart_selector_cache_total{result="miss",selector="total_price"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "cart_selector_cache_total"))
}

func TestSelectorsInvalidateOnCatalogVersion(t *testing.T) {
	t.Parallel()

	selectors := NewSelectors(nil, nil)
	products := catalog.NewMemory(product("1", "10.00"))
	store := newTestStore(t, succeed(), nil)
	snap := store.UpdateQuantity("1", 2)

	total, err := selectors.TotalPrice(snap, products)
	require.NoError(t, err)
	assert.Equal(t, "20.00", total)

	products.Replace([]catalog.Product{product("1", "7.25")})
	total, err = selectors.TotalPrice(snap, products)
	require.NoError(t, err)
	assert.Equal(t, "14.50", total)
}

func TestSelectorsDoNotCacheErrors(t *testing.T) {
	t.Parallel()

	selectors := NewSelectors(nil, nil)
	products := catalog.NewMemory()
	store := newTestStore(t, succeed(), nil)
	snap := store.AddToCart("1")

	_, err := selectors.TotalPrice(snap, products)
	require.Error(t, err)

	products.Replace([]catalog.Product{product("1", "3.00")})
	total, err := selectors.TotalPrice(snap, products)
	require.NoError(t, err)
	assert.Equal(t, "3.00", total)
}
