package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as seen by the cart.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Memory is a read-mostly in-process catalog. Every Replace bumps Version so
// derived views can tell when cached totals are stale.
type Memory struct {
	mu       sync.RWMutex
	products map[string]Product
	version  uint64
}

// NewMemory builds a catalog seeded with the given products.
func NewMemory(products ...Product) *Memory {
	m := &Memory{}
	m.Replace(products)
	return m
}

// Lookup returns the product stored under id.
func (m *Memory) Lookup(id string) (Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	return p, ok
}

// Version identifies the current catalog contents.
func (m *Memory) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Replace swaps the catalog contents wholesale.
func (m *Memory) Replace(products []Product) {
	next := make(map[string]Product, len(products))
	for _, p := range products {
		next[p.ID] = p
	}
	m.mu.Lock()
	m.products = next
	m.version++
	m.mu.Unlock()
}

// List returns the products ordered by id.
func (m *Memory) List() []Product {
	m.mu.RLock()
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type documentEntry struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// LoadJSON decodes a {"<id>": {"name": ..., "price": ...}} document.
// Prices may be JSON numbers or strings.
func LoadJSON(r io.Reader) ([]Product, error) {
	var doc map[string]documentEntry
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	products := make([]Product, 0, len(doc))
	for id, entry := range doc {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("catalog entry with empty id")
		}
		if entry.Price == nil {
			return nil, fmt.Errorf("catalog entry %q has no price", id)
		}
		if entry.Price.IsNegative() {
			return nil, fmt.Errorf("catalog entry %q has negative price", id)
		}
		products = append(products, Product{ID: id, Name: entry.Name, Price: *entry.Price})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// DefaultProducts seeds the catalog when no file is configured.
func DefaultProducts() []Product {
	return []Product{
		{ID: "1", Name: "Product 1", Price: decimal.RequireFromString("10.00")},
	}
}
