// internal/catalog/static.go
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

//go:embed snapshot.json
var snapshotJSON []byte

// tenantCategories maps each storefront to the catalog categories it sells.
// The portal tenant sees everything. This mirrors the filtering the remote
// service performs server-side.
var tenantCategories = map[string][]string{
	"dogshop": {"perros", "salud"},
	"catshop": {"gatos", "salud"},
	"vetshop": {"salud", "otras-mascotas"},
}

// staticSource serves the bundled catalog snapshot, filtered in-process with
// the same predicate semantics the remote service applies. It is the last
// fallback tier and cannot fail once the snapshot is parsed.
type staticSource struct {
	products []Product
}

func newStaticSource() (*staticSource, error) {
	var wire []wireProduct
	if err := json.Unmarshal(snapshotJSON, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse bundled catalog snapshot: %w", err)
	}
	return &staticSource{products: normalizeAll(wire)}, nil
}

// fetch filters the snapshot by the same predicate logic as the remote service
func (s *staticSource) fetch(filter Filter) []Product {
	matched := make([]Product, 0, len(s.products))
	for _, product := range s.products {
		if !matches(product, filter) {
			continue
		}
		matched = append(matched, product)
	}

	return paginate(matched, filter.Offset, filter.Limit)
}

// matches is the shared offline filter predicate
func matches(product Product, filter Filter) bool {
	if product.Deleted {
		return false
	}
	if filter.Category != "" && product.CategoryID != filter.Category {
		return false
	}
	if filter.Brand > 0 && product.BrandID != filter.Brand {
		return false
	}
	if filter.TenantID != "" && filter.TenantID != tenant.DefaultID {
		if !containsCategory(tenantCategories[filter.TenantID], product.CategoryID) {
			return false
		}
	}
	if filter.Search != "" {
		if !strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Search)) {
			return false
		}
	}
	return true
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func paginate(products []Product, offset, limit int) []Product {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(products) {
		return []Product{}
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products
}
