// internal/catalog/entity.go
package catalog

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical product shape. Every data source, remote or
// local, is normalized into this type at the data-access boundary.
type Product struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	BrandID         int              `json:"brand_id"`
	CategoryID      string           `json:"category_id"`
	Price           decimal.Decimal  `json:"price"`
	SalePrice       *decimal.Decimal `json:"sale_price,omitempty"`
	DiscountPercent int              `json:"discount_percent"`
	ImageURL        string           `json:"image_url"`
	IsFeatured      bool             `json:"is_featured"`
	Deleted         bool             `json:"deleted"`
}

// EffectivePrice returns the sale price when present, the list price otherwise
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Filter describes a catalog listing request
type Filter struct {
	Category string `form:"category"`
	Brand    int    `form:"brand"`
	TenantID string `form:"-"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset"`
	Search   string `form:"search"`
}

// Fingerprint returns a stable cache key component for the filter
func (f Filter) Fingerprint() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%s|%d|%d|%s", f.Category, f.Brand, f.TenantID, f.Limit, f.Offset, f.Search)
	return fmt.Sprintf("%x", h.Sum64())
}

// Tier identifies which data source produced a catalog result
type Tier string

const (
	TierRemote Tier = "remote"
	TierCache  Tier = "cache"
	TierStatic Tier = "static"
)

// Result is a catalog read tagged with the tier that served it
type Result struct {
	Products  []Product `json:"products"`
	Tier      Tier      `json:"tier"`
	FetchedAt time.Time `json:"fetched_at"`
}
