// internal/catalog/wire.go
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// wireProduct is the shape products arrive in from the remote catalog
// service and from older locally-written snapshots. Field names exist in two
// historical spellings (snake_case Spanish from the API, camelCase from the
// bundled data) and ids/prices arrive as either strings or numbers.
// Normalization happens here, once; nothing past this file sees wire shapes.
type wireProduct struct {
	ID              flexInt          `json:"id"`
	Name            string           `json:"-"`
	BrandID         flexInt          `json:"-"`
	CategoryID      string           `json:"-"`
	Price           decimal.Decimal  `json:"-"`
	SalePrice       *decimal.Decimal `json:"-"`
	DiscountPercent flexInt          `json:"-"`
	ImageURL        string           `json:"-"`
	IsFeatured      bool             `json:"-"`
	Deleted         bool             `json:"-"`
}

// flexInt decodes an integer that may be quoted on the wire
type flexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		// Some feeds quote prices and ids as floats
		parsed, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fmt.Errorf("invalid numeric value %q: %w", raw, err)
		}
		value = int(parsed)
	}
	*f = flexInt(value)
	return nil
}

// UnmarshalJSON decodes a product regardless of which field spelling the
// source uses.
func (w *wireProduct) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	pick := func(names ...string) (json.RawMessage, bool) {
		for _, name := range names {
			if raw, ok := fields[name]; ok && string(raw) != "null" {
				return raw, true
			}
		}
		return nil, false
	}

	if raw, ok := pick("id"); ok {
		if err := json.Unmarshal(raw, &w.ID); err != nil {
			return err
		}
	}
	if raw, ok := pick("nombre", "name"); ok {
		if err := json.Unmarshal(raw, &w.Name); err != nil {
			return err
		}
	}
	if raw, ok := pick("marca_id", "marcaId", "brand_id"); ok {
		if err := json.Unmarshal(raw, &w.BrandID); err != nil {
			return err
		}
	}
	if raw, ok := pick("categoria_id", "categoriaId", "category_id"); ok {
		if err := json.Unmarshal(raw, &w.CategoryID); err != nil {
			return err
		}
	}
	if raw, ok := pick("precio", "price"); ok {
		if err := json.Unmarshal(raw, &w.Price); err != nil {
			return err
		}
	}
	if raw, ok := pick("precio_oferta", "precioOferta", "sale_price"); ok {
		var sale decimal.Decimal
		if err := json.Unmarshal(raw, &sale); err != nil {
			return err
		}
		w.SalePrice = &sale
	}
	if raw, ok := pick("descuento", "discount_percent"); ok {
		if err := json.Unmarshal(raw, &w.DiscountPercent); err != nil {
			return err
		}
	}
	if raw, ok := pick("imagen_url", "imagenUrl", "image_url"); ok {
		if err := json.Unmarshal(raw, &w.ImageURL); err != nil {
			return err
		}
	}
	if raw, ok := pick("es_destacado", "esDestacado", "is_featured"); ok {
		if err := json.Unmarshal(raw, &w.IsFeatured); err != nil {
			return err
		}
	}
	if raw, ok := pick("eliminado", "deleted"); ok {
		if err := json.Unmarshal(raw, &w.Deleted); err != nil {
			return err
		}
	}

	return nil
}

// normalize converts a wire product to the canonical type. A sale price
// above the list price is treated as absent rather than propagated.
func (w wireProduct) normalize() Product {
	product := Product{
		ID:              int(w.ID),
		Name:            w.Name,
		BrandID:         int(w.BrandID),
		CategoryID:      w.CategoryID,
		Price:           w.Price,
		DiscountPercent: int(w.DiscountPercent),
		ImageURL:        w.ImageURL,
		IsFeatured:      w.IsFeatured,
		Deleted:         w.Deleted,
	}
	if w.SalePrice != nil && w.SalePrice.LessThanOrEqual(w.Price) {
		sale := *w.SalePrice
		product.SalePrice = &sale
	}
	return product
}

// normalizeAll converts a wire product list, dropping deleted entries
func normalizeAll(wire []wireProduct) []Product {
	products := make([]Product, 0, len(wire))
	for _, w := range wire {
		p := w.normalize()
		if p.Deleted {
			continue
		}
		products = append(products, p)
	}
	return products
}
