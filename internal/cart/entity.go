// internal/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one cart entry for a product. Name, price and image are a
// snapshot captured when the product was added; later catalog price changes
// do not alter the line.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity for the line
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CheckoutExtra carries the checkout fields supplied alongside the cart
type CheckoutExtra struct {
	ShippingAddress string `json:"shipping_address"`
}
