// internal/orders/entity.go
package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the order status
type Status string

const (
	StatusPending Status = "pending"
	// StatusCompleted marks an order acknowledged by the purchases service
	StatusCompleted Status = "completed"
	// StatusPendingAPI marks an order persisted locally after the remote
	// registration failed; a durable record of user intent, not yet synced.
	StatusPendingAPI Status = "pending_api"
)

// LineItem is one product line of an order, priced as captured at checkout
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order represents one purchase. Total is fixed at creation time and never
// recomputed, even if catalog prices change afterwards.
type Order struct {
	ID              string          `json:"id"`
	OwnerEmail      string          `json:"owner_email"`
	TenantID        string          `json:"tenant_id"`
	LineItems       []LineItem      `json:"line_items"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	ShippingAddress string          `json:"shipping_address"`
	Status          Status          `json:"status"`
}

// storedOrder decodes an order from the owner partition, tolerating the
// historical field-name variants previously written there (fecha/date for
// the timestamp, productos/items for the lines).
type storedOrder Order

// UnmarshalJSON implements json.Unmarshaler
func (o *storedOrder) UnmarshalJSON(data []byte) error {
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

	decode := func(raw json.RawMessage, into interface{}) error {
		return json.Unmarshal(raw, into)
	}

	if raw, ok := pick("id"); ok {
		if err := decode(raw, &o.ID); err != nil {
			return err
		}
	}
	if raw, ok := pick("owner_email", "email"); ok {
		if err := decode(raw, &o.OwnerEmail); err != nil {
			return err
		}
	}
	if raw, ok := pick("tenant_id"); ok {
		if err := decode(raw, &o.TenantID); err != nil {
			return err
		}
	}
	if raw, ok := pick("line_items", "productos", "items"); ok {
		if err := decode(raw, &o.LineItems); err != nil {
			return err
		}
	}
	if raw, ok := pick("total"); ok {
		if err := decode(raw, &o.Total); err != nil {
			return err
		}
	}
	if raw, ok := pick("created_at", "fecha", "date"); ok {
		if err := decode(raw, &o.CreatedAt); err != nil {
			return err
		}
	}
	if raw, ok := pick("shipping_address", "direccion"); ok {
		if err := decode(raw, &o.ShippingAddress); err != nil {
			return err
		}
	}
	if raw, ok := pick("status", "estado"); ok {
		if err := decode(raw, &o.Status); err != nil {
			return err
		}
	}
	if o.Status == "" {
		o.Status = StatusPending
	}

	return nil
}
