// internal/cart/service.go
package cart

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/catalog"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/orders"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/session"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrNotAuthenticated is returned when checkout is attempted anonymously
var ErrNotAuthenticated = errors.New("checkout requires an authenticated session")

// Manager owns the cart of one (tenant, device) pair. Contents are loaded
// from the tenant's partition when the manager is built and written back on
// every mutation. Totals are derived on read, never stored.
type Manager struct {
	tenantID string
	store    *store.Store
	catalog  *catalog.Service
	sessions *session.Service
	orders   *orders.Service
	logger   *logrus.Logger

	mu    sync.Mutex
	lines []Line
}

// NewManager builds the cart manager for a tenant, loading persisted contents
func NewManager(tenantID string, s *store.Store, cat *catalog.Service, sessions *session.Service, ord *orders.Service, logger *logrus.Logger) *Manager {
	manager := &Manager{
		tenantID: tenantID,
		store:    s,
		catalog:  cat,
		sessions: sessions,
		orders:   ord,
		logger:   logger,
	}

	var lines []Line
	if found, err := s.Get(store.CartKey(tenantID), &lines); err == nil && found {
		manager.lines = lines
	}

	return manager
}

// AddItem adds quantity units of a product, resolving its details through
// the catalog's fallback tiers. An unresolvable product is a logged no-op;
// the UI only issues this call for products it has already displayed.
func (m *Manager) AddItem(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity += quantity
			m.persist()
			return
		}
	}

	id, err := strconv.Atoi(productID)
	if err != nil {
		m.logger.WithField("product_id", productID).Warn("Ignoring add of malformed product id")
		return
	}

	product, err := m.catalog.GetProduct(ctx, id)
	if err != nil || product == nil {
		m.logger.WithField("product_id", productID).Warn("Ignoring add of unresolvable product")
		return
	}

	m.lines = append(m.lines, Line{
		ProductID: productID,
		Name:      product.Name,
		UnitPrice: product.EffectivePrice(),
		ImageURL:  product.ImageURL,
		Quantity:  quantity,
	})
	m.persist()
}

// RemoveItem deletes a product's line entirely
func (m *Manager) RemoveItem(productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			m.persist()
			return
		}
	}
}

// UpdateQuantity sets a line's quantity; zero or below removes the line
func (m *Manager) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		m.RemoveItem(productID)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity = quantity
			m.persist()
			return
		}
	}
}

// IncrementItem raises a line's quantity by one
func (m *Manager) IncrementItem(productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity++
			m.persist()
			return
		}
	}
}

// DecrementItem lowers a line's quantity by one, flooring at one.
// Decrement never removes a line; removal is an explicit action.
func (m *Manager) DecrementItem(productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			if m.lines[i].Quantity > 1 {
				m.lines[i].Quantity--
				m.persist()
			}
			return
		}
	}
}

// Clear removes every line
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// Lines returns a copy of the current cart lines
func (m *Manager) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]Line, len(m.lines))
	copy(copied, m.lines)
	return copied
}

// Total computes the cart total from current lines
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, line := range m.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount computes the sum of all line quantities
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, line := range m.lines {
		count += line.Quantity
	}
	return count
}

// ProcessOrder converts the cart into an order for the authenticated user,
// registers it through the purchase gateway and clears the cart. The local
// order record survives even when remote registration fails; that failure
// is returned so the caller can flag "saved locally". An anonymous checkout
// is a no-op: the cart is left untouched and no order is created.
func (m *Manager) ProcessOrder(ctx context.Context, extra CheckoutExtra) (*orders.Order, error) {
	sess := m.sessions.Current()
	if sess == nil {
		m.logger.Error("Checkout attempted without an authenticated session")
		return nil, ErrNotAuthenticated
	}

	m.mu.Lock()
	if len(m.lines) == 0 {
		m.mu.Unlock()
		return nil, errors.New("cart is empty")
	}

	lineItems := make([]orders.LineItem, len(m.lines))
	total := decimal.Zero
	for i, line := range m.lines {
		lineItems[i] = orders.LineItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		}
		total = total.Add(line.Subtotal())
	}
	m.mu.Unlock()

	order := orders.Order{
		ID:              uuid.NewString(),
		OwnerEmail:      sess.Email,
		TenantID:        m.tenantID,
		LineItems:       lineItems,
		Total:           total,
		CreatedAt:       time.Now().UTC(),
		ShippingAddress: extra.ShippingAddress,
		Status:          orders.StatusPending,
	}

	syncErr := m.orders.RegisterPurchase(ctx, order)
	if syncErr != nil {
		order.Status = orders.StatusPendingAPI
	} else {
		order.Status = orders.StatusCompleted
	}

	m.mu.Lock()
	m.clearLocked()
	m.mu.Unlock()

	return &order, syncErr
}

// persist writes the cart back to its tenant partition. Callers hold the lock.
func (m *Manager) persist() {
	if err := m.store.Put(store.CartKey(m.tenantID), m.lines); err != nil {
		m.logger.WithFields(logrus.Fields{
			"tenant_id": m.tenantID,
			"error":     err.Error(),
		}).Error("Failed to persist cart")
	}
}

func (m *Manager) clearLocked() {
	m.lines = nil
	m.persist()
}
