// internal/orders/service.go
package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/config"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/store"
	"github.com/sirupsen/logrus"
)

// TokenSource supplies the stored auth token for authenticated remote calls
type TokenSource interface {
	Token() string
}

// Service is the purchase gateway. Orders are written remote-first; a failed
// remote write still leaves a durable local record in the owner's partition,
// marked pending_api, and the error is returned so the caller can warn that
// sync failed. Reads fall back to the owner's partition.
type Service struct {
	store  *store.Store
	remote *purchasesClient
	tokens TokenSource
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(cfg *config.Config, s *store.Store, tokens TokenSource, logger *logrus.Logger) *Service {
	return &Service{
		store:  s,
		remote: newPurchasesClient(cfg.Services.PurchasesBaseURL, cfg.Services.Timeout),
		tokens: tokens,
		logger: logger,
	}
}

// RegisterPurchase registers an order with the purchases service. On any
// failure the order is persisted locally with status pending_api and the
// transport error is returned: the order is not lost, but it must not be
// silently considered synced either.
func (s *Service) RegisterPurchase(ctx context.Context, order Order) error {
	err := s.remote.register(ctx, order, s.tokens.Token())
	if err == nil {
		order.Status = StatusCompleted
		s.Append(order)
		return nil
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"error":    err.Error(),
	}).Warn("Purchase registration failed, keeping local pending_api record")

	order.Status = StatusPendingAPI
	s.Append(order)
	return fmt.Errorf("purchase registration failed: %w", err)
}

// ListPurchases lists the owner's purchase history, remote-first with a
// fallback to the owner's local partition. Only orders belonging to the
// owner are ever returned.
func (s *Service) ListPurchases(ctx context.Context, ownerEmail string) ([]Order, error) {
	remote, err := s.remote.list(ctx, ownerEmail, s.tokens.Token())
	if err == nil {
		return filterByOwner(remote, ownerEmail), nil
	}

	s.logger.WithFields(logrus.Fields{
		"email": ownerEmail,
		"error": err.Error(),
	}).Warn("Purchase history unavailable remotely, reading local partition")

	return s.readPartition(ownerEmail)
}

// Append writes an order to its owner's partition, newest first
func (s *Service) Append(order Order) {
	existing, err := s.readPartition(order.OwnerEmail)
	if err != nil {
		existing = nil
	}

	updated := append([]Order{order}, existing...)
	if err := s.store.Put(store.OrdersKey(order.OwnerEmail), updated); err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		}).Error("Failed to persist order")
	}
}

// CleanupLegacyGlobal removes the pre-partitioning global order record, if
// present. Order storage moved to per-owner partitions; a surviving global
// record would let one user see another's orders on a shared device.
func (s *Service) CleanupLegacyGlobal() {
	var legacy json.RawMessage
	found, err := s.store.Get(store.KeyLegacyGlobalOrders, &legacy)
	if err != nil || !found {
		return
	}

	if err := s.store.Delete(store.KeyLegacyGlobalOrders); err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to remove legacy global order record")
		return
	}
	s.logger.Info("Removed legacy global order record")
}

// readPartition reads and normalizes the owner's local order partition
func (s *Service) readPartition(ownerEmail string) ([]Order, error) {
	var stored []storedOrder
	if _, err := s.store.Get(store.OrdersKey(ownerEmail), &stored); err != nil {
		return nil, err
	}

	result := make([]Order, 0, len(stored))
	for _, entry := range stored {
		order := Order(entry)
		if order.OwnerEmail == "" {
			order.OwnerEmail = ownerEmail
		}
		result = append(result, order)
	}
	return filterByOwner(result, ownerEmail), nil
}

func filterByOwner(list []Order, ownerEmail string) []Order {
	owned := make([]Order, 0, len(list))
	for _, order := range list {
		if order.OwnerEmail == ownerEmail {
			owned = append(owned, order)
		}
	}
	return owned
}
