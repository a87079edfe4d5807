package orders

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/config"
	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable is a base URL no server listens on, so dials fail immediately
const unreachable = "http://127.0.0.1:1"

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestService(t *testing.T, purchasesURL string) (*Service, *store.Store) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	localStore, err := store.Open(filepath.Join(t.TempDir(), "store.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { localStore.Close() })

	cfg := &config.Config{
		Services: config.ServicesConfig{
			PurchasesBaseURL: purchasesURL,
			Timeout:          2 * time.Second,
		},
	}

	return NewService(cfg, localStore, staticToken("tok-abc"), logger), localStore
}

func sampleOrder(owner string) Order {
	return Order{
		ID:         "ord-1",
		OwnerEmail: owner,
		TenantID:   "dogshop",
		LineItems: []LineItem{
			{ProductID: "7", Name: "Antipulgas", UnitPrice: decimal.RequireFromString("34.90"), Quantity: 2},
		},
		Total:           decimal.RequireFromString("69.80"),
		CreatedAt:       time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		ShippingAddress: "Av. Siempre Viva 123",
		Status:          StatusPending,
	}
}

func TestRegisterPurchase_RemoteSuccess(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/registrar", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc, _ := newTestService(t, server.URL)

	require.NoError(t, svc.RegisterPurchase(context.Background(), sampleOrder("a@x.com")))
	assert.Equal(t, "Bearer tok-abc", gotAuth)

	// The acknowledged order is mirrored into the owner's partition
	stored, err := svc.readPartition("a@x.com")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, StatusCompleted, stored[0].Status)
}

func TestRegisterPurchase_FailurePersistsPendingAPI(t *testing.T) {
	svc, _ := newTestService(t, unreachable)

	err := svc.RegisterPurchase(context.Background(), sampleOrder("a@x.com"))
	require.Error(t, err, "sync failure must be surfaced, not swallowed")

	// The order survives locally as a durable record of intent
	list, err := svc.ListPurchases(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusPendingAPI, list[0].Status)
	assert.Equal(t, "69.8", list[0].Total.String())
}

func TestListPurchases_NeverLeaksOtherOwners(t *testing.T) {
	svc, localStore := newTestService(t, unreachable)

	// An order of another owner sitting in a's partition must be filtered out
	require.NoError(t, localStore.Put(store.OrdersKey("a@x.com"), []Order{
		sampleOrder("a@x.com"),
		sampleOrder("b@x.com"),
	}))

	list, err := svc.ListPurchases(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@x.com", list[0].OwnerEmail)
}

func TestListPurchases_TranslatesLegacyFieldNames(t *testing.T) {
	svc, localStore := newTestService(t, unreachable)

	legacy := []map[string]interface{}{
		{
			"id":        "old-1",
			"email":     "a@x.com",
			"fecha":     "2024-03-01T12:00:00Z",
			"productos": []map[string]interface{}{{"product_id": "3", "name": "Cama", "unit_price": "69.00", "quantity": 1}},
			"total":     "69.00",
			"direccion": "Calle 2",
			"estado":    "completed",
		},
		{
			"id":    "old-2",
			"email": "a@x.com",
			"date":  "2024-04-01T09:30:00Z",
			"items": []map[string]interface{}{{"product_id": "4", "name": "Arena", "unit_price": "24.50", "quantity": 2}},
			"total": "49.00",
		},
	}
	require.NoError(t, localStore.Put(store.OrdersKey("a@x.com"), legacy))

	list, err := svc.ListPurchases(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "old-1", list[0].ID)
	assert.Equal(t, "Calle 2", list[0].ShippingAddress)
	assert.Equal(t, StatusCompleted, list[0].Status)
	assert.Equal(t, 2024, list[0].CreatedAt.Year())

	assert.Equal(t, "old-2", list[1].ID)
	require.Len(t, list[1].LineItems, 1)
	assert.Equal(t, "Arena", list[1].LineItems[0].Name)
	assert.Equal(t, StatusPending, list[1].Status, "missing status defaults to pending")
}

func TestListPurchases_RemoteFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listar", r.URL.Path)
		assert.Equal(t, "a@x.com", r.URL.Query().Get("email"))
		io.WriteString(w, `[{"id": "srv-1", "owner_email": "a@x.com", "total": "10.00", "created_at": "2026-08-01T00:00:00Z", "status": "completed"}]`)
	}))
	defer server.Close()

	svc, _ := newTestService(t, server.URL)

	list, err := svc.ListPurchases(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "srv-1", list[0].ID)
}

func TestAppend_NewestFirst(t *testing.T) {
	svc, _ := newTestService(t, unreachable)

	first := sampleOrder("a@x.com")
	second := sampleOrder("a@x.com")
	second.ID = "ord-2"

	svc.Append(first)
	svc.Append(second)

	list, err := svc.ListPurchases(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ord-2", list[0].ID)
	assert.Equal(t, "ord-1", list[1].ID)
}

func TestCleanupLegacyGlobal(t *testing.T) {
	svc, localStore := newTestService(t, unreachable)

	require.NoError(t, localStore.Put(store.KeyLegacyGlobalOrders, []map[string]string{{"id": "ghost"}}))

	svc.CleanupLegacyGlobal()

	var anything []map[string]string
	found, err := localStore.Get(store.KeyLegacyGlobalOrders, &anything)
	require.NoError(t, err)
	assert.False(t, found, "the legacy global record must be gone")
}
