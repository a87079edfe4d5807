// internal/orders/remote.go
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// purchasesClient talks to the remote purchases service. Requests carry a
// bearer token when one is available.
type purchasesClient struct {
	baseURL string
	client  *http.Client
}

func newPurchasesClient(baseURL string, timeout time.Duration) *purchasesClient {
	return &purchasesClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// register calls POST /registrar with the order payload
func (p *purchasesClient) register(ctx context.Context, order Order, token string) error {
	payload := map[string]interface{}{
		"id":        order.ID,
		"email":     order.OwnerEmail,
		"tenant_id": tenant.RemoteID(order.TenantID),
		"productos": order.LineItems,
		"total":     order.Total,
		"fecha":     order.CreatedAt,
		"direccion": order.ShippingAddress,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode purchase: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/registrar", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build purchase request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("purchases service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("purchases service returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// list calls GET /listar for an owner's purchase history
func (p *purchasesClient) list(ctx context.Context, ownerEmail, token string) ([]Order, error) {
	query := url.Values{}
	query.Set("email", ownerEmail)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/listar?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build purchase list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("purchases service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("purchases service returned %d: %s", resp.StatusCode, string(detail))
	}

	var stored []storedOrder
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to decode purchase list: %w", err)
	}

	result := make([]Order, len(stored))
	for i, s := range stored {
		result[i] = Order(s)
	}
	return result, nil
}
