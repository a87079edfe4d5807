// internal/catalog/remote.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// remoteSource fetches products from the remote catalog service
type remoteSource struct {
	baseURL string
	client  *http.Client
}

func newRemoteSource(baseURL string, timeout time.Duration) *remoteSource {
	return &remoteSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// listResponse tolerates both a bare array and an enveloped product list
type listResponse struct {
	Products []wireProduct
}

// UnmarshalJSON implements json.Unmarshaler
func (r *listResponse) UnmarshalJSON(data []byte) error {
	var bare []wireProduct
	if err := json.Unmarshal(data, &bare); err == nil {
		r.Products = bare
		return nil
	}

	var envelope struct {
		Productos []wireProduct `json:"productos"`
		Products  []wireProduct `json:"products"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Productos != nil {
		r.Products = envelope.Productos
	} else {
		r.Products = envelope.Products
	}
	return nil
}

// fetch lists products from GET /listar
func (r *remoteSource) fetch(ctx context.Context, filter Filter) ([]Product, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("categoria_id", filter.Category)
	}
	if filter.Brand > 0 {
		query.Set("marca_id", strconv.Itoa(filter.Brand))
	}
	if filter.TenantID != "" {
		query.Set("tenant_id", tenant.RemoteID(filter.TenantID))
	}
	if filter.Limit > 0 {
		query.Set("limite", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		query.Set("offset", strconv.Itoa(filter.Offset))
	}
	if filter.Search != "" {
		query.Set("busqueda", filter.Search)
	}

	return r.get(ctx, "/listar", query)
}

// search queries GET /buscar, the dedicated search endpoint
func (r *remoteSource) search(ctx context.Context, searchText, tenantID string) ([]Product, error) {
	query := url.Values{}
	query.Set("busqueda", searchText)
	if tenantID != "" {
		query.Set("tenant_id", tenant.RemoteID(tenantID))
	}

	return r.get(ctx, "/buscar", query)
}

func (r *remoteSource) get(ctx context.Context, path string, query url.Values) ([]Product, error) {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog service returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded listResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return normalizeAll(decoded.Products), nil
}
