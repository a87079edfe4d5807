// internal/session/remote.go
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/tenant"
)

// usersClient talks to the remote users service
type usersClient struct {
	baseURL string
	client  *http.Client
}

func newUsersClient(baseURL string, timeout time.Duration) *usersClient {
	return &usersClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// authResponse is the wire shape of a successful login or registration
type authResponse struct {
	Token     string `json:"token"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
}

// login calls POST /login, scoped to the tenant's remote identifier
func (u *usersClient) login(ctx context.Context, email, password, tenantID string) (*authResponse, error) {
	payload := map[string]string{
		"email":     email,
		"password":  password,
		"tenant_id": tenant.RemoteID(tenantID),
	}
	return u.post(ctx, "/login", payload)
}

// register calls POST /registro, scoped to the tenant's remote identifier
func (u *usersClient) register(ctx context.Context, profile Profile, tenantID string) (*authResponse, error) {
	payload := map[string]string{
		"nombre":    profile.Name,
		"apellido":  profile.Surname,
		"email":     profile.Email,
		"direccion": profile.Address,
		"password":  profile.Password,
		"tenant_id": tenant.RemoteID(tenantID),
	}
	return u.post(ctx, "/registro", payload)
}

// validate calls POST /validar to check a stored token server-side
func (u *usersClient) validate(ctx context.Context, token, tenantID string) (bool, error) {
	payload := map[string]string{
		"token":     token,
		"tenant_id": tenant.RemoteID(tenantID),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("failed to encode validation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/validar", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("users service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, nil
	}

	var decoded struct {
		Valido bool `json:"valido"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("failed to decode validation response: %w", err)
	}
	return decoded.Valido, nil
}

func (u *usersClient) post(ctx context.Context, path string, payload map[string]string) (*authResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("users service returned %d: %s", resp.StatusCode, string(detail))
	}

	var decoded authResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &decoded, nil
}
