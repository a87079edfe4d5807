// internal/tenant/resolver.go
package tenant

import (
	"net"
	"strings"
)

// Source identifies how the active tenant was selected
type Source string

const (
	SourceOverride Source = "override"
	SourceHost     Source = "host"
	SourceFallback Source = "fallback"
)

// Resolution is the outcome of tenant detection for one request
type Resolution struct {
	Tenant   Config `json:"tenant"`
	TenantID string `json:"tenant_id"`
	Source   Source `json:"source"`
}

// Resolve selects the active tenant for a request. The override (the
// "tenant" query parameter) wins when it names a known tenant; otherwise the
// hostname's leading label is matched against the tenant registry; anything
// else degrades to the portal tenant. Resolve never fails.
func Resolve(host, override string) Resolution {
	if override != "" {
		if cfg, ok := Lookup(override); ok {
			return Resolution{Tenant: cfg, TenantID: cfg.ID, Source: SourceOverride}
		}
	}

	if label := leadingLabel(host); label != "" {
		if cfg, ok := Lookup(label); ok {
			return Resolution{Tenant: cfg, TenantID: cfg.ID, Source: SourceHost}
		}
	}

	cfg := Default()
	return Resolution{Tenant: cfg, TenantID: cfg.ID, Source: SourceFallback}
}

// leadingLabel extracts the first DNS label from a host, dropping any port
func leadingLabel(host string) string {
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	label, _, _ := strings.Cut(host, ".")
	return strings.ToLower(label)
}

// DocumentTitle returns the browser title for the resolved tenant.
// Presentation data only; carried for the UI payload.
func (r Resolution) DocumentTitle() string {
	return r.Tenant.LogoGlyph + " " + r.Tenant.DisplayName
}
