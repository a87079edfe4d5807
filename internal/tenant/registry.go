// internal/tenant/registry.go
package tenant

// DefaultID is the synthetic portal tenant selected when no storefront matches
const DefaultID = "default"

// Config describes one branded storefront
type Config struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	LogoGlyph      string `json:"logo_glyph"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	DomainPrefix   string `json:"domain_prefix"`
}

// registry holds every known storefront plus the portal entry.
// Entries are immutable after process start.
var registry = map[string]Config{
	"dogshop": {
		ID:             "dogshop",
		DisplayName:    "Dog Shop",
		LogoGlyph:      "🐶",
		PrimaryColor:   "#d97706",
		SecondaryColor: "#fef3c7",
		DomainPrefix:   "dogshop",
	},
	"catshop": {
		ID:             "catshop",
		DisplayName:    "Cat Shop",
		LogoGlyph:      "🐱",
		PrimaryColor:   "#7c3aed",
		SecondaryColor: "#ede9fe",
		DomainPrefix:   "catshop",
	},
	"vetshop": {
		ID:             "vetshop",
		DisplayName:    "Vet Shop",
		LogoGlyph:      "🩺",
		PrimaryColor:   "#0d9488",
		SecondaryColor: "#ccfbf1",
		DomainPrefix:   "vetshop",
	},
	DefaultID: {
		ID:             DefaultID,
		DisplayName:    "Pet Palette",
		LogoGlyph:      "🐾",
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#dbeafe",
		DomainPrefix:   "",
	},
}

// remoteVocabulary maps internal tenant ids to the identifiers the remote
// backend services expect in their tenant_id field.
var remoteVocabulary = map[string]string{
	"dogshop": "dog_store",
	"catshop": "cat_store",
	"vetshop": "vet_store",
	DefaultID: "portal",
}

// Lookup returns the configuration for a tenant id
func Lookup(id string) (Config, bool) {
	cfg, ok := registry[id]
	return cfg, ok
}

// Default returns the portal tenant configuration
func Default() Config {
	return registry[DefaultID]
}

// RemoteID maps an internal tenant id to the remote services' vocabulary.
// Unknown ids map to the portal identifier.
func RemoteID(id string) string {
	if remote, ok := remoteVocabulary[id]; ok {
		return remote
	}
	return remoteVocabulary[DefaultID]
}

// All returns every registered storefront configuration, portal included
func All() []Config {
	out := make([]Config, 0, len(registry))
	for _, cfg := range registry {
		out = append(out, cfg)
	}
	return out
}
