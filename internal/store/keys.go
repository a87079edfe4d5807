// internal/store/keys.go
package store

import "fmt"

// Key layout for the local store. Cart and order partitions are namespaced
// so one tenant's cart and one owner's orders are never visible to another.
const (
	KeyCurrentUser = "current_user"
	KeyAuthToken   = "auth_token"
	KeyUsersDB     = "users_db"

	// KeyLegacyGlobalOrders is the pre-partitioning order key. It is only
	// ever read by the startup cleanup that removes it.
	KeyLegacyGlobalOrders = "user_orders"

	cartKeyPrefix   = "cart_"
	ordersKeyPrefix = "user_orders_"
	cacheKeyPrefix  = "catalog_cache_"
)

// CartKey returns the cart partition key for a tenant
func CartKey(tenantID string) string {
	return fmt.Sprintf("%s%s", cartKeyPrefix, tenantID)
}

// OrdersKey returns the order partition key for an owner email
func OrdersKey(ownerEmail string) string {
	return fmt.Sprintf("%s%s", ordersKeyPrefix, ownerEmail)
}

// CatalogCacheKey returns the local cache key for a catalog filter fingerprint
func CatalogCacheKey(fingerprint string) string {
	return fmt.Sprintf("%s%s", cacheKeyPrefix, fingerprint)
}
