package cache

import "fmt"

// Composite cache keys: entity kind plus its discriminating parameters.
// Every mutation invalidates exactly the keys its entity lives under.

func CartKey(cartID string) string {
	return "cart:" + cartID
}

func CustomerKey(customerID string) string {
	return "customer:" + customerID
}

// Order keys carry the customer id: the cache is shared across sessions, so
// an unscoped key would serve one customer's orders to another.
func OrdersKey(customerID string, limit int, offset int) string {
	return fmt.Sprintf("orders:%s:limit=%d:offset=%d", customerID, limit, offset)
}

func OrderKey(customerID string, orderID string) string {
	return fmt.Sprintf("order:%s:%s", customerID, orderID)
}

func RegionsKey() string {
	return "regions"
}

func RegionKey(countryCode string) string {
	return "region:" + countryCode
}

func ShippingOptionsKey(cartID string) string {
	return "shipping-options:" + cartID
}

func PaymentProvidersKey(regionID string) string {
	return "payment-providers:" + regionID
}

// ProductKey caches a single product detail lookup by its normalized handle.
func ProductKey(handle string, fields string, regionID string) string {
	return fmt.Sprintf("product:%s:fields=%s:region=%s", handle, fields, regionID)
}
