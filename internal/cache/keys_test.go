package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
	}{
		{name: "cart", actual: CartKey("cart_01"), expected: "cart:cart_01"},
		{name: "customer", actual: CustomerKey("cus_01"), expected: "customer:cus_01"},
		{
			name:     "orders",
			actual:   OrdersKey("cus_01", 10, 20),
			expected: "orders:cus_01:limit=10:offset=20",
		},
		{name: "order", actual: OrderKey("cus_01", "order_01"), expected: "order:cus_01:order_01"},
		{name: "regions", actual: RegionsKey(), expected: "regions"},
		{name: "region", actual: RegionKey("us"), expected: "region:us"},
		{
			name:     "shipping options",
			actual:   ShippingOptionsKey("cart_01"),
			expected: "shipping-options:cart_01",
		},
		{
			name:     "payment providers",
			actual:   PaymentProvidersKey("reg_01"),
			expected: "payment-providers:reg_01",
		},
		{
			name:     "product",
			actual:   ProductKey("prod_01", "id,title", "reg_01"),
			expected: "product:prod_01:fields=id,title:region=reg_01",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.actual)
		})
	}
}
