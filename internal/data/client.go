// Package data holds the server data-access functions: thin services that
// translate storefront intents into remote commerce calls, cache reads under
// composite keys, and run every mutation through the optimistic protocol.
package data

import (
	"context"

	"github.com/verdantlabs/storefront/internal/commerce"
)

// CommerceClient is the slice of the remote commerce API the data-access
// layer consumes. *commerce.Client satisfies it; tests may substitute stubs.
type CommerceClient interface {
	ListProducts(c context.Context, params commerce.ListProductsParams) (commerce.ProductsPage, error)
	RetrieveProduct(c context.Context, id string, fields string, regionID string) (commerce.Product, error)

	RetrieveCart(c context.Context, cartID string) (commerce.Cart, error)
	CreateCart(c context.Context, input commerce.CreateCartInput) (commerce.Cart, error)
	UpdateCart(c context.Context, cartID string, input commerce.UpdateCartInput) (commerce.Cart, error)
	AddLineItem(c context.Context, cartID string, input commerce.AddLineItemInput) (commerce.Cart, error)
	UpdateLineItem(c context.Context, cartID string, lineID string, quantity int) (commerce.Cart, error)
	DeleteLineItem(c context.Context, cartID string, lineID string) error
	AddShippingMethod(c context.Context, cartID string, shippingOptionID string) (commerce.Cart, error)
	CompleteCart(c context.Context, cartID string) (commerce.Order, error)
	ListShippingOptions(c context.Context, cartID string) ([]commerce.ShippingOption, error)

	Register(c context.Context, creds commerce.Credentials) (string, error)
	Login(c context.Context, creds commerce.Credentials) (string, error)
	Logout(c context.Context) error
	RetrieveCustomer(c context.Context) (commerce.Customer, error)
	CreateCustomer(c context.Context, input commerce.CreateCustomerInput) (commerce.Customer, error)
	UpdateCustomer(c context.Context, input commerce.UpdateCustomerInput) (commerce.Customer, error)
	CreateAddress(c context.Context, address commerce.CustomerAddress) (commerce.Customer, error)
	UpdateAddress(c context.Context, addressID string, address commerce.CustomerAddress) (commerce.Customer, error)
	DeleteAddress(c context.Context, addressID string) error

	ListRegions(c context.Context) ([]commerce.Region, error)
	RetrieveRegion(c context.Context, id string) (commerce.Region, error)

	ListOrders(c context.Context, limit int, offset int) (commerce.OrdersPage, error)
	RetrieveOrder(c context.Context, id string) (commerce.Order, error)

	ListPaymentProviders(c context.Context, regionID string) ([]commerce.PaymentProvider, error)
}

var _ CommerceClient = (*commerce.Client)(nil)
