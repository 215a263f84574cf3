package commerce

import "time"

// All monetary amounts are integer minor currency units; the backend owns
// pricing, tax, and discount computation. The storefront only recomputes
// subtotal and grand total locally for optimistic updates.

type Cart struct {
	ID              string           `json:"id"`
	CurrencyCode    string           `json:"currency_code"`
	Email           string           `json:"email,omitempty"`
	RegionID        string           `json:"region_id,omitempty"`
	Items           []LineItem       `json:"items"`
	ShippingAddress *Address         `json:"shipping_address,omitempty"`
	BillingAddress  *Address         `json:"billing_address,omitempty"`
	Promotions      []Promotion      `json:"promotions,omitempty"`
	ShippingMethods []ShippingMethod `json:"shipping_methods,omitempty"`
	Subtotal        int64            `json:"subtotal"`
	ShippingTotal   int64            `json:"shipping_total"`
	TaxTotal        int64            `json:"tax_total"`
	DiscountTotal   int64            `json:"discount_total"`
	GiftCardTotal   int64            `json:"gift_card_total"`
	Total           int64            `json:"total"`
	CreatedAt       time.Time        `json:"created_at,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at,omitempty"`
}

type LineItem struct {
	ID           string    `json:"id"`
	CartID       string    `json:"cart_id,omitempty"`
	ProductID    string    `json:"product_id,omitempty"`
	VariantID    string    `json:"variant_id"`
	Title        string    `json:"title,omitempty"`
	ProductTitle string    `json:"product_title,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPrice    int64     `json:"unit_price"`
	Total        int64     `json:"total"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Address struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address_1,omitempty"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Province    string `json:"province,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type Promotion struct {
	ID          string `json:"id"`
	Code        string `json:"code,omitempty"`
	IsAutomatic bool   `json:"is_automatic"`
}

type ShippingMethod struct {
	ID               string `json:"id"`
	ShippingOptionID string `json:"shipping_option_id"`
	Name             string `json:"name,omitempty"`
	Amount           int64  `json:"amount"`
}

type ShippingOption struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type Customer struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	FirstName        string            `json:"first_name,omitempty"`
	LastName         string            `json:"last_name,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	Addresses        []CustomerAddress `json:"addresses"`
	DefaultBillingID string            `json:"default_billing_address_id,omitempty"`
}

type CustomerAddress struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Company        string `json:"company,omitempty"`
	Address1       string `json:"address_1,omitempty"`
	Address2       string `json:"address_2,omitempty"`
	City           string `json:"city,omitempty"`
	PostalCode     string `json:"postal_code,omitempty"`
	Province       string `json:"province,omitempty"`
	CountryCode    string `json:"country_code,omitempty"`
	Phone          string `json:"phone,omitempty"`
	IsDefaultBill  bool   `json:"is_default_billing,omitempty"`
	IsDefaultShip  bool   `json:"is_default_shipping,omitempty"`
	AddressName    string `json:"address_name,omitempty"`
}

type Region struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currency_code"`
	Countries    []Country `json:"countries"`
}

type Country struct {
	ISO2        string `json:"iso_2"`
	DisplayName string `json:"display_name,omitempty"`
}

type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Images      []Image   `json:"images,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type Image struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

type Variant struct {
	ID              string           `json:"id"`
	Title           string           `json:"title,omitempty"`
	SKU             string           `json:"sku,omitempty"`
	CalculatedPrice *CalculatedPrice `json:"calculated_price,omitempty"`
}

type CalculatedPrice struct {
	CalculatedAmount int64  `json:"calculated_amount"`
	CurrencyCode     string `json:"currency_code,omitempty"`
}

type Order struct {
	ID           string     `json:"id"`
	DisplayID    int        `json:"display_id,omitempty"`
	Email        string     `json:"email,omitempty"`
	CurrencyCode string     `json:"currency_code,omitempty"`
	Items        []LineItem `json:"items"`
	Total        int64      `json:"total"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
}

type PaymentProvider struct {
	ID string `json:"id"`
}
