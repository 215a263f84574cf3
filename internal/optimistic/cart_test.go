package optimistic

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantlabs/storefront/internal/commerce"
)

func fixtureCart() commerce.Cart {
	return commerce.Cart{
		ID:           "cart_01",
		CurrencyCode: "usd",
		Items: []commerce.LineItem{
			{
				ID:        "item_01",
				CartID:    "cart_01",
				VariantID: "variant_01",
				Quantity:  2,
				UnitPrice: 1000,
				Total:     2000,
			},
			{
				ID:        "item_02",
				CartID:    "cart_01",
				VariantID: "variant_02",
				Quantity:  1,
				UnitPrice: 500,
				Total:     500,
			},
		},
		Subtotal:      2500,
		ShippingTotal: 300,
		TaxTotal:      200,
		DiscountTotal: 100,
		GiftCardTotal: 0,
		Total:         2900,
	}
}

func TestAddLineItemNewVariant(t *testing.T) {
	cart := fixtureCart()

	actual := AddLineItem(cart, AddLineItemInput{
		Product: commerce.Product{ID: "prod_03", Title: "Hoodie"},
		Variant: commerce.Variant{
			ID:              "variant_03",
			CalculatedPrice: &commerce.CalculatedPrice{CalculatedAmount: 750},
		},
		Quantity: 2,
	})

	assert.Len(t, actual.Items, 3)
	added := actual.Items[2]
	assert.True(t, IsSyntheticID(added.ID))
	assert.Equal(t, "variant_03", added.VariantID)
	assert.Equal(t, 2, added.Quantity)
	assert.EqualValues(t, 750, added.UnitPrice)
	assert.EqualValues(t, 1500, added.Total)
	assert.EqualValues(t, cart.Subtotal+1500, actual.Subtotal)
	assert.EqualValues(t, actual.Subtotal+300+200-100, actual.Total)
	assert.Len(t, cart.Items, 2, "input cart must not be mutated")
}

func TestAddLineItemExistingVariant(t *testing.T) {
	cart := fixtureCart()

	actual := AddLineItem(cart, AddLineItemInput{
		Product:  commerce.Product{ID: "prod_01", Title: "Tee"},
		Variant:  commerce.Variant{ID: "variant_01"},
		Quantity: 3,
	})

	assert.Len(t, actual.Items, 2)
	assert.Equal(t, 5, actual.Items[0].Quantity)
	assert.EqualValues(t, 5000, actual.Items[0].Total)
	assert.EqualValues(t, 5500, actual.Subtotal)
	assert.Equal(t, 2, cart.Items[0].Quantity, "input cart must not be mutated")
}

func TestAddLineItemVariantWithoutPrice(t *testing.T) {
	cart := fixtureCart()

	actual := AddLineItem(cart, AddLineItemInput{
		Product:  commerce.Product{ID: "prod_04"},
		Variant:  commerce.Variant{ID: "variant_04"},
		Quantity: 1,
	})

	added := actual.Items[2]
	assert.EqualValues(t, 0, added.UnitPrice)
	assert.EqualValues(t, 0, added.Total)
	assert.EqualValues(t, cart.Subtotal, actual.Subtotal)
}

func TestUpdateLineItem(t *testing.T) {
	cart := fixtureCart()

	actual := UpdateLineItem(cart, "item_01", 4)

	assert.Equal(t, 4, actual.Items[0].Quantity)
	assert.EqualValues(t, 4000, actual.Items[0].Total)
	assert.Equal(t, cart.Items[1], actual.Items[1], "other line items stay identical")
	assert.EqualValues(t, 4500, actual.Subtotal)
	assert.EqualValues(t, 4500+300+200-100, actual.Total)
}

func TestUpdateLineItemUnknownID(t *testing.T) {
	cart := fixtureCart()

	actual := UpdateLineItem(cart, "item_99", 4)

	assert.Equal(t, cart, actual)
}

func TestRemoveLineItem(t *testing.T) {
	cart := fixtureCart()

	actual := RemoveLineItem(cart, "item_01")

	assert.Len(t, actual.Items, 1)
	assert.Equal(t, "item_02", actual.Items[0].ID)
	assert.EqualValues(t, 500, actual.Subtotal)
	assert.EqualValues(t, 500+300+200-100, actual.Total)
}

func TestRemoveLineItemUnknownIDIsNoop(t *testing.T) {
	cart := fixtureCart()

	actual := RemoveLineItem(cart, "item_99")

	assert.Equal(t, cart, actual)
}

func TestApplyShippingMethodReplacesSameOption(t *testing.T) {
	cart := fixtureCart()
	cart.ShippingMethods = []commerce.ShippingMethod{
		{ID: "sm_01", ShippingOptionID: "so_01", Amount: 300},
	}

	first := ApplyShippingMethod(cart, &commerce.ShippingOption{ID: "so_01", Amount: 400})
	second := ApplyShippingMethod(first, &commerce.ShippingOption{ID: "so_01", Amount: 600})

	assert.Len(t, second.ShippingMethods, 1)
	assert.Equal(t, "so_01", second.ShippingMethods[0].ShippingOptionID)
	assert.EqualValues(t, 600, second.ShippingMethods[0].Amount)
	assert.EqualValues(t, 600, second.ShippingTotal)
	assert.EqualValues(t, second.Subtotal+600+200-100, second.Total)
}

func TestApplyShippingMethodNilOptionIsNoop(t *testing.T) {
	cart := fixtureCart()

	actual := ApplyShippingMethod(cart, nil)

	assert.Equal(t, cart, actual)
}

func TestApplyPromotions(t *testing.T) {
	cart := fixtureCart()
	automatic := commerce.Promotion{ID: "promo_auto", Code: "AUTO", IsAutomatic: true}
	existingManual := commerce.Promotion{ID: "promo_a", Code: "A", IsAutomatic: false}
	cart.Promotions = []commerce.Promotion{automatic, existingManual}

	actual := ApplyPromotions(cart, []string{"A", "B"})

	assert.Len(t, actual.Promotions, 3)
	assert.Equal(t, automatic, actual.Promotions[0], "automatic promotion preserved")
	assert.Equal(t, existingManual, actual.Promotions[1], "existing manual entry reused")
	assert.Equal(t, "B", actual.Promotions[2].Code)
	assert.False(t, actual.Promotions[2].IsAutomatic)
	assert.True(t, IsSyntheticID(actual.Promotions[2].ID))
	assert.EqualValues(t, cart.DiscountTotal, actual.DiscountTotal,
		"discount total is left for server reconciliation")
}

func TestApplyAddressesIndependentBilling(t *testing.T) {
	cart := fixtureCart()
	cart.ShippingAddress = &commerce.Address{FirstName: "Old", City: "Oslo", CountryCode: "no"}

	form := url.Values{}
	form.Set("shipping_address.first_name", "Ada")
	form.Set("shipping_address.city", "Bergen")
	form.Set("billing_address.first_name", "Billing")
	form.Set("billing_address.city", "Tromso")
	form.Set("email", "ada@example.com")

	actual := ApplyAddresses(cart, form)

	assert.Equal(t, "Ada", actual.ShippingAddress.FirstName)
	assert.Equal(t, "Bergen", actual.ShippingAddress.City)
	assert.Equal(t, "no", actual.ShippingAddress.CountryCode, "omitted field falls back to existing value")
	assert.Equal(t, "Billing", actual.BillingAddress.FirstName)
	assert.Equal(t, "Tromso", actual.BillingAddress.City)
	assert.Equal(t, "ada@example.com", actual.Email)
}

func TestApplyAddressesSameAsBilling(t *testing.T) {
	cart := fixtureCart()

	form := url.Values{}
	form.Set("shipping_address.first_name", "Ada")
	form.Set("shipping_address.city", "Bergen")
	form.Set("same_as_billing", "on")

	actual := ApplyAddresses(cart, form)

	assert.Equal(t, *actual.ShippingAddress, *actual.BillingAddress)
	assert.NotSame(t, actual.ShippingAddress, actual.BillingAddress)
}
