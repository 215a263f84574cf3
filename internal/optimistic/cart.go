// Package optimistic computes provisional cart and customer snapshots from
// the last cached entity and a pending mutation's input, before the network
// call resolves. Every operation is a total pure function: it never mutates
// its input, never fails, and always returns a fully-formed entity. The
// calling mutation layer owns snapshotting, cache writes, and rollback.
package optimistic

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/verdantlabs/storefront/internal/commerce"
)

const syntheticPrefix = "optimistic-"

// IsSyntheticID reports whether id was issued locally by this engine rather
// than by the backend.
func IsSyntheticID(id string) bool {
	return strings.HasPrefix(id, syntheticPrefix)
}

func syntheticLineItemID(variantID string) string {
	return fmt.Sprintf("%s%s-%d", syntheticPrefix, variantID, time.Now().UnixMilli())
}

func cloneCart(cart commerce.Cart) commerce.Cart {
	out := cart
	out.Items = append([]commerce.LineItem(nil), cart.Items...)
	out.Promotions = append([]commerce.Promotion(nil), cart.Promotions...)
	out.ShippingMethods = append([]commerce.ShippingMethod(nil), cart.ShippingMethods...)
	if cart.ShippingAddress != nil {
		address := *cart.ShippingAddress
		out.ShippingAddress = &address
	}
	if cart.BillingAddress != nil {
		address := *cart.BillingAddress
		out.BillingAddress = &address
	}
	return out
}

// lineItemUnitPrice falls back from the item's own unit price to a price
// derived from its total, so a provisional total can always be computed.
func lineItemUnitPrice(item commerce.LineItem) int64 {
	if item.UnitPrice > 0 {
		return item.UnitPrice
	}
	if item.Total > 0 && item.Quantity > 0 {
		q := int64(item.Quantity)
		return (item.Total + q/2) / q
	}
	return 0
}

func lineItemTotal(item commerce.LineItem, quantity int) int64 {
	return lineItemUnitPrice(item) * int64(quantity)
}

// recalculateTotals rebuilds subtotal and grand total from the line items.
// Shipping, tax, discount, and gift-card totals are taken as-is from the
// snapshot; the backend owns their computation.
func recalculateTotals(cart commerce.Cart, items []commerce.LineItem) commerce.Cart {
	var subtotal int64
	for _, item := range items {
		subtotal += lineItemTotal(item, item.Quantity)
	}

	cart.Items = items
	cart.Subtotal = subtotal
	cart.Total = subtotal + cart.ShippingTotal + cart.TaxTotal - cart.DiscountTotal - cart.GiftCardTotal
	return cart
}

type AddLineItemInput struct {
	Product  commerce.Product
	Variant  commerce.Variant
	Quantity int
}

// AddLineItem merges the quantity into an existing line item for the same
// variant, or appends a provisional item with a synthetic id priced from the
// variant's calculated price (0 if absent).
func AddLineItem(cart commerce.Cart, input AddLineItemInput) commerce.Cart {
	out := cloneCart(cart)
	items := out.Items

	existingIndex := -1
	for i, item := range items {
		if item.VariantID == input.Variant.ID {
			existingIndex = i
			break
		}
	}

	now := time.Now()
	if existingIndex >= 0 {
		existing := items[existingIndex]
		newQuantity := existing.Quantity + input.Quantity
		existing.Quantity = newQuantity
		existing.Total = lineItemTotal(items[existingIndex], newQuantity)
		existing.UpdatedAt = now
		items[existingIndex] = existing
	} else {
		var unitPrice int64
		if input.Variant.CalculatedPrice != nil {
			unitPrice = input.Variant.CalculatedPrice.CalculatedAmount
		}
		items = append(items, commerce.LineItem{
			ID:           syntheticLineItemID(input.Variant.ID),
			CartID:       cart.ID,
			ProductID:    input.Product.ID,
			VariantID:    input.Variant.ID,
			Title:        input.Product.Title,
			ProductTitle: input.Product.Title,
			Thumbnail:    input.Product.Thumbnail,
			Quantity:     input.Quantity,
			UnitPrice:    unitPrice,
			Total:        unitPrice * int64(input.Quantity),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return recalculateTotals(out, items)
}

// UpdateLineItem replaces the matching line item's quantity and total. A
// lineID with no match leaves the cart unchanged apart from recomputed
// totals, which are identical by construction.
func UpdateLineItem(cart commerce.Cart, lineID string, quantity int) commerce.Cart {
	out := cloneCart(cart)
	for i, item := range out.Items {
		if item.ID != lineID {
			continue
		}
		item.Quantity = quantity
		item.Total = lineItemTotal(out.Items[i], quantity)
		item.UpdatedAt = time.Now()
		out.Items[i] = item
	}
	return recalculateTotals(out, out.Items)
}

func RemoveLineItem(cart commerce.Cart, lineID string) commerce.Cart {
	out := cloneCart(cart)
	items := out.Items[:0:0]
	for _, item := range out.Items {
		if item.ID != lineID {
			items = append(items, item)
		}
	}
	return recalculateTotals(out, items)
}

// ApplyShippingMethod replaces any method referencing the same option with a
// synthetic one carrying the option's amount, and sets the cart's shipping
// total to that amount. A nil option is a no-op.
func ApplyShippingMethod(cart commerce.Cart, option *commerce.ShippingOption) commerce.Cart {
	if option == nil {
		return cart
	}

	out := cloneCart(cart)
	methods := out.ShippingMethods[:0:0]
	for _, method := range out.ShippingMethods {
		if method.ShippingOptionID != option.ID {
			methods = append(methods, method)
		}
	}
	methods = append(methods, commerce.ShippingMethod{
		ID:               syntheticPrefix + option.ID,
		ShippingOptionID: option.ID,
		Name:             option.Name,
		Amount:           option.Amount,
	})

	out.ShippingMethods = methods
	out.ShippingTotal = option.Amount
	return recalculateTotals(out, out.Items)
}

// ApplyPromotions preserves automatic promotions, reuses existing promotion
// entries by code, and synthesizes manual entries for new codes. The discount
// total is deliberately not recomputed here: the backend recomputes it on
// reconciliation, and the provisional value keeps the snapshot's total.
func ApplyPromotions(cart commerce.Cart, codes []string) commerce.Cart {
	out := cloneCart(cart)

	existingByCode := map[string]commerce.Promotion{}
	automatic := []commerce.Promotion{}
	for _, promotion := range out.Promotions {
		if promotion.IsAutomatic {
			automatic = append(automatic, promotion)
		}
		if promotion.Code != "" {
			existingByCode[promotion.Code] = promotion
		}
	}

	promotions := automatic
	for _, code := range codes {
		if code == "" {
			continue
		}
		if existing, ok := existingByCode[code]; ok {
			promotions = append(promotions, existing)
			continue
		}
		promotions = append(promotions, commerce.Promotion{
			ID:          fmt.Sprintf("%s%s-%d", syntheticPrefix, code, time.Now().UnixMilli()),
			Code:        code,
			IsAutomatic: false,
		})
	}

	out.Promotions = promotions
	return out
}

// ApplyAddresses builds the shipping address from form input with fallback to
// the cart's current values. With same_as_billing checked the billing address
// carries the same field values; otherwise it is built independently with its
// own fallbacks. The cart email is updated when present in the form.
func ApplyAddresses(cart commerce.Cart, form url.Values) commerce.Cart {
	out := cloneCart(cart)

	shipping := buildCartAddress(form, "shipping_address", cart.ShippingAddress)
	out.ShippingAddress = shipping

	if form.Get("same_as_billing") == "on" {
		billing := *shipping
		out.BillingAddress = &billing
	} else {
		out.BillingAddress = buildCartAddress(form, "billing_address", cart.BillingAddress)
	}

	out.Email = formValue(form, "email", cart.Email)
	return out
}
