package commerce

import (
	"context"
	"net/http"
	"net/url"
)

type cartEnvelope struct {
	Cart Cart `json:"cart"`
}

func (cl *Client) RetrieveCart(c context.Context, cartID string) (Cart, error) {
	wrapper := cartEnvelope{}
	err := cl.do(c, http.MethodGet, "/store/carts/"+cartID, nil, nil, &wrapper)
	if err != nil {
		return Cart{}, err
	}
	return wrapper.Cart, nil
}

type CreateCartInput struct {
	RegionID string `json:"region_id,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (cl *Client) CreateCart(c context.Context, input CreateCartInput) (Cart, error) {
	wrapper := cartEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/carts", nil, input, &wrapper)
	if err != nil {
		return Cart{}, err
	}
	return wrapper.Cart, nil
}

type UpdateCartInput struct {
	Email           string   `json:"email,omitempty"`
	RegionID        string   `json:"region_id,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
	PromoCodes      []string `json:"promo_codes,omitempty"`
}

func (cl *Client) UpdateCart(c context.Context, cartID string, input UpdateCartInput) (Cart, error) {
	wrapper := cartEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/carts/"+cartID, nil, input, &wrapper)
	if err != nil {
		return Cart{}, err
	}
	return wrapper.Cart, nil
}

type AddLineItemInput struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (cl *Client) AddLineItem(c context.Context, cartID string, input AddLineItemInput) (Cart, error) {
	wrapper := cartEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/carts/"+cartID+"/line-items", nil, input, &wrapper)
	if err != nil {
		return Cart{}, err
	}
	return wrapper.Cart, nil
}

func (cl *Client) UpdateLineItem(
	c context.Context,
	cartID string,
	lineID string,
	quantity int,
) (Cart, error) {
	input := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	wrapper := cartEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/carts/"+cartID+"/line-items/"+lineID, nil, input, &wrapper)
	if err != nil {
		return Cart{}, err
	}
	return wrapper.Cart, nil
}

func (cl *Client) DeleteLineItem(c context.Context, cartID string, lineID string) error {
	return cl.do(c, http.MethodDelete, "/store/carts/"+cartID+"/line-items/"+lineID, nil, nil, nil)
}

func (cl *Client) AddShippingMethod(
	c context.Context,
	cartID string,
	shippingOptionID string,
) (Cart, error) {
	input := struct {
		OptionID string `json:"option_id"`
	}{OptionID: shippingOptionID}

	wrapper := cartEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/carts/"+cartID+"/shipping-methods", nil, input, &wrapper)
	if err != nil {
		return Cart{}, err
	}
	return wrapper.Cart, nil
}

func (cl *Client) CompleteCart(c context.Context, cartID string) (Order, error) {
	wrapper := struct {
		Order Order `json:"order"`
	}{}
	err := cl.do(c, http.MethodPost, "/store/carts/"+cartID+"/complete", nil, nil, &wrapper)
	if err != nil {
		return Order{}, err
	}
	return wrapper.Order, nil
}

func (cl *Client) ListShippingOptions(c context.Context, cartID string) ([]ShippingOption, error) {
	wrapper := struct {
		ShippingOptions []ShippingOption `json:"shipping_options"`
	}{}
	query := url.Values{"cart_id": {cartID}}
	err := cl.do(c, http.MethodGet, "/store/shipping-options", query, nil, &wrapper)
	if err != nil {
		return nil, err
	}
	return wrapper.ShippingOptions, nil
}
