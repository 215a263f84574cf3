package commerce

import (
	"context"
	"net/http"
	"net/url"
)

func (cl *Client) ListPaymentProviders(c context.Context, regionID string) ([]PaymentProvider, error) {
	query := url.Values{}
	query.Set("region_id", regionID)

	wrapper := struct {
		PaymentProviders []PaymentProvider `json:"payment_providers"`
	}{}
	err := cl.do(c, http.MethodGet, "/store/payment-providers", query, nil, &wrapper)
	if err != nil {
		return nil, err
	}
	return wrapper.PaymentProviders, nil
}
