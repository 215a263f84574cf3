package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type OrdersPage struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

func (cl *Client) ListOrders(c context.Context, limit int, offset int) (OrdersPage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	query.Set("order", "-created_at")

	page := OrdersPage{}
	err := cl.do(c, http.MethodGet, "/store/orders", query, nil, &page)
	if err != nil {
		return OrdersPage{}, err
	}
	return page, nil
}

func (cl *Client) RetrieveOrder(c context.Context, id string) (Order, error) {
	wrapper := struct {
		Order Order `json:"order"`
	}{}
	err := cl.do(c, http.MethodGet, "/store/orders/"+id, nil, nil, &wrapper)
	if err != nil {
		return Order{}, err
	}
	return wrapper.Order, nil
}
