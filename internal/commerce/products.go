package commerce

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type ListProductsParams struct {
	IDs      []string
	Handle   string
	RegionID string
	Fields   string
	Limit    int
	Offset   int
}

type ProductsPage struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

func (cl *Client) ListProducts(c context.Context, params ListProductsParams) (ProductsPage, error) {
	query := url.Values{}
	if len(params.IDs) > 0 {
		query.Set("id", strings.Join(params.IDs, ","))
	}
	if params.Handle != "" {
		query.Set("handle", params.Handle)
	}
	if params.RegionID != "" {
		query.Set("region_id", params.RegionID)
	}
	if params.Fields != "" {
		query.Set("fields", params.Fields)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	if cl.salesChannelID != "" {
		query.Set("sales_channel_id", cl.salesChannelID)
	}

	page := ProductsPage{}
	err := cl.do(c, http.MethodGet, "/store/products", query, nil, &page)
	if err != nil {
		return ProductsPage{}, err
	}
	return page, nil
}

func (cl *Client) RetrieveProduct(
	c context.Context,
	id string,
	fields string,
	regionID string,
) (Product, error) {
	query := url.Values{}
	if fields != "" {
		query.Set("fields", fields)
	}
	if regionID != "" {
		query.Set("region_id", regionID)
	}

	wrapper := struct {
		Product Product `json:"product"`
	}{}
	err := cl.do(c, http.MethodGet, "/store/products/"+id, query, nil, &wrapper)
	if err != nil {
		return Product{}, err
	}
	return wrapper.Product, nil
}
