package commerce

import (
	"context"
	"net/http"
)

func (cl *Client) ListRegions(c context.Context) ([]Region, error) {
	wrapper := struct {
		Regions []Region `json:"regions"`
	}{}
	err := cl.do(c, http.MethodGet, "/store/regions", nil, nil, &wrapper)
	if err != nil {
		return nil, err
	}
	return wrapper.Regions, nil
}

func (cl *Client) RetrieveRegion(c context.Context, id string) (Region, error) {
	wrapper := struct {
		Region Region `json:"region"`
	}{}
	err := cl.do(c, http.MethodGet, "/store/regions/"+id, nil, nil, &wrapper)
	if err != nil {
		return Region{}, err
	}
	return wrapper.Region, nil
}
