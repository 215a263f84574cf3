package commerce

import (
	"context"
	"net/http"
)

type customerEnvelope struct {
	Customer Customer `json:"customer"`
}

func (cl *Client) RetrieveCustomer(c context.Context) (Customer, error) {
	wrapper := customerEnvelope{}
	err := cl.do(c, http.MethodGet, "/store/customers/me", nil, nil, &wrapper)
	if err != nil {
		return Customer{}, err
	}
	return wrapper.Customer, nil
}

type CreateCustomerInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (cl *Client) CreateCustomer(c context.Context, input CreateCustomerInput) (Customer, error) {
	wrapper := customerEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/customers", nil, input, &wrapper)
	if err != nil {
		return Customer{}, err
	}
	return wrapper.Customer, nil
}

type UpdateCustomerInput struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (cl *Client) UpdateCustomer(c context.Context, input UpdateCustomerInput) (Customer, error) {
	wrapper := customerEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/customers/me", nil, input, &wrapper)
	if err != nil {
		return Customer{}, err
	}
	return wrapper.Customer, nil
}

func (cl *Client) CreateAddress(c context.Context, address CustomerAddress) (Customer, error) {
	wrapper := customerEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/customers/me/addresses", nil, address, &wrapper)
	if err != nil {
		return Customer{}, err
	}
	return wrapper.Customer, nil
}

func (cl *Client) UpdateAddress(
	c context.Context,
	addressID string,
	address CustomerAddress,
) (Customer, error) {
	wrapper := customerEnvelope{}
	err := cl.do(c, http.MethodPost, "/store/customers/me/addresses/"+addressID, nil, address, &wrapper)
	if err != nil {
		return Customer{}, err
	}
	return wrapper.Customer, nil
}

func (cl *Client) DeleteAddress(c context.Context, addressID string) error {
	return cl.do(c, http.MethodDelete, "/store/customers/me/addresses/"+addressID, nil, nil, nil)
}
