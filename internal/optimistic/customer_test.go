package optimistic

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantlabs/storefront/internal/commerce"
)

func fixtureCustomer() commerce.Customer {
	return commerce.Customer{
		ID:        "cus_01",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Addresses: []commerce.CustomerAddress{
			{ID: "addr_01", FirstName: "Ada", City: "London", CountryCode: "gb"},
			{ID: "addr_02", FirstName: "Ada", City: "Paris", CountryCode: "fr"},
		},
	}
}

func TestApplyCustomerUpdate(t *testing.T) {
	customer := fixtureCustomer()
	phone := "+4712345678"

	actual := ApplyCustomerUpdate(customer, CustomerUpdate{Phone: &phone})

	assert.Equal(t, "+4712345678", actual.Phone)
	assert.Equal(t, customer.Email, actual.Email, "unset fields keep the snapshot value")
	assert.Equal(t, customer.FirstName, actual.FirstName)
	assert.Empty(t, customer.Phone, "input customer must not be mutated")
}

func TestAddCustomerAddress(t *testing.T) {
	customer := fixtureCustomer()
	address := commerce.CustomerAddress{ID: "addr_03", City: "Berlin", CountryCode: "de"}

	actual := AddCustomerAddress(customer, address)

	assert.Len(t, actual.Addresses, 3)
	assert.Equal(t, address, actual.Addresses[2])
	assert.Len(t, customer.Addresses, 2, "input customer must not be mutated")
}

func TestUpdateCustomerAddress(t *testing.T) {
	customer := fixtureCustomer()

	actual := UpdateCustomerAddress(customer, "addr_02", commerce.CustomerAddress{City: "Lyon"})

	assert.Equal(t, "Lyon", actual.Addresses[1].City)
	assert.Equal(t, "fr", actual.Addresses[1].CountryCode, "omitted fields keep existing values")
	assert.Equal(t, customer.Addresses[0], actual.Addresses[0])
	assert.Equal(t, "Paris", customer.Addresses[1].City, "input customer must not be mutated")
}

func TestUpdateCustomerAddressUnknownIDIsNoop(t *testing.T) {
	customer := fixtureCustomer()

	actual := UpdateCustomerAddress(customer, "addr_99", commerce.CustomerAddress{City: "Lyon"})

	assert.Equal(t, customer, actual)
}

func TestRemoveCustomerAddress(t *testing.T) {
	customer := fixtureCustomer()

	actual := RemoveCustomerAddress(customer, "addr_01")

	assert.Len(t, actual.Addresses, 1)
	assert.Equal(t, "addr_02", actual.Addresses[0].ID)
}

func TestCustomerAddressFromForm(t *testing.T) {
	form := url.Values{}
	form.Set("first_name", "Ada")
	form.Set("billing_address.last_name", "Lovelace")
	form.Set("billing_address.city", "London")
	form.Set("city", "Bergen")

	actual := CustomerAddressFromForm(form)

	assert.Equal(t, "Ada", actual.FirstName)
	assert.Equal(t, "Lovelace", actual.LastName, "prefixed field used when unprefixed absent")
	assert.Equal(t, "Bergen", actual.City, "unprefixed field wins over prefixed")
}
