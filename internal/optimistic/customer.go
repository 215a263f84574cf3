package optimistic

import (
	"github.com/verdantlabs/storefront/internal/commerce"
)

func cloneCustomer(customer commerce.Customer) commerce.Customer {
	out := customer
	out.Addresses = append([]commerce.CustomerAddress(nil), customer.Addresses...)
	return out
}

// CustomerUpdate carries only the profile fields the mutation provided; nil
// fields keep the snapshot's value.
type CustomerUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

func ApplyCustomerUpdate(customer commerce.Customer, update CustomerUpdate) commerce.Customer {
	out := cloneCustomer(customer)
	if update.Email != nil {
		out.Email = *update.Email
	}
	if update.FirstName != nil {
		out.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		out.LastName = *update.LastName
	}
	if update.Phone != nil {
		out.Phone = *update.Phone
	}
	return out
}

func AddCustomerAddress(
	customer commerce.Customer,
	address commerce.CustomerAddress,
) commerce.Customer {
	out := cloneCustomer(customer)
	out.Addresses = append(out.Addresses, address)
	return out
}

// UpdateCustomerAddress merges the update's non-empty fields into the address
// with the matching id; other addresses are untouched.
func UpdateCustomerAddress(
	customer commerce.Customer,
	addressID string,
	update commerce.CustomerAddress,
) commerce.Customer {
	out := cloneCustomer(customer)
	for i, address := range out.Addresses {
		if address.ID != addressID {
			continue
		}
		out.Addresses[i] = mergeCustomerAddress(address, update)
	}
	return out
}

func RemoveCustomerAddress(customer commerce.Customer, addressID string) commerce.Customer {
	out := cloneCustomer(customer)
	addresses := out.Addresses[:0:0]
	for _, address := range out.Addresses {
		if address.ID != addressID {
			addresses = append(addresses, address)
		}
	}
	out.Addresses = addresses
	return out
}

func mergeCustomerAddress(
	existing commerce.CustomerAddress,
	update commerce.CustomerAddress,
) commerce.CustomerAddress {
	merged := existing
	if update.FirstName != "" {
		merged.FirstName = update.FirstName
	}
	if update.LastName != "" {
		merged.LastName = update.LastName
	}
	if update.Company != "" {
		merged.Company = update.Company
	}
	if update.Address1 != "" {
		merged.Address1 = update.Address1
	}
	if update.Address2 != "" {
		merged.Address2 = update.Address2
	}
	if update.City != "" {
		merged.City = update.City
	}
	if update.PostalCode != "" {
		merged.PostalCode = update.PostalCode
	}
	if update.Province != "" {
		merged.Province = update.Province
	}
	if update.CountryCode != "" {
		merged.CountryCode = update.CountryCode
	}
	if update.Phone != "" {
		merged.Phone = update.Phone
	}
	return merged
}
