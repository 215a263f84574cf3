package optimistic

import (
	"net/url"

	"github.com/verdantlabs/storefront/internal/commerce"
)

func formValue(form url.Values, key string, fallback string) string {
	if value := form.Get(key); value != "" {
		return value
	}
	return fallback
}

func buildCartAddress(
	form url.Values,
	prefix string,
	fallback *commerce.Address,
) *commerce.Address {
	existing := commerce.Address{}
	if fallback != nil {
		existing = *fallback
	}

	return &commerce.Address{
		FirstName:   formValue(form, prefix+".first_name", existing.FirstName),
		LastName:    formValue(form, prefix+".last_name", existing.LastName),
		Company:     formValue(form, prefix+".company", existing.Company),
		Address1:    formValue(form, prefix+".address_1", existing.Address1),
		Address2:    formValue(form, prefix+".address_2", existing.Address2),
		City:        formValue(form, prefix+".city", existing.City),
		PostalCode:  formValue(form, prefix+".postal_code", existing.PostalCode),
		Province:    formValue(form, prefix+".province", existing.Province),
		CountryCode: formValue(form, prefix+".country_code", existing.CountryCode),
		Phone:       formValue(form, prefix+".phone", existing.Phone),
	}
}

// CustomerAddressFromForm reads address fields from a profile form. Fields
// may arrive unprefixed or under a billing_address. prefix; unprefixed wins.
func CustomerAddressFromForm(form url.Values) commerce.CustomerAddress {
	get := func(key string) string {
		if value := form.Get(key); value != "" {
			return value
		}
		return form.Get("billing_address." + key)
	}

	return commerce.CustomerAddress{
		FirstName:   get("first_name"),
		LastName:    get("last_name"),
		Company:     get("company"),
		Address1:    get("address_1"),
		Address2:    get("address_2"),
		City:        get("city"),
		PostalCode:  get("postal_code"),
		Province:    get("province"),
		CountryCode: get("country_code"),
		Phone:       get("phone"),
	}
}
