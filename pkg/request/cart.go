package request

type AddLineItem struct {
	VariantID   string `validate:"required"       json:"variant_id"`
	Quantity    int    `validate:"required,gte=1" json:"quantity"`
	CountryCode string `json:"country_code"`
}

type UpdateLineItem struct {
	Quantity int `validate:"required,gte=1" json:"quantity"`
}

type ApplyPromotions struct {
	PromoCodes []string `validate:"required,min=1,dive,required" json:"promo_codes"`
}

type SetShippingMethod struct {
	OptionID string `validate:"required" json:"option_id"`
}

type UpdateRegion struct {
	CountryCode string `validate:"required,len=2" json:"country_code"`
}
