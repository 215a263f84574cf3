package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/commerce"
	"github.com/verdantlabs/storefront/internal/data"
	inHttp "github.com/verdantlabs/storefront/internal/http"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/money"
	"github.com/verdantlabs/storefront/internal/otel"
	"github.com/verdantlabs/storefront/pkg/request"
)

// variantScanLimit bounds the catalog window scanned when resolving a variant
// to its product for the provisional line item.
const variantScanLimit = 100

type CartController struct {
	carts    data.CartService
	products data.ProductService
	regions  data.RegionService
}

func AttachCartController(
	router *mux.Router,
	carts data.CartService,
	products data.ProductService,
	regions data.RegionService,
) {
	controller := CartController{carts: carts, products: products, regions: regions}

	sub := router.PathPrefix("/carts").Subrouter()
	sub.HandleFunc("", controller.CreateCart).Methods(http.MethodPost)
	sub.HandleFunc("/{cartId}", controller.RetrieveCart).Methods(http.MethodGet)
	sub.HandleFunc("/{cartId}/line-items", controller.AddLineItem).Methods(http.MethodPost)
	sub.HandleFunc("/{cartId}/line-items/{lineId}", controller.UpdateLineItem).
		Methods(http.MethodPost)
	sub.HandleFunc("/{cartId}/line-items/{lineId}", controller.DeleteLineItem).
		Methods(http.MethodDelete)
	sub.HandleFunc("/{cartId}/shipping-options", controller.ListShippingOptions).
		Methods(http.MethodGet)
	sub.HandleFunc("/{cartId}/shipping-methods", controller.SetShippingMethod).
		Methods(http.MethodPost)
	sub.HandleFunc("/{cartId}/promotions", controller.ApplyPromotions).Methods(http.MethodPost)
	sub.HandleFunc("/{cartId}/addresses", controller.SetAddresses).Methods(http.MethodPost)
	sub.HandleFunc("/{cartId}/complete", controller.CompleteCart).Methods(http.MethodPost)
}

func (t CartController) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController CreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController CreateCart").
		Logger()

	reqBody := request.UpdateRegion{}
	json.NewDecoder(r.Body).Decode(&reqBody)

	logger = logger.With().Str(log.KeyCountryCode, reqBody.CountryCode).Logger()
	c = logger.WithContext(c)

	region, err := t.regions.GetRegion(c, reqBody.CountryCode)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	cart, err := t.carts.CreateCart(c, region.ID)
	if err != nil {
		err = fmt.Errorf("failed creating cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyCartID, cart.ID).Msg("created cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "successfully created cart",
		"data":       cartPayload(cart),
	})
}

func (t CartController) RetrieveCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RetrieveCart")
	defer span.End()

	cartID := mux.Vars(r)["cartId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RetrieveCart").
		Str(log.KeyCartID, cartID).
		Logger()
	c = logger.WithContext(c)

	cart, err := t.carts.RetrieveCart(c, cartID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully retrieved cart",
		"data":       cartPayload(cart),
	})
}

func (t CartController) AddLineItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddLineItem")
	defer span.End()

	cartID := mux.Vars(r)["cartId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddLineItem").
		Str(log.KeyCartID, cartID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	reqBody := request.AddLineItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	logger = logger.With().
		Str(log.KeyProcess, "adding line item").
		Str(log.KeyVariantID, reqBody.VariantID).
		Int(log.KeyQuantity, reqBody.Quantity).
		Logger()
	c = logger.WithContext(c)

	input := data.AddToCartInput{VariantID: reqBody.VariantID, Quantity: reqBody.Quantity}
	if product, variant, ok := t.resolveVariant(c, reqBody.VariantID, reqBody.CountryCode); ok {
		input.Product = product
		input.Variant = variant
	}

	cart, err := t.carts.AddToCart(c, cartID, input)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added line item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully added line item",
		"data":       cartPayload(cart),
	})
}

// resolveVariant looks the variant's product up so the provisional cart can
// show title and price before the backend responds. Lookup failure is not an
// error: the cart converges on reconciliation either way.
func (t CartController) resolveVariant(
	c context.Context,
	variantID string,
	countryCode string,
) (*commerce.Product, *commerce.Variant, bool) {
	logger := zerolog.Ctx(c).With().Str(log.KeyVariantID, variantID).Logger()

	page, err := t.products.GetProductsList(c, 1, variantScanLimit, countryCode)
	if err != nil {
		logger.Warn().Err(err).Msg("failed listing products for variant lookup")
		return nil, nil, false
	}
	for i := range page.Products {
		for j := range page.Products[i].Variants {
			if page.Products[i].Variants[j].ID == variantID {
				return &page.Products[i], &page.Products[i].Variants[j], true
			}
		}
	}
	return nil, nil, false
}

func (t CartController) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateLineItem")
	defer span.End()

	vars := mux.Vars(r)
	cartID, lineID := vars["cartId"], vars["lineId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateLineItem").
		Str(log.KeyCartID, cartID).
		Str(log.KeyLineItemID, lineID).
		Logger()

	reqBody := request.UpdateLineItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	c = logger.WithContext(c)
	cart, err := t.carts.UpdateLineItem(c, cartID, lineID, reqBody.Quantity)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully updated line item",
		"data":       cartPayload(cart),
	})
}

func (t CartController) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController DeleteLineItem")
	defer span.End()

	vars := mux.Vars(r)
	cartID, lineID := vars["cartId"], vars["lineId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController DeleteLineItem").
		Str(log.KeyCartID, cartID).
		Str(log.KeyLineItemID, lineID).
		Logger()
	c = logger.WithContext(c)

	cart, err := t.carts.DeleteLineItem(c, cartID, lineID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully deleted line item",
		"data":       cartPayload(cart),
	})
}

func (t CartController) ListShippingOptions(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ListShippingOptions")
	defer span.End()

	cartID := mux.Vars(r)["cartId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ListShippingOptions").
		Str(log.KeyCartID, cartID).
		Logger()
	c = logger.WithContext(c)

	options, err := t.carts.ListShippingOptions(c, cartID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed shipping options",
		"data":       map[string]interface{}{"shipping_options": options},
	})
}

func (t CartController) SetShippingMethod(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController SetShippingMethod")
	defer span.End()

	cartID := mux.Vars(r)["cartId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController SetShippingMethod").
		Str(log.KeyCartID, cartID).
		Logger()

	reqBody := request.SetShippingMethod{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	c = logger.WithContext(c)

	// The matching option feeds the provisional shipping total.
	var option *commerce.ShippingOption
	if options, err := t.carts.ListShippingOptions(c, cartID); err == nil {
		for i := range options {
			if options[i].ID == reqBody.OptionID {
				option = &options[i]
				break
			}
		}
	}

	cart, err := t.carts.SetShippingMethod(c, cartID, option, reqBody.OptionID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully set shipping method",
		"data":       cartPayload(cart),
	})
}

func (t CartController) ApplyPromotions(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ApplyPromotions")
	defer span.End()

	cartID := mux.Vars(r)["cartId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ApplyPromotions").
		Str(log.KeyCartID, cartID).
		Logger()

	reqBody := request.ApplyPromotions{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	c = logger.WithContext(c)
	cart, err := t.carts.ApplyPromotions(c, cartID, reqBody.PromoCodes)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully applied promotions",
		"data":       cartPayload(cart),
	})
}

func (t CartController) SetAddresses(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController SetAddresses")
	defer span.End()

	cartID := mux.Vars(r)["cartId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController SetAddresses").
		Str(log.KeyCartID, cartID).
		Logger()

	if err := r.ParseForm(); err != nil {
		err = fmt.Errorf("failed parsing form with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeBadRequest(c, w, err)
		return
	}

	c = logger.WithContext(c)
	cart, err := t.carts.SetAddresses(c, cartID, r.PostForm)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully set addresses",
		"data":       cartPayload(cart),
	})
}

func (t CartController) CompleteCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController CompleteCart")
	defer span.End()

	cartID := mux.Vars(r)["cartId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController CompleteCart").
		Str(log.KeyCartID, cartID).
		Logger()
	c = logger.WithContext(c)

	order, err := t.carts.CompleteCart(c, cartID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(log.KeyOrderID, order.ID).Msg("completed cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully completed cart",
		"data":       orderPayload(order),
	})
}

// cartPayload pairs the cart with its display total so templates never do
// money math on minor units.
func cartPayload(cart commerce.Cart) map[string]interface{} {
	return map[string]interface{}{
		"cart":          cart,
		"display_total": money.Format(cart.Total, cart.CurrencyCode),
	}
}

func orderPayload(order commerce.Order) map[string]interface{} {
	return map[string]interface{}{
		"order":         order,
		"display_total": money.Format(order.Total, order.CurrencyCode),
	}
}

func writeBadRequest(c context.Context, w http.ResponseWriter, err error) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": http.StatusBadRequest,
		"message":    err.Error(),
	})
}
